package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseDeleted = "expense.deleted"
)

type ExpenseCreatedEvent struct {
	BaseEvent
	ExpenseID int64  `json:"expense_id"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
}

func NewExpenseCreatedEvent(expenseID int64, amount, date string) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"amount":     amount,
				"date":       date,
			},
		},
		ExpenseID: expenseID,
		Amount:    amount,
		Date:      date,
	}
}

type ExpenseDeletedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
}

func NewExpenseDeletedEvent(expenseID int64) *ExpenseDeletedEvent {
	return &ExpenseDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
			},
		},
		ExpenseID: expenseID,
	}
}
