package expense

import (
	"io"
	"strings"

	errors "github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const maxReasonLength = 255

// Attachment is a receipt image uploaded alongside a new expense.
type Attachment struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// CreateExpenseDTO carries the form input for a new expense. Amount stays a
// string until validation so bad input is reported, not silently zeroed.
type CreateExpenseDTO struct {
	Reason     string      `json:"reason"`
	Amount     string      `json:"amount"`
	Date       string      `json:"date"`
	Attachment *Attachment `json:"-"`
}

// Normalize trims the fields, truncates a timestamp date and defaults an
// empty date to today.
func (dto *CreateExpenseDTO) Normalize() {
	dto.Reason = strings.TrimSpace(dto.Reason)
	dto.Amount = strings.TrimSpace(dto.Amount)
	dto.Date = ParseDate(dto.Date)
	if dto.Date == "" {
		dto.Date = Today()
	}
	if dto.Attachment != nil && dto.Attachment.ContentType == "" {
		dto.Attachment.ContentType = "image/jpeg"
	}
}

func (dto CreateExpenseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reason", dto.Reason).
		Required().
		MaxLength(maxReasonLength)
	v.Field("amount", dto.Amount).
		Required().
		PositiveDecimal(errors.ErrCodeInvalidAmount)
	v.Field("date", dto.Date).
		Required().
		DateFormat()
	if dto.Attachment != nil {
		v.Field("bill_img", dto.Attachment.FileName).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ParsedAmount returns the validated amount.
func (dto CreateExpenseDTO) ParsedAmount() (decimal.Decimal, error) {
	return ParseAmount(dto.Amount)
}

// Report is a filtered list together with its statistics.
type Report struct {
	Expenses []Expense `json:"expenses"`
	Summary  Summary   `json:"summary"`
}

func NewReport(records []Expense) *Report {
	return &Report{
		Expenses: records,
		Summary:  Summarize(records),
	}
}

// ExpensesResponse is the list payload returned by the HTTP API.
type ExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
	Count    int       `json:"count"`
}
