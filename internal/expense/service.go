package expense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/core/events"
)

// Gateway is the remote expense API as the service consumes it.
type Gateway interface {
	ListAll(ctx context.Context, token string) ([]Expense, error)
	Add(ctx context.Context, token string, dto CreateExpenseDTO) (*Expense, error)
	Delete(ctx context.Context, token string, id int64) error
}

// TokenSource supplies the bearer token for gateway calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service fetches the full expense list and narrows it in process. It holds
// no per-call state.
type Service struct {
	gateway   Gateway
	tokens    TokenSource
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService wires a service. publisher may be nil.
func NewService(gateway Gateway, tokens TokenSource, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		gateway:   gateway,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListExpenses(ctx context.Context) ([]Expense, error) {
	return s.fetchAll(ctx)
}

func (s *Service) AddExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return nil, err
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.gateway.Add(ctx, token, dto)
	if err != nil {
		s.logger.Error("failed to add expense", "error", err)
		return nil, fmt.Errorf("add expense: %w", err)
	}

	s.logger.Info("expense created",
		"expense_id", created.ID,
		"amount", created.Amount.String(),
		"date", created.Date,
		"has_receipt", created.HasReceipt())

	s.publish(ctx, events.NewExpenseCreatedEvent(created.ID, created.Amount.String(), created.Date))
	return created, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if id <= 0 {
		return internal.ErrInvalidExpenseID
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return err
	}

	if err := s.gateway.Delete(ctx, token, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return fmt.Errorf("delete expense %d: %w", id, err)
	}

	s.logger.Info("expense deleted", "expense_id", id)
	s.publish(ctx, events.NewExpenseDeletedEvent(id))
	return nil
}

// MonthReport returns the expenses dated in month (YYYY-MM) and their summary.
func (s *Service) MonthReport(ctx context.Context, month string) (*Report, error) {
	if _, err := FilterByMonth(nil, month); err != nil {
		return nil, err
	}

	records, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := FilterByMonth(records, month)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("month report computed", "month", month, "matched", len(filtered), "fetched", len(records))
	return NewReport(filtered), nil
}

// RangeReport returns the expenses dated within [start, end] and their summary.
func (s *Service) RangeReport(ctx context.Context, start, end string) (*Report, error) {
	if err := validateBounds(start, end); err != nil {
		return nil, err
	}

	records, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := FilterByRange(records, start, end)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("range report computed", "start", start, "end", end, "matched", len(filtered), "fetched", len(records))
	return NewReport(filtered), nil
}

func (s *Service) SearchExpenses(ctx context.Context, criteria SearchCriteria) (*Report, error) {
	if criteria.IsEmpty() {
		return nil, internal.ErrNoSearchCriterion
	}

	records, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := Search(records, criteria)
	if err != nil {
		return nil, err
	}

	return NewReport(filtered), nil
}

func (s *Service) fetchAll(ctx context.Context) ([]Expense, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.gateway.ListAll(ctx, token)
	if err != nil {
		s.logger.Error("failed to fetch expenses", "error", err)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if records == nil {
		records = []Expense{}
	}
	return records, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
