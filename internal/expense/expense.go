package expense

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Expense is one spending entry as the remote service reports it.
//
// Date is kept as a fixed-width YYYY-MM-DD string; month and range filters
// compare it lexicographically, which is only sound because the width never
// changes.
type Expense struct {
	ID        int64           `json:"expense_id"`
	Reason    string          `json:"reason"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	BillImage *string         `json:"bill_img,omitempty"`
}

// wireExpense mirrors the upstream payload, which has used both "expense_id"
// and "id" for the key and sends amounts as strings or numbers.
type wireExpense struct {
	ExpenseID *int64          `json:"expense_id"`
	ID        *int64          `json:"id"`
	Reason    *string         `json:"reason"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	BillImage *string         `json:"bill_img"`
}

func (e *Expense) UnmarshalJSON(data []byte) error {
	var w wireExpense
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*e = Expense{
		Amount: w.Amount,
		Date:   ParseDate(w.Date),
	}
	switch {
	case w.ExpenseID != nil:
		e.ID = *w.ExpenseID
	case w.ID != nil:
		e.ID = *w.ID
	}
	if w.Reason != nil {
		e.Reason = *w.Reason
	}
	if w.BillImage != nil && *w.BillImage != "" {
		img := *w.BillImage
		e.BillImage = &img
	}
	return nil
}

// HasReceipt reports whether a receipt image was attached.
func (e *Expense) HasReceipt() bool {
	return e.BillImage != nil
}

// ReceiptURL returns where the receipt image is served, or "" when absent.
func (e *Expense) ReceiptURL(uploadsBase string) string {
	if !e.HasReceipt() {
		return ""
	}
	return strings.TrimRight(uploadsBase, "/") + "/" + *e.BillImage
}

// ParseDate keeps only the calendar date of an ISO 8601 timestamp.
func ParseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// ParseAmount parses a user-supplied amount and rejects anything that is not
// a positive decimal number.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, internal.ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, internal.ErrInvalidAmount.WithCause(err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, internal.ErrInvalidAmount
	}
	return amount, nil
}

// ValidateDate checks that raw is a real YYYY-MM-DD calendar date.
func ValidateDate(raw string) error {
	if len(raw) != len(DateLayout) {
		return internal.ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return internal.ErrInvalidDate.WithCause(err)
	}
	return nil
}

// Today returns the current local date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}
