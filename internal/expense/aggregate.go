package expense

import (
	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/shopspring/decimal"
)

// Summary bundles the statistics of a record list. Maximum is nil for an
// empty list.
type Summary struct {
	Count   int              `json:"count"`
	Total   decimal.Decimal  `json:"total"`
	Average decimal.Decimal  `json:"average"`
	Maximum *decimal.Decimal `json:"maximum"`
}

func Total(records []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// Average is Total/Count, and zero for an empty list. Non-terminating
// quotients are rounded to decimal.DivisionPrecision places.
func Average(records []Expense) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	return Total(records).Div(decimal.NewFromInt(int64(len(records))))
}

func Count(records []Expense) int {
	return len(records)
}

// Maximum returns the largest amount. Unlike Average it has no neutral value,
// so an empty list is an error.
func Maximum(records []Expense) (decimal.Decimal, error) {
	if len(records) == 0 {
		return decimal.Zero, internal.ErrEmptyInput
	}
	max := records[0].Amount
	for _, r := range records[1:] {
		if r.Amount.GreaterThan(max) {
			max = r.Amount
		}
	}
	return max, nil
}

func Summarize(records []Expense) Summary {
	s := Summary{
		Count:   Count(records),
		Total:   Total(records),
		Average: Average(records),
	}
	if max, err := Maximum(records); err == nil {
		s.Maximum = &max
	}
	return s
}
