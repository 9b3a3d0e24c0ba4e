package expense

import (
	"strconv"
	"strings"

	"github.com/frahmantamala/expenses-tracker/internal"
)

const rangeSeparator = " to "

// SearchCriteria holds the raw search inputs. Blank fields are absent.
type SearchCriteria struct {
	Date   string `json:"date,omitempty"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (c SearchCriteria) normalized() SearchCriteria {
	return SearchCriteria{
		Date:   strings.TrimSpace(c.Date),
		ID:     strings.TrimSpace(c.ID),
		Reason: strings.TrimSpace(c.Reason),
	}
}

// IsEmpty reports whether no criterion is present.
func (c SearchCriteria) IsEmpty() bool {
	n := c.normalized()
	return n.Date == "" && n.ID == "" && n.Reason == ""
}

// FilterByMonth keeps records whose date starts with monthPrefix (YYYY-MM).
func FilterByMonth(records []Expense, monthPrefix string) ([]Expense, error) {
	monthPrefix = strings.TrimSpace(monthPrefix)
	if monthPrefix == "" {
		return nil, internal.ErrNoCriterion
	}
	return keep(records, func(e Expense) bool {
		return strings.HasPrefix(e.Date, monthPrefix)
	}), nil
}

// ParseRange splits "YYYY-MM-DD to YYYY-MM-DD" into its two bounds.
func ParseRange(input string) (start, end string, err error) {
	parts := strings.Split(input, rangeSeparator)
	if len(parts) != 2 {
		return "", "", internal.ErrInvalidRange
	}
	start, end = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if err := validateBounds(start, end); err != nil {
		return "", "", err
	}
	return start, end, nil
}

// FilterByRange keeps records with start <= date <= end. A reversed range
// selects nothing.
func FilterByRange(records []Expense, start, end string) ([]Expense, error) {
	if err := validateBounds(start, end); err != nil {
		return nil, err
	}
	return keep(records, func(e Expense) bool {
		return e.Date >= start && e.Date <= end
	}), nil
}

// Search keeps records matching every present criterion. A non-numeric ID is
// a present criterion that never matches.
func Search(records []Expense, criteria SearchCriteria) ([]Expense, error) {
	c := criteria.normalized()
	if c.Date == "" && c.ID == "" && c.Reason == "" {
		return nil, internal.ErrNoSearchCriterion
	}

	var predicates []func(Expense) bool

	if c.Date != "" {
		predicates = append(predicates, func(e Expense) bool {
			return strings.HasPrefix(e.Date, c.Date)
		})
	}

	if c.ID != "" {
		id, err := strconv.ParseInt(c.ID, 10, 64)
		if err != nil {
			return []Expense{}, nil
		}
		predicates = append(predicates, func(e Expense) bool {
			return e.ID == id
		})
	}

	if c.Reason != "" {
		needle := strings.ToLower(c.Reason)
		predicates = append(predicates, func(e Expense) bool {
			return e.Reason != "" && strings.Contains(strings.ToLower(e.Reason), needle)
		})
	}

	return keep(records, func(e Expense) bool {
		for _, p := range predicates {
			if !p(e) {
				return false
			}
		}
		return true
	}), nil
}

func validateBounds(start, end string) error {
	if start == "" || end == "" {
		return internal.ErrInvalidRange
	}
	if ValidateDate(start) != nil || ValidateDate(end) != nil {
		return internal.ErrInvalidRange
	}
	return nil
}

// keep is a stable filter into a fresh slice; the input is never modified.
func keep(records []Expense, pred func(Expense) bool) []Expense {
	out := make([]Expense, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
