package expense_test

import (
	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Aggregate", func() {
	Context("with two records", func() {
		records := []expense.Expense{
			record(1, "2025-03-01", "Lunch", "10"),
			record(2, "2025-03-02", "Taxi", "25.50"),
		}

		It("should compute every statistic", func() {
			Expect(expense.Total(records).Equal(dec("35.50"))).To(BeTrue())
			Expect(expense.Average(records).Equal(dec("17.75"))).To(BeTrue())
			Expect(expense.Count(records)).To(Equal(2))

			max, err := expense.Maximum(records)
			Expect(err).NotTo(HaveOccurred())
			Expect(max.Equal(dec("25.50"))).To(BeTrue())
		})

		It("should bundle them in a summary", func() {
			s := expense.Summarize(records)

			Expect(s.Count).To(Equal(2))
			Expect(s.Total.StringFixed(2)).To(Equal("35.50"))
			Expect(s.Average.StringFixed(2)).To(Equal("17.75"))
			Expect(s.Maximum).NotTo(BeNil())
			Expect(s.Maximum.StringFixed(2)).To(Equal("25.50"))
		})
	})

	Context("with no records", func() {
		It("should use neutral values where they exist", func() {
			Expect(expense.Total(nil).IsZero()).To(BeTrue())
			Expect(expense.Average([]expense.Expense{}).IsZero()).To(BeTrue())
			Expect(expense.Count(nil)).To(Equal(0))
		})

		It("should fail to compute a maximum", func() {
			_, err := expense.Maximum(nil)

			Expect(err).To(MatchError(internal.ErrEmptyInput))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeEmptyInput))
		})

		It("should leave the summary maximum empty", func() {
			s := expense.Summarize(nil)

			Expect(s.Count).To(BeZero())
			Expect(s.Maximum).To(BeNil())
		})
	})

	It("should add amounts without floating point drift", func() {
		records := []expense.Expense{
			record(1, "2025-03-01", "a", "0.1"),
			record(2, "2025-03-01", "b", "0.2"),
		}

		Expect(expense.Total(records).Equal(decimal.RequireFromString("0.3"))).To(BeTrue())
	})

	It("should round a non-terminating average", func() {
		records := []expense.Expense{
			record(1, "2025-03-01", "a", "10"),
			record(2, "2025-03-01", "b", "10"),
			record(3, "2025-03-01", "c", "11"),
		}

		Expect(expense.Average(records).StringFixed(2)).To(Equal("10.33"))
	})
})
