package expense_test

import (
	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Filter", func() {
	var records []expense.Expense

	BeforeEach(func() {
		records = []expense.Expense{
			record(1, "2025-03-01", "Grocery Shopping", "10"),
			record(2, "2025-03-15", "Fuel", "25.50"),
			record(3, "2025-04-01", "weekly grocery run", "40"),
			record(4, "2024-12-31", "", "5"),
		}
	})

	Describe("FilterByMonth", func() {
		It("should keep the records of that month in original order", func() {
			filtered, err := expense.FilterByMonth(records, "2025-03")

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(filtered)).To(Equal([]int64{1, 2}))
			Expect(expense.Total(filtered).Equal(dec("35.50"))).To(BeTrue())
		})

		It("should only return records with the prefix", func() {
			filtered, err := expense.FilterByMonth(records, "2025-04")

			Expect(err).NotTo(HaveOccurred())
			for _, r := range filtered {
				Expect(r.Date).To(HavePrefix("2025-04"))
			}
			Expect(ids(filtered)).To(Equal([]int64{3}))
		})

		It("should be idempotent", func() {
			once, err := expense.FilterByMonth(records, "2025-03")
			Expect(err).NotTo(HaveOccurred())

			twice, err := expense.FilterByMonth(once, "2025-03")
			Expect(err).NotTo(HaveOccurred())
			Expect(twice).To(Equal(once))
		})

		It("should return an empty list for a month without records", func() {
			filtered, err := expense.FilterByMonth(records, "2023-01")

			Expect(err).NotTo(HaveOccurred())
			Expect(filtered).NotTo(BeNil())
			Expect(filtered).To(BeEmpty())
		})

		It("should reject a missing month", func() {
			_, err := expense.FilterByMonth(records, "  ")

			Expect(err).To(MatchError(internal.ErrNoCriterion))
			Expect(err.Error()).To(Equal("no criterion supplied"))
		})

		It("should not modify its input", func() {
			before := append([]expense.Expense(nil), records...)

			_, err := expense.FilterByMonth(records, "2025-03")

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal(before))
		})
	})

	Describe("ParseRange", func() {
		It("should split the two bounds", func() {
			start, end, err := expense.ParseRange("2025-03-01 to 2025-03-31")

			Expect(err).NotTo(HaveOccurred())
			Expect(start).To(Equal("2025-03-01"))
			Expect(end).To(Equal("2025-03-31"))
		})

		DescribeTable("should reject malformed ranges",
			func(input string) {
				_, _, err := expense.ParseRange(input)
				Expect(err).To(MatchError(internal.ErrInvalidRange))
				Expect(err.Error()).To(Equal("invalid range format"))
			},
			Entry("no separator", "2025-03-01 2025-03-31"),
			Entry("a missing end", "2025-03-01 to "),
			Entry("too many parts", "2025-03-01 to 2025-03-10 to 2025-03-20"),
			Entry("a non-date bound", "March to April"),
			Entry("empty input", ""),
		)
	})

	Describe("FilterByRange", func() {
		It("should include both bounds", func() {
			filtered, err := expense.FilterByRange(records, "2025-03-01", "2025-04-01")

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(filtered)).To(Equal([]int64{1, 2, 3}))
		})

		It("should return exactly the records within the bounds", func() {
			filtered, err := expense.FilterByRange(records, "2025-03-02", "2025-03-31")

			Expect(err).NotTo(HaveOccurred())
			for _, r := range filtered {
				Expect(r.Date >= "2025-03-02" && r.Date <= "2025-03-31").To(BeTrue())
			}
			Expect(ids(filtered)).To(Equal([]int64{2}))
		})

		It("should return nothing for a reversed range", func() {
			filtered, err := expense.FilterByRange(records, "2025-04-01", "2025-03-01")

			Expect(err).NotTo(HaveOccurred())
			Expect(filtered).To(BeEmpty())
		})

		It("should reject an invalid bound", func() {
			_, err := expense.FilterByRange(records, "2025-03-01", "")

			Expect(err).To(MatchError(internal.ErrInvalidRange))
		})

		It("should be idempotent", func() {
			once, err := expense.FilterByRange(records, "2025-01-01", "2025-12-31")
			Expect(err).NotTo(HaveOccurred())

			twice, err := expense.FilterByRange(once, "2025-01-01", "2025-12-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(twice).To(Equal(once))
		})
	})

	Describe("Search", func() {
		It("should match reasons case-insensitively", func() {
			found, err := expense.Search(records, expense.SearchCriteria{Reason: "grocery"})

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(found)).To(Equal([]int64{1, 3}))
		})

		It("should never match a record without a reason", func() {
			found, err := expense.Search(records, expense.SearchCriteria{Reason: "a"})

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(found)).NotTo(ContainElement(int64(4)))
		})

		It("should match a date prefix", func() {
			found, err := expense.Search(records, expense.SearchCriteria{Date: "2025-03-15"})

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(found)).To(Equal([]int64{2}))
		})

		It("should match an exact id", func() {
			found, err := expense.Search(records, expense.SearchCriteria{ID: "3"})

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(found)).To(Equal([]int64{3}))
		})

		It("should combine criteria with AND", func() {
			found, err := expense.Search(records, expense.SearchCriteria{Date: "2025-04", Reason: "GROCERY"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(found)).To(Equal([]int64{3}))

			found, err = expense.Search(records, expense.SearchCriteria{ID: "1", Reason: "fuel"})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeEmpty())
		})

		It("should never match a non-numeric id", func() {
			found, err := expense.Search(records, expense.SearchCriteria{ID: "abc", Reason: "grocery"})

			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found).To(BeEmpty())
		})

		It("should reject a search without criteria", func() {
			_, err := expense.Search(records, expense.SearchCriteria{Reason: "   "})

			Expect(err).To(MatchError(internal.ErrNoSearchCriterion))
			Expect(internal.IsValidationError(err)).To(BeTrue())
		})

		It("should be idempotent", func() {
			criteria := expense.SearchCriteria{Reason: "grocery"}
			once, err := expense.Search(records, criteria)
			Expect(err).NotTo(HaveOccurred())

			twice, err := expense.Search(once, criteria)
			Expect(err).NotTo(HaveOccurred())
			Expect(twice).To(Equal(once))
		})
	})
})
