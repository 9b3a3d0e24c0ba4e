package expense_test

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Expense", func() {
	Describe("UnmarshalJSON", func() {
		It("should decode the upstream record shape", func() {
			payload := `{"expense_id": 7, "reason": "Lunch", "amount": "12.50", "date": "2025-03-01T00:00:00.000Z", "bill_img": "r7.jpg"}`

			var e expense.Expense
			Expect(json.Unmarshal([]byte(payload), &e)).To(Succeed())

			Expect(e.ID).To(Equal(int64(7)))
			Expect(e.Reason).To(Equal("Lunch"))
			Expect(e.Amount.Equal(dec("12.5"))).To(BeTrue())
			Expect(e.Date).To(Equal("2025-03-01"))
			Expect(e.HasReceipt()).To(BeTrue())
			Expect(e.ReceiptURL("http://localhost:5000/uploads/")).To(Equal("http://localhost:5000/uploads/r7.jpg"))
		})

		It("should accept numeric amounts and an id key", func() {
			var e expense.Expense
			Expect(json.Unmarshal([]byte(`{"id": 3, "amount": 10, "date": "2025-04-01"}`), &e)).To(Succeed())

			Expect(e.ID).To(Equal(int64(3)))
			Expect(e.Amount.Equal(dec("10"))).To(BeTrue())
			Expect(e.Reason).To(BeEmpty())
		})

		It("should treat an empty bill_img as no receipt", func() {
			var e expense.Expense
			Expect(json.Unmarshal([]byte(`{"expense_id": 1, "amount": "1", "date": "2025-01-01", "bill_img": ""}`), &e)).To(Succeed())

			Expect(e.HasReceipt()).To(BeFalse())
			Expect(e.ReceiptURL("http://host/uploads")).To(BeEmpty())
		})

		It("should decode a list", func() {
			payload := `[{"expense_id": 1, "amount": "10", "date": "2025-03-01"}, {"expense_id": 2, "amount": 25.5, "date": "2025-03-15"}]`

			var records []expense.Expense
			Expect(json.Unmarshal([]byte(payload), &records)).To(Succeed())
			Expect(ids(records)).To(Equal([]int64{1, 2}))
		})
	})

	Describe("ParseDate", func() {
		It("should keep the calendar date of a timestamp", func() {
			Expect(expense.ParseDate("2025-03-15T10:20:30Z")).To(Equal("2025-03-15"))
			Expect(expense.ParseDate(" 2025-03-15 ")).To(Equal("2025-03-15"))
			Expect(expense.ParseDate("")).To(BeEmpty())
		})
	})

	Describe("ParseAmount", func() {
		It("should parse a positive decimal", func() {
			amount, err := expense.ParseAmount(" 25.50 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(amount.Equal(dec("25.5"))).To(BeTrue())
		})

		DescribeTable("should reject",
			func(raw string) {
				_, err := expense.ParseAmount(raw)
				Expect(err).To(MatchError(internal.ErrInvalidAmount))
				Expect(internal.IsValidationError(err)).To(BeTrue())
			},
			Entry("empty input", ""),
			Entry("non-numeric input", "ten"),
			Entry("zero", "0"),
			Entry("a negative amount", "-5"),
		)
	})

	Describe("ValidateDate", func() {
		It("should accept a real calendar date", func() {
			Expect(expense.ValidateDate("2024-02-29")).To(Succeed())
		})

		It("should reject malformed or impossible dates", func() {
			Expect(expense.ValidateDate("2025-3-1")).To(MatchError(internal.ErrInvalidDate))
			Expect(expense.ValidateDate("2025-02-30")).To(MatchError(internal.ErrInvalidDate))
			Expect(expense.ValidateDate("")).To(MatchError(internal.ErrInvalidDate))
		})
	})

	Describe("Today", func() {
		It("should use the date layout", func() {
			_, err := time.Parse(expense.DateLayout, expense.Today())
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
