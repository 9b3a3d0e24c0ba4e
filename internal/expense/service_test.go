package expense_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/core/events"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	"github.com/frahmantamala/expenses-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockGateway struct {
	records    []expense.Expense
	listErr    error
	addErr     error
	deleteErr  error
	listCalls  int
	added      []expense.CreateExpenseDTO
	deleted    []int64
	seenTokens []string
	nextID     int64
}

func (m *mockGateway) ListAll(_ context.Context, token string) ([]expense.Expense, error) {
	m.listCalls++
	m.seenTokens = append(m.seenTokens, token)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockGateway) Add(_ context.Context, token string, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	m.seenTokens = append(m.seenTokens, token)
	if m.addErr != nil {
		return nil, m.addErr
	}
	m.added = append(m.added, dto)
	m.nextID++
	amount, _ := dto.ParsedAmount()
	return &expense.Expense{ID: m.nextID, Reason: dto.Reason, Amount: amount, Date: dto.Date}, nil
}

func (m *mockGateway) Delete(_ context.Context, token string, id int64) error {
	m.seenTokens = append(m.seenTokens, token)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

var _ = Describe("Service", func() {
	var (
		gateway   *mockGateway
		publisher *recordingPublisher
		service   *expense.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		gateway = &mockGateway{
			records: []expense.Expense{
				record(1, "2025-03-01", "Grocery Shopping", "10"),
				record(2, "2025-03-15", "Fuel", "25.50"),
				record(3, "2025-04-01", "Rent", "500"),
			},
			nextID: 100,
		}
		publisher = &recordingPublisher{}
		service = expense.NewService(gateway, staticTokens{token: "t0k3n"}, publisher, logger.Discard())
		ctx = context.Background()
	})

	Describe("ListExpenses", func() {
		It("should return every record using the held token", func() {
			records, err := service.ListExpenses(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(records)).To(Equal([]int64{1, 2, 3}))
			Expect(gateway.seenTokens).To(Equal([]string{"t0k3n"}))
		})

		It("should return an empty list instead of nil", func() {
			gateway.records = nil

			records, err := service.ListExpenses(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(records).NotTo(BeNil())
			Expect(records).To(BeEmpty())
		})

		It("should surface gateway errors unchanged in kind", func() {
			gateway.listErr = internal.NewNetworkError("HTTP request failed", errors.New("connection refused"))

			_, err := service.ListExpenses(ctx)

			Expect(err).To(MatchError(internal.ErrNetwork))
		})

		It("should not call the gateway without a token", func() {
			service = expense.NewService(gateway, staticTokens{err: internal.ErrLoginRequired}, nil, logger.Discard())

			_, err := service.ListExpenses(ctx)

			Expect(err).To(MatchError(internal.ErrLoginRequired))
			Expect(gateway.listCalls).To(BeZero())
		})
	})

	Describe("MonthReport", func() {
		It("should filter and summarize one month", func() {
			report, err := service.MonthReport(ctx, "2025-03")

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(report.Expenses)).To(Equal([]int64{1, 2}))
			Expect(report.Summary.Count).To(Equal(2))
			Expect(report.Summary.Total.StringFixed(2)).To(Equal("35.50"))
			Expect(report.Summary.Average.StringFixed(2)).To(Equal("17.75"))
			Expect(report.Summary.Maximum.StringFixed(2)).To(Equal("25.50"))
		})

		It("should reject a missing month before fetching", func() {
			_, err := service.MonthReport(ctx, "")

			Expect(err).To(MatchError(internal.ErrNoCriterion))
			Expect(gateway.listCalls).To(BeZero())
		})

		It("should report an empty month with zero statistics", func() {
			report, err := service.MonthReport(ctx, "2020-01")

			Expect(err).NotTo(HaveOccurred())
			Expect(report.Expenses).To(BeEmpty())
			Expect(report.Summary.Total.IsZero()).To(BeTrue())
			Expect(report.Summary.Maximum).To(BeNil())
		})
	})

	Describe("RangeReport", func() {
		It("should filter an inclusive range", func() {
			report, err := service.RangeReport(ctx, "2025-03-15", "2025-04-01")

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(report.Expenses)).To(Equal([]int64{2, 3}))
			Expect(report.Summary.Total.StringFixed(2)).To(Equal("525.50"))
		})

		It("should reject malformed bounds before fetching", func() {
			_, err := service.RangeReport(ctx, "2025-03", "2025-04-01")

			Expect(err).To(MatchError(internal.ErrInvalidRange))
			Expect(gateway.listCalls).To(BeZero())
		})
	})

	Describe("SearchExpenses", func() {
		It("should search by reason", func() {
			report, err := service.SearchExpenses(ctx, expense.SearchCriteria{Reason: "grocery"})

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(report.Expenses)).To(Equal([]int64{1}))
		})

		It("should reject an empty search before fetching", func() {
			_, err := service.SearchExpenses(ctx, expense.SearchCriteria{})

			Expect(err).To(MatchError(internal.ErrNoSearchCriterion))
			Expect(gateway.listCalls).To(BeZero())
		})
	})

	Describe("AddExpense", func() {
		It("should submit a valid expense and publish an event", func() {
			created, err := service.AddExpense(ctx, expense.CreateExpenseDTO{
				Reason:     "  Coffee ",
				Amount:     "3.20",
				Date:       "2025-03-20",
				Attachment: &expense.Attachment{FileName: "r.png", Content: strings.NewReader("png")},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(101)))
			Expect(gateway.added).To(HaveLen(1))
			Expect(gateway.added[0].Reason).To(Equal("Coffee"))
			Expect(gateway.added[0].Attachment.ContentType).To(Equal("image/jpeg"))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeExpenseCreated))
		})

		It("should default the date to today", func() {
			_, err := service.AddExpense(ctx, expense.CreateExpenseDTO{Reason: "Coffee", Amount: "3"})

			Expect(err).NotTo(HaveOccurred())
			Expect(gateway.added[0].Date).To(Equal(expense.Today()))
		})

		DescribeTable("should reject invalid input without calling the gateway",
			func(dto expense.CreateExpenseDTO, message string) {
				_, err := service.AddExpense(ctx, dto)

				Expect(internal.IsValidationError(err)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring(message))
				Expect(gateway.added).To(BeEmpty())
				Expect(publisher.events).To(BeEmpty())
			},
			Entry("missing reason", expense.CreateExpenseDTO{Amount: "3", Date: "2025-03-01"}, "reason is required"),
			Entry("missing amount", expense.CreateExpenseDTO{Reason: "x", Date: "2025-03-01"}, "amount is required"),
			Entry("non-numeric amount", expense.CreateExpenseDTO{Reason: "x", Amount: "abc", Date: "2025-03-01"}, "amount"),
			Entry("negative amount", expense.CreateExpenseDTO{Reason: "x", Amount: "-1", Date: "2025-03-01"}, "amount"),
			Entry("bad date", expense.CreateExpenseDTO{Reason: "x", Amount: "1", Date: "01/03/2025"}, "date"),
		)

		It("should wrap gateway failures", func() {
			gateway.addErr = internal.ErrAuthenticationFailed

			_, err := service.AddExpense(ctx, expense.CreateExpenseDTO{Reason: "x", Amount: "1", Date: "2025-03-01"})

			Expect(err).To(MatchError(internal.ErrAuthenticationFailed))
			Expect(err.Error()).To(HavePrefix("add expense:"))
			Expect(publisher.events).To(BeEmpty())
		})
	})

	Describe("DeleteExpense", func() {
		It("should delete and publish an event", func() {
			Expect(service.DeleteExpense(ctx, 2)).To(Succeed())

			Expect(gateway.deleted).To(Equal([]int64{2}))
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeExpenseDeleted))
		})

		It("should reject a non-positive id", func() {
			Expect(service.DeleteExpense(ctx, 0)).To(MatchError(internal.ErrInvalidExpenseID))
			Expect(gateway.deleted).To(BeEmpty())
		})

		It("should pass through a missing expense", func() {
			gateway.deleteErr = internal.ErrExpenseNotFound

			err := service.DeleteExpense(ctx, 99)

			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
			Expect(publisher.events).To(BeEmpty())
		})
	})

	It("should work without a publisher", func() {
		service = expense.NewService(gateway, staticTokens{token: "t"}, nil, logger.Discard())

		Expect(service.DeleteExpense(ctx, 1)).To(Succeed())
	})
})
