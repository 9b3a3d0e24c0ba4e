package expense

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/transport"
	"github.com/frahmantamala/expenses-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

const maxUploadSize = 10 << 20

type ServiceAPI interface {
	ListExpenses(ctx context.Context) ([]Expense, error)
	AddExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	MonthReport(ctx context.Context, month string) (*Report, error)
	RangeReport(ctx context.Context, start, end string) (*Report, error)
	SearchExpenses(ctx context.Context, criteria SearchCriteria) (*Report, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ExpensesResponse{
		Expenses: expenses,
		Count:    len(expenses),
	})
}

// CreateExpense accepts the same multipart form the remote service does:
// reason, amount, date and an optional bill_img file.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.Logger.Warn("CreateExpense: invalid form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	dto := CreateExpenseDTO{
		Reason: r.FormValue("reason"),
		Amount: r.FormValue("amount"),
		Date:   r.FormValue("date"),
	}

	file, header, err := r.FormFile("bill_img")
	switch {
	case err == nil:
		defer file.Close()
		dto.Attachment = &Attachment{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.Logger.Warn("CreateExpense: unreadable bill_img", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid bill_img upload")
		return
	}

	created, err := h.Service.AddExpense(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseIDStr := chi.URLParam(r, "id")
	expenseID, err := strconv.ParseInt(expenseIDStr, 10, 64)
	if err != nil {
		h.HandleServiceError(w, internal.ErrInvalidExpenseID)
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), expenseID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SearchExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := SearchCriteria{
		Date:   q.Get("date"),
		ID:     q.Get("id"),
		Reason: q.Get("reason"),
	}

	report, err := h.Service.SearchExpenses(r.Context(), criteria)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) MonthReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.MonthReport(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

// RangeReport takes either ?range=YYYY-MM-DD to YYYY-MM-DD or ?start=&end=.
func (h *Handler) RangeReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")

	if raw := q.Get("range"); raw != "" {
		var err error
		start, end, err = ParseRange(raw)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	report, err := h.Service.RangeReport(r.Context(), start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
