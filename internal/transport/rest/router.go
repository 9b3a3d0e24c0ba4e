package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expenses-tracker/internal/auth"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	"github.com/frahmantamala/expenses-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expenses-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth    *auth.Handler
	Expense *expense.Handler
	Health  *HealthHandler
	// OpenAPI is the raw document served at /openapi.yml.
	OpenAPI []byte
}

func RegisterAllRoutes(router *chi.Mux, handlers Handlers, allowedOrigins string, logger *slog.Logger) {
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if len(handlers.OpenAPI) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			w.Write(handlers.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		if handlers.Health != nil {
			r.Get("/health", handlers.Health.healthCheckHandler)
			r.Get("/ping", handlers.Health.pingHandler)
		}

		if handlers.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/register", handlers.Auth.Register)
		})

		if handlers.Expense == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.BearerMiddleware)

			pr.Route("/expenses", func(er chi.Router) {
				er.Get("/", handlers.Expense.ListExpenses)
				er.Post("/", handlers.Expense.CreateExpense)
				er.Get("/search", handlers.Expense.SearchExpenses)
				er.Get("/reports/month", handlers.Expense.MonthReport)
				er.Get("/reports/range", handlers.Expense.RangeReport)
				er.Delete("/{id}", handlers.Expense.DeleteExpense)
			})
		})
	})
}
