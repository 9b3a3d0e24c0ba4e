package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expenses-tracker/api"
	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/auth"
	"github.com/frahmantamala/expenses-tracker/internal/core/events"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	"github.com/frahmantamala/expenses-tracker/internal/transport/rest"
	"github.com/frahmantamala/expenses-tracker/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long: `Start the HTTP API in front of the remote expense service. Callers send
their own bearer token; nothing is stored locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config *internal.Config
	Router *chi.Mux
	Events *events.EventBus
	Logger *slog.Logger
}

func startHTTPServer(ctx context.Context) error {
	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "upstream", deps.Config.Gateway.BaseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Events.Wait()
	deps.Logger.Info("Server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	if _, err := api.Load(ctx); err != nil {
		return nil, err
	}

	client := newGatewayClient(cfg, lg)
	bus := events.NewEventBus(lg)
	subscribeAuditLog(bus, lg)

	authHandler := auth.NewHandler(auth.NewService(client, nil, lg))
	expenseHandler := expense.NewHandler(expense.NewService(client, auth.ContextTokenSource{}, bus, lg))
	health := rest.NewHealthHandler(map[string]rest.Checker{
		"upstream": client.Ping,
	})

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:    authHandler,
		Expense: expenseHandler,
		Health:  health,
		OpenAPI: api.Document,
	}, cfg.Server.AllowedOrigins, lg)

	return &Dependencies{
		Config: cfg,
		Router: router,
		Events: bus,
		Logger: lg,
	}, nil
}
