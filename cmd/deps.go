package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/auth"
	"github.com/frahmantamala/expenses-tracker/internal/core/events"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	"github.com/frahmantamala/expenses-tracker/internal/gateway"
	"github.com/frahmantamala/expenses-tracker/internal/session"
	sessionPostgres "github.com/frahmantamala/expenses-tracker/internal/session/postgres"
	"github.com/frahmantamala/expenses-tracker/pkg/logger"
	"gorm.io/gorm"
)

// cliDeps is everything a local command needs: the remote client plus the
// session store that remembers the token between invocations.
type cliDeps struct {
	Config   *internal.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Gateway  *gateway.Client
	Sessions *session.Service
	Auth     *auth.Service
	Expenses *expense.Service
	Events   *events.EventBus
}

func newCLIDeps() (*cliDeps, error) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	client := newGatewayClient(cfg, lg)
	sessions := session.NewService(sessionPostgres.NewSessionRepository(db), cfg.Session.Profile, lg)

	bus := events.NewEventBus(lg)
	subscribeAuditLog(bus, lg)

	return &cliDeps{
		Config:   cfg,
		Logger:   lg,
		DB:       db,
		Gateway:  client,
		Sessions: sessions,
		Auth:     auth.NewService(client, sessions, lg),
		Expenses: expense.NewService(client, sessions, bus, lg),
		Events:   bus,
	}, nil
}

func (d *cliDeps) Close() {
	d.Events.Wait()
	closeDB(d.DB)
}

func newGatewayClient(cfg *internal.Config, lg *slog.Logger) *gateway.Client {
	return gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
	}, lg)
}

// subscribeAuditLog records every successful mutation.
func subscribeAuditLog(bus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		logger.From(ctx).Info("audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
	bus.Subscribe(events.EventTypeExpenseCreated, audit)
	bus.Subscribe(events.EventTypeExpenseDeleted, audit)
	lg.Debug("audit subscribers registered")
}
