package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expenses-tracker/internal/session"
)

// Service proxies account operations to the remote service. When sessions is
// set, a successful login is remembered for later commands.
type Service struct {
	gateway  Gateway
	sessions SessionStore
	logger   *slog.Logger
}

func NewService(gateway Gateway, sessions SessionStore, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (string, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return "", err
	}

	token, err := s.gateway.Login(ctx, dto.Email, dto.Password)
	if err != nil {
		s.logger.Warn("login failed", "email", dto.Email, "error", err)
		return "", err
	}

	if s.sessions != nil {
		if _, err := s.sessions.Save(ctx, dto.Email, token); err != nil {
			return "", err
		}
	}

	s.logger.Info("user logged in", "email", dto.Email)
	return token, nil
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.gateway.Register(ctx, dto.Name, dto.Email, dto.Password); err != nil {
		s.logger.Warn("registration failed", "email", dto.Email, "error", err)
		return err
	}

	s.logger.Info("user registered", "email", dto.Email)
	return nil
}

// Logout forgets the stored token. It is a no-op without a session store.
func (s *Service) Logout(ctx context.Context) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear(ctx)
}

func (s *Service) WhoAmI(ctx context.Context) (*session.Session, error) {
	if s.sessions == nil {
		return nil, nil
	}
	return s.sessions.Current(ctx)
}
