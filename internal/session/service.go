package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	sessionDatamodel "github.com/frahmantamala/expenses-tracker/internal/core/datamodel/session"
)

const DefaultProfile = "default"

type RepositoryAPI interface {
	GetByProfile(ctx context.Context, profile string) (*sessionDatamodel.Session, error)
	Save(ctx context.Context, session *sessionDatamodel.Session) error
	DeleteByProfile(ctx context.Context, profile string) error
}

// Service holds the bearer token of the active profile.
type Service struct {
	repo    RepositoryAPI
	profile string
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, profile string, logger *slog.Logger) *Service {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Service{
		repo:    repo,
		profile: profile,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) Profile() string {
	return s.profile
}

// Save replaces the stored session of the active profile.
func (s *Service) Save(ctx context.Context, email, token string) (*Session, error) {
	if token == "" {
		return nil, internal.ErrAuthenticationFailed
	}

	sess := NewSession(s.profile, email, token)
	if err := s.repo.Save(ctx, ToDataModel(sess)); err != nil {
		s.logger.Error("failed to save session", "error", err, "profile", s.profile)
		return nil, internal.NewInternalError("failed to save session", err)
	}

	s.logger.Debug("session saved", "profile", s.profile, "email", email, "expires_at", sess.ExpiresAt)
	return sess, nil
}

// Current returns the stored session, or ErrLoginRequired when there is none.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	row, err := s.repo.GetByProfile(ctx, s.profile)
	if err != nil {
		s.logger.Error("failed to load session", "error", err, "profile", s.profile)
		return nil, internal.NewInternalError("failed to load session", err)
	}
	if row == nil {
		return nil, internal.ErrLoginRequired
	}
	return FromDataModel(row), nil
}

// Token returns the bearer token for gateway calls. An expired JWT is
// discarded so the next call reports "login required".
func (s *Service) Token(ctx context.Context) (string, error) {
	sess, err := s.Current(ctx)
	if err != nil {
		return "", err
	}

	if sess.IsExpired(s.now()) {
		s.logger.Info("stored token expired, clearing session", "profile", s.profile, "expires_at", sess.ExpiresAt)
		if err := s.repo.DeleteByProfile(ctx, s.profile); err != nil {
			s.logger.Warn("failed to clear expired session", "error", err, "profile", s.profile)
		}
		return "", internal.ErrTokenExpired
	}

	return sess.Token, nil
}

func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.DeleteByProfile(ctx, s.profile); err != nil {
		s.logger.Error("failed to clear session", "error", err, "profile", s.profile)
		return internal.NewInternalError("failed to clear session", err)
	}
	s.logger.Debug("session cleared", "profile", s.profile)
	return nil
}
