package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/session"
)

// Gateway is the part of the remote service that handles accounts.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) error
}

// SessionStore remembers the token obtained at login.
type SessionStore interface {
	Save(ctx context.Context, email, token string) (*session.Session, error)
	Current(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (string, error)
	Register(ctx context.Context, dto RegisterDTO) error
}

// TokenExpired reports whether token is a JWT whose exp claim is not after now.
// Opaque tokens are left for the remote service to judge.
func TokenExpired(token string, now time.Time) bool {
	exp := session.TokenExpiry(token)
	return exp != nil && !now.Before(*exp)
}

// ContextTokenSource hands the expense service the bearer token that
// BearerMiddleware stored on the request context.
type ContextTokenSource struct{}

func (ContextTokenSource) Token(ctx context.Context) (string, error) {
	token := internal.TokenFromContext(ctx)
	if token == "" {
		return "", internal.ErrLoginRequired
	}
	return token, nil
}
