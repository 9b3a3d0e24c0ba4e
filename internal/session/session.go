package session

import (
	"time"

	sessionDatamodel "github.com/frahmantamala/expenses-tracker/internal/core/datamodel/session"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the bearer token remembered for one profile.
type Session struct {
	Profile   string     `json:"profile"`
	Email     string     `json:"email"`
	Token     string     `json:"-"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsExpired reports whether the token is known to be past its expiry.
// Tokens without a readable expiry never expire locally.
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

func NewSession(profile, email, token string) *Session {
	now := time.Now()
	return &Session{
		Profile:   profile,
		Email:     email,
		Token:     token,
		ExpiresAt: TokenExpiry(token),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// only the issuing service holds the key. It returns nil for opaque tokens
// and for JWTs without exp.
func TokenExpiry(token string) *time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}

func ToDataModel(s *Session) *sessionDatamodel.Session {
	return &sessionDatamodel.Session{
		Profile:   s.Profile,
		Email:     s.Email,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromDataModel(s *sessionDatamodel.Session) *Session {
	return &Session{
		Profile:   s.Profile,
		Email:     s.Email,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
