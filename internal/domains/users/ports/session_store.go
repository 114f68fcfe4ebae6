package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts server-side session persistence keyed by token.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	// Get returns ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	// PurgeExpired removes sessions expired at now and reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
