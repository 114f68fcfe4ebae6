package ports

import (
	"context"

	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
)

// Service exposes identity use cases to adapters.
type Service interface {
	// Register creates a VISOR account.
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// EnsureAdmin creates the bootstrap ADMIN account when it does not exist yet.
	EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error)
}
