package ports

import (
	"context"
	"errors"

	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Repository interface {
	// Create fails with ErrDuplicateUsername when the username exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
