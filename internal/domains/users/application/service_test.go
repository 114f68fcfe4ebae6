package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/instrumentos-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/users/ports"
)

func init() {
	domain.PasswordCost = bcrypt.MinCost
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, domain.RoleViewer, created.Role)

	user, err := svc.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestRegister_DuplicateAndInvalid(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "other-secret")
	require.ErrorIs(t, err, ports.ErrDuplicateUsername)

	_, err = svc.Register(ctx, "bob", "abc")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "missing", "secret")
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Authenticate(ctx, "", "")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second, err := svc.EnsureAdmin(ctx, "admin", "changed-pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.Authenticate(ctx, "admin", "admin-pass")
	require.NoError(t, err)
}
