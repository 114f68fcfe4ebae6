package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestNewUser_HashesPassword(t *testing.T) {
	user, err := NewUser("  ana ", "secreto", RoleViewer)
	require.NoError(t, err)

	assert.Equal(t, "ana", user.Username)
	assert.NotEqual(t, "secreto", user.PasswordHash)
	assert.True(t, user.CheckPassword("secreto"))
	assert.False(t, user.CheckPassword("otro"))
	assert.False(t, user.CheckPassword(""))
}

func TestNewUser_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		role     Role
		want     error
	}{
		{"empty username", " ", "secreto", RoleViewer, ErrEmptyUsername},
		{"empty password", "ana", "  ", RoleViewer, ErrEmptyPassword},
		{"weak password", "ana", "abc", RoleViewer, ErrWeakPassword},
		{"unknown role", "ana", "secreto", Role("ROOT"), ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.username, tc.password, tc.role)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("operador")
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, role)

	_, err = ParseRole("USUARIO")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
	assert.True(t, (*Session)(nil).Expired(now))
}
