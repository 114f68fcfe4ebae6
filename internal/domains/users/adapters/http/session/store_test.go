package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/instrumentos-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
)

var hashKey = []byte("0123456789abcdef0123456789abcdef")

func requestWith(cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func login(t *testing.T, store *Store, user *domain.User) *http.Cookie {
	t.Helper()
	req := requestWith()
	sess, err := store.Get(req, DefaultCookieName)
	require.NoError(t, err)
	require.True(t, sess.IsNew)
	SetPrincipal(sess, user)

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req, rec))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestStore_RoundTripsPrincipal(t *testing.T) {
	store := NewStore(memory.NewSessionStore(), time.Hour, hashKey)
	cookie := login(t, store, &domain.User{Username: "ana", Role: domain.RoleOperator})
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	sess, err := store.Get(requestWith(cookie), DefaultCookieName)
	require.NoError(t, err)
	assert.False(t, sess.IsNew)
	username, role, ok := Principal(sess)
	require.True(t, ok)
	assert.Equal(t, "ana", username)
	assert.Equal(t, domain.RoleOperator, role)
}

func TestStore_RegenerateRotatesToken(t *testing.T) {
	backend := memory.NewSessionStore()
	store := NewStore(backend, time.Hour, hashKey)
	oldCookie := login(t, store, &domain.User{Username: "ana", Role: domain.RoleViewer})

	req := requestWith(oldCookie)
	sess, err := store.Get(req, DefaultCookieName)
	require.NoError(t, err)
	oldID := sess.ID
	require.NoError(t, store.Regenerate(context.Background(), sess))
	SetPrincipal(sess, &domain.User{Username: "ana", Role: domain.RoleViewer})
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req, rec))

	assert.NotEqual(t, oldID, sess.ID)
	stale, err := store.Get(requestWith(oldCookie), DefaultCookieName)
	require.NoError(t, err)
	assert.True(t, stale.IsNew)

	fresh, err := store.Get(requestWith(rec.Result().Cookies()[0]), DefaultCookieName)
	require.NoError(t, err)
	assert.False(t, fresh.IsNew)
}

func TestStore_NegativeMaxAgeDeletesSession(t *testing.T) {
	store := NewStore(memory.NewSessionStore(), time.Hour, hashKey)
	cookie := login(t, store, &domain.User{Username: "ana", Role: domain.RoleAdmin})

	req := requestWith(cookie)
	sess, err := store.Get(req, DefaultCookieName)
	require.NoError(t, err)
	sess.Options.MaxAge = -1
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req, rec))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)

	again, err := store.Get(requestWith(cookie), DefaultCookieName)
	require.NoError(t, err)
	_, _, ok := Principal(again)
	assert.False(t, ok)
}

func TestStore_RejectsTamperedCookie(t *testing.T) {
	store := NewStore(memory.NewSessionStore(), time.Hour, hashKey)
	sess, err := store.Get(requestWith(&http.Cookie{Name: DefaultCookieName, Value: "forged"}), DefaultCookieName)
	require.Error(t, err)
	require.NotNil(t, sess)
	assert.True(t, sess.IsNew)
}
