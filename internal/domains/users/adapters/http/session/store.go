package session

import (
	"context"
	"encoding/base32"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/users/ports"
)

const (
	DefaultCookieName = "INSTRUMENTOS_SESSION"
	DefaultTTL        = 24 * time.Hour

	KeyUsername = "username"
	KeyRole     = "role"
)

var _ sessions.Store = (*Store)(nil)

// Store is a gorilla sessions.Store whose cookie carries only a signed token;
// the principal lives in a server-side ports.SessionStore.
type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	backend ports.SessionStore
	ttl     time.Duration
	now     func() time.Time
}

// NewStore signs cookies with keyPairs (hash key, optional block key, ...).
func NewStore(backend ports.SessionStore, ttl time.Duration, keyPairs ...[]byte) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(s.Options.MaxAge)
		}
	}
	return s
}

// Get returns the session cached in the request registry.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing, tampered
// or expired cookie yields a fresh session.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var token string
	if err := securecookie.DecodeMulti(name, cookie.Value, &token, s.Codecs...); err != nil {
		return session, err
	}
	record, err := s.backend.Get(r.Context(), token)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return session, nil
	}
	if err != nil {
		return session, err
	}
	session.ID = record.Token
	session.Values[KeyUsername] = record.Username
	session.Values[KeyRole] = string(record.Role)
	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the cookie. A negative MaxAge deletes both.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options != nil && session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newToken()
	}
	username, role, _ := Principal(session)
	record := domain.Session{
		Token:     session.ID,
		Username:  username,
		Role:      role,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.backend.Save(r.Context(), record); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Regenerate drops the server-side record so the next Save issues a new token.
func (s *Store) Regenerate(ctx context.Context, session *sessions.Session) error {
	if session.ID != "" {
		if err := s.backend.Delete(ctx, session.ID); err != nil {
			return err
		}
	}
	session.ID = ""
	session.IsNew = true
	return nil
}

// Principal extracts the authenticated user from session values.
func Principal(session *sessions.Session) (string, domain.Role, bool) {
	if session == nil {
		return "", "", false
	}
	username, _ := session.Values[KeyUsername].(string)
	role, _ := session.Values[KeyRole].(string)
	if username == "" {
		return "", "", false
	}
	return username, domain.Role(role), true
}

// SetPrincipal stores the user snapshot in session values.
func SetPrincipal(session *sessions.Session, user *domain.User) {
	session.Values[KeyUsername] = user.Username
	session.Values[KeyRole] = string(user.Role)
}

func newToken() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}
