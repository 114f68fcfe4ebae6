package domain

import "time"

// Session is a server-side login referenced by an opaque token.
type Session struct {
	Token     string
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
