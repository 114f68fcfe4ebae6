package mapper

import userdomain "github.com/Apurer/instrumentos-api/internal/domains/users/domain"

// Credentials is the body of the login and register endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the transport-level user payload; the password hash never leaves the server.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Role     string `json:"rol"`
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{ID: user.ID, Username: user.Username, Role: string(user.Role)}
}

// FromSession renders the principal stored in a session.
func FromSession(session *userdomain.Session) User {
	if session == nil {
		return User{}
	}
	return User{Username: session.Username, Role: string(session.Role)}
}
