package instrumentosserver

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	usersession "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/session"
	"github.com/Apurer/instrumentos-api/internal/shared/access"
	apierrors "github.com/Apurer/instrumentos-api/internal/shared/errors"
)

const (
	sessionContextKey   = "instrumentos.session"
	principalContextKey = "instrumentos.principal"
)

// SessionMiddleware loads the cookie session and exposes its principal to later handlers.
// Tampered, unknown or expired cookies leave the request anonymous.
func SessionMiddleware(store sessions.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := store.Get(c.Request, cookieName)
		if session == nil {
			session = sessions.NewSession(store, cookieName)
			session.Options = &sessions.Options{Path: "/", HttpOnly: true}
			session.IsNew = true
		}
		c.Set(sessionContextKey, session)
		if username, role, ok := usersession.Principal(session); ok {
			c.Set(principalContextKey, access.Principal{Username: username, Role: string(role)})
		}
		c.Next()
	}
}

// AccessMiddleware enforces policy: 401 for anonymous callers, 403 for missing roles.
func AccessMiddleware(policy *access.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch policy.Evaluate(c.Request.Method, c.Request.URL.Path, principalFrom(c)) {
		case access.Unauthorized:
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			return
		case access.Forbidden:
			respondProblem(c, apierrors.ErrForbidden.WithDetail("insufficient role"))
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) access.Principal {
	if value, ok := c.Get(principalContextKey); ok {
		if principal, ok := value.(access.Principal); ok {
			return principal
		}
	}
	return access.Principal{}
}

func sessionFrom(c *gin.Context) *sessions.Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if session, ok := value.(*sessions.Session); ok {
			return session
		}
	}
	return nil
}
