package instrumentosserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	userhttpmapper "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/mapper"
	usersession "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/session"
	userports "github.com/Apurer/instrumentos-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/instrumentos-api/internal/shared/errors"
)

// AuthAPI implements login, registration, logout and the current-user probe.
type AuthAPI struct {
	service userports.Service
	store   *usersession.Store
}

func NewAuthAPI(service userports.Service, store *usersession.Store) AuthAPI {
	return AuthAPI{service: service, store: store}
}

// Post /api/auth/login
// Authenticates and rotates the session cookie
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	user, err := api.service.Authenticate(ctx, payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	session := sessionFrom(c)
	if session == nil {
		respondError(c, errors.New("session middleware not installed"))
		return
	}
	if err := api.store.Regenerate(ctx, session); err != nil {
		respondError(c, err)
		return
	}
	usersession.SetPrincipal(session, user)
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Post /api/auth/register
// Creates a VISOR account
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(user))
}

// Post /api/auth/logout
// Drops the server-side session and clears the cookie
func (api *AuthAPI) Logout(c *gin.Context) {
	if session := sessionFrom(c); session != nil {
		if session.Options == nil {
			session.Options = &sessions.Options{Path: "/"}
		}
		session.Options.MaxAge = -1
		if err := session.Save(c.Request, c.Writer); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// Get /api/auth/me
// Returns the authenticated principal
func (api *AuthAPI) Me(c *gin.Context) {
	principal := principalFrom(c)
	if !principal.Authenticated() {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.User{Username: principal.Username, Role: principal.Role})
}
