package instrumentosserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	usersession "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/session"
	"github.com/Apurer/instrumentos-api/internal/shared/access"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	AuthAPI       AuthAPI
	InstrumentAPI InstrumentAPI
	CategoryAPI   CategoryAPI
	OrderAPI      OrderAPI
}

// RouterOptions configures the middleware chain: CORS, tracing, session, access policy.
type RouterOptions struct {
	// ServiceName enables otelgin spans when set.
	ServiceName       string
	CORSAllowedOrigin string
	SessionStore      sessions.Store
	SessionCookieName string
	// Policy defaults to access.Default().
	Policy *access.Policy
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, opts)
}

// NewRouterWithGinEngine installs the middleware chain and the routes on router.
// Middleware must precede route registration; gin binds handlers at registration time.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	if opts.CORSAllowedOrigin != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{opts.CORSAllowedOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodHead},
			AllowHeaders:     []string{"*"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		}))
	}
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.SessionStore != nil {
		cookieName := opts.SessionCookieName
		if cookieName == "" {
			cookieName = usersession.DefaultCookieName
		}
		router.Use(SessionMiddleware(opts.SessionStore, cookieName))
	}
	policy := opts.Policy
	if policy == nil {
		policy = access.Default()
	}
	router.Use(AccessMiddleware(policy))

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Login", http.MethodPost, "/api/auth/login", handleFunctions.AuthAPI.Login},
		{"Register", http.MethodPost, "/api/auth/register", handleFunctions.AuthAPI.Register},
		{"Logout", http.MethodPost, "/api/auth/logout", handleFunctions.AuthAPI.Logout},
		{"Me", http.MethodGet, "/api/auth/me", handleFunctions.AuthAPI.Me},

		{"ListInstruments", http.MethodGet, "/api/instrumentos", handleFunctions.InstrumentAPI.ListInstruments},
		{"CreateInstrument", http.MethodPost, "/api/instrumentos", handleFunctions.InstrumentAPI.CreateInstrument},
		{"GetInstrument", http.MethodGet, "/api/instrumentos/:id", handleFunctions.InstrumentAPI.GetInstrument},
		{"UpdateInstrument", http.MethodPut, "/api/instrumentos/:id", handleFunctions.InstrumentAPI.UpdateInstrument},
		{"DeleteInstrument", http.MethodDelete, "/api/instrumentos/:id", handleFunctions.InstrumentAPI.DeleteInstrument},
		{"DownloadInstrumentSheet", http.MethodGet, "/api/instrumentos/:id/pdf", handleFunctions.InstrumentAPI.DownloadInstrumentSheet},

		{"ListCategories", http.MethodGet, "/api/categoria", handleFunctions.CategoryAPI.ListCategories},
		{"CreateCategory", http.MethodPost, "/api/categoria", handleFunctions.CategoryAPI.CreateCategory},
		{"GetCategory", http.MethodGet, "/api/categoria/:id", handleFunctions.CategoryAPI.GetCategory},
		{"UpdateCategory", http.MethodPut, "/api/categoria/:id", handleFunctions.CategoryAPI.UpdateCategory},
		{"DeleteCategory", http.MethodDelete, "/api/categoria/:id", handleFunctions.CategoryAPI.DeleteCategory},

		{"CreateOrder", http.MethodPost, "/api/pedidos", handleFunctions.OrderAPI.CreateOrder},
		{"ListOrders", http.MethodGet, "/api/pedidos", handleFunctions.OrderAPI.ListOrders},
		{"DownloadSalesReport", http.MethodGet, "/api/pedidos/excel-pedidos", handleFunctions.OrderAPI.DownloadSalesReport},
		{"OrdersByMonth", http.MethodGet, "/api/pedidos/chart/pedidos-by-month", handleFunctions.OrderAPI.OrdersByMonth},
		{"QuantitiesByInstrument", http.MethodGet, "/api/pedidos/chart/quantities-by-instrument", handleFunctions.OrderAPI.QuantitiesByInstrument},
		{"GetOrder", http.MethodGet, "/api/pedidos/:id", handleFunctions.OrderAPI.GetOrder},
		{"CreatePaymentPreference", http.MethodPost, "/api/pedidos/:id/preferencia", handleFunctions.OrderAPI.CreatePaymentPreference},
	}
}
