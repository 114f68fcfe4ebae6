package instrumentosserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	catalogmemory "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/instrumentos-api/internal/domains/catalog/application"
	ordersmemory "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/instrumentos-api/internal/domains/orders/application"
	reportspdf "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/pdf"
	reportsxlsx "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/xlsx"
	reportsapp "github.com/Apurer/instrumentos-api/internal/domains/reports/application"
	reportsdomain "github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	usersession "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/session"
	usermemory "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/instrumentos-api/internal/domains/users/application"
	userdomain "github.com/Apurer/instrumentos-api/internal/domains/users/domain"
	apierrors "github.com/Apurer/instrumentos-api/internal/shared/errors"
)

const (
	testOrigin        = "http://localhost:5173"
	testAdminUsername = "admin"
	testAdminPassword = "admin-pass"
)

func init() {
	userdomain.PasswordCost = bcrypt.MinCost
}

type testApp struct {
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	instruments := catalogmemory.NewInstrumentRepository()
	catalog := catalogapp.NewService(instruments, catalogmemory.NewCategoryRepository(instruments))
	orders := ordersapp.NewService(
		ordersmemory.NewStore(instruments),
		ordersapp.WithLocation(time.UTC),
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	)
	users := usersapp.NewService(usermemory.NewRepository())
	_, err := users.EnsureAdmin(context.Background(), testAdminUsername, testAdminPassword)
	require.NoError(t, err)
	reports := reportsapp.NewService(catalog, orders, reportspdf.NewProductSheet(), reportsxlsx.NewSalesReport(), reportsapp.WithLocation(time.UTC))

	store := usersession.NewStore(usermemory.NewSessionStore(), time.Hour, []byte(strings.Repeat("k", 32)))
	handlers := ApiHandleFunctions{
		AuthAPI:       NewAuthAPI(users, store),
		InstrumentAPI: NewInstrumentAPI(catalog, reports),
		CategoryAPI:   NewCategoryAPI(catalog),
		OrderAPI:      NewOrderAPI(orders, ordersworkflows.NewInlineOrderWorkflows(orders), reports),
	}
	router := NewRouterWithGinEngine(gin.New(), handlers, RouterOptions{
		CORSAllowedOrigin: testOrigin,
		SessionStore:      store,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testApp{server: server}
}

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func (a *testApp) client(t *testing.T) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, base: a.server.URL, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	return c.doWithHeaders(method, path, body, nil)
}

func (c *testClient) doWithHeaders(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (c *testClient) decode(res *http.Response, out any) {
	c.t.Helper()
	require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
}

func (c *testClient) login(username, password string) *http.Response {
	c.t.Helper()
	return c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password})
}

func (c *testClient) sessionCookie() *http.Cookie {
	c.t.Helper()
	u, err := url.Parse(c.base)
	require.NoError(c.t, err)
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == usersession.DefaultCookieName {
			return cookie
		}
	}
	return nil
}

func (c *testClient) createInstrument(name, price, shipping string) int64 {
	c.t.Helper()
	res := c.do(http.MethodPost, "/api/instrumentos", map[string]any{
		"instrumento": name,
		"marca":       "Yamaha",
		"modelo":      "X1",
		"precio":      json.Number(price),
		"costoEnvio":  shipping,
		"descripcion": "instrumento de prueba",
	})
	require.Equal(c.t, http.StatusCreated, res.StatusCode)
	var created struct {
		ID int64 `json:"id"`
	}
	c.decode(res, &created)
	return created.ID
}

func assertProblem(t *testing.T, res *http.Response, status int, problemType string) {
	t.Helper()
	require.Equal(t, status, res.StatusCode)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, res.Header.Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.NewDecoder(res.Body).Decode(&problem))
	assert.Equal(t, problemType, problem.Type)
}

func TestAccessPolicy_Anonymous(t *testing.T) {
	app := newTestApp(t)
	anon := app.client(t)

	res := anon.do(http.MethodGet, "/api/instrumentos", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	assertProblem(t, anon.do(http.MethodGet, "/api/categoria", nil), http.StatusUnauthorized, apierrors.TypeUnauthorized)
	assertProblem(t, anon.do(http.MethodPost, "/api/instrumentos", map[string]any{}), http.StatusUnauthorized, apierrors.TypeUnauthorized)
	assertProblem(t, anon.do(http.MethodGet, "/api/pedidos", nil), http.StatusUnauthorized, apierrors.TypeUnauthorized)
	assertProblem(t, anon.do(http.MethodGet, "/api/auth/me", nil), http.StatusUnauthorized, apierrors.TypeUnauthorized)
}

func TestAccessPolicy_ViewerRole(t *testing.T) {
	app := newTestApp(t)
	viewer := app.client(t)

	res := viewer.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "lucia", "password": "secreto"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, http.StatusOK, viewer.login("lucia", "secreto").StatusCode)

	assertProblem(t, viewer.do(http.MethodGet, "/api/categoria", nil), http.StatusForbidden, apierrors.TypeForbidden)
	assertProblem(t, viewer.do(http.MethodPost, "/api/pedidos", map[string]any{}), http.StatusForbidden, apierrors.TypeForbidden)

	res = viewer.do(http.MethodGet, "/api/pedidos", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = viewer.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var me struct {
		Username string `json:"username"`
		Role     string `json:"rol"`
	}
	viewer.decode(res, &me)
	assert.Equal(t, "lucia", me.Username)
	assert.Equal(t, "VISOR", me.Role)
}

func TestAuth_LoginRotatesAndLogoutInvalidates(t *testing.T) {
	app := newTestApp(t)
	admin := app.client(t)

	assertProblem(t, admin.login(testAdminUsername, "wrong"), http.StatusUnauthorized, apierrors.TypeUnauthorized)

	require.Equal(t, http.StatusOK, admin.login(testAdminUsername, testAdminPassword).StatusCode)
	first := admin.sessionCookie()
	require.NotNil(t, first)
	require.Equal(t, http.StatusOK, admin.login(testAdminUsername, testAdminPassword).StatusCode)
	second := admin.sessionCookie()
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)

	// the first cookie was invalidated by the rotation
	stale := app.client(t)
	u, _ := url.Parse(app.server.URL)
	stale.http.Jar.SetCookies(u, []*http.Cookie{{Name: first.Name, Value: first.Value, Path: "/"}})
	assertProblem(t, stale.do(http.MethodGet, "/api/auth/me", nil), http.StatusUnauthorized, apierrors.TypeUnauthorized)

	res := admin.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Nil(t, admin.sessionCookie())

	replay := app.client(t)
	replay.http.Jar.SetCookies(u, []*http.Cookie{{Name: second.Name, Value: second.Value, Path: "/"}})
	assertProblem(t, replay.do(http.MethodGet, "/api/auth/me", nil), http.StatusUnauthorized, apierrors.TypeUnauthorized)
}

func TestCORSPreflightAnsweredBeforePolicy(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodOptions, app.server.URL+"/api/pedidos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, testOrigin, res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", res.Header.Get("Access-Control-Allow-Credentials"))
}

func TestOrders_EndToEnd(t *testing.T) {
	app := newTestApp(t)
	admin := app.client(t)
	require.Equal(t, http.StatusOK, admin.login(testAdminUsername, testAdminPassword).StatusCode)

	a := admin.createInstrument("Guitarra", "100.00", "G")
	b := admin.createInstrument("Pandereta", "50.00", "300")

	res := admin.do(http.MethodPost, "/api/pedidos", map[string]any{"detalles": []map[string]any{
		{"instrumentoId": a, "cantidad": 2},
		{"instrumentoId": b, "cantidad": 3},
	}})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var placed struct {
		ID      int64       `json:"id"`
		Total   json.Number `json:"total"`
		Detalle []struct {
			Cantidad       int32       `json:"cantidad"`
			PrecioUnitario json.Number `json:"precioUnitario"`
		} `json:"detalles"`
	}
	admin.decode(res, &placed)
	assert.Equal(t, "350.00", placed.Total.String())
	require.Len(t, placed.Detalle, 2)

	res = admin.do(http.MethodGet, "/api/pedidos/"+jsonID(placed.ID), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assertProblem(t, admin.do(http.MethodGet, "/api/pedidos/999", nil), http.StatusNotFound, apierrors.TypeNotFound)
	assertProblem(t, admin.do(http.MethodPost, "/api/pedidos", map[string]any{"detalles": []map[string]any{{"instrumentoId": 999, "cantidad": 1}}}), http.StatusNotFound, apierrors.TypeNotFound)
	assertProblem(t, admin.do(http.MethodPost, "/api/pedidos", map[string]any{"detalles": []map[string]any{}}), http.StatusBadRequest, apierrors.TypeValidation)
	assertProblem(t, admin.do(http.MethodPost, "/api/pedidos/1/preferencia", nil), http.StatusServiceUnavailable, apierrors.TypeUnavailable)
	assertProblem(t, admin.do(http.MethodDelete, "/api/instrumentos/"+jsonID(a), nil), http.StatusConflict, apierrors.TypeConflict)

	res = admin.do(http.MethodGet, "/api/pedidos/chart/quantities-by-instrument", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var rows [][]any
	admin.decode(res, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pandereta", rows[0][0])

	res = admin.do(http.MethodGet, "/api/pedidos/excel-pedidos?fechaDesde=2000-01-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, reportsdomain.ContentTypeXLSX, res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "reporte_pedidos.xlsx")

	assertProblem(t, admin.do(http.MethodGet, "/api/pedidos/excel-pedidos?fechaDesde=ayer", nil), http.StatusBadRequest, apierrors.TypeBadRequest)

	anon := app.client(t)
	res = anon.do(http.MethodGet, "/api/instrumentos/"+jsonID(a)+"/pdf", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, reportsdomain.ContentTypePDF, res.Header.Get("Content-Type"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestOrders_IdempotencyKeyHeader(t *testing.T) {
	app := newTestApp(t)
	admin := app.client(t)
	require.Equal(t, http.StatusOK, admin.login(testAdminUsername, testAdminPassword).StatusCode)
	a := admin.createInstrument("Guitarra", "100.00", "G")

	place := func(quantity int) *http.Response {
		body := map[string]any{"detalles": []map[string]any{{"instrumentoId": a, "cantidad": quantity}}}
		return admin.doWithHeaders(http.MethodPost, "/api/pedidos", body, map[string]string{IdempotencyKeyHeader: "checkout-1"})
	}
	var first, second struct {
		ID int64 `json:"id"`
	}
	res := place(1)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	admin.decode(res, &first)
	res = place(1)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	admin.decode(res, &second)
	assert.Equal(t, first.ID, second.ID)

	assertProblem(t, place(5), http.StatusConflict, apierrors.TypeConflict)
}

func TestCategories_AdminCRUD(t *testing.T) {
	app := newTestApp(t)
	admin := app.client(t)
	require.Equal(t, http.StatusOK, admin.login(testAdminUsername, testAdminPassword).StatusCode)

	res := admin.do(http.MethodPost, "/api/categoria", map[string]any{"denominacion": "Cuerdas"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created struct {
		ID           int64  `json:"id"`
		Denominacion string `json:"denominacion"`
	}
	admin.decode(res, &created)
	assert.Equal(t, "Cuerdas", created.Denominacion)

	assertProblem(t, admin.do(http.MethodPost, "/api/categoria", map[string]any{"denominacion": "Cuerdas"}), http.StatusConflict, apierrors.TypeConflict)
	assertProblem(t, admin.do(http.MethodPost, "/api/categoria", map[string]any{"denominacion": ""}), http.StatusBadRequest, apierrors.TypeValidation)

	res = admin.do(http.MethodGet, "/api/categoria", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = admin.do(http.MethodDelete, "/api/categoria/"+jsonID(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assertProblem(t, admin.do(http.MethodGet, "/api/categoria/"+jsonID(created.ID), nil), http.StatusNotFound, apierrors.TypeNotFound)
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
