package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = stderrors.New("missing thing")

func newTestContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return c, rec
}

func TestRespondError_UsesMapperChain(t *testing.T) {
	responder := NewResponder(func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, errMissing) {
			return ErrNotFound.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})
	c, rec := newTestContext("/api/things/7")

	responder.RespondError(c, fmt.Errorf("lookup: %w", errMissing))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body.Type)
	assert.Equal(t, "/api/things/7", body.Instance)
	assert.Contains(t, body.Detail, "missing thing")
}

func TestRespondError_HidesUnmappedErrors(t *testing.T) {
	var logs bytes.Buffer
	responder := NewResponder().WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	c, rec := newTestContext("/api/pedidos")

	responder.RespondError(c, stderrors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, c.IsAborted())
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "connection refused")
	assert.Contains(t, logs.String(), "/api/pedidos")
}

func TestRespondError_PassesProblemThrough(t *testing.T) {
	c, rec := newTestContext("/x")
	NewResponder().RespondError(c, fmt.Errorf("guard: %w", ErrForbidden.WithDetail("insufficient role")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "insufficient role", body.Detail)
	assert.Empty(t, ErrForbidden.Detail)
}
