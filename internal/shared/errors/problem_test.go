package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProblemDetail_ErrorIncludesDetail(t *testing.T) {
	assert.Equal(t, "Conflict", ErrConflict.Error())
	assert.Equal(t, "Conflict: key reused", ErrConflict.WithDetail("key reused").Error())
	assert.Empty(t, ErrConflict.Detail, "WithDetail must not mutate the shared value")
}

func TestProblemKinds_UseStatusText(t *testing.T) {
	assert.Equal(t, "Service Unavailable", ErrUnavailable.Title)
	assert.Equal(t, http.StatusServiceUnavailable, ErrUnavailable.Status)
	assert.Equal(t, TypeUnavailable, ErrUnavailable.Type)
	assert.Equal(t, "Internal Server Error", ErrInternal.Title)
}
