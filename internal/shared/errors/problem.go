// Package errors renders API failures as application/problem+json bodies.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the JSON body written for every failed request. Type is a
// path under /problems, Instance the request path that failed.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail == "" {
		return p.Title
	}
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

// WithDetail copies p with an occurrence specific message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

const (
	TypeValidation   = "/problems/validation-error"
	TypeNotFound     = "/problems/not-found"
	TypeConflict     = "/problems/conflict"
	TypeInternal     = "/problems/internal-error"
	TypeUnauthorized = "/problems/unauthorized"
	TypeForbidden    = "/problems/forbidden"
	TypeBadRequest   = "/problems/bad-request"
	TypeUnavailable  = "/problems/service-unavailable"
)

func kind(typ string, status int) ProblemDetail {
	return ProblemDetail{Type: typ, Title: http.StatusText(status), Status: status}
}

var (
	// ErrNotFound covers unknown instruments, categories, orders and users.
	ErrNotFound = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}

	// ErrValidation is a catalog or order invariant the request broke.
	ErrValidation = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}

	// ErrBadRequest is a body or query that could not be parsed.
	ErrBadRequest = kind(TypeBadRequest, http.StatusBadRequest)

	// ErrConflict is a referenced row, a taken username or a reused idempotency key.
	ErrConflict = kind(TypeConflict, http.StatusConflict)

	ErrInternal     = kind(TypeInternal, http.StatusInternalServerError)
	ErrUnauthorized = kind(TypeUnauthorized, http.StatusUnauthorized)
	ErrForbidden    = kind(TypeForbidden, http.StatusForbidden)
	ErrUnavailable  = kind(TypeUnavailable, http.StatusServiceUnavailable)
)
