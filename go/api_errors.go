package instrumentosserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/instrumentos-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/instrumentos-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
	reportsports "github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
	usersapp "github.com/Apurer/instrumentos-api/internal/domains/users/application"
	usersports "github.com/Apurer/instrumentos-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/instrumentos-api/internal/shared/errors"
)

// responder maps the sentinel errors of every bounded context. Invalid input
// is checked first: an instrument pointing at a missing category is a 400.
var responder = apierrors.NewResponder(
	mapInvalidInput,
	mapAuthentication,
	mapNotFound,
	mapConflict,
	mapUnavailable,
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) ||
		errors.Is(err, ordersapp.ErrInvalidInput) ||
		errors.Is(err, usersapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAuthentication(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, usersapp.ErrAuthentication) || errors.Is(err, usersports.ErrInvalidCredentials) {
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound),
		errors.Is(err, catalogports.ErrCategoryNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, ordersports.ErrInstrumentNotFound),
		errors.Is(err, usersports.ErrNotFound),
		errors.Is(err, reportsports.ErrImageNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflict(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrInUse),
		errors.Is(err, catalogports.ErrDuplicateCategory),
		errors.Is(err, usersports.ErrDuplicateUsername),
		errors.Is(err, ordersports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUnavailable(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersports.ErrPaymentsUnavailable) {
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
