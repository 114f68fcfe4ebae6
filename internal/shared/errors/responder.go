package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper translates an application error into a problem, reporting false when it does not apply.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details responses. Mappers are consulted in order;
// unmapped errors are logged and answered with a generic 500.
type Responder struct {
	mappers []ErrorMapper
	logger  *slog.Logger
}

func NewResponder(mappers ...ErrorMapper) *Responder {
	return &Responder{mappers: mappers}
}

// WithLogger sets the logger for unmapped errors; slog.Default is used otherwise.
func (r *Responder) WithLogger(logger *slog.Logger) *Responder {
	r.logger = logger
	return r
}

// Respond writes problem and aborts the handler chain.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.String("error", err.Error())}
	if c.Request != nil {
		attrs = append(attrs, slog.String("http.method", c.Request.Method), slog.String("http.path", c.Request.URL.Path))
	}
	logger.ErrorContext(requestContext(c), "unhandled request error", attrs...)
	r.Respond(c, ErrInternal.WithDetail("unexpected error"))
}

func requestContext(c *gin.Context) context.Context {
	if c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
