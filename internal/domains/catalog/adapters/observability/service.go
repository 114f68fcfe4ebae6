package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListInstruments(ctx context.Context) ([]*catalogdomain.Instrument, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListInstruments")
	defer span.End()

	result, err := s.inner.ListInstruments(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list instruments")
	}
	span.SetAttributes(attribute.Int("instrument.count", len(result)))
	return result, nil
}

func (s *Service) GetInstrument(ctx context.Context, id int64) (*catalogdomain.Instrument, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetInstrument", trace.WithAttributes(attribute.Int64("instrument.id", id)))
	defer span.End()

	result, err := s.inner.GetInstrument(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load instrument", slog.Int64("instrument.id", id))
	}
	return result, nil
}

func (s *Service) CreateInstrument(ctx context.Context, instrument *catalogdomain.Instrument) (*catalogdomain.Instrument, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateInstrument")
	defer span.End()

	s.logInfo(ctx, "creating instrument", slog.String("instrument.name", instrumentName(instrument)))
	result, err := s.inner.CreateInstrument(ctx, instrument)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create instrument")
	}
	span.SetAttributes(attribute.Int64("instrument.id", result.ID))
	s.metrics.recordWrite(ctx, "create")
	s.logInfo(ctx, "instrument created", slog.Int64("instrument.id", result.ID))
	return result, nil
}

func (s *Service) UpdateInstrument(ctx context.Context, id int64, instrument *catalogdomain.Instrument) (*catalogdomain.Instrument, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateInstrument", trace.WithAttributes(attribute.Int64("instrument.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating instrument", slog.Int64("instrument.id", id))
	result, err := s.inner.UpdateInstrument(ctx, id, instrument)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update instrument", slog.Int64("instrument.id", id))
	}
	s.metrics.recordWrite(ctx, "update")
	s.logInfo(ctx, "instrument updated", slog.Int64("instrument.id", id))
	return result, nil
}

func (s *Service) DeleteInstrument(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteInstrument", trace.WithAttributes(attribute.Int64("instrument.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting instrument", slog.Int64("instrument.id", id))
	if err := s.inner.DeleteInstrument(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete instrument", slog.Int64("instrument.id", id))
	}
	s.metrics.recordWrite(ctx, "delete")
	s.logInfo(ctx, "instrument deleted", slog.Int64("instrument.id", id))
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("category.count", len(result)))
	return result, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	result, err := s.inner.GetCategory(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load category", slog.Int64("category.id", id))
	}
	return result, nil
}

func (s *Service) CreateCategory(ctx context.Context, category *catalogdomain.Category) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory")
	defer span.End()

	result, err := s.inner.CreateCategory(ctx, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category")
	}
	s.logInfo(ctx, "category created", slog.Int64("category.id", result.ID), slog.String("category.denomination", result.Denomination))
	return result, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, category *catalogdomain.Category) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	result, err := s.inner.UpdateCategory(ctx, id, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update category", slog.Int64("category.id", id))
	}
	s.logInfo(ctx, "category updated", slog.Int64("category.id", id))
	return result, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.Int64("category.id", id))
	}
	s.logInfo(ctx, "category deleted", slog.Int64("category.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	instrumentWrites metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	writes, _ := m.Int64Counter("catalog.service.instrument_writes", metric.WithDescription("Number of instrument create, update and delete operations"))
	return serviceMetrics{instrumentWrites: writes}
}

func (m serviceMetrics) recordWrite(ctx context.Context, op string) {
	if m.instrumentWrites != nil {
		m.instrumentWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func instrumentName(instrument *catalogdomain.Instrument) string {
	if instrument == nil {
		return ""
	}
	return instrument.Name
}

var _ catalogports.Service = (*Service)(nil)
