package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

const tracerName = "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/observability/service"

// Service decorates report generation with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
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

func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) InstrumentSheet(ctx context.Context, id int64) (*domain.Document, error) {
	ctx, span := s.tracer.Start(ctx, "ReportsService.InstrumentSheet", trace.WithAttributes(attribute.Int64("instrument.id", id)))
	defer span.End()

	doc, err := s.inner.InstrumentSheet(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to render product sheet", slog.Int64("instrument.id", id))
	}
	span.SetAttributes(attribute.Int("document.bytes", len(doc.Content)))
	s.metrics.recordGenerated(ctx, "product_sheet")
	return doc, nil
}

func (s *Service) SalesReport(ctx context.Context, from, to *time.Time) (*domain.Document, error) {
	ctx, span := s.tracer.Start(ctx, "ReportsService.SalesReport")
	defer span.End()
	if from != nil {
		span.SetAttributes(attribute.String("report.from", from.Format(time.RFC3339)))
	}
	if to != nil {
		span.SetAttributes(attribute.String("report.to", to.Format(time.RFC3339)))
	}

	doc, err := s.inner.SalesReport(ctx, from, to)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to render sales report")
	}
	span.SetAttributes(attribute.Int("document.bytes", len(doc.Content)))
	s.metrics.recordGenerated(ctx, "sales_report")
	s.logInfo(ctx, "sales report generated", slog.Int("document.bytes", len(doc.Content)))
	return doc, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	generated metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	generated, _ := m.Int64Counter("reports.service.documents_generated", metric.WithDescription("Number of documents rendered"))
	return serviceMetrics{generated: generated}
}

func (m serviceMetrics) recordGenerated(ctx context.Context, kind string) {
	if m.generated != nil {
		m.generated.Add(ctx, 1, metric.WithAttributes(attribute.String("document.kind", kind)))
	}
}

var _ ports.Service = (*Service)(nil)
