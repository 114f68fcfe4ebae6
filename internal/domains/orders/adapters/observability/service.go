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

	orderstypes "github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
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

// New wraps the core orders service.
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

func (s *Service) PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder", trace.WithAttributes(attribute.Int("order.lines", len(input.Lines))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("order.lines", len(input.Lines)))
	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx)
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.String("order.total", order.Total.StringFixed(2)))
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", order.ID), slog.String("order.total", order.Total.StringFixed(2)))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func (s *Service) OrdersBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.OrdersBetween", trace.WithAttributes(
		attribute.String("range.from", from.Format(time.RFC3339)),
		attribute.String("range.to", to.Format(time.RFC3339)),
	))
	defer span.End()

	orders, err := s.inner.OrdersBetween(ctx, from, to)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders in range")
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func (s *Service) CountByMonth(ctx context.Context) ([]orderstypes.MonthCount, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CountByMonth")
	defer span.End()

	result, err := s.inner.CountByMonth(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to count orders by month")
	}
	return result, nil
}

func (s *Service) QuantityByInstrument(ctx context.Context) ([]orderstypes.InstrumentQuantity, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.QuantityByInstrument")
	defer span.End()

	result, err := s.inner.QuantityByInstrument(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sum quantities by instrument")
	}
	return result, nil
}

func (s *Service) CreatePaymentPreference(ctx context.Context, orderID int64) (*ports.Preference, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreatePaymentPreference", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	pref, err := s.inner.CreatePaymentPreference(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create payment preference", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.String("preference.id", pref.ID))
	s.logInfo(ctx, "payment preference created", slog.Int64("order.id", orderID), slog.String("preference.id", pref.ID))
	return pref, nil
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
	ordersPlaced   metric.Int64Counter
	ordersRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders committed"))
	rejected, _ := m.Int64Counter("orders.service.orders_rejected", metric.WithDescription("Number of order placements that failed"))
	return serviceMetrics{ordersPlaced: placed, ordersRejected: rejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
