package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

// DefaultTimezone is the zone order timestamps are recorded in.
const DefaultTimezone = "America/Argentina/Buenos_Aires"

// Service orchestrates order placement and reads.
type Service struct {
	store       ports.Store
	events      ports.EventPublisher
	payments    ports.PaymentGateway
	idempotency ports.IdempotencyStore
	now         func() time.Time
	location    *time.Location
	logger      *slog.Logger
}

type Option func(*Service)

// WithEventPublisher announces placed orders after commit.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithPaymentGateway enables checkout preference creation.
func WithPaymentGateway(gateway ports.PaymentGateway) Option {
	return func(s *Service) {
		s.payments = gateway
	}
}

// WithIdempotencyStore replays orders placed under a repeated Idempotency-Key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for placement timestamps and monthly grouping.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store ports.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		events:   ports.NoopEventPublisher,
		now:      time.Now,
		location: defaultLocation(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder resolves every line inside one unit of work; any missing instrument aborts the whole order.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, mapError(domain.ErrNoLines)
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, mapError(fmt.Errorf("instrument %d: %w", line.InstrumentID, domain.ErrInvalidQuantity))
		}
	}
	key, hash, previous, err := s.replay(ctx, input)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		return previous, nil
	}
	var placed *domain.Order
	err = s.store.Transact(ctx, func(tx ports.TxStore) error {
		lines := make([]domain.LineItem, 0, len(input.Lines))
		for _, requested := range input.Lines {
			instrument, err := tx.FindInstrument(ctx, requested.InstrumentID)
			if err != nil {
				return err
			}
			line, err := domain.NewLineItem(instrument, requested.Quantity)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		order, err := domain.NewOrder(s.now().In(s.location).Truncate(time.Microsecond), lines)
		if err != nil {
			return err
		}
		if err := tx.Create(ctx, order); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.remember(ctx, key, hash, placed)
	if err := s.events.PublishOrderPlaced(ctx, placed); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order placed event", slog.Int64("order.id", placed.ID), slog.String("error", err.Error()))
	}
	return placed, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.localize(order), nil
}

// ListOrders returns every order hydrated with lines, ordered by id.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.localizeAll(orders), nil
}

// OrdersBetween returns orders placed within [from, to].
func (s *Service) OrdersBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s precedes start %s", ErrInvalidInput, to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	orders, err := s.store.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.localizeAll(orders), nil
}

// Location is the zone order timestamps are rendered in.
func (s *Service) Location() *time.Location {
	return s.location
}

func (s *Service) CreatePaymentPreference(ctx context.Context, orderID int64) (*ports.Preference, error) {
	if s.payments == nil {
		return nil, ports.ErrPaymentsUnavailable
	}
	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.payments.CreatePreference(ctx, order)
}

func (s *Service) localize(order *domain.Order) *domain.Order {
	order.PlacedAt = order.PlacedAt.In(s.location)
	return order
}

func (s *Service) localizeAll(orders []*domain.Order) []*domain.Order {
	for _, order := range orders {
		s.localize(order)
	}
	return orders
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var _ ports.Service = (*Service)(nil)
