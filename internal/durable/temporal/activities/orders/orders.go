package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/instrumentos-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName resolves instruments and persists an order in one transaction.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"

	// Application error types that are never retried and are translated back by the orchestrator.
	ErrTypeInvalidInput        = "orders.InvalidInput"
	ErrTypeInstrumentNotFound  = "orders.InstrumentNotFound"
	ErrTypeIdempotencyConflict = "orders.IdempotencyConflict"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the order builder and returns the committed order.
func (a *Activities) PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "lines", len(input.Lines))
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "lines", len(input.Lines))
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "lines", len(input.Lines), "error", err)
		return nil, classify(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

// classify marks caller mistakes as non-retryable; everything else keeps the retry policy.
func classify(err error) error {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, ordersports.ErrInstrumentNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInstrumentNotFound, err)
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, err)
	default:
		return err
	}
}
