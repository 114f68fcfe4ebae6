package ports

import (
	"context"
	"time"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	OrdersBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
	CountByMonth(ctx context.Context) ([]types.MonthCount, error)
	QuantityByInstrument(ctx context.Context) ([]types.InstrumentQuantity, error)
	CreatePaymentPreference(ctx context.Context, orderID int64) (*Preference, error)
}

// WorkflowOrchestrator runs order placement, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
}
