package ports

import (
	"context"
	"errors"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
)

// ErrPaymentsUnavailable is returned when no payment provider is configured.
var ErrPaymentsUnavailable = errors.New("payment provider not configured")

// Preference is a hosted checkout created for an order.
type Preference struct {
	ID        string
	InitPoint string
}

// PaymentGateway creates checkout preferences with the payment provider.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, order *domain.Order) (*Preference, error)
}
