package ports

import (
	"context"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
)

// EventPublisher announces committed orders to other systems.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}

// NoopEventPublisher drops every event.
var NoopEventPublisher EventPublisher = noopEventPublisher{}

type noopEventPublisher struct{}

func (noopEventPublisher) PublishOrderPlaced(context.Context, *domain.Order) error { return nil }
