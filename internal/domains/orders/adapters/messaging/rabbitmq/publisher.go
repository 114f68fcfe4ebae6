package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

const (
	ExchangeName     = "instrumentos.orders"
	RoutingKeyPlaced = "order.placed"
	EventTypePlaced  = "order.placed"
	contentTypeJSON  = "application/json"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OrderPlacedEvent is the wire form of the order.placed event.
type OrderPlacedEvent struct {
	EventID  string      `json:"eventId"`
	Type     string      `json:"type"`
	OrderID  int64       `json:"orderId"`
	PlacedAt time.Time   `json:"placedAt"`
	Total    json.Number `json:"total"`
	Lines    []EventLine `json:"lines"`
}

type EventLine struct {
	InstrumentID int64       `json:"instrumentId"`
	Quantity     int32       `json:"quantity"`
	UnitPrice    json.Number `json:"unitPrice"`
}

type publisher struct {
	ch       Channel
	exchange string
	newID    func() string
}

var _ ports.EventPublisher = (*publisher)(nil)

// NewPublisher creates an EventPublisher backed by a RabbitMQ topic exchange.
func NewPublisher(ch Channel) ports.EventPublisher {
	return &publisher{ch: ch, exchange: ExchangeName, newID: uuid.NewString}
}

func (p *publisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}
	event := NewOrderPlacedEvent(p.newID(), order)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal order event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange,       // exchange
		RoutingKeyPlaced, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Type:         EventTypePlaced,
			Timestamp:    event.PlacedAt,
			Body:         body,
		},
	)
}

// NewOrderPlacedEvent builds the event payload for a committed order.
func NewOrderPlacedEvent(eventID string, order *domain.Order) OrderPlacedEvent {
	event := OrderPlacedEvent{
		EventID:  eventID,
		Type:     EventTypePlaced,
		OrderID:  order.ID,
		PlacedAt: order.PlacedAt,
		Total:    json.Number(order.Total.StringFixed(2)),
		Lines:    make([]EventLine, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		event.Lines = append(event.Lines, EventLine{
			InstrumentID: line.InstrumentID(),
			Quantity:     line.Quantity,
			UnitPrice:    json.Number(line.UnitPrice.StringFixed(2)),
		})
	}
	return event
}
