package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeType     = "topic"
	dialAttempts     = 5
	dialRetryBackoff = 2 * time.Second
)

// Connection owns the AMQP connection and the publishing channel.
type Connection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// Close shuts the channel and connection down.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}

// Setup dials the broker with a few retries and declares a durable topic exchange.
func Setup(ctx context.Context, url, exchange string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.WarnContext(ctx, "failed to connect to RabbitMQ", slog.Int("attempt", i+1), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialRetryBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return &Connection{Conn: conn, Channel: ch}, nil
}
