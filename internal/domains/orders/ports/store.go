package ports

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
)

var (
	ErrNotFound           = errors.New("order not found")
	ErrInstrumentNotFound = errors.New("instrument not found")
)

// Store persists orders. Writes happen only inside Transact.
type Store interface {
	// Transact runs fn in a unit of work committed only when fn returns nil.
	Transact(ctx context.Context, fn func(tx TxStore) error) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns every order ordered by id.
	List(ctx context.Context) ([]*domain.Order, error)
	// ListBetween returns orders placed within [from, to], both ends inclusive.
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
}

// TxStore is the view of the store inside a unit of work.
type TxStore interface {
	// FindInstrument fails with ErrInstrumentNotFound when the instrument does not exist.
	FindInstrument(ctx context.Context, id int64) (*catalogdomain.Instrument, error)
	// Create assigns ids to the order and its lines.
	Create(ctx context.Context, order *domain.Order) error
}
