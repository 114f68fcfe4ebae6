package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	catalogmemory "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps orders in memory. Transactions are serialised; writes are staged
// and become visible only when the unit of work succeeds. Lines keep only the
// instrument id and are resolved against the catalog on every read.
type Store struct {
	txMu        sync.Mutex
	mu          sync.RWMutex
	orders      map[int64]*domain.Order
	nextID      int64
	nextLineID  int64
	instruments *catalogmemory.InstrumentRepository
}

// NewStore resolves line item instruments from the in-memory catalog.
func NewStore(instruments *catalogmemory.InstrumentRepository) *Store {
	return &Store{orders: map[int64]*domain.Order{}, instruments: instruments}
}

func (s *Store) Transact(ctx context.Context, fn func(tx ports.TxStore) error) error {
	if fn == nil {
		return errors.New("transaction function is nil")
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &txStore{store: s, nextID: s.nextID, nextLineID: s.nextLineID}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range tx.staged {
		s.orders[order.ID] = order
		for _, line := range order.Lines {
			s.instruments.Reference(line.InstrumentID())
		}
	}
	s.nextID = tx.nextID
	s.nextLineID = tx.nextLineID
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return s.hydrate(ctx, order), nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Order, error) {
	return s.filter(ctx, func(*domain.Order) bool { return true }), nil
}

func (s *Store) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	return s.filter(ctx, func(o *domain.Order) bool {
		return !o.PlacedAt.Before(from) && !o.PlacedAt.After(to)
	}), nil
}

func (s *Store) filter(ctx context.Context, keep func(*domain.Order) bool) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if keep(order) {
			list = append(list, s.hydrate(ctx, order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) hydrate(ctx context.Context, stored *domain.Order) *domain.Order {
	order := stored.Clone()
	for i := range order.Lines {
		if instrument, err := s.instruments.GetByID(ctx, order.Lines[i].InstrumentID()); err == nil {
			order.Lines[i].Instrument = instrument
		}
	}
	return order
}

// detach drops everything but the instrument id from the stored lines.
func detach(order *domain.Order) *domain.Order {
	stored := order.Clone()
	for i := range stored.Lines {
		stored.Lines[i].Instrument = &catalogdomain.Instrument{ID: stored.Lines[i].InstrumentID()}
	}
	return stored
}

type txStore struct {
	store      *Store
	staged     []*domain.Order
	nextID     int64
	nextLineID int64
}

func (t *txStore) FindInstrument(ctx context.Context, id int64) (*catalogdomain.Instrument, error) {
	instrument, err := t.store.instruments.GetByID(ctx, id)
	if errors.Is(err, catalogports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ports.ErrInstrumentNotFound, id)
	}
	return instrument, err
}

func (t *txStore) Create(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	t.nextID++
	order.ID = t.nextID
	for i := range order.Lines {
		t.nextLineID++
		order.Lines[i].ID = t.nextLineID
	}
	t.staged = append(t.staged, detach(order))
	return nil
}
