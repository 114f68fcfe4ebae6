package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

var (
	_ ports.InstrumentRepository = (*InstrumentRepository)(nil)
	_ ports.CategoryRepository   = (*CategoryRepository)(nil)
)

// InstrumentRepository is an in-memory instrument persistence adapter.
type InstrumentRepository struct {
	mu          sync.RWMutex
	instruments map[int64]*domain.Instrument
	refs        map[int64]int
	nextID      int64
}

func NewInstrumentRepository() *InstrumentRepository {
	return &InstrumentRepository{
		instruments: map[int64]*domain.Instrument{},
		refs:        map[int64]int{},
	}
}

func (r *InstrumentRepository) Save(_ context.Context, instrument *domain.Instrument) (*domain.Instrument, error) {
	if instrument == nil {
		return nil, errors.New("instrument is nil")
	}
	clone := cloneInstrument(instrument)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, ok := r.instruments[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.instruments[clone.ID] = clone
	return cloneInstrument(clone), nil
}

func (r *InstrumentRepository) GetByID(_ context.Context, id int64) (*domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instrument, ok := r.instruments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneInstrument(instrument), nil
}

func (r *InstrumentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instruments[id]; !ok {
		return ports.ErrNotFound
	}
	if r.refs[id] > 0 {
		return ports.ErrInUse
	}
	delete(r.instruments, id)
	return nil
}

// List returns instruments ordered by id.
func (r *InstrumentRepository) List(_ context.Context) ([]*domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Instrument, 0, len(r.instruments))
	for _, instrument := range r.instruments {
		list = append(list, cloneInstrument(instrument))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Reference records that a line item points at the instrument, blocking its deletion.
func (r *InstrumentRepository) Reference(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[id]++
}

func (r *InstrumentRepository) usesCategory(categoryID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, instrument := range r.instruments {
		if instrument.CategoryID() == categoryID {
			return true
		}
	}
	return false
}

// CategoryRepository is an in-memory category persistence adapter.
type CategoryRepository struct {
	mu          sync.RWMutex
	categories  map[int64]*domain.Category
	nextID      int64
	instruments *InstrumentRepository
}

// NewCategoryRepository links the category store to the instruments that may reference it.
func NewCategoryRepository(instruments *InstrumentRepository) *CategoryRepository {
	return &CategoryRepository{categories: map[int64]*domain.Category{}, instruments: instruments}
}

func (r *CategoryRepository) Save(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	clone := *category
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[clone.ID]; clone.ID != 0 && !ok {
		return nil, ports.ErrCategoryNotFound
	}
	for id, existing := range r.categories {
		if id != clone.ID && strings.EqualFold(existing.Denomination, clone.Denomination) {
			return nil, ports.ErrDuplicateCategory
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	r.categories[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	if r.instruments != nil && r.instruments.usesCategory(id) {
		r.mu.RLock()
		_, ok := r.categories[id]
		r.mu.RUnlock()
		if !ok {
			return ports.ErrCategoryNotFound
		}
		return ports.ErrInUse
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

// List returns categories ordered by id.
func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		clone := *category
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func cloneInstrument(in *domain.Instrument) *domain.Instrument {
	out := *in
	if in.Category != nil {
		category := *in.Category
		out.Category = &category
	}
	return &out
}
