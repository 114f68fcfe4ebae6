package ports

import (
	"context"
	"errors"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound          = errors.New("instrument not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category denomination already exists")
	// ErrInUse is returned when deleting a record that other records still reference.
	ErrInUse = errors.New("record is still referenced")
)

// InstrumentRepository persists catalog instruments.
type InstrumentRepository interface {
	// Save creates the instrument when ID is zero, otherwise updates it (ErrNotFound if absent).
	Save(ctx context.Context, instrument *domain.Instrument) (*domain.Instrument, error)
	GetByID(ctx context.Context, id int64) (*domain.Instrument, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Instrument, error)
}

// CategoryRepository persists instrument categories.
type CategoryRepository interface {
	Save(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Category, error)
}
