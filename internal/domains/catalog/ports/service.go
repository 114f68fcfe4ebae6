package ports

import (
	"context"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListInstruments(ctx context.Context) ([]*domain.Instrument, error)
	GetInstrument(ctx context.Context, id int64) (*domain.Instrument, error)
	CreateInstrument(ctx context.Context, instrument *domain.Instrument) (*domain.Instrument, error)
	UpdateInstrument(ctx context.Context, id int64, instrument *domain.Instrument) (*domain.Instrument, error)
	DeleteInstrument(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}
