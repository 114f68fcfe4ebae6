package application

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	instruments ports.InstrumentRepository
	categories  ports.CategoryRepository
	cache       ports.InstrumentCache
	logger      *slog.Logger
	flights     singleflight.Group
}

// Option customises the catalog service.
type Option func(*Service)

// WithCache enables cache-aside reads for GetInstrument.
func WithCache(cache ports.InstrumentCache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithLogger sets the logger used to report degraded cache operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(instruments ports.InstrumentRepository, categories ports.CategoryRepository, opts ...Option) *Service {
	s := &Service{
		instruments: instruments,
		categories:  categories,
		cache:       ports.NoopInstrumentCache,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	return s.instruments.List(ctx)
}

// GetInstrument reads through the cache; concurrent misses for the same id share one store read.
func (s *Service) GetInstrument(ctx context.Context, id int64) (*domain.Instrument, error) {
	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "instrument cache read failed", slog.Int64("instrument.id", id), slog.String("error", err.Error()))
	} else if ok {
		return cached, nil
	}
	v, err, _ := s.flights.Do(strconv.FormatInt(id, 10), func() (any, error) {
		instrument, err := s.instruments.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, instrument); err != nil {
			s.logger.WarnContext(ctx, "instrument cache write failed", slog.Int64("instrument.id", id), slog.String("error", err.Error()))
		}
		return instrument, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneInstrument(v.(*domain.Instrument)), nil
}

func (s *Service) CreateInstrument(ctx context.Context, instrument *domain.Instrument) (*domain.Instrument, error) {
	if instrument == nil {
		return nil, errors.New("instrument is nil")
	}
	instrument.ID = 0
	if err := instrument.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.resolveCategory(ctx, instrument); err != nil {
		return nil, err
	}
	return s.instruments.Save(ctx, instrument)
}

func (s *Service) UpdateInstrument(ctx context.Context, id int64, instrument *domain.Instrument) (*domain.Instrument, error) {
	if instrument == nil {
		return nil, errors.New("instrument is nil")
	}
	if _, err := s.instruments.GetByID(ctx, id); err != nil {
		return nil, err
	}
	instrument.ID = id
	if err := instrument.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.resolveCategory(ctx, instrument); err != nil {
		return nil, err
	}
	saved, err := s.instruments.Save(ctx, instrument)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return saved, nil
}

func (s *Service) DeleteInstrument(ctx context.Context, id int64) error {
	if err := s.instruments.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	category.ID = 0
	if err := category.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.categories.Save(ctx, category)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	category.ID = id
	if err := category.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.categories.Save(ctx, category)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

// resolveCategory replaces a category reference with the stored category.
func (s *Service) resolveCategory(ctx context.Context, instrument *domain.Instrument) error {
	if instrument.Category == nil || instrument.Category.ID == 0 {
		instrument.Category = nil
		return nil
	}
	category, err := s.categories.GetByID(ctx, instrument.Category.ID)
	if err != nil {
		return mapCategoryReference(err)
	}
	instrument.Category = category
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "instrument cache invalidation failed", slog.Int64("instrument.id", id), slog.String("error", err.Error()))
	}
}

func cloneInstrument(in *domain.Instrument) *domain.Instrument {
	out := *in
	if in.Category != nil {
		category := *in.Category
		out.Category = &category
	}
	return &out
}

var _ ports.Service = (*Service)(nil)
