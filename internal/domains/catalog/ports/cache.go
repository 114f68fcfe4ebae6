package ports

import (
	"context"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
)

// InstrumentCache stores instrument snapshots keyed by id.
type InstrumentCache interface {
	// Get reports a miss with (nil, false, nil).
	Get(ctx context.Context, id int64) (*domain.Instrument, bool, error)
	Set(ctx context.Context, instrument *domain.Instrument) error
	Invalidate(ctx context.Context, id int64) error
}

// NoopInstrumentCache always misses.
var NoopInstrumentCache InstrumentCache = noopInstrumentCache{}

type noopInstrumentCache struct{}

func (noopInstrumentCache) Get(context.Context, int64) (*domain.Instrument, bool, error) {
	return nil, false, nil
}
func (noopInstrumentCache) Set(context.Context, *domain.Instrument) error { return nil }
func (noopInstrumentCache) Invalidate(context.Context, int64) error       { return nil }
