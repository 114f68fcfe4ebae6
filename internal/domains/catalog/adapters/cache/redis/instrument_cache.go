package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

// DefaultTTL bounds how long an instrument snapshot is served from Redis.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "instrumentos:catalog:instrument:"

var _ ports.InstrumentCache = (*InstrumentCache)(nil)

// InstrumentCache stores instrument snapshots as JSON strings in Redis.
type InstrumentCache struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewInstrumentCache wires a Redis client; ttl <= 0 falls back to DefaultTTL.
func NewInstrumentCache(client goredis.Cmdable, ttl time.Duration) *InstrumentCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InstrumentCache{client: client, ttl: ttl}
}

type cachedInstrument struct {
	ID           int64           `json:"id"`
	Name         string          `json:"instrumento"`
	Brand        string          `json:"marca"`
	Model        string          `json:"modelo"`
	Price        decimal.Decimal `json:"precio"`
	ShippingCost string          `json:"costoEnvio"`
	Image        string          `json:"imagen"`
	Description  string          `json:"descripcion"`
	UnitsSold    int64           `json:"cantidadVendida"`
	CategoryID   int64           `json:"categoriaId,omitempty"`
	CategoryName string          `json:"categoria,omitempty"`
}

// Key returns the Redis key holding the instrument snapshot.
func Key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

func (c *InstrumentCache) Get(ctx context.Context, id int64) (*domain.Instrument, bool, error) {
	raw, err := c.client.Get(ctx, Key(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snapshot cachedInstrument
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode cached instrument %d: %w", id, err)
	}
	return snapshot.toDomain(), true, nil
}

func (c *InstrumentCache) Set(ctx context.Context, instrument *domain.Instrument) error {
	if instrument == nil {
		return nil
	}
	payload, err := json.Marshal(fromDomain(instrument))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(instrument.ID), payload, c.ttl).Err()
}

func (c *InstrumentCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, Key(id)).Err()
}

func fromDomain(instrument *domain.Instrument) cachedInstrument {
	snapshot := cachedInstrument{
		ID:           instrument.ID,
		Name:         instrument.Name,
		Brand:        instrument.Brand,
		Model:        instrument.Model,
		Price:        instrument.Price,
		ShippingCost: instrument.ShippingCost,
		Image:        instrument.Image,
		Description:  instrument.Description,
		UnitsSold:    instrument.UnitsSold,
	}
	if instrument.Category != nil {
		snapshot.CategoryID = instrument.Category.ID
		snapshot.CategoryName = instrument.Category.Denomination
	}
	return snapshot
}

func (s cachedInstrument) toDomain() *domain.Instrument {
	instrument := &domain.Instrument{
		ID:           s.ID,
		Name:         s.Name,
		Brand:        s.Brand,
		Model:        s.Model,
		Price:        s.Price,
		ShippingCost: s.ShippingCost,
		Image:        s.Image,
		Description:  s.Description,
		UnitsSold:    s.UnitsSold,
	}
	if s.CategoryID != 0 {
		instrument.Category = &domain.Category{ID: s.CategoryID, Denomination: s.CategoryName}
	}
	return instrument
}
