package api

import (
	"context"
	"fmt"
	"log/slog"

	catalogmemory "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
	usermemory "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/memory"
	userpostgres "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/persistence/postgres"
	userports "github.com/Apurer/instrumentos-api/internal/domains/users/ports"
	"github.com/Apurer/instrumentos-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/instrumentos-api/internal/platform/postgres"
)

// Stores bundles the persistence adapters of every bounded context.
type Stores struct {
	Instruments catalogports.InstrumentRepository
	Categories  catalogports.CategoryRepository
	Orders      ordersports.Store
	Idempotency ordersports.IdempotencyStore
	Users       userports.Repository
	Sessions    userports.SessionStore
	// Durable reports whether the stores survive a restart.
	Durable bool
}

// OpenStores uses PostgreSQL when a DSN is configured and reachable, in-memory adapters otherwise.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		instruments := catalogmemory.NewInstrumentRepository()
		return &Stores{
			Instruments: instruments,
			Categories:  catalogmemory.NewCategoryRepository(instruments),
			Orders:      ordersmemory.NewStore(instruments),
			Idempotency: ordersmemory.NewIdempotencyStore(),
			Users:       usermemory.NewRepository(),
			Sessions:    usermemory.NewSessionStore(),
		}, cleanup, nil
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("stores configured with postgres")
	return &Stores{
		Instruments: catalogpostgres.NewInstrumentRepository(db),
		Categories:  catalogpostgres.NewCategoryRepository(db),
		Orders:      orderspostgres.NewStore(db),
		Idempotency: orderspostgres.NewIdempotencyStore(db),
		Users:       userpostgres.NewRepository(db),
		Sessions:    userpostgres.NewSessionStore(db),
		Durable:     true,
	}, cleanup, nil
}
