//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogpostgres "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	"github.com/Apurer/instrumentos-api/internal/platform/postgres/postgrestest"
)

func TestInstrumentRepository_SaveGetUpdateDelete(t *testing.T) {
	db := postgrestest.Start(t)
	categories := catalogpostgres.NewCategoryRepository(db)
	instruments := catalogpostgres.NewInstrumentRepository(db)
	ctx := context.Background()

	cuerda, err := categories.Save(ctx, &domain.Category{Denomination: "Cuerda"})
	require.NoError(t, err)

	saved, err := instruments.Save(ctx, &domain.Instrument{
		Name:         "Guitarra",
		Brand:        "Fender",
		Model:        "Stratocaster",
		Price:        decimal.RequireFromString("1250.50"),
		ShippingCost: domain.FreeShipping,
		Image:        "strat.jpg",
		Description:  "Alder body",
		UnitsSold:    3,
		Category:     cuerda,
	})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.NotNil(t, saved.Category)
	assert.Equal(t, "Cuerda", saved.Category.Denomination)
	assert.Equal(t, "1250.50", saved.Price.StringFixed(2))

	saved.Price = decimal.RequireFromString("999.99")
	saved.Category = nil
	updated, err := instruments.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "999.99", updated.Price.StringFixed(2))
	assert.Nil(t, updated.Category)

	_, err = instruments.Save(ctx, &domain.Instrument{ID: 9999, Name: "x", Brand: "y", Model: "z", ShippingCost: "G"})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	list, err := instruments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, instruments.Delete(ctx, saved.ID))
	_, err = instruments.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, instruments.Delete(ctx, saved.ID), ports.ErrNotFound)
}

func TestInstrumentRepository_UnknownCategory(t *testing.T) {
	instruments := catalogpostgres.NewInstrumentRepository(postgrestest.Start(t))

	_, err := instruments.Save(context.Background(), &domain.Instrument{
		Name: "Bajo", Brand: "Ibanez", Model: "SR300", Price: decimal.NewFromInt(800), ShippingCost: "150",
		Category: &domain.Category{ID: 77},
	})
	assert.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestCategoryRepository_UniqueAndInUse(t *testing.T) {
	db := postgrestest.Start(t)
	categories := catalogpostgres.NewCategoryRepository(db)
	instruments := catalogpostgres.NewInstrumentRepository(db)
	ctx := context.Background()

	percusion, err := categories.Save(ctx, &domain.Category{Denomination: "Percusion"})
	require.NoError(t, err)
	_, err = categories.Save(ctx, &domain.Category{Denomination: "Percusion"})
	assert.ErrorIs(t, err, ports.ErrDuplicateCategory)

	_, err = instruments.Save(ctx, &domain.Instrument{
		Name: "Pandereta", Brand: "Remo", Model: "Fiberskyn", Price: decimal.NewFromInt(50), ShippingCost: "300",
		Category: percusion,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, categories.Delete(ctx, percusion.ID), ports.ErrInUse)

	renamed, err := categories.Save(ctx, &domain.Category{ID: percusion.ID, Denomination: "Percusión"})
	require.NoError(t, err)
	assert.Equal(t, "Percusión", renamed.Denomination)

	_, err = categories.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ports.ErrCategoryNotFound)
}
