package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
)

func TestSalesReport_Render(t *testing.T) {
	placed := time.Date(2024, 3, 2, 9, 30, 15, 0, time.FixedZone("ART", -3*3600))
	rows := []domain.SalesRow{
		{PlacedAt: placed, Instrument: "Guitarra", Brand: "Fender", Model: "Strat", Quantity: 2, UnitPrice: decimal.RequireFromString("100.50"), Subtotal: decimal.RequireFromString("201.00")},
		{PlacedAt: placed, Instrument: "Pandereta", Brand: "Remo", Model: "Fiberskyn", Quantity: 1, UnitPrice: decimal.RequireFromString("50"), Subtotal: decimal.RequireFromString("50")},
	}

	content, err := NewSalesReport().Render(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)

	for col, header := range Headers {
		assert.Equal(t, header, f.GetCellValue(SheetName, Axis(col, 1)))
	}
	assert.Equal(t, "2024-03-02T09:30:15", f.GetCellValue(SheetName, "A2"))
	assert.Equal(t, "Guitarra", f.GetCellValue(SheetName, "B2"))
	assert.Equal(t, "Fender", f.GetCellValue(SheetName, "C2"))
	assert.Equal(t, "Strat", f.GetCellValue(SheetName, "D2"))
	assert.Equal(t, "2", f.GetCellValue(SheetName, "E2"))
	assert.Equal(t, "100.5", f.GetCellValue(SheetName, "F2"))
	assert.Equal(t, "201", f.GetCellValue(SheetName, "G2"))
	assert.Equal(t, "Pandereta", f.GetCellValue(SheetName, "B3"))
	assert.Empty(t, f.GetCellValue(SheetName, "B4"))
}

func TestSalesReport_RenderEmpty(t *testing.T) {
	content, err := NewSalesReport().Render(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "Fecha Pedido", f.GetCellValue(SheetName, "A1"))
	assert.Empty(t, f.GetCellValue(SheetName, "A2"))
}
