package domain

import (
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Document is a generated artifact ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Image holds raw picture bytes and the format reported by image.DecodeConfig.
type Image struct {
	Name   string
	Format string
	Data   []byte
}

// SalesRow is one line item of the sales report.
type SalesRow struct {
	PlacedAt   time.Time
	Instrument string
	Brand      string
	Model      string
	Quantity   int32
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// SalesRows flattens orders into one row per line item, keeping order and line order.
func SalesRows(orders []*ordersdomain.Order, loc *time.Location) []SalesRow {
	if loc == nil {
		loc = time.UTC
	}
	var rows []SalesRow
	for _, order := range orders {
		for _, line := range order.Lines {
			row := SalesRow{
				PlacedAt:  order.PlacedAt.In(loc),
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Subtotal(),
			}
			if line.Instrument != nil {
				row.Instrument = line.Instrument.Name
				row.Brand = line.Instrument.Brand
				row.Model = line.Instrument.Model
			}
			rows = append(rows, row)
		}
	}
	return rows
}
