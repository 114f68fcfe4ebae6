package ports

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
)

var ErrImageNotFound = errors.New("image not found")

// InstrumentReader loads a catalog instrument; it reports the catalog's not-found error.
type InstrumentReader interface {
	GetInstrument(ctx context.Context, id int64) (*catalogdomain.Instrument, error)
}

// OrderReader lists orders placed within [from, to].
type OrderReader interface {
	OrdersBetween(ctx context.Context, from, to time.Time) ([]*ordersdomain.Order, error)
}

// ImageSource resolves an instrument image reference to its bytes.
type ImageSource interface {
	Load(ctx context.Context, name string) (*domain.Image, error)
}

type ProductSheetRenderer interface {
	// Render lays out the sheet; image may be nil.
	Render(instrument *catalogdomain.Instrument, image *domain.Image) ([]byte, error)
}

type SalesReportRenderer interface {
	Render(rows []domain.SalesRow) ([]byte, error)
}

// Service generates downloadable reports.
type Service interface {
	InstrumentSheet(ctx context.Context, id int64) (*domain.Document, error)
	// SalesReport defaults a nil from to the Unix epoch and a nil to to now.
	SalesReport(ctx context.Context, from, to *time.Time) (*domain.Document, error)
}
