package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

const SalesReportFilename = "reporte_pedidos.xlsx"

// Service builds product sheets and sales reports.
type Service struct {
	instruments ports.InstrumentReader
	orders      ports.OrderReader
	images      ports.ImageSource
	sheets      ports.ProductSheetRenderer
	sales       ports.SalesReportRenderer
	location    *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Service)

// WithImageSource enables embedding instrument images in product sheets.
func WithImageSource(images ports.ImageSource) Option {
	return func(s *Service) {
		s.images = images
	}
}

// WithLocation sets the zone sales report dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(instruments ports.InstrumentReader, orders ports.OrderReader, sheets ports.ProductSheetRenderer, sales ports.SalesReportRenderer, opts ...Option) *Service {
	s := &Service{
		instruments: instruments,
		orders:      orders,
		sheets:      sheets,
		sales:       sales,
		location:    time.UTC,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// InstrumentSheet renders the product PDF; image problems are logged and the sheet is produced without it.
func (s *Service) InstrumentSheet(ctx context.Context, id int64) (*domain.Document, error) {
	instrument, err := s.instruments.GetInstrument(ctx, id)
	if err != nil {
		return nil, err
	}
	var image *domain.Image
	if s.images != nil && instrument.Image != "" {
		image, err = s.images.Load(ctx, instrument.Image)
		if err != nil {
			s.logger.WarnContext(ctx, "could not load instrument image",
				slog.Int64("instrument.id", id),
				slog.String("image", instrument.Image),
				slog.String("error", err.Error()))
			image = nil
		}
	}
	content, err := s.sheets.Render(instrument, image)
	if err != nil {
		return nil, fmt.Errorf("render product sheet: %w", err)
	}
	return &domain.Document{
		Filename:    fmt.Sprintf("instrumento_%d.pdf", id),
		ContentType: domain.ContentTypePDF,
		Content:     content,
	}, nil
}

func (s *Service) SalesReport(ctx context.Context, from, to *time.Time) (*domain.Document, error) {
	start := time.Unix(0, 0)
	if from != nil {
		start = *from
	}
	end := s.now()
	if to != nil {
		end = *to
	}
	orders, err := s.orders.OrdersBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	content, err := s.sales.Render(domain.SalesRows(orders, s.location))
	if err != nil {
		return nil, fmt.Errorf("render sales report: %w", err)
	}
	return &domain.Document{
		Filename:    SalesReportFilename,
		ContentType: domain.ContentTypeXLSX,
		Content:     content,
	}, nil
}

var _ ports.Service = (*Service)(nil)
