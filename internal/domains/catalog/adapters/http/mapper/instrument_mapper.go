package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
)

// Category is the transport shape of a category.
type Category struct {
	ID           int64  `json:"id"`
	Denomination string `json:"denominacion"`
}

// Instrument is the transport shape of a catalog instrument.
type Instrument struct {
	ID           int64       `json:"id"`
	Name         string      `json:"instrumento"`
	Brand        string      `json:"marca"`
	Model        string      `json:"modelo"`
	Price        json.Number `json:"precio"`
	ShippingCost string      `json:"costoEnvio"`
	Image        string      `json:"imagen"`
	Description  string      `json:"descripcion"`
	UnitsSold    int64       `json:"cantidadVendida"`
	Category     *Category   `json:"categoria,omitempty"`
}

// ToDomainInstrument converts a transport instrument; validation is left to the service.
func ToDomainInstrument(model Instrument) (*catalogdomain.Instrument, error) {
	price := decimal.Zero
	if model.Price != "" {
		parsed, err := decimal.NewFromString(model.Price.String())
		if err != nil {
			return nil, fmt.Errorf("precio: %w", err)
		}
		price = parsed
	}
	instrument := &catalogdomain.Instrument{
		ID:           model.ID,
		Name:         model.Name,
		Brand:        model.Brand,
		Model:        model.Model,
		Price:        price,
		ShippingCost: model.ShippingCost,
		Image:        model.Image,
		Description:  model.Description,
		UnitsSold:    model.UnitsSold,
	}
	if model.Category != nil {
		instrument.Category = ToDomainCategory(*model.Category)
	}
	return instrument, nil
}

// FromDomainInstrument renders prices with two decimals as JSON numbers.
func FromDomainInstrument(instrument *catalogdomain.Instrument) Instrument {
	if instrument == nil {
		return Instrument{}
	}
	out := Instrument{
		ID:           instrument.ID,
		Name:         instrument.Name,
		Brand:        instrument.Brand,
		Model:        instrument.Model,
		Price:        json.Number(instrument.Price.StringFixed(2)),
		ShippingCost: instrument.ShippingCost,
		Image:        instrument.Image,
		Description:  instrument.Description,
		UnitsSold:    instrument.UnitsSold,
	}
	if instrument.Category != nil {
		category := FromDomainCategory(instrument.Category)
		out.Category = &category
	}
	return out
}

func FromDomainInstruments(instruments []*catalogdomain.Instrument) []Instrument {
	result := make([]Instrument, 0, len(instruments))
	for _, instrument := range instruments {
		result = append(result, FromDomainInstrument(instrument))
	}
	return result
}

func ToDomainCategory(model Category) *catalogdomain.Category {
	return &catalogdomain.Category{ID: model.ID, Denomination: model.Denomination}
}

func FromDomainCategory(category *catalogdomain.Category) Category {
	if category == nil {
		return Category{}
	}
	return Category{ID: category.ID, Denomination: category.Denomination}
}

func FromDomainCategories(categories []*catalogdomain.Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, category := range categories {
		result = append(result, FromDomainCategory(category))
	}
	return result
}
