package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// FreeShipping is the shipping cost marker meaning the instrument ships at no charge.
const FreeShipping = "G"

// amountScale is the number of decimal places prices and shipping amounts are stored with.
const amountScale = 2

var (
	ErrEmptyName         = errors.New("instrument name is required")
	ErrEmptyBrand        = errors.New("instrument brand is required")
	ErrEmptyModel        = errors.New("instrument model is required")
	ErrNegativePrice     = errors.New("instrument price must not be negative")
	ErrPricePrecision    = errors.New("instrument price allows at most two decimal places")
	ErrInvalidShipping   = errors.New("shipping cost must be \"G\" or a non-negative amount")
	ErrNegativeUnitsSold = errors.New("units sold must not be negative")
)

// Instrument is a sellable catalog item.
type Instrument struct {
	ID           int64
	Name         string
	Brand        string
	Model        string
	Price        decimal.Decimal
	ShippingCost string
	Image        string
	Description  string
	UnitsSold    int64
	Category     *Category
}

// NewInstrument validates and constructs a catalog instrument.
func NewInstrument(id int64, name, brand, model string, price decimal.Decimal, shippingCost string) (*Instrument, error) {
	inst := &Instrument{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Brand:        strings.TrimSpace(brand),
		Model:        strings.TrimSpace(model),
		Price:        price,
		ShippingCost: strings.TrimSpace(shippingCost),
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate enforces the catalog invariants.
func (i *Instrument) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(i.Brand) == "" {
		return ErrEmptyBrand
	}
	if strings.TrimSpace(i.Model) == "" {
		return ErrEmptyModel
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !fitsScale(i.Price) {
		return ErrPricePrecision
	}
	if i.UnitsSold < 0 {
		return ErrNegativeUnitsSold
	}
	if i.ShippingCost == "" {
		i.ShippingCost = FreeShipping
	}
	if !i.HasFreeShipping() {
		amount, err := decimal.NewFromString(i.ShippingCost)
		if err != nil || amount.IsNegative() || !fitsScale(amount) {
			return ErrInvalidShipping
		}
	}
	return nil
}

// fitsScale accepts trailing zeros beyond the scale, so "1.500" is valid.
func fitsScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(amountScale))
}

// HasFreeShipping reports whether the shipping cost field carries the free marker.
func (i *Instrument) HasFreeShipping() bool {
	return i.ShippingCost == FreeShipping
}

// CategoryID returns the referenced category identifier or zero.
func (i *Instrument) CategoryID() int64 {
	if i.Category == nil {
		return 0
	}
	return i.Category.ID
}
