package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
)

var (
	ErrNoLines           = errors.New("order must contain at least one line")
	ErrInvalidQuantity   = errors.New("line quantity must be greater than zero")
	ErrMissingInstrument = errors.New("line item must reference an instrument")
)

// LineItem is one instrument and quantity within an order, priced at placement time.
type LineItem struct {
	ID         int64
	Instrument *catalogdomain.Instrument
	Quantity   int32
	UnitPrice  decimal.Decimal
}

// NewLineItem snapshots the instrument's current price.
func NewLineItem(instrument *catalogdomain.Instrument, quantity int32) (LineItem, error) {
	if instrument == nil {
		return LineItem{}, ErrMissingInstrument
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	return LineItem{
		Instrument: instrument,
		Quantity:   quantity,
		UnitPrice:  instrument.Price,
	}, nil
}

// Subtotal is unit price times quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// InstrumentID returns the referenced instrument id or zero.
func (l LineItem) InstrumentID() int64 {
	if l.Instrument == nil {
		return 0
	}
	return l.Instrument.ID
}

// Order (pedido) is immutable once placed.
type Order struct {
	ID       int64
	PlacedAt time.Time
	Total    decimal.Decimal
	Lines    []LineItem
}

// NewOrder builds an order and computes its total from the lines.
func NewOrder(placedAt time.Time, lines []LineItem) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	for _, line := range lines {
		if line.Instrument == nil {
			return nil, ErrMissingInstrument
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	order := &Order{PlacedAt: placedAt, Lines: lines}
	order.Total = order.ComputeTotal()
	return order, nil
}

// ComputeTotal sums the line subtotals with exact decimal arithmetic.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Clone returns a deep copy; instruments are copied too.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Lines = make([]LineItem, len(o.Lines))
	for i, line := range o.Lines {
		if line.Instrument != nil {
			inst := *line.Instrument
			if inst.Category != nil {
				category := *inst.Category
				inst.Category = &category
			}
			line.Instrument = &inst
		}
		out.Lines[i] = line
	}
	return &out
}
