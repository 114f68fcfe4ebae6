package mapper

import (
	"encoding/json"
	"time"

	orderstypes "github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

// LineRequest is one requested (instrument, quantity) pair.
type LineRequest struct {
	InstrumentID int64 `json:"instrumentoId"`
	Quantity     int32 `json:"cantidad"`
}

// OrderRequest is the body of POST /api/pedidos.
type OrderRequest struct {
	Lines []LineRequest `json:"detalles"`
}

// InstrumentSummary is the instrument view embedded in a line.
type InstrumentSummary struct {
	ID    int64       `json:"id"`
	Name  string      `json:"instrumento"`
	Price json.Number `json:"precio"`
}

type Line struct {
	Quantity   int32             `json:"cantidad"`
	UnitPrice  json.Number       `json:"precioUnitario"`
	Instrument InstrumentSummary `json:"instrumento"`
}

// Order is the transfer view of a placed order.
type Order struct {
	ID       int64       `json:"id"`
	PlacedAt string      `json:"fecha"`
	Total    json.Number `json:"total"`
	Lines    []Line      `json:"detalles"`
}

type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"initPoint"`
}

// ToPlaceOrderInput converts the request; the idempotency key comes from the header.
func ToPlaceOrderInput(req OrderRequest, idempotencyKey string) orderstypes.PlaceOrderInput {
	input := orderstypes.PlaceOrderInput{
		Lines:          make([]orderstypes.LineInput, 0, len(req.Lines)),
		IdempotencyKey: idempotencyKey,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, orderstypes.LineInput{InstrumentID: line.InstrumentID, Quantity: line.Quantity})
	}
	return input
}

// FromDomainOrder renders the timestamp with its zone offset.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:       order.ID,
		PlacedAt: order.PlacedAt.Format(time.RFC3339Nano),
		Total:    json.Number(order.Total.StringFixed(2)),
		Lines:    make([]Line, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		summary := InstrumentSummary{ID: line.InstrumentID()}
		if line.Instrument != nil {
			summary.Name = line.Instrument.Name
			summary.Price = json.Number(line.Instrument.Price.StringFixed(2))
		}
		out.Lines = append(out.Lines, Line{
			Quantity:   line.Quantity,
			UnitPrice:  json.Number(line.UnitPrice.StringFixed(2)),
			Instrument: summary,
		})
	}
	return out
}

func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}

func FromPreference(pref *ports.Preference) Preference {
	if pref == nil {
		return Preference{}
	}
	return Preference{ID: pref.ID, InitPoint: pref.InitPoint}
}

// MonthCountRows renders chart data as [["YYYY-MM", count], ...].
func MonthCountRows(counts []orderstypes.MonthCount) [][]any {
	rows := make([][]any, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []any{c.Month, c.Count})
	}
	return rows
}

// InstrumentQuantityRows renders chart data as [[name, quantity], ...].
func InstrumentQuantityRows(quantities []orderstypes.InstrumentQuantity) [][]any {
	rows := make([][]any, 0, len(quantities))
	for _, q := range quantities {
		rows = append(rows, []any{q.Instrument, q.Quantity})
	}
	return rows
}
