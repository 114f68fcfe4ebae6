package types

// LineInput requests a quantity of one instrument.
type LineInput struct {
	InstrumentID int64 `json:"instrumentId"`
	Quantity     int32 `json:"quantity"`
}

// PlaceOrderInput is the command accepted by order placement.
type PlaceOrderInput struct {
	Lines []LineInput `json:"lines"`
	// IdempotencyKey makes retries return the first order; it does not affect the order.
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// MonthCount is the number of orders placed during a calendar month (YYYY-MM).
type MonthCount struct {
	Month string
	Count int64
}

// InstrumentQuantity is the total quantity ordered for an instrument name.
type InstrumentQuantity struct {
	Instrument string
	Quantity   int64
}
