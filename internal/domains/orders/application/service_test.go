package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

type recordingPublisher struct {
	published []int64
	err       error
}

func (r *recordingPublisher) PublishOrderPlaced(_ context.Context, order *domain.Order) error {
	r.published = append(r.published, order.ID)
	return r.err
}

type fakeGateway struct {
	orderID int64
}

func (f *fakeGateway) CreatePreference(_ context.Context, order *domain.Order) (*ports.Preference, error) {
	f.orderID = order.ID
	return &ports.Preference{ID: "pref-1", InitPoint: "https://mp.example/checkout/pref-1"}, nil
}

type fixture struct {
	svc         *Service
	instruments *catalogmemory.InstrumentRepository
	store       *ordersmemory.Store
	publisher   *recordingPublisher
	a, b        *catalogdomain.Instrument
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	instruments := catalogmemory.NewInstrumentRepository()
	a, err := instruments.Save(ctx, &catalogdomain.Instrument{Name: "Guitarra", Brand: "Fender", Model: "Strat", Price: decimal.RequireFromString("100.00"), ShippingCost: "G"})
	require.NoError(t, err)
	b, err := instruments.Save(ctx, &catalogdomain.Instrument{Name: "Pandereta", Brand: "Remo", Model: "Fiberskyn", Price: decimal.RequireFromString("50.00"), ShippingCost: "300"})
	require.NoError(t, err)

	store := ordersmemory.NewStore(instruments)
	publisher := &recordingPublisher{}
	opts = append([]Option{WithEventPublisher(publisher), WithLocation(time.UTC)}, opts...)
	return &fixture{
		svc:         NewService(store, opts...),
		instruments: instruments,
		store:       store,
		publisher:   publisher,
		a:           a,
		b:           b,
	}
}

func TestPlaceOrder_ComputesExactTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{
		{InstrumentID: f.a.ID, Quantity: 2},
		{InstrumentID: f.b.ID, Quantity: 3},
	}})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, "350.00", order.Total.StringFixed(2))
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "200.00", order.Lines[0].Subtotal().StringFixed(2))
	assert.Equal(t, "150.00", order.Lines[1].Subtotal().StringFixed(2))
	assert.Equal(t, []int64{order.ID}, f.publisher.published)
}

func TestPlaceOrder_MissingInstrumentPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{
		{InstrumentID: f.a.ID, Quantity: 1},
		{InstrumentID: 999, Quantity: 1},
	}})
	require.ErrorIs(t, err, ports.ErrInstrumentNotFound)

	orders, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.publisher.published)

	// the instrument from the aborted order stays deletable
	require.NoError(t, f.instruments.Delete(ctx, f.a.ID))
}

func TestPlaceOrder_ValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoLines)

	_, err = f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 0}}})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestPlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	order, err := f.svc.PlaceOrder(context.Background(), types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 1}}})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestPlaceOrder_SnapshotsPriceAndRoundTrips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{
		{InstrumentID: f.b.ID, Quantity: 1},
		{InstrumentID: f.a.ID, Quantity: 4},
	}})
	require.NoError(t, err)

	changed := *f.a
	changed.Price = decimal.RequireFromString("999")
	_, err = f.instruments.Save(ctx, &changed)
	require.NoError(t, err)

	fetched, err := f.svc.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.True(t, placed.Total.Equal(fetched.Total))
	require.Len(t, fetched.Lines, 2)
	assert.Equal(t, f.b.ID, fetched.Lines[0].InstrumentID())
	assert.Equal(t, f.a.ID, fetched.Lines[1].InstrumentID())
	assert.Equal(t, "100", fetched.Lines[1].UnitPrice.String())
	require.NotNil(t, fetched.Lines[1].Instrument)
	assert.Equal(t, "999", fetched.Lines[1].Instrument.Price.String())

	err = f.instruments.Delete(ctx, f.a.ID)
	require.ErrorIs(t, err, catalogports.ErrInUse)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetOrder(context.Background(), 42)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListOrders_AscendingByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 1}}})
		require.NoError(t, err)
	}
	orders, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.Less(t, orders[i-1].ID, orders[i].ID)
	}
}

func TestOrdersBetween_InclusiveWindow(t *testing.T) {
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	clock := base
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	place := func(at time.Time) {
		clock = at
		_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 1}}})
		require.NoError(t, err)
	}
	place(base.Add(-time.Hour))
	place(base)
	place(base.Add(time.Hour))
	place(base.Add(2 * time.Hour))

	orders, err := f.svc.OrdersBetween(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].PlacedAt.Equal(base))
	assert.True(t, orders[1].PlacedAt.Equal(base.Add(time.Hour)))

	_, err = f.svc.OrdersBetween(ctx, base, base.Add(-time.Second))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatistics(t *testing.T) {
	clock := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 1}}})
	require.NoError(t, err)
	clock = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err = f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.b.ID, Quantity: 5}, {InstrumentID: f.a.ID, Quantity: 2}}})
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 1}}})
	require.NoError(t, err)

	months, err := f.svc.CountByMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.MonthCount{{Month: "2024-01", Count: 1}, {Month: "2024-03", Count: 2}}, months)

	quantities, err := f.svc.QuantityByInstrument(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.InstrumentQuantity{{Instrument: "Pandereta", Quantity: 5}, {Instrument: "Guitarra", Quantity: 4}}, quantities)
}

func TestCreatePaymentPreference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePaymentPreference(ctx, 1)
	require.ErrorIs(t, err, ports.ErrPaymentsUnavailable)

	gateway := &fakeGateway{}
	f = newFixture(t, WithPaymentGateway(gateway))
	order, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{Lines: []types.LineInput{{InstrumentID: f.a.ID, Quantity: 1}}})
	require.NoError(t, err)

	pref, err := f.svc.CreatePaymentPreference(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, order.ID, gateway.orderID)

	_, err = f.svc.CreatePaymentPreference(ctx, 404)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPlaceOrder_IdempotencyKeyReplaysFirstOrder(t *testing.T) {
	keys := ordersmemory.NewIdempotencyStore()
	f := newFixture(t, WithIdempotencyStore(keys))
	ctx := context.Background()
	input := types.PlaceOrderInput{
		IdempotencyKey: "checkout-7",
		Lines:          []types.LineInput{{InstrumentID: f.a.ID, Quantity: 2}},
	}

	first, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	again, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, []int64{first.ID}, f.publisher.published)

	orders, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	input.Lines[0].Quantity = 3
	_, err = f.svc.PlaceOrder(ctx, input)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	// without a key every call places a new order
	input.IdempotencyKey = ""
	other, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestPlaceOrder_FailedPlacementDoesNotClaimKey(t *testing.T) {
	f := newFixture(t, WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{IdempotencyKey: "k", Lines: []types.LineInput{{InstrumentID: 999, Quantity: 1}}})
	require.ErrorIs(t, err, ports.ErrInstrumentNotFound)

	order, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{IdempotencyKey: "k", Lines: []types.LineInput{{InstrumentID: 999, Quantity: 1}}})
	require.ErrorIs(t, err, ports.ErrInstrumentNotFound)
	assert.Nil(t, order)
}
