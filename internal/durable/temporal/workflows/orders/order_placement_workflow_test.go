package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	catalogmemory "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/instrumentos-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/instrumentos-api/internal/durable/temporal/activities/orders"
)

func newEnvironment(t *testing.T) (*testsuite.TestWorkflowEnvironment, int64) {
	t.Helper()
	instruments := catalogmemory.NewInstrumentRepository()
	guitar, err := instruments.Save(context.Background(), &catalogdomain.Instrument{
		Name: "Guitarra", Brand: "Fender", Model: "Strat", Price: decimal.RequireFromString("100.00"), ShippingCost: "G",
	})
	require.NoError(t, err)
	service := ordersapp.NewService(ordersmemory.NewStore(instruments), ordersapp.WithLocation(time.UTC))

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(orderactivities.NewActivities(service).PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	return env, guitar.ID
}

func TestOrderPlacementWorkflow_PersistsOrder(t *testing.T) {
	env, guitarID := newEnvironment(t)

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{
		Command: orderstypes.PlaceOrderInput{Lines: []orderstypes.LineInput{{InstrumentID: guitarID, Quantity: 3}}},
		TraceID: "trace-1",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	assert.NotZero(t, order.ID)
	assert.Equal(t, "300.00", order.Total.StringFixed(2))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, guitarID, order.Lines[0].InstrumentID())
}

func TestOrderPlacementWorkflow_UnknownInstrumentIsNotRetried(t *testing.T) {
	env, _ := newEnvironment(t)

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{
		Command: orderstypes.PlaceOrderInput{Lines: []orderstypes.LineInput{{InstrumentID: 404, Quantity: 1}}},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, orderactivities.ErrTypeInstrumentNotFound, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}
