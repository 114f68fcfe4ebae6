package instrumentosserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
	reportsports "github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

// IdempotencyKeyHeader deduplicates order placement retries.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires orders, their workflows and the sales report.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
	reports   reportsports.Service
}

func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator, reports reportsports.Service) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, reports: reports}
}

// Post /api/pedidos
// Places an order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(payload, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	order, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /api/pedidos
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/pedidos/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/pedidos/:id/preferencia
// Creates a Mercado Pago checkout preference
func (api *OrderAPI) CreatePaymentPreference(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pref, err := api.service.CreatePaymentPreference(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromPreference(pref))
}

// Get /api/pedidos/excel-pedidos
// Downloads the sales report for [fechaDesde, fechaHasta]
func (api *OrderAPI) DownloadSalesReport(c *gin.Context) {
	from, err := parseTimeQuery(c, "fechaDesde")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	to, err := parseTimeQuery(c, "fechaHasta")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		respondBadRequest(c, fmt.Errorf("fechaHasta precedes fechaDesde"))
		return
	}
	doc, err := api.reports.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc)
}

// Get /api/pedidos/chart/pedidos-by-month
func (api *OrderAPI) OrdersByMonth(c *gin.Context) {
	counts, err := api.service.CountByMonth(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.MonthCountRows(counts))
}

// Get /api/pedidos/chart/quantities-by-instrument
func (api *OrderAPI) QuantitiesByInstrument(c *gin.Context) {
	quantities, err := api.service.QuantityByInstrument(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.InstrumentQuantityRows(quantities))
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", name, err)
	}
	return &parsed, nil
}
