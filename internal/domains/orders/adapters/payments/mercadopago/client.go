package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

const DefaultCurrency = "ARS"

var _ ports.PaymentGateway = (*Client)(nil)

// Config holds the checkout settings for the Mercado Pago API.
type Config struct {
	AccessToken string
	Currency    string
	SuccessURL  string
	FailureURL  string
	PendingURL  string
	Timeout     time.Duration
}

// Client creates checkout preferences through the Mercado Pago SDK.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	preferences preference.Client
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client used as the SDK requester.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient returns a nil client when no access token is configured.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, nil
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	sdkConfig, err := config.New(cfg.AccessToken, config.WithHTTPClient(c.httpClient))
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	c.preferences = preference.NewClient(sdkConfig)
	return c, nil
}

// CreatePreference registers a checkout with one item per order line.
func (c *Client) CreatePreference(ctx context.Context, order *domain.Order) (*ports.Preference, error) {
	if c == nil || c.preferences == nil {
		return nil, ports.ErrPaymentsUnavailable
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	resp, err := c.preferences.Create(ctx, c.buildRequest(order))
	if err != nil {
		return nil, fmt.Errorf("mercadopago create preference for order %d: %w", order.ID, err)
	}
	if resp == nil || resp.ID == "" {
		return nil, errors.New("mercadopago returned an empty preference id")
	}
	return &ports.Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

func (c *Client) buildRequest(order *domain.Order) preference.Request {
	req := preference.Request{
		Items:             make([]preference.ItemRequest, 0, len(order.Lines)),
		ExternalReference: strconv.FormatInt(order.ID, 10),
	}
	for _, line := range order.Lines {
		title := "Instrumento " + strconv.FormatInt(line.InstrumentID(), 10)
		if line.Instrument != nil && line.Instrument.Name != "" {
			title = line.Instrument.Name
		}
		price, _ := line.UnitPrice.Round(2).Float64()
		req.Items = append(req.Items, preference.ItemRequest{
			ID:         strconv.FormatInt(line.InstrumentID(), 10),
			Title:      title,
			Quantity:   int(line.Quantity),
			UnitPrice:  price,
			CurrencyID: c.cfg.Currency,
		})
	}
	if c.cfg.SuccessURL != "" || c.cfg.FailureURL != "" || c.cfg.PendingURL != "" {
		req.BackURLs = &preference.BackURLsRequest{Success: c.cfg.SuccessURL, Failure: c.cfg.FailureURL, Pending: c.cfg.PendingURL}
		if c.cfg.SuccessURL != "" {
			req.AutoReturn = "approved"
		}
	}
	return req
}
