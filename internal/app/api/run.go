package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	instrumentosserver "github.com/Apurer/instrumentos-api/go"

	catalogredis "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/cache/redis"
	catalogobs "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/instrumentos-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	ordersrabbitmq "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/messaging/rabbitmq"
	ordersobs "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/observability"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/payments/mercadopago"
	ordersworkflows "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/instrumentos-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
	reportsimages "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/images"
	reportsobs "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/observability"
	reportspdf "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/pdf"
	reportsxlsx "github.com/Apurer/instrumentos-api/internal/domains/reports/adapters/xlsx"
	reportsapp "github.com/Apurer/instrumentos-api/internal/domains/reports/application"
	usersession "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/session"
	userobs "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/instrumentos-api/internal/domains/users/application"
	"github.com/Apurer/instrumentos-api/internal/shared/access"
	platformobservability "github.com/Apurer/instrumentos-api/internal/platform/observability"
	platformrabbitmq "github.com/Apurer/instrumentos-api/internal/platform/rabbitmq"
	platformredis "github.com/Apurer/instrumentos-api/internal/platform/redis"
)

const ServiceName = "instrumentos-api"

// Run boots the instrument store HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, closeStores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	catalogService, closeCache := buildCatalogService(ctx, cfg, stores, instruments)
	defer closeCache()

	orderService, orderPublisherClose := BuildOrderService(ctx, cfg, stores, instruments)
	defer orderPublisherClose()

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient, cfg.OrderLocation)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	coreUsers := userapp.NewService(stores.Users, userapp.WithLogger(logger))
	userService := userobs.New(
		coreUsers,
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	if cfg.AdminUsername != "" {
		if _, err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	reportService := reportsobs.New(
		reportsapp.NewService(
			catalogService,
			orderService,
			reportspdf.NewProductSheet(),
			reportsxlsx.NewSalesReport(),
			reportsapp.WithImageSource(reportsimages.NewFileSystem(cfg.ImagesDir)),
			reportsapp.WithLocation(cfg.OrderLocation),
			reportsapp.WithLogger(logger),
		),
		reportsobs.WithLogger(logger),
		reportsobs.WithTracer(instruments.Tracer("internal.reports.application")),
		reportsobs.WithMeter(instruments.Meter("internal.reports.application")),
	)

	secret := cfg.SessionSecret
	if secret == nil {
		logger.Warn("SESSION_SECRET not set, generated a random key; sessions end on restart")
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := usersession.NewStore(stores.Sessions, cfg.SessionTTL, secret)

	handlers := instrumentosserver.ApiHandleFunctions{
		AuthAPI:       instrumentosserver.NewAuthAPI(userService, sessionStore),
		InstrumentAPI: instrumentosserver.NewInstrumentAPI(catalogService, reportService),
		CategoryAPI:   instrumentosserver.NewCategoryAPI(catalogService),
		OrderAPI:      instrumentosserver.NewOrderAPI(orderService, orderWorkflows, reportService),
	}
	router := instrumentosserver.NewRouter(handlers, instrumentosserver.RouterOptions{
		ServiceName:       ServiceName,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		SessionStore:      sessionStore,
		SessionCookieName: cfg.SessionCookieName,
		Policy:            access.Default(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("instrumentos API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("instrumentos API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down instrumentos API")
		return server.Shutdown(shutdownCtx)
	}
}

func buildCatalogService(ctx context.Context, cfg Config, stores *Stores, instruments *platformobservability.Instruments) (catalogports.Service, func()) {
	logger := instruments.Logger
	opts := []catalogapp.Option{catalogapp.WithLogger(logger)}
	redisClient, closeRedis := platformredis.ConnectAddr(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if redisClient != nil {
		opts = append(opts, catalogapp.WithCache(catalogredis.NewInstrumentCache(redisClient, cfg.CatalogCacheTTL)))
	}
	service := catalogobs.New(
		catalogapp.NewService(stores.Instruments, stores.Categories, opts...),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	return service, closeRedis
}

// BuildOrderService wires the order service with its optional collaborators: RabbitMQ events and Mercado Pago.
func BuildOrderService(ctx context.Context, cfg Config, stores *Stores, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	logger := instruments.Logger
	opts := []ordersapp.Option{
		ordersapp.WithLogger(logger),
		ordersapp.WithLocation(cfg.OrderLocation),
		ordersapp.WithIdempotencyStore(stores.Idempotency),
	}
	cleanup := func() {}

	if cfg.AMQPURL != "" {
		conn, err := platformrabbitmq.Setup(ctx, cfg.AMQPURL, ordersrabbitmq.ExchangeName, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, order events disabled", slog.String("error", err.Error()))
		} else {
			opts = append(opts, ordersapp.WithEventPublisher(ordersrabbitmq.NewPublisher(conn.Channel)))
			cleanup = func() { _ = conn.Close() }
			logger.Info("order events published to RabbitMQ", slog.String("exchange", ordersrabbitmq.ExchangeName))
		}
	}
	gateway, err := mercadopago.NewClient(cfg.MercadoPago)
	switch {
	case err != nil:
		logger.Warn("Mercado Pago client unavailable, payment preferences disabled", slog.String("error", err.Error()))
	case gateway != nil:
		opts = append(opts, ordersapp.WithPaymentGateway(gateway))
	default:
		logger.Info("MERCADOPAGO_ACCESS_TOKEN not set, payment preferences disabled")
	}

	service := ordersobs.New(
		ordersapp.NewService(stores.Orders, opts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}
