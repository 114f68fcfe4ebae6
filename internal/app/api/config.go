package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/payments/mercadopago"
	ordersapp "github.com/Apurer/instrumentos-api/internal/domains/orders/application"
	usersession "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/http/session"
)

const (
	DefaultPort              = "8080"
	DefaultCORSAllowedOrigin = "http://localhost:5173"
	DefaultCatalogCacheTTL   = 5 * time.Minute
	DefaultImagesDir         = "images"
	minSessionSecretLength   = 32
)

// Config carries environment-driven settings for the API, worker and purger processes.
type Config struct {
	Port              string
	PostgresDSN       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CatalogCacheTTL   time.Duration
	AMQPURL           string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	CORSAllowedOrigin string
	SessionSecret     []byte
	SessionCookieName string
	SessionTTL        time.Duration
	OrderLocation     *time.Location
	ImagesDir         string
	MercadoPago       mercadopago.Config
	AdminUsername     string
	AdminPassword     string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if val := strings.TrimSpace(getenv(key)); val != "" {
			return val
		}
		return fallback
	}
	cfg := Config{
		Port:              env("PORT", DefaultPort),
		PostgresDSN:       env("POSTGRES_DSN", ""),
		RedisAddr:         env("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD"),
		AMQPURL:           env("AMQP_URL", ""),
		TemporalAddress:   env("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: env("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(getenv("TEMPORAL_DISABLED")),
		CORSAllowedOrigin: env("CORS_ALLOWED_ORIGIN", DefaultCORSAllowedOrigin),
		SessionCookieName: env("SESSION_COOKIE_NAME", usersession.DefaultCookieName),
		ImagesDir:         env("IMAGES_DIR", DefaultImagesDir),
		AdminUsername:     env("ADMIN_USERNAME", ""),
		AdminPassword:     getenv("ADMIN_PASSWORD"),
		MercadoPago: mercadopago.Config{
			AccessToken: env("MERCADOPAGO_ACCESS_TOKEN", ""),
			Currency:    env("MERCADOPAGO_CURRENCY", mercadopago.DefaultCurrency),
			SuccessURL:  env("MERCADOPAGO_SUCCESS_URL", ""),
			FailureURL:  env("MERCADOPAGO_FAILURE_URL", ""),
			PendingURL:  env("MERCADOPAGO_PENDING_URL", ""),
		},
	}

	var err error
	if cfg.RedisDB, err = nonNegativeInt(getenv, "REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	cacheSeconds, err := positiveInt(getenv, "CATALOG_CACHE_TTL_SECONDS", int(DefaultCatalogCacheTTL.Seconds()))
	if err != nil {
		return Config{}, err
	}
	cfg.CatalogCacheTTL = time.Duration(cacheSeconds) * time.Second

	ttlHours, err := positiveInt(getenv, "SESSION_TTL_HOURS", int(usersession.DefaultTTL.Hours()))
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	mpTimeout, err := positiveInt(getenv, "MERCADOPAGO_TIMEOUT_SECONDS", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.MercadoPago.Timeout = time.Duration(mpTimeout) * time.Second

	if secret := getenv("SESSION_SECRET"); secret != "" {
		if len(secret) < minSessionSecretLength {
			return Config{}, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLength)
		}
		cfg.SessionSecret = []byte(secret)
	}

	zone := env("ORDER_TIMEZONE", ordersapp.DefaultTimezone)
	if cfg.OrderLocation, err = time.LoadLocation(zone); err != nil {
		return Config{}, fmt.Errorf("ORDER_TIMEZONE %q: %w", zone, err)
	}

	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

func positiveInt(getenv func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func nonNegativeInt(getenv func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return value, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
