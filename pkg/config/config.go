package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "shopstream"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "SHOPSTREAM_APP_ENV"
	EnvPort           = "SHOPSTREAM_APP_PORT"
	EnvRedisURL       = "SHOPSTREAM_REDIS_URL"
	EnvCatalogBaseURL = "SHOPSTREAM_CATALOG_BASE_URL"
	EnvOrdersBaseURL  = "SHOPSTREAM_ORDERS_BASE_URL"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Orders   OrdersConfig
	Upstream UpstreamAuthConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPSTREAM_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPSTREAM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPSTREAM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPSTREAM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPSTREAM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPSTREAM_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPSTREAM_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPSTREAM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPSTREAM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPSTREAM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPSTREAM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPSTREAM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPSTREAM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CatalogConfig points at the upstream product/inventory API.
type CatalogConfig struct {
	BaseURL string        `envconfig:"SHOPSTREAM_CATALOG_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPSTREAM_CATALOG_TIMEOUT" default:"10s"`
}

// OrdersConfig points at the upstream order API.
type OrdersConfig struct {
	BaseURL string        `envconfig:"SHOPSTREAM_ORDERS_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPSTREAM_ORDERS_TIMEOUT" default:"10s"`
}

// UpstreamAuthConfig carries the service credentials attached to upstream
// gateway calls. All fields are optional; without them requests go out bare.
type UpstreamAuthConfig struct {
	RefreshURL   string `envconfig:"SHOPSTREAM_UPSTREAM_REFRESH_URL"`
	AccessToken  string `envconfig:"SHOPSTREAM_UPSTREAM_ACCESS_TOKEN"`
	RefreshToken string `envconfig:"SHOPSTREAM_UPSTREAM_REFRESH_TOKEN"`
}

// CheckoutConfig holds the funnel-stage item ceilings and the flat shipping
// rate. The cart view and the checkout form intentionally carry different
// ceilings.
type CheckoutConfig struct {
	CartMaxItems  int    `envconfig:"SHOPSTREAM_CART_MAX_ITEMS" default:"10"`
	OrderMaxItems int    `envconfig:"SHOPSTREAM_ORDER_MAX_ITEMS" default:"50"`
	FlatShipping  string `envconfig:"SHOPSTREAM_FLAT_SHIPPING" default:"5.00"`
}
