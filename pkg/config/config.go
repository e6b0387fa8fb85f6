package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Shopify ShopifyConfig
	Cart    CartConfig
	Redis   RedisConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if cfg.Cart.UsesRedis() && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("cart backend %q requires %s or %s", cfg.Cart.Backend, EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ShopifyConfig points the API client at a single store's Storefront endpoint.
type ShopifyConfig struct {
	StoreDomain     string        `envconfig:"STOREFRONT_SHOPIFY_STORE_DOMAIN" required:"true"`
	AccessToken     string        `envconfig:"STOREFRONT_SHOPIFY_STOREFRONT_TOKEN" required:"true"`
	APIVersion      string        `envconfig:"STOREFRONT_SHOPIFY_API_VERSION" default:"2025-07"`
	Timeout         time.Duration `envconfig:"STOREFRONT_SHOPIFY_TIMEOUT" default:"10s"`
	CatalogPageSize int           `envconfig:"STOREFRONT_SHOPIFY_CATALOG_PAGE_SIZE" default:"20"`
}

// EndpointURL builds the versioned GraphQL endpoint for the configured store.
func (s ShopifyConfig) EndpointURL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", strings.TrimSpace(s.StoreDomain), strings.TrimSpace(s.APIVersion))
}

type CartConfig struct {
	Backend       string        `envconfig:"STOREFRONT_CART_BACKEND" default:"memory"`
	SessionCookie string        `envconfig:"STOREFRONT_CART_SESSION_COOKIE" default:"storefront_session"`
	SessionTTL    time.Duration `envconfig:"STOREFRONT_CART_SESSION_TTL" default:"24h"`
}

func (c CartConfig) UsesRedis() bool {
	return strings.EqualFold(c.Backend, CartBackendRedis)
}

func (c CartConfig) validate() error {
	switch strings.ToLower(c.Backend) {
	case CartBackendMemory, CartBackendRedis:
		return nil
	default:
		return fmt.Errorf("cart backend must be %q or %q", CartBackendMemory, CartBackendRedis)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
