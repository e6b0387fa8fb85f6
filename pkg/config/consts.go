package config

const (
	EnvPrefix = "storefront"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"

	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvShopifyStore = "STOREFRONT_SHOPIFY_STORE_DOMAIN"
	EnvShopifyToken = "STOREFRONT_SHOPIFY_STOREFRONT_TOKEN"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
	EnvRedisAddr    = "STOREFRONT_REDIS_ADDR"
	EnvCartBackend  = "STOREFRONT_CART_BACKEND"
)
