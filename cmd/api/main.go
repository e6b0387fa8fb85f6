package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/driveline-labs/storefront-api/api/controllers"
	"github.com/driveline-labs/storefront-api/api/routes"
	cartsvc "github.com/driveline-labs/storefront-api/internal/cart"
	checkoutsvc "github.com/driveline-labs/storefront-api/internal/checkout"
	productsvc "github.com/driveline-labs/storefront-api/internal/products"
	"github.com/driveline-labs/storefront-api/pkg/config"
	"github.com/driveline-labs/storefront-api/pkg/logger"
	"github.com/driveline-labs/storefront-api/pkg/metrics"
	"github.com/driveline-labs/storefront-api/pkg/redis"
	"github.com/driveline-labs/storefront-api/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	shopifyClient, err := shopify.New(cfg.Shopify, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopify client", err)
		os.Exit(1)
	}

	var cartStore cartsvc.Store
	var cartPinger controllers.Pinger
	if cfg.Cart.UsesRedis() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cartStore = cartsvc.NewRedisStore(redisClient, cfg.Cart.SessionTTL)
		cartPinger = redisClient
	} else {
		cartStore = cartsvc.NewMemoryStore(cfg.Cart.SessionTTL)
	}

	cartService, err := cartsvc.NewService(cartStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(shopifyClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(shopifyClient, cartService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		CartPinger:      cartPinger,
		ProductService:  productService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		Registry:        registry,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "storefront api stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
			os.Exit(1)
		}
		logg.Info(ctx, "storefront api shut down gracefully")
	}
}
