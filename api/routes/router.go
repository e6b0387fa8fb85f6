package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/driveline-labs/storefront-api/api/controllers"
	"github.com/driveline-labs/storefront-api/api/middleware"
	cartsvc "github.com/driveline-labs/storefront-api/internal/cart"
	checkoutsvc "github.com/driveline-labs/storefront-api/internal/checkout"
	productsvc "github.com/driveline-labs/storefront-api/internal/products"
	"github.com/driveline-labs/storefront-api/pkg/config"
	"github.com/driveline-labs/storefront-api/pkg/logger"
	"github.com/driveline-labs/storefront-api/pkg/metrics"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	CartPinger      controllers.Pinger
	ProductService  productsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	Registry        *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.CORS),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.CartPinger, deps.Logger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Config.Cart, deps.Logger))

		r.Get("/products", controllers.ListProducts(deps.ProductService, deps.Logger))
		r.Get("/products/{handle}", controllers.ProductDetail(deps.ProductService, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.FetchCart(deps.CartService, deps.Logger))
			r.Delete("/", controllers.ClearCart(deps.CartService, deps.Logger))
			r.Post("/items", controllers.AddCartItem(deps.CartService, deps.Logger))
			r.Patch("/items/{variantId}", controllers.UpdateCartItem(deps.CartService, deps.Logger))
			r.Delete("/items/{variantId}", controllers.RemoveCartItem(deps.CartService, deps.Logger))
		})

		r.Post("/checkout", controllers.CreateCheckout(deps.CheckoutService, deps.Logger))
	})

	return r
}
