package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cartsvc "github.com/driveline-labs/storefront-api/internal/cart"
	checkoutsvc "github.com/driveline-labs/storefront-api/internal/checkout"
	productsvc "github.com/driveline-labs/storefront-api/internal/products"
	"github.com/driveline-labs/storefront-api/pkg/config"
	"github.com/driveline-labs/storefront-api/pkg/metrics"
)

type stubProductService struct{}

func (stubProductService) ListProducts(ctx context.Context, first int) ([]productsvc.ProductSummaryDTO, error) {
	return []productsvc.ProductSummaryDTO{{ID: "gid://shopify/Product/1", Handle: "trail-jacket"}}, nil
}

func (stubProductService) GetProductByHandle(ctx context.Context, handle string) (*productsvc.ProductDetailDTO, error) {
	return &productsvc.ProductDetailDTO{ID: "gid://shopify/Product/1", Handle: handle}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, sessionID string) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) AddItem(ctx context.Context, sessionID string, item cartsvc.LineItem) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{Lines: []cartsvc.LineItem{item}}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, sessionID, variantID string) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) Clear(ctx context.Context, sessionID string) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateCheckout(ctx context.Context, sessionID string) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{CheckoutURL: "https://shop.example.com/cart/c/abc?channel=online_store"}, nil
}

func testRouter() http.Handler {
	registry := prometheus.NewRegistry()
	return NewRouter(Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "test"},
			Cart: config.CartConfig{
				SessionCookie: "storefront_session",
				SessionTTL:    time.Hour,
			},
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		},
		ProductService:  stubProductService{},
		CartService:     stubCartService{},
		CheckoutService: stubCheckoutService{},
		Registry:        registry,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
	})
}

func TestRouterRoutes(t *testing.T) {
	router := testRouter()

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products/trail-jacket", "", http.StatusOK},
		{http.MethodGet, "/api/v1/cart", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/cart", "", http.StatusOK},
		{http.MethodPatch, "/api/v1/cart/items/v1", `{"quantity": 2}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/cart/items/v1", "", http.StatusOK},
		{http.MethodPost, "/api/v1/checkout", "", http.StatusCreated},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		} else {
			req = httptest.NewRequest(tc.method, tc.path, nil)
		}

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d got %d (%s)", tc.method, tc.path, tc.want, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterAddCartItem(t *testing.T) {
	router := testRouter()

	body := `{
		"product_id": "gid://shopify/Product/1",
		"product_title": "Trail Jacket",
		"variant_id": "gid://shopify/ProductVariant/11",
		"unit_price": "29.99",
		"currency": "USD",
		"quantity": 1
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestRouterIssuesSessionCookie(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == "storefront_session" && cookie.Value != "" {
			return
		}
	}
	t.Fatalf("expected storefront_session cookie, got %v", resp.Result().Cookies())
}

func TestRouterSetsRequestIDHeader(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}
}
