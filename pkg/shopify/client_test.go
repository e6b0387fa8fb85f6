package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient: srv.Client(),
		endpoint:   srv.URL,
		token:      "test-token",
		pageSize:   DefaultCatalogPageSize,
	}
}

const productNodeFixture = `{
	"id": "gid://shopify/Product/1",
	"title": "Wireless Adapter",
	"description": "Plug and play.",
	"handle": "wireless-adapter",
	"priceRange": {"minVariantPrice": {"amount": "29.99", "currencyCode": "USD"}},
	"images": {"edges": [{"node": {"url": "https://cdn.example.com/a.jpg", "altText": null}}]},
	"variants": {"edges": [{"node": {
		"id": "gid://shopify/ProductVariant/11",
		"title": "Default",
		"price": {"amount": "29.99", "currencyCode": "USD"},
		"availableForSale": true,
		"selectedOptions": [{"name": "Title", "value": "Default"}]
	}}]},
	"options": [{"name": "Title", "values": ["Default"]}]
}`

func graphQLHandler(t *testing.T, respond func(query string, variables map[string]any) (string, int)) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(accessTokenHeader) != "test-token" {
			t.Errorf("missing storefront access token header")
		}
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payload, status := respond(body.Query, body.Variables)
		w.WriteHeader(status)
		if payload != "" {
			w.Write([]byte(payload))
		}
	})
}

func TestGetProductsReturnsFlattenedCatalog(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(query string, variables map[string]any) (string, int) {
		if !strings.Contains(query, "query GetProducts") {
			t.Errorf("unexpected query document: %s", query)
		}
		if first, ok := variables["first"].(float64); !ok || first != 12 {
			t.Errorf("expected first=12 variable, got %v", variables["first"])
		}
		return `{"data": {"products": {"edges": [{"node": ` + productNodeFixture + `}]}}}`, http.StatusOK
	}))

	products, err := client.GetProducts(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected one product, got %d", len(products))
	}

	p := products[0]
	if p.ID == "" || p.Handle == "" {
		t.Fatalf("expected populated id and handle, got %+v", p)
	}
	if _, err := decimal.NewFromString(p.MinPrice.Amount); err != nil {
		t.Fatalf("expected parsable price, got %q", p.MinPrice.Amount)
	}
	if len(p.Variants) != 1 || p.Variants[0].ID == "" {
		t.Fatalf("expected flattened variants, got %+v", p.Variants)
	}
	if len(p.Images) != 1 || p.Images[0].AltText != "" {
		t.Fatalf("expected flattened image with empty alt text, got %+v", p.Images)
	}
}

func TestGetProductsDefaultsCount(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(query string, variables map[string]any) (string, int) {
		if first, ok := variables["first"].(float64); !ok || first != float64(DefaultCatalogPageSize) {
			t.Errorf("expected default first, got %v", variables["first"])
		}
		return `{"data": {"products": {"edges": []}}}`, http.StatusOK
	}))

	products, err := client.GetProducts(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(products))
	}
}

func TestGetProductsSurfacesGraphQLErrors(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(string, map[string]any) (string, int) {
		return `{"data": null, "errors": [{"message": "x"}]}`, http.StatusOK
	}))

	_, err := client.GetProducts(context.Background(), 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeGraphQL {
		t.Fatalf("expected graphql error, got %v", err)
	}
	if !strings.Contains(typed.Message(), "x") {
		t.Fatalf("expected platform message in error, got %q", typed.Message())
	}
}

func TestGetProductsBillingGate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))

	_, err := client.GetProducts(context.Background(), 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBilling {
		t.Fatalf("expected billing error, got %v", err)
	}
}

func TestGetProductsMissingNestingIsDependencyError(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(string, map[string]any) (string, int) {
		return `{"data": {}}`, http.StatusOK
	}))

	_, err := client.GetProducts(context.Background(), 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error on missing nesting, got %v", err)
	}
}

func TestGetProductsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := &Client{
		httpClient: srv.Client(),
		endpoint:   srv.URL,
		token:      "test-token",
		pageSize:   DefaultCatalogPageSize,
	}
	srv.Close()

	_, err := client.GetProducts(context.Background(), 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network error against closed server, got %v", err)
	}
}

func TestGetProductByHandleNotFoundIsNil(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(query string, variables map[string]any) (string, int) {
		if variables["handle"] != "missing-handle" {
			t.Errorf("expected handle variable, got %v", variables["handle"])
		}
		return `{"data": {"productByHandle": null}}`, http.StatusOK
	}))

	product, err := client.GetProductByHandle(context.Background(), "missing-handle")
	if err != nil {
		t.Fatalf("not-found must not be an error, got %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil product, got %+v", product)
	}
}

func TestGetProductByHandleSuccess(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(query string, variables map[string]any) (string, int) {
		if !strings.Contains(query, "query GetProductByHandle") {
			t.Errorf("unexpected query document")
		}
		return `{"data": {"productByHandle": ` + productNodeFixture + `}}`, http.StatusOK
	}))

	product, err := client.GetProductByHandle(context.Background(), "wireless-adapter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product == nil || product.Handle != "wireless-adapter" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestGetProductByHandleRejectsEmptyHandle(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.GetProductByHandle(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCheckoutAppendsChannelParam(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(query string, variables map[string]any) (string, int) {
		if !strings.Contains(query, "mutation cartCreate") {
			t.Errorf("unexpected mutation document")
		}
		input, _ := variables["input"].(map[string]any)
		lines, _ := input["lines"].([]any)
		if len(lines) != 1 {
			t.Errorf("expected one line, got %v", variables)
		}
		line, _ := lines[0].(map[string]any)
		if line["merchandiseId"] != "v1" || line["quantity"] != float64(2) {
			t.Errorf("unexpected line payload: %v", line)
		}
		return `{"data": {"cartCreate": {
			"cart": {
				"id": "cart-1",
				"checkoutUrl": "https://demo-store.myshopify.com/cart/c/abc123",
				"totalQuantity": 2,
				"cost": {"totalAmount": {"amount": "59.98", "currencyCode": "USD"}}
			},
			"userErrors": []
		}}}`, http.StatusOK
	}))

	checkout, err := client.CreateCheckout(context.Background(), []CheckoutLine{{VariantID: "v1", Quantity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.Total.Amount != "59.98" || checkout.Total.CurrencyCode != "USD" {
		t.Fatalf("expected platform totals decoded, got %+v", checkout.Total)
	}
	if checkout.TotalQuantity != 2 {
		t.Fatalf("unexpected total quantity %d", checkout.TotalQuantity)
	}

	parsed, err := url.Parse(checkout.URL)
	if err != nil {
		t.Fatalf("invalid checkout url: %v", err)
	}
	if parsed.Path != "/cart/c/abc123" {
		t.Fatalf("path must be unchanged, got %q", parsed.Path)
	}
	if parsed.Query().Get("channel") != "online_store" {
		t.Fatalf("expected channel param, got %q", parsed.RawQuery)
	}
}

func TestCreateCheckoutUserErrors(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(string, map[string]any) (string, int) {
		return `{"data": {"cartCreate": {
			"cart": null,
			"userErrors": [{"field": ["lines"], "message": "variant is unavailable"}]
		}}}`, http.StatusOK
	}))

	_, err := client.CreateCheckout(context.Background(), []CheckoutLine{{VariantID: "v1", Quantity: 1}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCheckout {
		t.Fatalf("expected checkout error, got %v", err)
	}
	if !strings.Contains(typed.Message(), "variant is unavailable") {
		t.Fatalf("expected user error message, got %q", typed.Message())
	}
}

func TestCreateCheckoutMissingURL(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(string, map[string]any) (string, int) {
		return `{"data": {"cartCreate": {"cart": {"id": "cart-1", "checkoutUrl": "", "totalQuantity": 1}, "userErrors": []}}}`, http.StatusOK
	}))

	_, err := client.CreateCheckout(context.Background(), []CheckoutLine{{VariantID: "v1", Quantity: 1}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCheckout {
		t.Fatalf("expected checkout error on missing url, got %v", err)
	}
}

func TestCreateCheckoutMissingCostOmitsTotals(t *testing.T) {
	client := newTestClient(t, graphQLHandler(t, func(string, map[string]any) (string, int) {
		return `{"data": {"cartCreate": {
			"cart": {"id": "cart-1", "checkoutUrl": "https://demo-store.myshopify.com/cart/c/abc123", "totalQuantity": 1},
			"userErrors": []
		}}}`, http.StatusOK
	}))

	checkout, err := client.CreateCheckout(context.Background(), []CheckoutLine{{VariantID: "v1", Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.Total.Amount != "" || checkout.Total.CurrencyCode != "" {
		t.Fatalf("expected zero-valued totals without cost block, got %+v", checkout.Total)
	}
}

func TestCreateCheckoutValidatesLines(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	cases := [][]CheckoutLine{
		nil,
		{{VariantID: "", Quantity: 1}},
		{{VariantID: "v1", Quantity: 0}},
	}
	for _, lines := range cases {
		_, err := client.CreateCheckout(context.Background(), lines)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", lines, err)
		}
	}
}
