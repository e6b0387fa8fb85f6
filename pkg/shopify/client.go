package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/driveline-labs/storefront-api/pkg/config"
	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
)

const (
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	checkoutChannel   = "online_store"

	// DefaultCatalogPageSize caps catalog fetches when callers pass no count.
	DefaultCatalogPageSize = 20
)

var (
	errStoreDomainRequired = errors.New("shopify store domain is required")
	errAccessTokenRequired = errors.New("shopify storefront access token is required")
	errLoggerRequired      = errors.New("shopify logger is required")
)

// Client is the single point of contact with the Storefront GraphQL endpoint.
// It sends fixed documents, validates response structure, and maps platform
// failures into coded errors.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	pageSize   int
	logger     *logger.Logger
}

// New initializes the Storefront wrapper and validates the credentials.
func New(cfg config.ShopifyConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errStoreDomainRequired
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errAccessTokenRequired
	}

	pageSize := cfg.CatalogPageSize
	if pageSize <= 0 {
		pageSize = DefaultCatalogPageSize
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.EndpointURL(),
		token:      token,
		pageSize:   pageSize,
		logger:     logg,
	}, nil
}

// GetProducts fetches up to first products in platform catalog order.
func (c *Client) GetProducts(ctx context.Context, first int) ([]Product, error) {
	if first <= 0 {
		first = c.pageSize
	}

	c.log(ctx, "request", "get_products", map[string]any{"first": first})

	var data productsData
	if err := c.do(ctx, "get_products", productsQuery, map[string]any{"first": first}, &data); err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products missing from platform response")
	}

	products := make([]Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		products = append(products, edge.Node.flatten())
	}

	c.log(ctx, "response", "get_products", map[string]any{"count": len(products)})
	return products, nil
}

// GetProductByHandle fetches a single product by its URL slug. A nil product
// with a nil error means the platform has no match.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product handle is required")
	}

	c.log(ctx, "request", "get_product_by_handle", map[string]any{"handle": handle})

	var data productByHandleData
	if err := c.do(ctx, "get_product_by_handle", productByHandleQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		c.log(ctx, "response", "get_product_by_handle", map[string]any{"handle": handle, "found": false})
		return nil, nil
	}

	product := data.ProductByHandle.flatten()
	c.log(ctx, "response", "get_product_by_handle", map[string]any{"handle": handle, "found": true})
	return &product, nil
}

// CreateCheckout creates a remote cart on the platform and returns its checkout
// URL, tagged with the online store channel, alongside the platform totals.
func (c *Client) CreateCheckout(ctx context.Context, lines []CheckoutLine) (*Checkout, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one checkout line is required")
	}

	wireLines := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.VariantID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout line variant id is required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout line quantity must be at least 1")
		}
		wireLines = append(wireLines, map[string]any{
			"merchandiseId": line.VariantID,
			"quantity":      line.Quantity,
		})
	}

	c.log(ctx, "request", "cart_create", map[string]any{"lines": len(wireLines)})

	var data cartCreateData
	variables := map[string]any{"input": map[string]any{"lines": wireLines}}
	if err := c.do(ctx, "cart_create", cartCreateMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.CartCreate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cartCreate missing from platform response")
	}

	if len(data.CartCreate.UserErrors) > 0 {
		messages := make([]string, 0, len(data.CartCreate.UserErrors))
		for _, userErr := range data.CartCreate.UserErrors {
			messages = append(messages, userErr.Message)
		}
		return nil, pkgerrors.New(pkgerrors.CodeCheckout, fmt.Sprintf("cart creation failed: %s", strings.Join(messages, ", "))).
			WithDetails(map[string]any{"user_errors": messages})
	}

	cart := data.CartCreate.Cart
	if cart == nil || strings.TrimSpace(cart.CheckoutURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeCheckout, "no checkout url returned from platform")
	}

	checkoutURL, err := appendChannelParam(cart.CheckoutURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalid checkout url returned from platform")
	}

	checkout := &Checkout{
		ID:            cart.ID,
		URL:           checkoutURL,
		TotalQuantity: cart.TotalQuantity,
	}
	if cart.Cost != nil {
		checkout.Total = Money(cart.Cost.TotalAmount)
	}

	c.log(ctx, "response", "cart_create", map[string]any{"cart_id": cart.ID})
	return checkout, nil
}

type apiResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "calling storefront endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		c.log(ctx, "error", op, map[string]any{"status": resp.StatusCode})
		return pkgerrors.New(pkgerrors.CodeBilling, "storefront API access requires an active billing plan")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log(ctx, "error", op, map[string]any{"status": resp.StatusCode})
		return pkgerrors.New(pkgerrors.CodeNetwork, fmt.Sprintf("unexpected status %d from storefront endpoint", resp.StatusCode))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding platform response")
	}

	if len(payload.Errors) > 0 {
		messages := make([]string, 0, len(payload.Errors))
		for _, gqlErr := range payload.Errors {
			messages = append(messages, gqlErr.Message)
		}
		c.log(ctx, "error", op, map[string]any{"errors": messages})
		return pkgerrors.New(pkgerrors.CodeGraphQL, fmt.Sprintf("platform returned errors: %s", strings.Join(messages, ", "))).
			WithDetails(map[string]any{"errors": messages})
	}

	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		return pkgerrors.New(pkgerrors.CodeDependency, "platform response has no data")
	}

	if err := json.Unmarshal(payload.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding platform data")
	}
	return nil
}

func appendChannelParam(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("channel", checkoutChannel)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("shopify %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Debug(ctx, fmt.Sprintf("shopify %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "password"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
