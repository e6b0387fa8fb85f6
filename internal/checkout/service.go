package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/driveline-labs/storefront-api/internal/cart"
	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
	"github.com/driveline-labs/storefront-api/pkg/shopify"
)

type checkoutClient interface {
	CreateCheckout(ctx context.Context, lines []shopify.CheckoutLine) (*shopify.Checkout, error)
}

type cartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Result is returned to the caller for redirecting into the payment flow.
type Result struct {
	CheckoutURL string `json:"checkout_url"`
	ItemCount   int    `json:"item_count"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
}

// Service turns a session's cart into a remote checkout.
type Service interface {
	CreateCheckout(ctx context.Context, sessionID string) (*Result, error)
}

type service struct {
	client checkoutClient
	carts  cartReader
	logg   *logger.Logger
}

// NewService builds a checkout service over the storefront client and cart store.
func NewService(client checkoutClient, carts cartReader, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("storefront client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	return &service{client: client, carts: carts, logg: logg}, nil
}

// CreateCheckout builds checkout lines from the stored cart rather than from
// anything client-supplied, so prices and quantities cannot be tampered with
// between add-to-cart and checkout.
func (s *service) CreateCheckout(ctx context.Context, sessionID string) (*Result, error) {
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current == nil || len(current.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	total, err := current.Total()
	if err != nil {
		return nil, err
	}

	lines := make([]shopify.CheckoutLine, 0, len(current.Lines))
	for _, line := range current.Lines {
		lines = append(lines, shopify.CheckoutLine{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}

	created, err := s.client.CreateCheckout(ctx, lines)
	if err != nil {
		return nil, err
	}

	result := &Result{
		CheckoutURL: created.URL,
		ItemCount:   current.ItemCount(),
		Total:       total.StringFixed(2),
		Currency:    current.Currency(),
	}

	// The platform's own arithmetic wins when it reports totals; the local
	// figures stay as the fallback when the cost block is absent.
	if created.Total.Amount != "" {
		if platformTotal, parseErr := decimal.NewFromString(created.Total.Amount); parseErr == nil {
			result.Total = platformTotal.StringFixed(2)
			result.Currency = created.Total.CurrencyCode
		}
	}
	if created.TotalQuantity > 0 {
		result.ItemCount = created.TotalQuantity
	}

	// The remote cart now owns the purchase; a failed local clear only means
	// the session keeps a stale copy until it expires.
	if err := s.carts.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.cart_clear_failed")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "item_count", result.ItemCount), "checkout.created")
	}
	return result, nil
}
