package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
)

// OptionSelection records one chosen option value at the time of add.
type OptionSelection struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LineItem is a local cart entry referencing a platform product and variant,
// with a denormalized price snapshot. Identity for merge purposes is VariantID.
type LineItem struct {
	ProductID       string            `json:"product_id"`
	ProductTitle    string            `json:"product_title"`
	ProductHandle   string            `json:"product_handle"`
	VariantID       string            `json:"variant_id"`
	VariantTitle    string            `json:"variant_title"`
	UnitPrice       string            `json:"unit_price"`
	Currency        string            `json:"currency"`
	Quantity        int               `json:"quantity"`
	SelectedOptions []OptionSelection `json:"selected_options,omitempty"`
	ImageURL        string            `json:"image_url,omitempty"`
}

// Cart holds the ordered line items for one session.
type Cart struct {
	Lines []LineItem `json:"lines"`
}

func (item LineItem) validate() error {
	if strings.TrimSpace(item.VariantID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if item.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if strings.TrimSpace(item.Currency) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	if _, err := decimal.NewFromString(item.UnitPrice); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unit price must be a decimal amount")
	}
	return nil
}

// addItem merges by variant id: an existing line gains the new quantity,
// otherwise the item is appended preserving insertion order. Carts are
// single-currency; a mismatched currency is rejected.
func (c *Cart) addItem(item LineItem) error {
	if err := item.validate(); err != nil {
		return err
	}
	if current := c.Currency(); current != "" && !strings.EqualFold(current, item.Currency) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart lines must share a single currency")
	}

	for i := range c.Lines {
		if c.Lines[i].VariantID == item.VariantID {
			c.Lines[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, item)
	return nil
}

// removeItem drops the line with the given variant id. Absent ids are a no-op.
func (c *Cart) removeItem(variantID string) {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// updateQuantity sets the quantity for a line; zero or less removes it.
func (c *Cart) updateQuantity(variantID string, quantity int) {
	if quantity <= 0 {
		c.removeItem(variantID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) clear() {
	c.Lines = nil
}

// Total sums unit price times quantity across all lines.
func (c Cart) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.Lines {
		unit, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored line has unparsable price")
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// ItemCount sums quantities across all lines, for badge display.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Currency reports the cart's single currency, empty when the cart is empty.
func (c Cart) Currency() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return c.Lines[0].Currency
}
