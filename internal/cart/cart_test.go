package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(variantID, price string, qty int) LineItem {
	return LineItem{
		ProductID: "gid://shopify/Product/1",
		VariantID: variantID,
		UnitPrice: price,
		Currency:  "USD",
		Quantity:  qty,
	}
}

func TestAddItemMergesByVariant(t *testing.T) {
	var c Cart

	require.NoError(t, c.addItem(line("v1", "29.99", 1)))
	require.NoError(t, c.addItem(line("v2", "9.99", 1)))
	require.NoError(t, c.addItem(line("v1", "29.99", 2)))

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "v1", c.Lines[0].VariantID)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, "v2", c.Lines[1].VariantID)
	assert.Equal(t, 4, c.ItemCount())
}

func TestLineItemValidation(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
	}{
		{"missing variant", line("", "10.00", 1)},
		{"zero quantity", line("v1", "10.00", 0)},
		{"negative quantity", line("v1", "10.00", -2)},
		{"bad price", line("v1", "free", 1)},
		{"missing currency", LineItem{VariantID: "v1", UnitPrice: "10.00", Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Cart
			assert.Error(t, c.addItem(tc.item))
			assert.Empty(t, c.Lines)
		})
	}
}

func TestAddItemRejectsMixedCurrency(t *testing.T) {
	var c Cart
	require.NoError(t, c.addItem(line("v1", "10.00", 1)))

	other := line("v2", "10.00", 1)
	other.Currency = "EUR"
	assert.Error(t, c.addItem(other))
	assert.Len(t, c.Lines, 1)
}

func TestAddItemCurrencyCaseInsensitive(t *testing.T) {
	var c Cart
	require.NoError(t, c.addItem(line("v1", "10.00", 1)))

	same := line("v2", "10.00", 1)
	same.Currency = "usd"
	assert.NoError(t, c.addItem(same))
}

func TestUpdateQuantity(t *testing.T) {
	var c Cart
	require.NoError(t, c.addItem(line("v1", "10.00", 2)))

	c.updateQuantity("v1", 5)
	assert.Equal(t, 5, c.Lines[0].Quantity)

	c.updateQuantity("v1", 0)
	assert.Empty(t, c.Lines)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	var c Cart
	require.NoError(t, c.addItem(line("v1", "10.00", 1)))

	c.removeItem("missing")
	assert.Len(t, c.Lines, 1)
}

func TestTotalUsesExactDecimals(t *testing.T) {
	var c Cart
	require.NoError(t, c.addItem(line("v1", "0.10", 3)))
	require.NoError(t, c.addItem(line("v2", "29.99", 2)))

	total, err := c.Total()
	require.NoError(t, err)
	assert.Equal(t, "60.28", total.StringFixed(2))
}

func TestCurrencyEmptyCart(t *testing.T) {
	var c Cart
	assert.Empty(t, c.Currency())

	total, err := c.Total()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
