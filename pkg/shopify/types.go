package shopify

// Money is a decimal amount transported as a string plus its currency code.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            Money            `json:"price"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

// ProductOption defines one axis of variant selection (e.g. Size -> S/M/L).
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Handle      string          `json:"handle"`
	MinPrice    Money           `json:"minPrice"`
	Images      []Image         `json:"images"`
	Variants    []Variant       `json:"variants"`
	Options     []ProductOption `json:"options"`
}

// CheckoutLine pairs a variant with the quantity to purchase.
type CheckoutLine struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// Checkout is the created platform cart: where to send the buyer plus the
// totals the platform computed for it. Total is zero-valued when the platform
// omits the cost block.
type Checkout struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Total         Money  `json:"total"`
	TotalQuantity int    `json:"total_quantity"`
}

// Wire-level shapes. The Storefront API nests collections in edges/node
// wrappers; these stay private and are flattened before reaching callers.

type graphQLError struct {
	Message string `json:"message"`
}

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageNode struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

type variantNode struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            moneyNode        `json:"price"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

type productNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Handle      string `json:"handle"`
	PriceRange  *struct {
		MinVariantPrice moneyNode `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images *struct {
		Edges []struct {
			Node imageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants *struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Options []ProductOption `json:"options"`
}

type productsData struct {
	Products *struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productByHandleData struct {
	ProductByHandle *productNode `json:"productByHandle"`
}

type cartCreateData struct {
	CartCreate *struct {
		Cart *struct {
			ID            string `json:"id"`
			CheckoutURL   string `json:"checkoutUrl"`
			TotalQuantity int    `json:"totalQuantity"`
			Cost          *struct {
				TotalAmount moneyNode `json:"totalAmount"`
			} `json:"cost"`
		} `json:"cart"`
		UserErrors []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"cartCreate"`
}

func (n productNode) flatten() Product {
	p := Product{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Handle:      n.Handle,
		Options:     n.Options,
	}
	if n.PriceRange != nil {
		p.MinPrice = Money(n.PriceRange.MinVariantPrice)
	}
	if n.Images != nil {
		for _, edge := range n.Images.Edges {
			img := Image{URL: edge.Node.URL}
			if edge.Node.AltText != nil {
				img.AltText = *edge.Node.AltText
			}
			p.Images = append(p.Images, img)
		}
	}
	if n.Variants != nil {
		for _, edge := range n.Variants.Edges {
			p.Variants = append(p.Variants, Variant{
				ID:               edge.Node.ID,
				Title:            edge.Node.Title,
				Price:            Money(edge.Node.Price),
				AvailableForSale: edge.Node.AvailableForSale,
				SelectedOptions:  edge.Node.SelectedOptions,
			})
		}
	}
	return p
}
