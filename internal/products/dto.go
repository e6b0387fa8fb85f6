package products

import "github.com/driveline-labs/storefront-api/pkg/shopify"

// MoneyDTO is a decimal amount string plus its currency code.
type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type ImageDTO struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

type SelectedOptionDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type VariantDTO struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Price            MoneyDTO            `json:"price"`
	AvailableForSale bool                `json:"available_for_sale"`
	SelectedOptions  []SelectedOptionDTO `json:"selected_options,omitempty"`
}

type OptionDTO struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductSummaryDTO is the catalog-grid payload.
type ProductSummaryDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Handle        string    `json:"handle"`
	Price         MoneyDTO  `json:"price"`
	FeaturedImage *ImageDTO `json:"featured_image,omitempty"`
}

// ProductDetailDTO is the detail-page payload. DefaultVariantID points at the
// first available variant so clients can preselect it.
type ProductDetailDTO struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Handle           string       `json:"handle"`
	Price            MoneyDTO     `json:"price"`
	Images           []ImageDTO   `json:"images"`
	Variants         []VariantDTO `json:"variants"`
	Options          []OptionDTO  `json:"options"`
	DefaultVariantID string       `json:"default_variant_id,omitempty"`
}

func newMoneyDTO(m shopify.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount, Currency: m.CurrencyCode}
}

func newProductSummary(p shopify.Product) ProductSummaryDTO {
	summary := ProductSummaryDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Handle:      p.Handle,
		Price:       newMoneyDTO(p.MinPrice),
	}
	if len(p.Images) > 0 {
		summary.FeaturedImage = &ImageDTO{URL: p.Images[0].URL, AltText: p.Images[0].AltText}
	}
	return summary
}

func newProductDetail(p shopify.Product) ProductDetailDTO {
	detail := ProductDetailDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Handle:      p.Handle,
		Price:       newMoneyDTO(p.MinPrice),
		Images:      make([]ImageDTO, 0, len(p.Images)),
		Variants:    make([]VariantDTO, 0, len(p.Variants)),
		Options:     make([]OptionDTO, 0, len(p.Options)),
	}
	for _, img := range p.Images {
		detail.Images = append(detail.Images, ImageDTO{URL: img.URL, AltText: img.AltText})
	}
	for _, variant := range p.Variants {
		dto := VariantDTO{
			ID:               variant.ID,
			Title:            variant.Title,
			Price:            newMoneyDTO(variant.Price),
			AvailableForSale: variant.AvailableForSale,
		}
		for _, opt := range variant.SelectedOptions {
			dto.SelectedOptions = append(dto.SelectedOptions, SelectedOptionDTO(opt))
		}
		detail.Variants = append(detail.Variants, dto)
	}
	for _, opt := range p.Options {
		detail.Options = append(detail.Options, OptionDTO(opt))
	}
	for _, variant := range p.Variants {
		if variant.AvailableForSale {
			detail.DefaultVariantID = variant.ID
			break
		}
	}
	return detail
}
