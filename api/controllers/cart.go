package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/driveline-labs/storefront-api/api/middleware"
	"github.com/driveline-labs/storefront-api/api/responses"
	"github.com/driveline-labs/storefront-api/api/validators"
	cartsvc "github.com/driveline-labs/storefront-api/internal/cart"
	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
)

type addCartItemRequest struct {
	ProductID       string                  `json:"product_id" validate:"required"`
	ProductTitle    string                  `json:"product_title" validate:"required"`
	ProductHandle   string                  `json:"product_handle,omitempty"`
	VariantID       string                  `json:"variant_id" validate:"required"`
	VariantTitle    string                  `json:"variant_title,omitempty"`
	UnitPrice       string                  `json:"unit_price" validate:"required"`
	Currency        string                  `json:"currency" validate:"required,len=3"`
	Quantity        int                     `json:"quantity" validate:"required,min=1"`
	SelectedOptions []selectedOptionRequest `json:"selected_options,omitempty" validate:"omitempty,dive"`
	ImageURL        string                  `json:"image_url,omitempty"`
}

type selectedOptionRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type cartResponse struct {
	Lines     []cartsvc.LineItem `json:"lines"`
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
	Currency  string             `json:"currency,omitempty"`
}

func newCartResponse(cart *cartsvc.Cart) (cartResponse, error) {
	total, err := cart.Total()
	if err != nil {
		return cartResponse{}, err
	}
	lines := cart.Lines
	if lines == nil {
		lines = []cartsvc.LineItem{}
	}
	return cartResponse{
		Lines:     lines,
		ItemCount: cart.ItemCount(),
		Total:     total.StringFixed(2),
		Currency:  cart.Currency(),
	}, nil
}

func sessionID(r *http.Request) (string, error) {
	id := middleware.SessionIDFromContext(r.Context())
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return id, nil
}

func FetchCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, cart, http.StatusOK)
	}
}

func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := cartsvc.LineItem{
			ProductID:     strings.TrimSpace(payload.ProductID),
			ProductTitle:  strings.TrimSpace(payload.ProductTitle),
			ProductHandle: strings.TrimSpace(payload.ProductHandle),
			VariantID:     strings.TrimSpace(payload.VariantID),
			VariantTitle:  strings.TrimSpace(payload.VariantTitle),
			UnitPrice:     strings.TrimSpace(payload.UnitPrice),
			Currency:      strings.ToUpper(strings.TrimSpace(payload.Currency)),
			Quantity:      payload.Quantity,
			ImageURL:      strings.TrimSpace(payload.ImageURL),
		}
		for _, opt := range payload.SelectedOptions {
			item.SelectedOptions = append(item.SelectedOptions, cartsvc.OptionSelection{
				Name:  opt.Name,
				Value: opt.Value,
			})
		}

		cart, err := svc.AddItem(r.Context(), id, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, cart, http.StatusCreated)
	}
}

func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variantID := chi.URLParam(r, "variantId")

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), id, variantID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, cart, http.StatusOK)
	}
}

func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), id, chi.URLParam(r, "variantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, cart, http.StatusOK)
	}
}

func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, &cartsvc.Cart{}, http.StatusOK)
	}
}

func writeCart(w http.ResponseWriter, r *http.Request, logg *logger.Logger, cart *cartsvc.Cart, status int) {
	payload, err := newCartResponse(cart)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, status, payload)
}
