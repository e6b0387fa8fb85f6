package products

import (
	"context"
	"fmt"

	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
	"github.com/driveline-labs/storefront-api/pkg/shopify"
)

const maxCatalogPageSize = 100

type storefrontClient interface {
	GetProducts(ctx context.Context, first int) ([]shopify.Product, error)
	GetProductByHandle(ctx context.Context, handle string) (*shopify.Product, error)
}

// Service exposes the read-only catalog backed by the platform.
type Service interface {
	ListProducts(ctx context.Context, first int) ([]ProductSummaryDTO, error)
	GetProductByHandle(ctx context.Context, handle string) (*ProductDetailDTO, error)
}

type service struct {
	client storefrontClient
	logg   *logger.Logger
}

// NewService builds a catalog service over the storefront client.
func NewService(client storefrontClient, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("storefront client required")
	}
	return &service{client: client, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, first int) ([]ProductSummaryDTO, error) {
	if first > maxCatalogPageSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("first must be at most %d", maxCatalogPageSize))
	}

	records, err := s.client.GetProducts(ctx, first)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProductSummaryDTO, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, newProductSummary(record))
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "count", len(summaries)), "catalog.listed")
	}
	return summaries, nil
}

func (s *service) GetProductByHandle(ctx context.Context, handle string) (*ProductDetailDTO, error) {
	record, err := s.client.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no product with handle %q", handle))
	}

	detail := newProductDetail(*record)
	return &detail, nil
}
