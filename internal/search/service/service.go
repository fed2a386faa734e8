package service

import (
	"context"
	"fmt"
	"log/slog"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"
)

// Repository is the read-side query port.
type Repository interface {
	FindBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error)
	FindByParams(ctx context.Context, params search.Params, onNotFound error) ([]products.Product, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func New(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) FindBySku(ctx context.Context, sku string) (products.Product, error) {
	product, err := s.repo.FindBySku(ctx, sku, products.ErrNotFound)
	if err != nil {
		return products.Product{}, s.fail(err, "sku", sku)
	}
	return product, nil
}

// FindByParams returns every product matching params. An empty result is
// reported as products.ErrNotFound.
func (s *Service) FindByParams(ctx context.Context, params search.Params) ([]products.Product, error) {
	found, err := s.repo.FindByParams(ctx, params, products.ErrNotFound)
	if err != nil {
		return nil, s.fail(err, "sku", params.SKU, "name", params.Name, "description", params.Description)
	}
	if len(found) == 0 {
		return nil, products.ErrNotFound
	}
	return found, nil
}

func (s *Service) fail(err error, attrs ...any) error {
	if products.IsDomain(err) {
		return err
	}
	s.logger.Error(products.ErrSearchProduct.Error(), append(attrs, "error", err)...)
	return fmt.Errorf("%w: %v", products.ErrSearchProduct, err)
}
