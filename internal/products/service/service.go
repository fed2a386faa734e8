package service

import (
	"context"
	"fmt"
	"log/slog"

	"product-catalogue/internal/products"

	"github.com/prometheus/client_golang/prometheus"
)

// Repository is the write-side storage port. Each on* argument is the error
// the adapter must return when it detects that condition.
type Repository interface {
	Create(ctx context.Context, product products.Product, onDuplicateSku error) (products.Product, error)
	GetBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error)
	Update(ctx context.Context, product products.Product, expectedVersion *int, onNotFound, onOutdatedVersion, onDuplicate error) (products.Product, error)
	Delete(ctx context.Context, sku string, onNotFound error) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, event products.ProductEvent) error
}

// Counters groups the write-side business metrics.
type Counters struct {
	Created   prometheus.Counter
	Updated   prometheus.Counter
	Deleted   prometheus.Counter
	Conflicts prometheus.Counter
}

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	counters  Counters
}

func New(repo Repository, publisher Publisher, logger *slog.Logger, counters Counters) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		counters:  counters,
	}
}

func (s *Service) CreateProduct(ctx context.Context, params products.ProductParams) (products.Product, error) {
	product, err := products.NewProduct(params)
	if err != nil {
		return products.Product{}, err
	}

	created, err := s.repo.Create(ctx, product, products.ErrProductAlreadyExists)
	if err != nil {
		return products.Product{}, s.fail(err, products.ErrCreateProduct, product.SKU)
	}

	// The event carries the validated input, not the stored record.
	if err := s.publisher.Publish(ctx, products.CreatedEvent(product)); err != nil {
		return products.Product{}, s.fail(err, products.ErrCreateProduct, product.SKU)
	}

	s.counters.Created.Inc()
	return created, nil
}

func (s *Service) GetProduct(ctx context.Context, sku string) (products.Product, error) {
	if err := products.ValidateSKU(sku); err != nil {
		return products.Product{}, err
	}

	product, err := s.repo.GetBySku(ctx, sku, products.ErrNotFound)
	if err != nil {
		return products.Product{}, s.fail(err, products.ErrGetProduct, sku)
	}
	return product, nil
}

// UpdateProduct replaces every field of the product identified by sku. When
// expectedVersion is nil the repository checks against the version it reads.
func (s *Service) UpdateProduct(ctx context.Context, sku string, params products.ProductParams, expectedVersion *int) (products.Product, error) {
	params.SKU = sku
	product, err := products.NewProduct(params)
	if err != nil {
		return products.Product{}, err
	}

	updated, err := s.repo.Update(ctx, product, expectedVersion,
		products.ErrNotFound,
		products.ErrOutdatedVersion,
		products.ErrDuplicatedProduct,
	)
	if err != nil {
		if products.IsConflict(err) {
			s.counters.Conflicts.Inc()
		}
		return products.Product{}, s.fail(err, products.ErrUpdateProduct, sku)
	}

	// Unlike create, the event carries the refreshed record so the read side
	// sees the committed version.
	if err := s.publisher.Publish(ctx, products.UpdatedEvent(updated)); err != nil {
		return products.Product{}, s.fail(err, products.ErrUpdateProduct, sku)
	}

	s.counters.Updated.Inc()
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, sku string) error {
	if err := products.ValidateSKU(sku); err != nil {
		return err
	}

	if _, err := s.repo.Delete(ctx, sku, products.ErrNotFound); err != nil {
		return s.fail(err, products.ErrDeleteProduct, sku)
	}

	if err := s.publisher.Publish(ctx, products.DeletedEvent(sku)); err != nil {
		return s.fail(err, products.ErrDeleteProduct, sku)
	}

	s.counters.Deleted.Inc()
	return nil
}

// fail lets domain errors through unchanged and rewraps anything else into
// the operation's generic error, logging the cause.
func (s *Service) fail(err, generic error, sku string) error {
	if products.IsDomain(err) {
		return err
	}
	s.logger.Error(generic.Error(), "sku", sku, "error", err)
	return fmt.Errorf("%w: %v", generic, err)
}
