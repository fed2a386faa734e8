package repository

import (
	"context"
	"sync"

	"product-catalogue/internal/products"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository with the same version-check
// semantics as PostgresRepository. It backs tests and local runs.
type MemoryRepository struct {
	mu         sync.Mutex
	bySku      map[string]products.Product
	categories map[string]uuid.UUID
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		bySku:      make(map[string]products.Product),
		categories: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(_ context.Context, product products.Product, onDuplicateSku error) (products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySku[product.SKU]; ok {
		return products.Product{}, onDuplicateSku
	}

	product.Version = 0
	product.Category = r.resolveCategory(product.Category)
	r.bySku[product.SKU] = clone(product)
	return clone(product), nil
}

func (r *MemoryRepository) GetBySku(_ context.Context, sku string, onNotFound error) (products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.bySku[sku]
	if !ok {
		return products.Product{}, onNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) Update(
	_ context.Context,
	product products.Product,
	expectedVersion *int,
	onNotFound, onOutdatedVersion, _ error,
) (products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bySku[product.SKU]
	if !ok {
		return products.Product{}, onNotFound
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return products.Product{}, onOutdatedVersion
	}

	product.ID = current.ID
	product.Version = current.Version + 1
	product.Category = r.resolveCategory(product.Category)
	r.bySku[product.SKU] = clone(product)
	return clone(product), nil
}

func (r *MemoryRepository) Delete(_ context.Context, sku string, onNotFound error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySku[sku]; !ok {
		return false, onNotFound
	}
	delete(r.bySku, sku)
	return true, nil
}

func (r *MemoryRepository) Health() error {
	return nil
}

// Categories returns the number of known categories.
func (r *MemoryRepository) Categories() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.categories)
}

func (r *MemoryRepository) resolveCategory(category *products.Category) *products.Category {
	if category == nil {
		return nil
	}
	id, ok := r.categories[category.Name]
	if !ok {
		id = uuid.New()
		r.categories[category.Name] = id
	}
	return &products.Category{ID: id, Name: category.Name}
}

func clone(p products.Product) products.Product {
	if p.Price != nil {
		price := *p.Price
		p.Price = &price
	}
	if p.Inventory != nil {
		inventory := *p.Inventory
		p.Inventory = &inventory
	}
	if p.Category != nil {
		category := *p.Category
		p.Category = &category
	}
	return p
}
