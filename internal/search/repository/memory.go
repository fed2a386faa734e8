package repository

import (
	"context"
	"sort"
	"sync"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"
)

// MemoryRepository is an in-process read store keyed by sku.
type MemoryRepository struct {
	mu    sync.RWMutex
	bySku map[string]products.Product
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{bySku: make(map[string]products.Product)}
}

func (r *MemoryRepository) Upsert(_ context.Context, product products.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySku[product.SKU] = product
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sku string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySku, sku)
	return nil
}

func (r *MemoryRepository) FindBySku(_ context.Context, sku string, onNotFound error) (products.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bySku[sku]
	if !ok {
		return products.Product{}, onNotFound
	}
	return p, nil
}

func (r *MemoryRepository) FindByParams(_ context.Context, params search.Params, onNotFound error) ([]products.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []products.Product
	for _, p := range r.bySku {
		if params.Match(p) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil, onNotFound
	}
	sort.Slice(found, func(i, j int) bool { return found[i].SKU < found[j].SKU })
	return found, nil
}

func (r *MemoryRepository) Health() error {
	return nil
}
