package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"product-catalogue/internal/products"

	"github.com/prometheus/client_golang/prometheus"
)

type mockRepo struct {
	createFn func(ctx context.Context, p products.Product, onDuplicateSku error) (products.Product, error)
	getFn    func(ctx context.Context, sku string, onNotFound error) (products.Product, error)
	updateFn func(ctx context.Context, p products.Product, expectedVersion *int, onNotFound, onOutdated, onDuplicate error) (products.Product, error)
	deleteFn func(ctx context.Context, sku string, onNotFound error) (bool, error)
}

func (m *mockRepo) Create(ctx context.Context, p products.Product, onDuplicateSku error) (products.Product, error) {
	return m.createFn(ctx, p, onDuplicateSku)
}
func (m *mockRepo) GetBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error) {
	return m.getFn(ctx, sku, onNotFound)
}
func (m *mockRepo) Update(ctx context.Context, p products.Product, expectedVersion *int, onNotFound, onOutdated, onDuplicate error) (products.Product, error) {
	return m.updateFn(ctx, p, expectedVersion, onNotFound, onOutdated, onDuplicate)
}
func (m *mockRepo) Delete(ctx context.Context, sku string, onNotFound error) (bool, error) {
	return m.deleteFn(ctx, sku, onNotFound)
}

type mockPublisher struct {
	events []products.ProductEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event products.ProductEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func newTestService(repo Repository, pub Publisher) *Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(repo, pub, logger, Counters{
		Created:   prometheus.NewCounter(prometheus.CounterOpts{Name: "t_created", Help: "t"}),
		Updated:   prometheus.NewCounter(prometheus.CounterOpts{Name: "t_updated", Help: "t"}),
		Deleted:   prometheus.NewCounter(prometheus.CounterOpts{Name: "t_deleted", Help: "t"}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{Name: "t_conflicts", Help: "t"}),
	})
}

func defaultRepo() *mockRepo {
	return &mockRepo{
		createFn: func(_ context.Context, p products.Product, _ error) (products.Product, error) {
			return p, nil
		},
		getFn: func(_ context.Context, sku string, _ error) (products.Product, error) {
			return products.Product{SKU: sku, Name: "stored", Description: "stored"}, nil
		},
		updateFn: func(_ context.Context, p products.Product, _ *int, _, _, _ error) (products.Product, error) {
			p.Version++
			return p, nil
		},
		deleteFn: func(_ context.Context, _ string, _ error) (bool, error) { return true, nil },
	}
}

func params() products.ProductParams {
	return products.ProductParams{
		SKU:         "00056789",
		Name:        "ear phones",
		Description: "something to put on your ears",
		Price:       &products.Price{Value: 10},
		Inventory:   &products.Inventory{Quantity: 10},
	}
}

func TestCreateProduct(t *testing.T) {
	errDB := errors.New("db down")

	tests := []struct {
		name      string
		mutate    func(p *products.ProductParams)
		repoErr   error
		wantErr   error
		wantEvent bool
	}{
		{
			name:      "success",
			wantEvent: true,
		},
		{
			name:    "invalid sku",
			mutate:  func(p *products.ProductParams) { p.SKU = "ab" },
			wantErr: products.ErrInvalidSku,
		},
		{
			name:    "invalid inventory",
			mutate:  func(p *products.ProductParams) { p.Inventory = &products.Inventory{Quantity: 1, Reserved: 5} },
			wantErr: products.ErrInvalidInventory,
		},
		{
			name:    "duplicate sku passes through",
			repoErr: products.ErrProductAlreadyExists,
			wantErr: products.ErrProductAlreadyExists,
		},
		{
			name:    "repo error is rewrapped",
			repoErr: errDB,
			wantErr: products.ErrCreateProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			var gotOnDuplicate error
			repo.createFn = func(_ context.Context, p products.Product, onDuplicateSku error) (products.Product, error) {
				gotOnDuplicate = onDuplicateSku
				if tt.repoErr != nil {
					return products.Product{}, tt.repoErr
				}
				return p, nil
			}
			pub := &mockPublisher{}
			svc := newTestService(repo, pub)

			in := params()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			product, err := svc.CreateProduct(context.Background(), in)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				if len(pub.events) != 0 {
					t.Fatalf("want no events, got %v", pub.events)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotOnDuplicate != products.ErrProductAlreadyExists {
				t.Fatalf("want onDuplicateSku %v, got %v", products.ErrProductAlreadyExists, gotOnDuplicate)
			}
			if product.SKU != in.SKU {
				t.Fatalf("want sku %q, got %q", in.SKU, product.SKU)
			}
			if len(pub.events) != 1 || pub.events[0].Type != products.EventCreated {
				t.Fatalf("want one created event, got %v", pub.events)
			}
			if pub.events[0].Product.SKU != in.SKU {
				t.Fatalf("want event for sku %q, got %q", in.SKU, pub.events[0].Product.SKU)
			}
		})
	}
}

func TestCreateProduct_InfrastructureCauseIsHidden(t *testing.T) {
	errDB := errors.New("db down")
	repo := defaultRepo()
	repo.createFn = func(_ context.Context, _ products.Product, _ error) (products.Product, error) {
		return products.Product{}, errDB
	}
	svc := newTestService(repo, &mockPublisher{})

	_, err := svc.CreateProduct(context.Background(), params())
	if errors.Is(err, errDB) {
		t.Fatalf("cause must not be reachable through errors.Is, got %v", err)
	}
}

func TestCreateProduct_PublishFail_ReturnsErrorWithoutRollback(t *testing.T) {
	created := 0
	repo := defaultRepo()
	repo.createFn = func(_ context.Context, p products.Product, _ error) (products.Product, error) {
		created++
		return p, nil
	}
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newTestService(repo, pub)

	_, err := svc.CreateProduct(context.Background(), params())
	if !errors.Is(err, products.ErrCreateProduct) {
		t.Fatalf("want ErrCreateProduct, got %v", err)
	}
	if created != 1 {
		t.Fatalf("want product stored once, got %d", created)
	}
}

func TestGetProduct(t *testing.T) {
	tests := []struct {
		name    string
		sku     string
		repoErr error
		wantErr error
	}{
		{name: "success", sku: "00056789"},
		{name: "invalid sku", sku: "a", wantErr: products.ErrInvalidSku},
		{name: "not found", sku: "00056789", repoErr: products.ErrNotFound, wantErr: products.ErrNotFound},
		{name: "repo failure", sku: "00056789", repoErr: errors.New("timeout"), wantErr: products.ErrGetProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			if tt.repoErr != nil {
				repo.getFn = func(_ context.Context, _ string, _ error) (products.Product, error) {
					return products.Product{}, tt.repoErr
				}
			}
			svc := newTestService(repo, &mockPublisher{})

			product, err := svc.GetProduct(context.Background(), tt.sku)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product.SKU != tt.sku {
				t.Fatalf("want sku %q, got %q", tt.sku, product.SKU)
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	tests := []struct {
		name      string
		repoErr   error
		wantErr   error
		wantEvent bool
	}{
		{name: "success", wantEvent: true},
		{name: "not found", repoErr: products.ErrNotFound, wantErr: products.ErrNotFound},
		{name: "outdated version", repoErr: products.ErrOutdatedVersion, wantErr: products.ErrOutdatedVersion},
		{name: "duplicate", repoErr: products.ErrDuplicatedProduct, wantErr: products.ErrDuplicatedProduct},
		{name: "repo failure", repoErr: errors.New("tx aborted"), wantErr: products.ErrUpdateProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			repo.updateFn = func(_ context.Context, p products.Product, _ *int, onNotFound, onOutdated, onDuplicate error) (products.Product, error) {
				if onNotFound != products.ErrNotFound || onOutdated != products.ErrOutdatedVersion || onDuplicate != products.ErrDuplicatedProduct {
					t.Fatalf("unexpected error arguments: %v, %v, %v", onNotFound, onOutdated, onDuplicate)
				}
				if tt.repoErr != nil {
					return products.Product{}, tt.repoErr
				}
				p.Version = 1
				return p, nil
			}
			pub := &mockPublisher{}
			svc := newTestService(repo, pub)

			in := params()
			in.Price = &products.Price{Value: 10, DiscountPercent: 0.5}
			product, err := svc.UpdateProduct(context.Background(), "00056789", in, nil)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				if len(pub.events) != 0 {
					t.Fatalf("want no events, got %v", pub.events)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product.Version != 1 {
				t.Fatalf("want version 1, got %d", product.Version)
			}
			if product.Price.DiscountedPrice() != 5 {
				t.Fatalf("want discounted price 5, got %v", product.Price.DiscountedPrice())
			}
			if len(pub.events) != 1 || pub.events[0].Type != products.EventUpdated {
				t.Fatalf("want one updated event, got %v", pub.events)
			}
			if pub.events[0].Product.Version != 1 {
				t.Fatalf("want event version 1, got %d", pub.events[0].Product.Version)
			}
		})
	}
}

func TestUpdateProduct_SkuComesFromPath(t *testing.T) {
	repo := defaultRepo()
	var gotSku string
	var gotVersion *int
	repo.updateFn = func(_ context.Context, p products.Product, expectedVersion *int, _, _, _ error) (products.Product, error) {
		gotSku = p.SKU
		gotVersion = expectedVersion
		return p, nil
	}
	svc := newTestService(repo, &mockPublisher{})

	in := params()
	in.SKU = "other-sku"
	version := 3
	if _, err := svc.UpdateProduct(context.Background(), "00056789", in, &version); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSku != "00056789" {
		t.Fatalf("want sku from path, got %q", gotSku)
	}
	if gotVersion == nil || *gotVersion != 3 {
		t.Fatalf("want expected version 3, got %v", gotVersion)
	}
}

func TestDeleteProduct(t *testing.T) {
	tests := []struct {
		name    string
		sku     string
		repoErr error
		wantErr error
	}{
		{name: "success", sku: "00056789"},
		{name: "invalid sku", sku: "", wantErr: products.ErrInvalidSku},
		{name: "not found", sku: "00056789", repoErr: products.ErrNotFound, wantErr: products.ErrNotFound},
		{name: "repo failure", sku: "00056789", repoErr: errors.New("conn reset"), wantErr: products.ErrDeleteProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			repo.deleteFn = func(_ context.Context, _ string, _ error) (bool, error) {
				return tt.repoErr == nil, tt.repoErr
			}
			pub := &mockPublisher{}
			svc := newTestService(repo, pub)

			err := svc.DeleteProduct(context.Background(), tt.sku)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				if len(pub.events) != 0 {
					t.Fatalf("want no events, got %v", pub.events)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pub.events) != 1 || pub.events[0].Type != products.EventDeleted {
				t.Fatalf("want one deleted event, got %v", pub.events)
			}
			if pub.events[0].Product != nil || *pub.events[0].SKU != tt.sku {
				t.Fatalf("want deleted event carrying only sku %q, got %+v", tt.sku, pub.events[0])
			}
		})
	}
}
