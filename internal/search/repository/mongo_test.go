package repository

import (
	"testing"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoFilter(t *testing.T) {
	tests := []struct {
		name   string
		params search.Params
		want   bson.M
	}{
		{name: "no filters", params: search.Params{}, want: bson.M{}},
		{name: "sku is exact", params: search.Params{SKU: "00056789"}, want: bson.M{"sku": "00056789"}},
		{
			name:   "name and description use escaped regex",
			params: search.Params{Name: "ear (x)", Description: "a.b"},
			want: bson.M{
				"name":        bson.M{"$regex": `ear \(x\)`, "$options": "i"},
				"description": bson.M{"$regex": `a\.b`, "$options": "i"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mongoFilter(tt.params))
		})
	}
}

func TestProductDocument_RoundTrip(t *testing.T) {
	in := products.Product{
		ID:          uuid.New(),
		Version:     3,
		SKU:         "00056789",
		Name:        "ear phones",
		Description: "something to put on your ears",
		Price:       &products.Price{Value: 10, DiscountPercent: 0.5},
		Inventory:   &products.Inventory{Quantity: 7, Reserved: 2},
		Category:    &products.Category{ID: uuid.New(), Name: "electronics"},
	}

	assert.Equal(t, in, toDocument(in).toProduct())
}
