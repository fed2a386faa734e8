// Package search holds the read-side query model shared by the search
// service, its stores and the projection loop.
package search

import (
	"strings"

	"product-catalogue/internal/products"
)

// Params is a conjunctive product filter. SKU matches exactly, Name and
// Description match as case-insensitive substrings. Empty fields are ignored.
type Params struct {
	SKU         string
	Name        string
	Description string
}

func (p Params) IsEmpty() bool {
	return p.SKU == "" && p.Name == "" && p.Description == ""
}

// Match reports whether product satisfies every non-empty field of p.
func (p Params) Match(product products.Product) bool {
	if p.SKU != "" && product.SKU != p.SKU {
		return false
	}
	if p.Name != "" && !containsFold(product.Name, p.Name) {
		return false
	}
	if p.Description != "" && !containsFold(product.Description, p.Description) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
