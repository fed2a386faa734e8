package products

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	EventsQueue = "products.events"

	minFieldLength = 3
)

// Product is the catalogue aggregate root. Price and Inventory are owned by
// the product, Category is a shared reference.
//
// Build products with NewProduct; values decoded from storage or the wire
// are re-checked with Validate before use.
type Product struct {
	ID          uuid.UUID  `json:"id" example:"5b7c2a8e-4c1f-4b0a-9d2e-1f0c7f3e9a11"`
	Version     int        `json:"version" example:"0"`
	SKU         string     `json:"sku" example:"00056789"`
	Name        string     `json:"name" example:"ear phones"`
	Description string     `json:"description" example:"something to put on your ears"`
	ImageURL    string     `json:"image_url,omitempty" example:"http://example.com"`
	Price       *Price     `json:"price"`
	Inventory   *Inventory `json:"inventory"`
	Category    *Category  `json:"category"`
}

// ProductParams carries the caller-controlled fields of a product.
type ProductParams struct {
	ID          uuid.UUID
	Version     int
	SKU         string
	Name        string
	Description string
	ImageURL    string
	Price       *Price
	Inventory   *Inventory
	Category    *Category
}

// NewProduct validates every field and returns a complete aggregate. A
// missing ID is generated.
func NewProduct(params ProductParams) (Product, error) {
	p := Product{
		ID:          params.ID,
		Version:     params.Version,
		SKU:         params.SKU,
		Name:        params.Name,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		Price:       params.Price,
		Inventory:   params.Inventory,
		Category:    params.Category,
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return p, nil
}

// Validate checks every field invariant. The first violation wins.
func (p Product) Validate() error {
	if err := ValidateSKU(p.SKU); err != nil {
		return err
	}
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if err := ValidateDescription(p.Description); err != nil {
		return err
	}
	if err := ValidateImageURL(p.ImageURL); err != nil {
		return err
	}
	if p.Price != nil {
		if err := p.Price.Validate(); err != nil {
			return err
		}
	}
	if p.Inventory != nil {
		if err := p.Inventory.Validate(); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := ValidateCategoryName(p.Category.Name); err != nil {
			return err
		}
	}
	return nil
}

func ValidateSKU(sku string) error {
	return validateText(sku, "sku", ErrInvalidSku)
}

func ValidateName(name string) error {
	return validateText(name, "name", ErrInvalidName)
}

func ValidateDescription(description string) error {
	return validateText(description, "description", ErrInvalidDescription)
}

// ValidateImageURL accepts an empty value; anything else must be an http(s) URL.
func ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return nil
	}
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return fmt.Errorf("%w: must start with http:// or https://", ErrInvalidImageURL)
	}
	return nil
}

func validateText(value, field string, sentinel error) error {
	if value == "" {
		return fmt.Errorf("%w: %s is mandatory", sentinel, field)
	}
	if utf8.RuneCountInString(value) < minFieldLength {
		return fmt.Errorf("%w: %s can not have less than %d characters", sentinel, field, minFieldLength)
	}
	return nil
}
