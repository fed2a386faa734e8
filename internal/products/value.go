package products

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price is owned by exactly one product.
type Price struct {
	Value           float64 `json:"value" example:"10"`
	DiscountPercent float64 `json:"discount_percent" example:"0.5"`
}

func NewPrice(value, discountPercent float64) (Price, error) {
	p := Price{Value: value, DiscountPercent: discountPercent}
	if err := p.Validate(); err != nil {
		return Price{}, err
	}
	return p, nil
}

func (p Price) Validate() error {
	if p.Value < 0 {
		return fmt.Errorf("%w: value can not be negative", ErrInvalidPrice)
	}
	if p.DiscountPercent < 0 {
		return fmt.Errorf("%w: discount can not be negative", ErrInvalidPrice)
	}
	if p.DiscountPercent > 1 {
		return fmt.Errorf("%w: discount can not be higher than 100%%", ErrInvalidPrice)
	}
	return nil
}

// DiscountedPrice is Value * (1 - DiscountPercent). It is derived on every
// read and never stored.
func (p Price) DiscountedPrice() float64 {
	value := decimal.NewFromFloat(p.Value)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p.DiscountPercent))
	return value.Mul(factor).Round(4).InexactFloat64()
}

type priceJSON struct {
	Value           float64 `json:"value"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountedPrice float64 `json:"discounted_price"`
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(priceJSON{
		Value:           p.Value,
		DiscountPercent: p.DiscountPercent,
		DiscountedPrice: p.DiscountedPrice(),
	})
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw priceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Value = raw.Value
	p.DiscountPercent = raw.DiscountPercent
	return nil
}

// Inventory is owned by exactly one product.
type Inventory struct {
	Quantity int `json:"quantity" example:"10"`
	Reserved int `json:"reserved" example:"0"`
}

func NewInventory(quantity, reserved int) (Inventory, error) {
	inv := Inventory{Quantity: quantity, Reserved: reserved}
	if err := inv.Validate(); err != nil {
		return Inventory{}, err
	}
	return inv, nil
}

func (i Inventory) Validate() error {
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity can not be negative", ErrInvalidInventory)
	}
	if i.Reserved < 0 {
		return fmt.Errorf("%w: reserved can not be negative", ErrInvalidInventory)
	}
	if i.Reserved > i.Quantity {
		return fmt.Errorf("%w: reserved can not be higher than quantity", ErrInvalidInventory)
	}
	return nil
}

// InStock is Quantity - Reserved, derived on every read.
func (i Inventory) InStock() int {
	return i.Quantity - i.Reserved
}

type inventoryJSON struct {
	Quantity int `json:"quantity"`
	Reserved int `json:"reserved"`
	InStock  int `json:"in_stock"`
}

func (i Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inventoryJSON{
		Quantity: i.Quantity,
		Reserved: i.Reserved,
		InStock:  i.InStock(),
	})
}

func (i *Inventory) UnmarshalJSON(data []byte) error {
	var raw inventoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.Quantity = raw.Quantity
	i.Reserved = raw.Reserved
	return nil
}

// Category is shared between products and referenced by name. A zero ID
// means the category has not been resolved against storage yet.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name" example:"electronics"`
}

func NewCategory(name string) (Category, error) {
	if err := ValidateCategoryName(name); err != nil {
		return Category{}, err
	}
	return Category{Name: name}, nil
}

func ValidateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is mandatory", ErrInvalidCategory)
	}
	if utf8.RuneCountInString(name) < minFieldLength {
		return fmt.Errorf("%w: name can not have less than %d characters", ErrInvalidCategory, minFieldLength)
	}
	return nil
}
