package products

import (
	"encoding/json"
	"fmt"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ProductEvent is the message published after every committed write. Events
// are never persisted; they only exist on the channel.
type ProductEvent struct {
	Type    EventType `json:"type"`
	Product *Product  `json:"product"`
	SKU     *string   `json:"sku"`
}

// NewProductEvent enforces the payload invariant: created and updated events
// carry a product, deleted events carry a sku.
func NewProductEvent(eventType EventType, product *Product, sku *string) (ProductEvent, error) {
	event := ProductEvent{Type: eventType, Product: product, SKU: sku}
	if err := event.validate(); err != nil {
		return ProductEvent{}, err
	}
	return event, nil
}

func CreatedEvent(product Product) ProductEvent {
	return ProductEvent{Type: EventCreated, Product: &product}
}

func UpdatedEvent(product Product) ProductEvent {
	return ProductEvent{Type: EventUpdated, Product: &product}
}

func DeletedEvent(sku string) ProductEvent {
	return ProductEvent{Type: EventDeleted, SKU: &sku}
}

// Key returns the sku the event refers to.
func (e ProductEvent) Key() string {
	switch {
	case e.Product != nil:
		return e.Product.SKU
	case e.SKU != nil:
		return *e.SKU
	default:
		return ""
	}
}

func (e ProductEvent) validate() error {
	switch e.Type {
	case EventCreated, EventUpdated:
		if e.Product == nil {
			return fmt.Errorf("%w: %s event must have a product", ErrInvalidEvent, e.Type)
		}
	case EventDeleted:
		if e.SKU == nil {
			return fmt.Errorf("%w: %s event must have a sku", ErrInvalidEvent, e.Type)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	return nil
}

func (e ProductEvent) Encode() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// DecodeEvent parses a wire payload and re-validates the carried product.
func DecodeEvent(body []byte) (ProductEvent, error) {
	var event ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return ProductEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := event.validate(); err != nil {
		return ProductEvent{}, err
	}
	if event.Product != nil {
		if err := event.Product.Validate(); err != nil {
			return ProductEvent{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
	}
	if event.SKU != nil {
		if err := ValidateSKU(*event.SKU); err != nil {
			return ProductEvent{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
	}
	return event, nil
}
