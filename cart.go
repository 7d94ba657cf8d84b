package variants

import (
	"context"
	"errors"
)

// ErrCartNotConfigured is returned by AddToCart when no CartAdder was supplied.
var ErrCartNotConfigured = errors.New("variants: cart adder not configured")

// LineItem is what the session hands to the cart collaborator.
type LineItem struct {
	VariantID   string   `json:"variantId"`
	Quantity    Quantity `json:"quantity"`
	CountryCode string   `json:"countryCode,omitempty"`
}

// CartAdder performs the add-to-cart network call.
type CartAdder interface {
	AddToCart(ctx context.Context, item LineItem) error
}

// CartAdderFunc adapts a function to CartAdder.
type CartAdderFunc func(ctx context.Context, item LineItem) error

// AddToCart implements CartAdder.
func (f CartAdderFunc) AddToCart(ctx context.Context, item LineItem) error {
	if f == nil {
		return ErrCartNotConfigured
	}
	return f(ctx, item)
}
