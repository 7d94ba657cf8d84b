package variants

import "fmt"

// Refusal explains why the add-to-cart action is currently closed.
type Refusal int

const (
	RefusalNone Refusal = iota
	RefusalNotInitialized
	RefusalAddInFlight
	RefusalMissingRequiredSelection
	RefusalInvalidSelection
	RefusalUnavailable
)

func (r Refusal) String() string {
	switch r {
	case RefusalNone:
		return "none"
	case RefusalNotInitialized:
		return "not_initialized"
	case RefusalAddInFlight:
		return "add_in_flight"
	case RefusalMissingRequiredSelection:
		return "missing_required_selection"
	case RefusalInvalidSelection:
		return "invalid_selection"
	case RefusalUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// MarshalText encodes the refusal by name.
func (r Refusal) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Label is the button caption matching the refusal.
func (r Refusal) Label() string {
	switch r {
	case RefusalNotInitialized:
		return "Loading..."
	case RefusalUnavailable:
		return "Out of stock"
	default:
		return "Add to cart"
	}
}

// RefusalError is returned by AddToCart when the gate is closed.
type RefusalError struct {
	Reason Refusal
	// Option is set for RefusalMissingRequiredSelection.
	Option Option
}

func (e *RefusalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("variants: add to cart refused: %s", e.Reason)
}

// Message is the shopper-facing explanation.
func (e *RefusalError) Message() string {
	if e == nil {
		return ""
	}
	switch e.Reason {
	case RefusalNotInitialized:
		return "Product options are still loading"
	case RefusalAddInFlight:
		return "Already adding this item to your cart"
	case RefusalMissingRequiredSelection:
		if e.Option.Title == "" {
			return "Please select an option before adding to cart"
		}
		return fmt.Sprintf("Please select a %s before adding to cart", lowerFirst(e.Option.Title))
	case RefusalInvalidSelection:
		return "This combination is not available"
	case RefusalUnavailable:
		return "Out of stock"
	default:
		return ""
	}
}

// Is lets errors.Is match on the refusal reason alone.
func (e *RefusalError) Is(target error) bool {
	other, ok := target.(*RefusalError)
	return ok && other.Reason == e.Reason
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
