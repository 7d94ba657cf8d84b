package variants

import (
	"errors"
	"fmt"
)

// Value is one permissible setting for an Option (e.g. "Red" for Color).
type Value struct {
	ID    string `json:"id"`
	Label string `json:"value"`
}

// Option is a configurable product dimension with an ordered set of Values.
// Options are immutable for the lifetime of a product view.
type Option struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Values []Value `json:"values"`
}

// FirstValue returns the first declared value, if any.
func (o Option) FirstValue() (Value, bool) {
	if len(o.Values) == 0 {
		return Value{}, false
	}
	return o.Values[0], true
}

// HasValue reports whether valueID is declared on the option.
func (o Option) HasValue(valueID string) bool {
	for _, value := range o.Values {
		if value.ID == valueID {
			return true
		}
	}
	return false
}

// Variant is a concrete purchasable SKU defined by one value per option.
// Options maps option ID to the value ID chosen for this variant.
type Variant struct {
	ID                string            `json:"id"`
	Title             string            `json:"title,omitempty"`
	SKU               string            `json:"sku,omitempty"`
	Options           Selection         `json:"options"`
	ManageInventory   bool              `json:"manage_inventory"`
	AllowBackorder    bool              `json:"allow_backorder"`
	InventoryQuantity int               `json:"inventory_quantity"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Product groups the options and variants of a single product view.
type Product struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Handle   string    `json:"handle,omitempty"`
	Options  []Option  `json:"options"`
	Variants []Variant `json:"variants"`
}

// Option returns the option with the given identifier.
func (p Product) Option(optionID string) (Option, bool) {
	for _, option := range p.Options {
		if option.ID == optionID {
			return option, true
		}
	}
	return Option{}, false
}

// Variant returns the variant with the given identifier.
func (p Product) Variant(variantID string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

var (
	// ErrProductIDRequired indicates a product without identifier.
	ErrProductIDRequired = errors.New("variants: product id is required")
	// ErrDuplicateMapping indicates two variants share the same option-value mapping.
	ErrDuplicateMapping = errors.New("variants: duplicate variant option mapping")
	// ErrUnknownValue indicates a variant references a value its product does not declare.
	ErrUnknownValue = errors.New("variants: variant references undeclared value")
	// ErrNegativeQuantity indicates a variant with a negative inventory quantity.
	ErrNegativeQuantity = errors.New("variants: inventory quantity must not be negative")
)

// Validate checks the catalog invariants upstream data is expected to hold.
// The resolver never calls it; stores use it before persisting.
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrProductIDRequired
	}
	var errs []error
	seen := make(map[string]string, len(p.Variants))
	for _, variant := range p.Variants {
		key := variant.Options.Key()
		if other, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("%w: %s and %s", ErrDuplicateMapping, other, variant.ID))
		} else {
			seen[key] = variant.ID
		}
		for optionID, valueID := range variant.Options {
			option, ok := p.Option(optionID)
			if !ok || !option.HasValue(valueID) {
				errs = append(errs, fmt.Errorf("%w: variant %s option %s value %s", ErrUnknownValue, variant.ID, optionID, valueID))
			}
		}
		if variant.InventoryQuantity < 0 {
			errs = append(errs, fmt.Errorf("%w: variant %s", ErrNegativeQuantity, variant.ID))
		}
	}
	return errors.Join(errs...)
}
