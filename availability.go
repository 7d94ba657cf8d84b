package variants

// AvailabilityReason names the rule that decided a purchasability verdict.
type AvailabilityReason string

const (
	ReasonNoVariant  AvailabilityReason = "no_variant"
	ReasonUntracked  AvailabilityReason = "untracked"
	ReasonBackorder  AvailabilityReason = "backorder"
	ReasonInStock    AvailabilityReason = "in_stock"
	ReasonOutOfStock AvailabilityReason = "out_of_stock"
)

// Availability is the verdict for a resolved variant.
type Availability struct {
	Available bool               `json:"available"`
	Reason    AvailabilityReason `json:"reason"`
}

// EvaluateAvailability applies the purchasability rules in order; the first
// applicable rule wins.
func EvaluateAvailability(variant *Variant) Availability {
	switch {
	case variant == nil:
		return Availability{Reason: ReasonNoVariant}
	case !variant.ManageInventory:
		return Availability{Available: true, Reason: ReasonUntracked}
	case variant.AllowBackorder:
		return Availability{Available: true, Reason: ReasonBackorder}
	case variant.InventoryQuantity > 0:
		return Availability{Available: true, Reason: ReasonInStock}
	default:
		return Availability{Reason: ReasonOutOfStock}
	}
}

// IsAvailable reports whether variant can be purchased right now.
func IsAvailable(variant *Variant) bool {
	return EvaluateAvailability(variant).Available
}
