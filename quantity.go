package variants

const (
	MinQuantity Quantity = 1
	MaxQuantity Quantity = 99
)

// Quantity is the number of units requested for the add-to-cart action. It is
// managed independently of the option selection and always stays within
// [MinQuantity, MaxQuantity].
type Quantity int

// ClampQuantity normalises n into the allowed range.
func ClampQuantity(n int) Quantity {
	switch {
	case n < int(MinQuantity):
		return MinQuantity
	case n > int(MaxQuantity):
		return MaxQuantity
	default:
		return Quantity(n)
	}
}

// Increment returns q+1 capped at MaxQuantity.
func (q Quantity) Increment() Quantity {
	return ClampQuantity(int(q) + 1)
}

// Decrement returns q-1 floored at MinQuantity.
func (q Quantity) Decrement() Quantity {
	return ClampQuantity(int(q) - 1)
}

// CanIncrement reports whether Increment would change q.
func (q Quantity) CanIncrement() bool { return q < MaxQuantity }

// CanDecrement reports whether Decrement would change q.
func (q Quantity) CanDecrement() bool { return q > MinQuantity }
