package variants

// Resolve returns the first variant whose option mapping equals selection, or
// nil when none does. Partial selections never match because the comparison is
// exact map equality.
func Resolve(product Product, selection Selection) *Variant {
	for i := range product.Variants {
		if product.Variants[i].Options.Equal(selection) {
			return &product.Variants[i]
		}
	}
	return nil
}

// IsSelectionValid reports whether selection resolves to a variant.
func IsSelectionValid(product Product, selection Selection) bool {
	return Resolve(product, selection) != nil
}

// Matches returns every variant whose mapping equals selection. More than one
// result means the catalog holds duplicate mappings; Resolve keeps the first.
func Matches(product Product, selection Selection) []*Variant {
	var out []*Variant
	for i := range product.Variants {
		if product.Variants[i].Options.Equal(selection) {
			out = append(out, &product.Variants[i])
		}
	}
	return out
}
