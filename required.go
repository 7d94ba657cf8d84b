package variants

import "strings"

// OptionPredicate designates the mandatory option of a product. The first
// option for which it returns true must be chosen before adding to cart.
type OptionPredicate func(product Product, option Option) bool

// TitleEquals matches options whose title equals title, ignoring case.
func TitleEquals(title string) OptionPredicate {
	title = strings.TrimSpace(title)
	return func(_ Product, option Option) bool {
		return strings.EqualFold(strings.TrimSpace(option.Title), title)
	}
}

// OptionIDs matches options by identifier.
func OptionIDs(ids ...string) OptionPredicate {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(_ Product, option Option) bool {
		_, ok := set[option.ID]
		return ok
	}
}

// RequiredOption returns the mandatory option of product according to
// predicate. A nil predicate designates nothing.
func RequiredOption(product Product, predicate OptionPredicate) (Option, bool) {
	if predicate == nil {
		return Option{}, false
	}
	for _, option := range product.Options {
		if predicate(product, option) {
			return option, true
		}
	}
	return Option{}, false
}

// HasRequiredSelection passes unconditionally when product has no mandatory
// option, otherwise only when selection holds a non-empty value for it.
func HasRequiredSelection(product Product, selection Selection, predicate OptionPredicate) bool {
	option, ok := RequiredOption(product, predicate)
	if !ok {
		return true
	}
	return selection.Chosen(option.ID)
}
