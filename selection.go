package variants

import "net/url"

// Selection maps option IDs to the chosen value ID. A missing key means the
// option has not been chosen yet.
type Selection map[string]string

// Clone returns a detached copy. Cloning nil yields an empty selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for optionID, valueID := range s {
		out[optionID] = valueID
	}
	return out
}

// With returns a copy of s with optionID set to valueID.
func (s Selection) With(optionID, valueID string) Selection {
	out := s.Clone()
	out[optionID] = valueID
	return out
}

// Value returns the value chosen for optionID.
func (s Selection) Value(optionID string) (string, bool) {
	valueID, ok := s[optionID]
	return valueID, ok
}

// Chosen reports whether optionID holds a non-empty value.
func (s Selection) Chosen(optionID string) bool {
	return s[optionID] != ""
}

// Equal compares two selections as maps: same option IDs, same value per
// option, independent of insertion order.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for optionID, valueID := range s {
		otherValue, ok := other[optionID]
		if !ok || otherValue != valueID {
			return false
		}
	}
	return true
}

// Key returns a canonical encoding with option IDs sorted, so equal
// selections always produce equal keys.
func (s Selection) Key() string {
	values := make(url.Values, len(s))
	for optionID, valueID := range s {
		values.Set(optionID, valueID)
	}
	return values.Encode()
}
