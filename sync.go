package variants

import (
	"net/url"
	"sync"
)

// DefaultVariantParam is the query parameter carrying the selected variant.
const DefaultVariantParam = "v_id"

// Navigator replaces the current location without adding a history entry.
type Navigator interface {
	Replace(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

// Replace implements Navigator.
func (f NavigatorFunc) Replace(target string) {
	if f != nil {
		f(target)
	}
}

// QuerySync mirrors the resolved variant ID into one query parameter. It is
// write-only: nothing read from the URL flows back into the selection.
type QuerySync struct {
	mu        sync.Mutex
	param     string
	location  url.URL
	navigator Navigator
	writes    int
}

// NewQuerySync starts from location (path plus any existing query). An empty
// param falls back to DefaultVariantParam.
func NewQuerySync(location url.URL, param string, navigator Navigator) *QuerySync {
	if param == "" {
		param = DefaultVariantParam
	}
	return &QuerySync{
		param:     param,
		location:  location,
		navigator: navigator,
	}
}

// Param returns the query parameter name.
func (s *QuerySync) Param() string {
	return s.param
}

// Value returns the parameter's current value.
func (s *QuerySync) Value() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *QuerySync) current() (string, bool) {
	query := s.location.Query()
	if !query.Has(s.param) {
		return "", false
	}
	return query.Get(s.param), true
}

// Location returns the current location.
func (s *QuerySync) Location() url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Writes counts navigations performed so far.
func (s *QuerySync) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Reflect sets the parameter to variantID when valid is true and clears it
// otherwise. Nothing is written when the parameter already holds the desired
// state. It reports whether a navigation happened.
func (s *QuerySync) Reflect(variantID string, valid bool) bool {
	s.mu.Lock()
	want, set := variantID, valid && variantID != ""
	have, present := s.current()
	if set == present && (!set || have == want) {
		s.mu.Unlock()
		return false
	}

	query := s.location.Query()
	if set {
		query.Set(s.param, want)
	} else {
		query.Del(s.param)
	}
	s.location.RawQuery = query.Encode()
	s.writes++
	target := s.location.Path + "?" + s.location.RawQuery
	navigator := s.navigator
	s.mu.Unlock()

	if navigator != nil {
		navigator.Replace(target)
	}
	return true
}
