package variants

import "sync"

// ProgramCache stores compiled rule programs keyed by engine and expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapProgramCache is an unbounded, concurrency-safe ProgramCache. Option rules
// are few and fixed per catalog so no eviction is needed.
type MapProgramCache struct {
	programs sync.Map
}

// NewMapProgramCache constructs an empty cache.
func NewMapProgramCache() *MapProgramCache {
	return &MapProgramCache{}
}

func (c *MapProgramCache) Get(key string) (any, bool) {
	return c.programs.Load(key)
}

func (c *MapProgramCache) Set(key string, value any) {
	c.programs.Store(key, value)
}
