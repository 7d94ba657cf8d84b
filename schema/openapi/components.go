package openapi

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// componentRegistry collects the schemas published under
// #/components/schemas. A nil entry is a name reserved for a struct whose
// schema is still being built.
type componentRegistry struct {
	schemas map[string]map[string]any
	types   map[reflect.Type]string
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		schemas: make(map[string]map[string]any),
		types:   make(map[reflect.Type]string),
	}
}

// add publishes schema under a name derived from hint and returns a $ref.
func (r *componentRegistry) add(hint string, schema map[string]any) map[string]any {
	name := r.uniqueName(hint)
	r.schemas[name] = schema
	return componentRef(name)
}

func componentRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

// uniqueName reserves hint, or hint with the first free numeric suffix.
func (r *componentRegistry) uniqueName(hint string) string {
	base := sanitizeComponentName(hint)
	if base == "" {
		base = "Schema"
	}
	name := base
	for n := 1; ; n++ {
		if _, taken := r.schemas[name]; !taken {
			break
		}
		name = base + strconv.Itoa(n)
	}
	r.schemas[name] = nil
	return name
}

func (r *componentRegistry) componentsMap() map[string]any {
	out := make(map[string]any, len(r.schemas))
	for name, schema := range r.schemas {
		if schema != nil {
			out[name] = schema
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// sanitizeComponentName maps name onto the identifier charset OpenAPI
// tooling accepts for component keys and operation IDs.
func sanitizeComponentName(name string) string {
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
