package openapi

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"

	variants "github.com/goliatone/go-variants"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	quantityType      = reflect.TypeOf(variants.Quantity(0))
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

var availabilityReasons = []any{
	string(variants.ReasonNoVariant),
	string(variants.ReasonUntracked),
	string(variants.ReasonBackorder),
	string(variants.ReasonInStock),
	string(variants.ReasonOutOfStock),
}

// enumerations lists the closed value sets of named types that serialise as
// strings.
var enumerations = map[reflect.Type][]any{
	reflect.TypeOf(variants.Refusal(0)):             refusalNames(),
	reflect.TypeOf(variants.AvailabilityReason("")): availabilityReasons,
}

func refusalNames() []any {
	names := make([]any, 0, int(variants.RefusalUnavailable)+1)
	for refusal := variants.RefusalNone; refusal <= variants.RefusalUnavailable; refusal++ {
		names = append(names, refusal.String())
	}
	return names
}

// schemaForType describes values of t as encoding/json writes them. Named
// struct types are published once as components and referenced afterwards.
func (r *componentRegistry) schemaForType(t reflect.Type) (map[string]any, error) {
	if values, ok := enumerations[t]; ok {
		return map[string]any{"type": "string", "enum": values}, nil
	}

	switch {
	case t == quantityType:
		return map[string]any{
			"type":    "integer",
			"minimum": int(variants.MinQuantity),
			"maximum": int(variants.MaxQuantity),
		}, nil
	case t == timeType:
		return map[string]any{
			"type":   "string",
			"format": "date-time",
		}, nil
	case t.Kind() != reflect.Pointer && t.Implements(textMarshalerType):
		return map[string]any{"type": "string"}, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, err := r.schemaForType(t.Elem())
		if err != nil {
			return nil, err
		}
		if _, isRef := inner["$ref"]; isRef {
			return map[string]any{"allOf": []any{inner}, "nullable": true}, nil
		}
		inner["nullable"] = true
		return inner, nil
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		return r.schemaForStruct(t)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("openapi: map key type %s unsupported", t.Key())
		}
		values, err := r.schemaForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"type":                 "object",
			"additionalProperties": values,
		}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return map[string]any{
				"type":   "string",
				"format": "byte",
			}, nil
		}
		items, err := r.schemaForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"type":  "array",
			"items": items,
		}, nil
	default:
		return nil, fmt.Errorf("openapi: type %s unsupported", t)
	}
}

func (r *componentRegistry) schemaForStruct(t reflect.Type) (map[string]any, error) {
	if name, ok := r.types[t]; ok {
		return componentRef(name), nil
	}
	name := ""
	if t.Name() != "" {
		name = r.uniqueName(t.Name())
		r.types[t] = name
	}

	properties := map[string]any{}
	required := []any{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldName, omitEmpty, skip := jsonField(field)
		if skip {
			continue
		}
		child, err := r.schemaForType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", t.Name(), field.Name, err)
		}
		properties[fieldName] = child
		if !omitEmpty {
			required = append(required, fieldName)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	if name == "" {
		return schema, nil
	}
	r.schemas[name] = schema
	return componentRef(name), nil
}

func jsonField(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, flag := range parts[1:] {
		if flag == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
