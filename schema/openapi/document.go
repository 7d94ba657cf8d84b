package openapi

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	variants "github.com/goliatone/go-variants"
)

type documentBuilder struct {
	config   generatorConfig
	product  variants.Product
	required variants.OptionPredicate
	registry *componentRegistry
}

func newDocumentBuilder(config generatorConfig, product variants.Product, required variants.OptionPredicate) *documentBuilder {
	return &documentBuilder{
		config:   config,
		product:  product,
		required: required,
		registry: newComponentRegistry(),
	}
}

func (b *documentBuilder) build() (map[string]any, error) {
	key := productKey(b.product)
	if key == "" {
		return nil, fmt.Errorf("openapi: product must have a handle or id")
	}

	selection := b.registry.add("Selection", b.selectionComponent())
	lineItem, err := b.registry.schemaForType(reflect.TypeOf(variants.LineItem{}))
	if err != nil {
		return nil, err
	}
	state, err := b.registry.schemaForType(reflect.TypeOf(variants.State{}))
	if err != nil {
		return nil, err
	}
	refusal, err := b.registry.schemaForType(reflect.TypeOf(variants.Refusal(0)))
	if err != nil {
		return nil, err
	}
	refused := b.registry.add("Refused", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"refusal": refusal,
			"message": map[string]any{"type": "string"},
		},
		"required": []any{"refusal", "message"},
	})

	base := b.config.basePath + "/" + url.PathEscape(key)
	suffix := sanitizeComponentName(key)
	paths := map[string]any{}
	if b.config.has(OperationState) {
		paths[base] = map[string]any{
			"get": b.operation("getVariantState_"+suffix, "Current selection, resolved variant and availability", nil, map[string]any{
				"200": b.response("Session state", state),
			}),
		}
	}
	if b.config.has(OperationSelect) {
		paths[base+"/selection"] = map[string]any{
			"put": b.operation("selectVariant_"+suffix, "Replace the option selection", selection, map[string]any{
				"200": b.response("Session state after resolution", state),
			}),
		}
	}
	if b.config.has(OperationCart) {
		paths[base+"/cart"] = map[string]any{
			"post": b.operation("addToCart_"+suffix, "Add the resolved variant to the cart", lineItem, map[string]any{
				"202": map[string]any{"description": "Line item accepted"},
				"409": b.response("Add to cart refused", refused),
			}),
		}
	}

	document := map[string]any{
		"openapi": b.config.version,
		"info":    b.buildInfo(),
		"paths":   paths,
	}
	if components := b.registry.componentsMap(); components != nil {
		document["components"] = map[string]any{
			"schemas": components,
		}
	}

	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

// selectionComponent reuses the JSON schema of the option pickers without
// the keywords OpenAPI 3.0 rejects.
func (b *documentBuilder) selectionComponent() map[string]any {
	source := variants.SelectionSchema(b.product, b.required).Document
	component := make(map[string]any, len(source)+1)
	for key, value := range source {
		if key == "$schema" || key == "$id" {
			continue
		}
		component[key] = value
	}
	if b.product.ID != "" {
		component["x-product-id"] = b.product.ID
	}
	return component
}

func (b *documentBuilder) buildInfo() map[string]any {
	title := b.config.title
	if title == "" {
		title = strings.TrimSpace(b.product.Title)
	}
	if title == "" {
		title = b.product.ID
	}
	info := map[string]any{
		"title":   title,
		"version": b.config.apiVersion,
	}
	if b.config.description != "" {
		info["description"] = b.config.description
	}
	return info
}

// operation assembles one path operation. A nil body means no requestBody.
func (b *documentBuilder) operation(id, summary string, body, responses map[string]any) map[string]any {
	op := map[string]any{
		"operationId": id,
		"summary":     summary,
		"responses":   responses,
	}
	if body != nil {
		op["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				b.config.mediaType: map[string]any{"schema": body},
			},
		}
	}
	if len(b.config.tags) > 0 {
		tags := make([]any, len(b.config.tags))
		for i, tag := range b.config.tags {
			tags[i] = tag
		}
		op["tags"] = tags
	}
	return op
}

func (b *documentBuilder) response(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			b.config.mediaType: map[string]any{"schema": schema},
		},
	}
}

func productKey(product variants.Product) string {
	if handle := strings.TrimSpace(product.Handle); handle != "" {
		return handle
	}
	return strings.TrimSpace(product.ID)
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if id, _ := operation["operationId"].(string); id == "" {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if method == "put" || method == "post" {
				requestBody, _ := operation["requestBody"].(map[string]any)
				content, _ := requestBody["content"].(map[string]any)
				if len(content) == 0 {
					return fmt.Errorf("openapi: operation %s %s requestBody missing content", method, pathKey)
				}
			}
			if responses, _ := operation["responses"].(map[string]any); len(responses) == 0 {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
