package variants

const (
	// SchemaFormatJSONSchema identifies the document produced by SelectionSchema.
	SchemaFormatJSONSchema = "json-schema"
	// SchemaFormatOpenAPI identifies OpenAPI documents.
	SchemaFormatOpenAPI = "openapi"
)

// SchemaDocument wraps a generated document with its format.
type SchemaDocument struct {
	Format   string         `json:"format"`
	Document map[string]any `json:"document"`
}

// SchemaGenerator renders a product's option pickers into a schema document.
type SchemaGenerator interface {
	Generate(product Product, required OptionPredicate) (SchemaDocument, error)
}

// SchemaGeneratorFunc adapts a function to SchemaGenerator.
type SchemaGeneratorFunc func(product Product, required OptionPredicate) (SchemaDocument, error)

// Generate implements SchemaGenerator.
func (f SchemaGeneratorFunc) Generate(product Product, required OptionPredicate) (SchemaDocument, error) {
	if f == nil {
		return SelectionSchema(product, required), nil
	}
	return f(product, required)
}

// SelectionSchema describes the option pickers of product as a JSON schema
// object: one property per option keyed by option ID, enumerating value IDs
// in declared order. The first value is the default and the mandatory option,
// if predicate designates one, is listed under required.
func SelectionSchema(product Product, predicate OptionPredicate) SchemaDocument {
	properties := make(map[string]any, len(product.Options))
	order := make([]any, 0, len(product.Options))
	for _, option := range product.Options {
		enum := make([]any, 0, len(option.Values))
		labels := make(map[string]any, len(option.Values))
		for _, value := range option.Values {
			enum = append(enum, value.ID)
			labels[value.ID] = value.Label
		}
		property := map[string]any{
			"type":           "string",
			"title":          option.Title,
			"enum":           enum,
			"x-value-labels": labels,
		}
		if first, ok := option.FirstValue(); ok {
			property["default"] = first.ID
		}
		properties[option.ID] = property
		order = append(order, option.ID)
	}

	document := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"title":                product.Title,
		"properties":           properties,
		"additionalProperties": false,
		"x-option-order":       order,
		"x-show-pickers":       len(product.Variants) > 1,
	}
	if product.ID != "" {
		document["$id"] = "product:" + product.ID
	}
	if option, ok := RequiredOption(product, predicate); ok {
		document["required"] = []any{option.ID}
	}
	return SchemaDocument{
		Format:   SchemaFormatJSONSchema,
		Document: document,
	}
}
