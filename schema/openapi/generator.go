package openapi

import (
	variants "github.com/goliatone/go-variants"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator that documents the selection and
// add-to-cart operations of one product as an OpenAPI document.
func NewGenerator(opts ...GeneratorOption) variants.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option returns a SessionOption that wires the OpenAPI generator into a
// Session.
func Option(opts ...GeneratorOption) variants.SessionOption {
	return variants.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(product variants.Product, required variants.OptionPredicate) (variants.SchemaDocument, error) {
	document, err := newDocumentBuilder(g.config, product, required).build()
	if err != nil {
		return variants.SchemaDocument{}, err
	}
	return variants.SchemaDocument{
		Format:   variants.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}
