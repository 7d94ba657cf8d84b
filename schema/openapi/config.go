package openapi

import "strings"

// Operation selects which product endpoints appear in the document.
type Operation uint8

const (
	// OperationState documents GET {base}/{product}.
	OperationState Operation = 1 << iota
	// OperationSelect documents PUT {base}/{product}/selection.
	OperationSelect
	// OperationCart documents POST {base}/{product}/cart.
	OperationCart

	allOperations = OperationState | OperationSelect | OperationCart
)

type generatorConfig struct {
	version     string
	title       string
	apiVersion  string
	description string
	basePath    string
	mediaType   string
	operations  Operation
	tags        []string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		version:    "3.0.3",
		apiVersion: "1.0.0",
		basePath:   "/products",
		mediaType:  "application/json",
		operations: allOperations,
	}
}

// GeneratorOption configures NewGenerator.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion sets the document's openapi field. Defaults to 3.0.3.
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version = strings.TrimSpace(version); version != "" {
			cfg.version = version
		}
	}
}

// WithInfo sets info.title and info.version. Without a title the product
// title is used, then its ID.
func WithInfo(title, version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title = strings.TrimSpace(title); title != "" {
			cfg.title = title
		}
		if version = strings.TrimSpace(version); version != "" {
			cfg.apiVersion = version
		}
	}
}

// WithDescription sets info.description.
func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.description = description
	}
}

// WithBasePath mounts product endpoints under path. Defaults to /products.
func WithBasePath(path string) GeneratorOption {
	return func(cfg *generatorConfig) {
		path = strings.Trim(strings.TrimSpace(path), "/")
		if path != "" {
			cfg.basePath = "/" + path
		}
	}
}

// WithMediaType sets the media type of request and response bodies.
func WithMediaType(mediaType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if mediaType != "" {
			cfg.mediaType = mediaType
		}
	}
}

// WithOperations limits the document to ops. Passing none keeps all three.
func WithOperations(ops ...Operation) GeneratorOption {
	return func(cfg *generatorConfig) {
		var mask Operation
		for _, op := range ops {
			mask |= op & allOperations
		}
		if mask != 0 {
			cfg.operations = mask
		}
	}
}

// WithTags tags every documented operation.
func WithTags(tags ...string) GeneratorOption {
	return func(cfg *generatorConfig) {
		for _, tag := range tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				cfg.tags = append(cfg.tags, tag)
			}
		}
	}
}

func (cfg generatorConfig) has(op Operation) bool {
	return cfg.operations&op != 0
}
