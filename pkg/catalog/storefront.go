package catalog

import (
	"fmt"
	"strings"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/internal/hydrate"
)

type storefrontValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type storefrontOption struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Values []storefrontValue `json:"values"`
}

type storefrontVariantOption struct {
	ID       string `json:"id"`
	OptionID string `json:"option_id"`
	Value    string `json:"value"`
}

type storefrontVariant struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	SKU               string                    `json:"sku"`
	Options           []storefrontVariantOption `json:"options"`
	ManageInventory   bool                      `json:"manage_inventory"`
	AllowBackorder    bool                      `json:"allow_backorder"`
	InventoryQuantity *int                      `json:"inventory_quantity"`
	Metadata          map[string]any            `json:"metadata"`
}

type storefrontProduct struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Handle   string              `json:"handle"`
	Options  []storefrontOption  `json:"options"`
	Variants []storefrontVariant `json:"variants"`
}

// StorefrontSource labels payloads decoded by DecodeStorefrontProduct.
const StorefrontSource = "storefront"

var storefrontDecoder = hydrate.New(
	hydrate.Preparing[storefrontProduct](hydrate.Unwrap("product")),
	hydrate.Checking[storefrontProduct](requireStorefrontID),
)

func requireStorefrontID(_ hydrate.Source, product *storefrontProduct) error {
	if strings.TrimSpace(product.ID) == "" {
		return variants.ErrProductIDRequired
	}
	return nil
}

// DecodeStorefrontProduct converts a storefront product payload, bare or
// wrapped as {"product": {...}}, into a variants.Product.
//
// Variant options reference values by their text ({option_id, value}); they
// are mapped onto the value IDs declared by the product's options. A value
// text no option declares is kept verbatim as the value ID so the variant
// simply never matches a picker selection. A missing inventory_quantity reads
// as zero.
func DecodeStorefrontProduct(payload map[string]any) (variants.Product, error) {
	src := hydrate.Source{Name: StorefrontSource}
	if id, ok := payload["id"].(string); ok {
		src.Handle = id
	}
	if handle, ok := payload["handle"].(string); ok && handle != "" {
		src.Handle = handle
	}
	wire, err := storefrontDecoder.Decode(src, payload)
	if err != nil {
		return variants.Product{}, fmt.Errorf("catalog: decode storefront product: %w", err)
	}
	return wire.product(), nil
}

func (p storefrontProduct) product() variants.Product {
	out := variants.Product{
		ID:       p.ID,
		Title:    p.Title,
		Handle:   p.Handle,
		Options:  make([]variants.Option, 0, len(p.Options)),
		Variants: make([]variants.Variant, 0, len(p.Variants)),
	}

	valueIDs := make(map[string]map[string]string, len(p.Options))
	for _, option := range p.Options {
		converted := variants.Option{
			ID:     option.ID,
			Title:  option.Title,
			Values: make([]variants.Value, 0, len(option.Values)),
		}
		byText := make(map[string]string, len(option.Values))
		for _, value := range option.Values {
			id := value.ID
			if id == "" {
				id = value.Value
			}
			converted.Values = append(converted.Values, variants.Value{ID: id, Label: value.Value})
			byText[value.Value] = id
		}
		valueIDs[option.ID] = byText
		out.Options = append(out.Options, converted)
	}

	for _, variant := range p.Variants {
		converted := variants.Variant{
			ID:              variant.ID,
			Title:           variant.Title,
			SKU:             variant.SKU,
			Options:         make(variants.Selection, len(variant.Options)),
			ManageInventory: variant.ManageInventory,
			AllowBackorder:  variant.AllowBackorder,
			Metadata:        stringMetadata(variant.Metadata),
		}
		if variant.InventoryQuantity != nil {
			converted.InventoryQuantity = *variant.InventoryQuantity
		}
		for _, pair := range variant.Options {
			valueID := pair.Value
			if id, ok := valueIDs[pair.OptionID][pair.Value]; ok {
				valueID = id
			}
			converted.Options[pair.OptionID] = valueID
		}
		out.Variants = append(out.Variants, converted)
	}
	return out
}

func stringMetadata(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		if value == nil {
			continue
		}
		out[key] = fmt.Sprint(value)
	}
	return out
}
