package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/pkg/catalog"
)

const storefrontPayload = `{
  "product": {
    "id": "prod_hoodie",
    "title": "Dog Hoodie",
    "handle": "dog-hoodie",
    "collection_id": "pcol_winter",
    "options": [
      {"id": "opt_color", "title": "Color", "values": [{"id": "optval_pink", "value": "Pink"}, {"id": "optval_black", "value": "Black"}]},
      {"id": "opt_size", "title": "Size", "values": [{"id": "optval_mn", "value": "MN"}, {"id": "optval_it", "value": "IT"}]}
    ],
    "variants": [
      {"id": "var_1", "title": "Pink / MN", "sku": "MN_PINK", "manage_inventory": true, "allow_backorder": false, "inventory_quantity": 2,
       "options": [{"id": "vo_1", "option_id": "opt_color", "value": "Pink"}, {"id": "vo_2", "option_id": "opt_size", "value": "MN"}]},
      {"id": "var_2", "title": "Black / IT", "manage_inventory": true, "allow_backorder": true, "inventory_quantity": null,
       "options": [{"option_id": "opt_color", "value": "Black"}, {"option_id": "opt_size", "value": "IT"}],
       "metadata": {"print": "paw", "weight": 120}},
      {"id": "var_3", "title": "Legacy", "manage_inventory": false,
       "options": [{"option_id": "opt_color", "value": "Green"}]}
    ]
  }
}`

func decodeFixture(t *testing.T) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(storefrontPayload), &payload); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return payload
}

func TestDecodeStorefrontProduct(t *testing.T) {
	product, err := catalog.DecodeStorefrontProduct(decodeFixture(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if product.ID != "prod_hoodie" || product.Handle != "dog-hoodie" {
		t.Fatalf("unexpected product header %+v", product)
	}
	if len(product.Options) != 2 || product.Options[0].Values[1] != (variants.Value{ID: "optval_black", Label: "Black"}) {
		t.Fatalf("unexpected options %+v", product.Options)
	}

	first := product.Variants[0]
	if !first.Options.Equal(variants.Selection{"opt_color": "optval_pink", "opt_size": "optval_mn"}) {
		t.Fatalf("expected value texts mapped to ids, got %v", first.Options)
	}
	if !first.ManageInventory || first.InventoryQuantity != 2 || first.SKU != "MN_PINK" {
		t.Fatalf("unexpected inventory fields %+v", first)
	}

	second := product.Variants[1]
	if second.InventoryQuantity != 0 || !second.AllowBackorder {
		t.Fatalf("expected null quantity read as zero, got %+v", second)
	}
	if second.Metadata["print"] != "paw" || second.Metadata["weight"] != "120" {
		t.Fatalf("unexpected metadata %v", second.Metadata)
	}

	legacy := product.Variants[2]
	if legacy.Options["opt_color"] != "Green" {
		t.Fatalf("expected undeclared value kept verbatim, got %v", legacy.Options)
	}
}

func TestDecodedProductDrivesSession(t *testing.T) {
	product, err := catalog.DecodeStorefrontProduct(decodeFixture(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ctx := context.Background()
	session := variants.NewSession()
	session.Load(ctx, product)
	if variant := session.ResolvedVariant(); variant == nil || variant.ID != "var_1" {
		t.Fatalf("expected pink MN, got %+v", variant)
	}
	session.SetOptionValue(ctx, "opt_color", "optval_black")
	session.SetOptionValue(ctx, "opt_size", "optval_it")
	if availability := session.Availability(); !availability.Available || availability.Reason != variants.ReasonBackorder {
		t.Fatalf("expected backorder availability, got %+v", availability)
	}
}

func TestDecodeStorefrontProductRequiresID(t *testing.T) {
	_, err := catalog.DecodeStorefrontProduct(map[string]any{"title": "Nameless"})
	if !errors.Is(err, variants.ErrProductIDRequired) {
		t.Fatalf("expected id error, got %v", err)
	}
	if _, err := catalog.DecodeStorefrontProduct(nil); err == nil {
		t.Fatalf("expected nil payload error")
	}
}
