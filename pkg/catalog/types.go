package catalog

import (
	"context"
	"errors"
	"time"

	variants "github.com/goliatone/go-variants"
)

var (
	ErrETagMismatch    = errors.New("catalog: etag mismatch")
	ErrProductNotFound = errors.New("catalog: product not found")
)

// Meta is storage-owned metadata used for auditing and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one product snapshot per product ID. Save rejects
// the write with ErrETagMismatch when meta.ETag is set and differs from the
// stored one, and returns the metadata of the new snapshot.
type Store interface {
	Load(ctx context.Context, productID string) (product variants.Product, meta Meta, ok bool, err error)
	Save(ctx context.Context, product variants.Product, meta Meta) (Meta, error)
}

// Mutator edits a product in place.
type Mutator func(*variants.Product) error

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

// cloneProduct detaches every slice and map so stored snapshots cannot be
// changed through values handed to callers.
func cloneProduct(product variants.Product) variants.Product {
	out := product
	out.Options = make([]variants.Option, len(product.Options))
	for i, option := range product.Options {
		option.Values = append([]variants.Value(nil), option.Values...)
		out.Options[i] = option
	}
	out.Variants = make([]variants.Variant, len(product.Variants))
	for i, variant := range product.Variants {
		variant.Options = variant.Options.Clone()
		if variant.Metadata != nil {
			meta := make(map[string]string, len(variant.Metadata))
			for k, v := range variant.Metadata {
				meta[k] = v
			}
			variant.Metadata = meta
		}
		out.Variants[i] = variant
	}
	return out
}
