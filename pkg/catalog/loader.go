package catalog

import (
	"context"
	"fmt"

	variants "github.com/goliatone/go-variants"
)

// Loader opens variant sessions from a Store and applies product mutations.
type Loader struct {
	Store Store
}

// Open loads productID and returns a session with the product installed.
func (l Loader) Open(ctx context.Context, productID string, opts ...variants.SessionOption) (*variants.Session, Meta, error) {
	product, meta, err := l.load(ctx, productID)
	if err != nil {
		return nil, Meta{}, err
	}
	session := variants.NewSession(opts...)
	session.Load(ctx, product)
	return session, meta, nil
}

// Refresh reloads the session's product. The product ID does not change, so
// the session keeps its selection and only sees the new data.
func (l Loader) Refresh(ctx context.Context, session *variants.Session) (Meta, error) {
	if session == nil {
		return Meta{}, fmt.Errorf("catalog: session is required")
	}
	if !session.IsInitialized() {
		return Meta{}, fmt.Errorf("catalog: session has no product to refresh")
	}
	product, meta, err := l.load(ctx, session.Product().ID)
	if err != nil {
		return Meta{}, err
	}
	session.Load(ctx, product)
	return meta, nil
}

func (l Loader) load(ctx context.Context, productID string) (variants.Product, Meta, error) {
	if l.Store == nil {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: store is required")
	}
	if productID == "" {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: product id is required")
	}
	product, meta, ok, err := l.Store.Load(ctx, productID)
	if err != nil {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: load %q: %w", productID, err)
	}
	if !ok {
		return variants.Product{}, Meta{}, fmt.Errorf("%w: %q", ErrProductNotFound, productID)
	}
	return product, meta, nil
}

// Mutate loads productID (starting from an empty product when absent), checks
// meta.ETag against the stored one, applies fn, validates the result and
// saves it.
func (l Loader) Mutate(ctx context.Context, productID string, meta Meta, fn Mutator) (variants.Product, Meta, error) {
	if l.Store == nil {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: store is required")
	}
	if productID == "" {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: product id is required")
	}
	if fn == nil {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: mutator is required")
	}

	product, loadedMeta, ok, err := l.Store.Load(ctx, productID)
	if err != nil {
		return variants.Product{}, Meta{}, fmt.Errorf("catalog: load %q: %w", productID, err)
	}
	if !ok {
		product = variants.Product{ID: productID}
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return variants.Product{}, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(&product); err != nil {
		return variants.Product{}, loadedMeta, err
	}
	if product.ID != productID {
		return variants.Product{}, loadedMeta, fmt.Errorf("catalog: mutator changed product id %q to %q", productID, product.ID)
	}
	if err := product.Validate(); err != nil {
		return variants.Product{}, loadedMeta, err
	}

	savedMeta, err := l.Store.Save(ctx, product, mergeMeta(loadedMeta, meta))
	if err != nil {
		return variants.Product{}, loadedMeta, fmt.Errorf("catalog: save %q: %w", productID, err)
	}
	return product, savedMeta, nil
}

// AdjustInventory adds delta to a variant's inventory quantity, never going
// below zero.
func (l Loader) AdjustInventory(ctx context.Context, productID, variantID string, delta int, meta Meta) (variants.Product, Meta, error) {
	return l.Mutate(ctx, productID, meta, func(product *variants.Product) error {
		variant, ok := product.Variant(variantID)
		if !ok {
			return fmt.Errorf("catalog: variant %q not found on %q", variantID, productID)
		}
		variant.InventoryQuantity += delta
		if variant.InventoryQuantity < 0 {
			variant.InventoryQuantity = 0
		}
		return nil
	})
}
