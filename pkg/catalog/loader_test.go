package catalog_test

import (
	"context"
	"errors"
	"testing"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/pkg/catalog"
)

type stubStore struct {
	product variants.Product
	meta    catalog.Meta
	ok      bool
	loadErr error

	saveCalls int
	saved     variants.Product
	savedMeta catalog.Meta
	saveMeta  catalog.Meta
	saveErr   error
}

func (s *stubStore) Load(context.Context, string) (variants.Product, catalog.Meta, bool, error) {
	if s.loadErr != nil {
		return variants.Product{}, catalog.Meta{}, false, s.loadErr
	}
	return s.product, s.meta, s.ok, nil
}

func (s *stubStore) Save(_ context.Context, product variants.Product, meta catalog.Meta) (catalog.Meta, error) {
	s.saveCalls++
	s.saved = product
	s.savedMeta = meta
	if s.saveErr != nil {
		return catalog.Meta{}, s.saveErr
	}
	return s.saveMeta, nil
}

func TestLoaderOpenInitializesSession(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	if _, err := store.Seed(ctx, hoodie()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := catalog.Loader{Store: store}

	session, meta, err := loader.Open(ctx, "prod_hoodie", variants.WithRequiredOption(variants.TitleEquals("color")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if meta.ETag == "" {
		t.Fatalf("expected meta from store")
	}
	if !session.IsInitialized() {
		t.Fatalf("expected initialized session")
	}
	if variant := session.ResolvedVariant(); variant == nil || variant.ID != "var_pink_mn" {
		t.Fatalf("expected first values to resolve pink MN, got %+v", variant)
	}
}

func TestLoaderOpenMissingProduct(t *testing.T) {
	loader := catalog.Loader{Store: catalog.NewMemoryStore()}
	_, _, err := loader.Open(context.Background(), "prod_missing")
	if !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := (catalog.Loader{}).Open(context.Background(), "prod_hoodie"); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestLoaderRefreshKeepsSelection(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	if _, err := store.Seed(ctx, hoodie()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := catalog.Loader{Store: store}
	session, meta, err := loader.Open(ctx, "prod_hoodie")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	session.SetOptionValue(ctx, "opt_size", "val_it")
	if session.IsAvailable() {
		t.Fatalf("expected pink IT out of stock")
	}

	if _, _, err := loader.AdjustInventory(ctx, "prod_hoodie", "var_pink_it", 3, meta); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, err := loader.Refresh(ctx, session); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if session.Selection()["opt_size"] != "val_it" {
		t.Fatalf("expected selection kept across refresh, got %v", session.Selection())
	}
	if !session.IsAvailable() {
		t.Fatalf("expected restocked variant to be available")
	}

	if _, err := loader.Refresh(ctx, variants.NewSession()); err == nil {
		t.Fatalf("expected error refreshing an empty session")
	}
}

func TestLoaderMutateETagMismatch(t *testing.T) {
	store := &stubStore{product: hoodie(), meta: catalog.Meta{ETag: "v2"}, ok: true}
	loader := catalog.Loader{Store: store}

	_, meta, err := loader.Mutate(context.Background(), "prod_hoodie", catalog.Meta{ETag: "v1"}, func(*variants.Product) error {
		t.Fatalf("mutator must not run on mismatch")
		return nil
	})
	if !errors.Is(err, catalog.ErrETagMismatch) {
		t.Fatalf("expected etag mismatch, got %v", err)
	}
	if meta.ETag != "v2" || store.saveCalls != 0 {
		t.Fatalf("expected loaded meta and no save, got %+v saves=%d", meta, store.saveCalls)
	}
}

func TestLoaderMutateValidationFailureDoesNotSave(t *testing.T) {
	store := &stubStore{product: hoodie(), meta: catalog.Meta{ETag: "v1"}, ok: true}
	loader := catalog.Loader{Store: store}

	_, _, err := loader.Mutate(context.Background(), "prod_hoodie", catalog.Meta{ETag: "v1"}, func(p *variants.Product) error {
		p.Variants[1].Options = p.Variants[0].Options.Clone()
		return nil
	})
	if !errors.Is(err, variants.ErrDuplicateMapping) {
		t.Fatalf("expected duplicate mapping error, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no save calls, got %d", store.saveCalls)
	}
}

func TestLoaderMutateRejectsIDChange(t *testing.T) {
	store := &stubStore{product: hoodie(), ok: true}
	loader := catalog.Loader{Store: store}
	_, _, err := loader.Mutate(context.Background(), "prod_hoodie", catalog.Meta{}, func(p *variants.Product) error {
		p.ID = "prod_other"
		return nil
	})
	if err == nil || store.saveCalls != 0 {
		t.Fatalf("expected id change to be rejected, err=%v saves=%d", err, store.saveCalls)
	}
}

func TestLoaderMutateCreatesMissingProduct(t *testing.T) {
	store := &stubStore{saveMeta: catalog.Meta{SnapshotID: "snap-1", ETag: "v1"}}
	loader := catalog.Loader{Store: store}

	product, meta, err := loader.Mutate(context.Background(), "prod_new", catalog.Meta{Extra: map[string]string{"by": "ops"}}, func(p *variants.Product) error {
		p.Title = "New"
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if product.ID != "prod_new" || store.saved.Title != "New" {
		t.Fatalf("expected new product saved, got %+v", store.saved)
	}
	if meta.ETag != "v1" || store.savedMeta.Extra["by"] != "ops" {
		t.Fatalf("unexpected meta flow: returned %+v, saved %+v", meta, store.savedMeta)
	}
}

func TestLoaderMutatePropagatesStoreErrors(t *testing.T) {
	errDown := errors.New("db down")
	loader := catalog.Loader{Store: &stubStore{loadErr: errDown}}
	if _, _, err := loader.Mutate(context.Background(), "prod_hoodie", catalog.Meta{}, func(*variants.Product) error { return nil }); !errors.Is(err, errDown) {
		t.Fatalf("expected load error, got %v", err)
	}

	store := &stubStore{product: hoodie(), ok: true, saveErr: errDown}
	loader = catalog.Loader{Store: store}
	if _, _, err := loader.Mutate(context.Background(), "prod_hoodie", catalog.Meta{}, func(*variants.Product) error { return nil }); !errors.Is(err, errDown) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestLoaderAdjustInventoryFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	if _, err := store.Seed(ctx, hoodie()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := catalog.Loader{Store: store}

	product, _, err := loader.AdjustInventory(ctx, "prod_hoodie", "var_pink_mn", -10, catalog.Meta{})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	variant, _ := product.Variant("var_pink_mn")
	if variant.InventoryQuantity != 0 {
		t.Fatalf("expected floor at zero, got %d", variant.InventoryQuantity)
	}
	if _, _, err := loader.AdjustInventory(ctx, "prod_hoodie", "var_missing", 1, catalog.Meta{}); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}
