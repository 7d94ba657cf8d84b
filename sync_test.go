package variants

import (
	"net/url"
	"testing"
)

func mustURL(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return *u
}

func TestQuerySyncWritesOnlyOnChange(t *testing.T) {
	var targets []string
	sync := NewQuerySync(mustURL(t, "/products/linen-shirt?ref=home"), "", NavigatorFunc(func(target string) {
		targets = append(targets, target)
	}))

	if sync.Param() != DefaultVariantParam {
		t.Fatalf("expected default param, got %q", sync.Param())
	}
	if !sync.Reflect("var_red_s", true) {
		t.Fatalf("expected first reflect to navigate")
	}
	if sync.Reflect("var_red_s", true) {
		t.Fatalf("expected repeated reflect to be a no-op")
	}
	if value, ok := sync.Value(); !ok || value != "var_red_s" {
		t.Fatalf("expected slot var_red_s, got %q ok=%v", value, ok)
	}
	if len(targets) != 1 || targets[0] != "/products/linen-shirt?ref=home&v_id=var_red_s" {
		t.Fatalf("unexpected navigation targets %v", targets)
	}

	if !sync.Reflect("", false) {
		t.Fatalf("expected clearing to navigate")
	}
	if sync.Reflect("", false) {
		t.Fatalf("expected repeated clear to be a no-op")
	}
	if _, ok := sync.Value(); ok {
		t.Fatalf("expected slot cleared")
	}
	if sync.Writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", sync.Writes())
	}
	if got := sync.Location().RawQuery; got != "ref=home" {
		t.Fatalf("expected unrelated params preserved, got %q", got)
	}
}

func TestQuerySyncInvalidResolutionClearsExistingSlot(t *testing.T) {
	sync := NewQuerySync(mustURL(t, "/p?sku=1&variant=var_old"), "variant", nil)
	if !sync.Reflect("var_old", false) {
		t.Fatalf("expected invalid resolution to clear the slot")
	}
	if _, ok := sync.Value(); ok {
		t.Fatalf("expected slot removed")
	}
	if sync.Reflect("var_old", false) {
		t.Fatalf("expected no write when already clear")
	}
}

func TestQuerySyncSkipsWhenSlotAlreadyMatches(t *testing.T) {
	calls := 0
	sync := NewQuerySync(mustURL(t, "/p?v_id=var_blue_s"), "", NavigatorFunc(func(string) { calls++ }))
	if sync.Reflect("var_blue_s", true) {
		t.Fatalf("expected no write for matching slot")
	}
	if calls != 0 || sync.Writes() != 0 {
		t.Fatalf("expected no navigation, got calls=%d writes=%d", calls, sync.Writes())
	}
}
