// Package catalog loads and persists products for variant sessions.
//
// A Store loads and saves one product snapshot keyed by product ID. The
// Loader sits on top of a Store and:
//   - opens a *variants.Session with the stored product already loaded;
//   - refreshes a session in place (same product ID keeps the selection, so
//     inventory updates reach an open product page without resetting it);
//   - mutates a stored product under optimistic concurrency (Meta.ETag) and
//     validates it with Product.Validate before saving.
//
// Two stores are provided: MemoryStore for tests and examples, and
// PostgresStore backed by database/sql with the pgx driver.
//
// DecodeStorefrontProduct converts the storefront product JSON (options with
// values, variants with {option_id, value} pairs and inventory flags) into a
// variants.Product.
package catalog
