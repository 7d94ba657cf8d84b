package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	variants "github.com/goliatone/go-variants"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Schema creates the tables PostgresStore reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	handle      TEXT NOT NULL DEFAULT '',
	snapshot_id TEXT NOT NULL,
	etag        TEXT NOT NULL,
	extra       JSONB,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS product_options (
	product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	position   INT NOT NULL,
	PRIMARY KEY (product_id, id)
);
CREATE TABLE IF NOT EXISTS product_option_values (
	product_id TEXT NOT NULL,
	option_id  TEXT NOT NULL,
	id         TEXT NOT NULL,
	value      TEXT NOT NULL DEFAULT '',
	position   INT NOT NULL,
	PRIMARY KEY (product_id, option_id, id),
	FOREIGN KEY (product_id, option_id) REFERENCES product_options(product_id, id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS product_variants (
	product_id         TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	id                 TEXT NOT NULL,
	title              TEXT NOT NULL DEFAULT '',
	sku                TEXT NOT NULL DEFAULT '',
	manage_inventory   BOOLEAN NOT NULL DEFAULT false,
	allow_backorder    BOOLEAN NOT NULL DEFAULT false,
	inventory_quantity INT NOT NULL DEFAULT 0,
	metadata           JSONB,
	position           INT NOT NULL,
	PRIMARY KEY (product_id, id)
);
CREATE TABLE IF NOT EXISTS product_variant_options (
	product_id TEXT NOT NULL,
	variant_id TEXT NOT NULL,
	option_id  TEXT NOT NULL,
	value_id   TEXT NOT NULL,
	PRIMARY KEY (product_id, variant_id, option_id),
	FOREIGN KEY (product_id, variant_id) REFERENCES product_variants(product_id, id) ON DELETE CASCADE
);
`

// Logger receives store diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// PostgresStore persists products across five normalised tables. Saves run in
// one transaction that locks the product row, checks the ETag and rewrites
// the options and variants.
type PostgresStore struct {
	db     *sql.DB
	logger Logger
	now    func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithStoreLogger attaches a logger to the store.
func WithStoreLogger(logger Logger) PostgresOption {
	return func(s *PostgresStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, logger: noopLogger{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OpenPostgres opens a pgx-backed *sql.DB for dsn and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("catalog: database url is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the catalog tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("catalog: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, productID string) (variants.Product, Meta, bool, error) {
	if productID == "" {
		return variants.Product{}, Meta{}, false, fmt.Errorf("catalog: product id is required")
	}

	product := variants.Product{ID: productID}
	var meta Meta
	var extra []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT title, handle, snapshot_id, etag, extra, updated_at
		FROM products
		WHERE id = $1
	`, productID).Scan(&product.Title, &product.Handle, &meta.SnapshotID, &meta.ETag, &extra, &meta.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return variants.Product{}, Meta{}, false, nil
	}
	if err != nil {
		return variants.Product{}, Meta{}, false, fmt.Errorf("catalog: query product %q: %w", productID, err)
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &meta.Extra); err != nil {
			return variants.Product{}, Meta{}, false, fmt.Errorf("catalog: decode extra for %q: %w", productID, err)
		}
	}

	if product.Options, err = s.loadOptions(ctx, productID); err != nil {
		return variants.Product{}, Meta{}, false, err
	}
	if product.Variants, err = s.loadVariants(ctx, productID); err != nil {
		return variants.Product{}, Meta{}, false, err
	}
	s.logger.Printf("catalog: loaded product %s (%d options, %d variants, etag=%s)",
		productID, len(product.Options), len(product.Variants), meta.ETag)
	return product, meta, true, nil
}

func (s *PostgresStore) loadOptions(ctx context.Context, productID string) ([]variants.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title
		FROM product_options
		WHERE product_id = $1
		ORDER BY position
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query options for %q: %w", productID, err)
	}
	var options []variants.Option
	index := map[string]int{}
	for rows.Next() {
		var option variants.Option
		if err := rows.Scan(&option.ID, &option.Title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("catalog: scan option: %w", err)
		}
		index[option.ID] = len(options)
		options = append(options, option)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate options: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT option_id, id, value
		FROM product_option_values
		WHERE product_id = $1
		ORDER BY option_id, position
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query option values for %q: %w", productID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var optionID string
		var value variants.Value
		if err := rows.Scan(&optionID, &value.ID, &value.Label); err != nil {
			return nil, fmt.Errorf("catalog: scan option value: %w", err)
		}
		if i, ok := index[optionID]; ok {
			options[i].Values = append(options[i].Values, value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate option values: %w", err)
	}
	return options, nil
}

func (s *PostgresStore) loadVariants(ctx context.Context, productID string) ([]variants.Variant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, sku, manage_inventory, allow_backorder, inventory_quantity, metadata
		FROM product_variants
		WHERE product_id = $1
		ORDER BY position
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query variants for %q: %w", productID, err)
	}
	var list []variants.Variant
	index := map[string]int{}
	for rows.Next() {
		var variant variants.Variant
		var metadata []byte
		if err := rows.Scan(&variant.ID, &variant.Title, &variant.SKU, &variant.ManageInventory,
			&variant.AllowBackorder, &variant.InventoryQuantity, &metadata); err != nil {
			rows.Close()
			return nil, fmt.Errorf("catalog: scan variant: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &variant.Metadata); err != nil {
				rows.Close()
				return nil, fmt.Errorf("catalog: decode metadata for variant %q: %w", variant.ID, err)
			}
		}
		variant.Options = variants.Selection{}
		index[variant.ID] = len(list)
		list = append(list, variant)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate variants: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT variant_id, option_id, value_id
		FROM product_variant_options
		WHERE product_id = $1
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query variant options for %q: %w", productID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var variantID, optionID, valueID string
		if err := rows.Scan(&variantID, &optionID, &valueID); err != nil {
			return nil, fmt.Errorf("catalog: scan variant option: %w", err)
		}
		if i, ok := index[variantID]; ok {
			list[i].Options[optionID] = valueID
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate variant options: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) Save(ctx context.Context, product variants.Product, meta Meta) (Meta, error) {
	if product.ID == "" {
		return Meta{}, variants.ErrProductIDRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("catalog: begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT etag FROM products WHERE id = $1 FOR UPDATE`, product.ID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return Meta{}, fmt.Errorf("catalog: lock product %q: %w", product.ID, err)
	case meta.ETag != "" && meta.ETag != current:
		return Meta{}, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, current)
	}

	saved := cloneMeta(meta)
	saved.SnapshotID = uuid.NewString()
	saved.ETag = uuid.NewString()
	saved.UpdatedAt = s.now().UTC()
	extra, err := jsonParam(saved.Extra)
	if err != nil {
		return Meta{}, fmt.Errorf("catalog: encode extra: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, title, handle, snapshot_id, etag, extra, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			handle = EXCLUDED.handle,
			snapshot_id = EXCLUDED.snapshot_id,
			etag = EXCLUDED.etag,
			extra = EXCLUDED.extra,
			updated_at = EXCLUDED.updated_at
	`, product.ID, product.Title, product.Handle, saved.SnapshotID, saved.ETag, extra, saved.UpdatedAt); err != nil {
		return Meta{}, fmt.Errorf("catalog: upsert product %q: %w", product.ID, err)
	}

	for _, stmt := range []string{
		`DELETE FROM product_options WHERE product_id = $1`,
		`DELETE FROM product_variants WHERE product_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, product.ID); err != nil {
			return Meta{}, fmt.Errorf("catalog: clear children of %q: %w", product.ID, err)
		}
	}
	if err := insertOptions(ctx, tx, product); err != nil {
		return Meta{}, err
	}
	if err := insertVariants(ctx, tx, product); err != nil {
		return Meta{}, err
	}

	if err := tx.Commit(); err != nil {
		return Meta{}, fmt.Errorf("catalog: commit product %q: %w", product.ID, err)
	}
	s.logger.Printf("catalog: saved product %s (snapshot=%s etag=%s)", product.ID, saved.SnapshotID, saved.ETag)
	return saved, nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, product variants.Product) error {
	for position, option := range product.Options {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_options (product_id, id, title, position)
			VALUES ($1, $2, $3, $4)
		`, product.ID, option.ID, option.Title, position); err != nil {
			return fmt.Errorf("catalog: insert option %q: %w", option.ID, err)
		}
		for valuePosition, value := range option.Values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO product_option_values (product_id, option_id, id, value, position)
				VALUES ($1, $2, $3, $4, $5)
			`, product.ID, option.ID, value.ID, value.Label, valuePosition); err != nil {
				return fmt.Errorf("catalog: insert value %q of option %q: %w", value.ID, option.ID, err)
			}
		}
	}
	return nil
}

func insertVariants(ctx context.Context, tx *sql.Tx, product variants.Product) error {
	for position, variant := range product.Variants {
		metadata, err := jsonParam(variant.Metadata)
		if err != nil {
			return fmt.Errorf("catalog: encode metadata for variant %q: %w", variant.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (product_id, id, title, sku, manage_inventory, allow_backorder, inventory_quantity, metadata, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, product.ID, variant.ID, variant.Title, variant.SKU, variant.ManageInventory,
			variant.AllowBackorder, variant.InventoryQuantity, metadata, position); err != nil {
			return fmt.Errorf("catalog: insert variant %q: %w", variant.ID, err)
		}
		for optionID, valueID := range variant.Options {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO product_variant_options (product_id, variant_id, option_id, value_id)
				VALUES ($1, $2, $3, $4)
			`, product.ID, variant.ID, optionID, valueID); err != nil {
				return fmt.Errorf("catalog: insert option %q of variant %q: %w", optionID, variant.ID, err)
			}
		}
	}
	return nil
}

// jsonParam encodes a map for a JSONB column, mapping empty maps to NULL.
func jsonParam(value map[string]string) (sql.NullString, error) {
	if len(value) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}
