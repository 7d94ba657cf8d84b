package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	variants "github.com/goliatone/go-variants"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and examples. Every save gets a
// fresh snapshot ID and ETag.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	product variants.Product
	meta    Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, productID string) (variants.Product, Meta, bool, error) {
	if productID == "" {
		return variants.Product{}, Meta{}, false, fmt.Errorf("catalog: product id is required")
	}
	s.mu.RLock()
	record, ok := s.records[productID]
	s.mu.RUnlock()
	if !ok {
		return variants.Product{}, Meta{}, false, nil
	}
	return cloneProduct(record.product), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, product variants.Product, meta Meta) (Meta, error) {
	if product.ID == "" {
		return Meta{}, variants.ErrProductIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.records[product.ID]; ok && meta.ETag != "" && meta.ETag != current.meta.ETag {
		return Meta{}, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, current.meta.ETag)
	}

	saved := cloneMeta(meta)
	saved.SnapshotID = uuid.NewString()
	saved.ETag = uuid.NewString()
	saved.UpdatedAt = s.now().UTC()
	s.records[product.ID] = memoryRecord{product: cloneProduct(product), meta: saved}
	return cloneMeta(saved), nil
}

// Seed stores products unconditionally, returning the last saved metadata.
func (s *MemoryStore) Seed(ctx context.Context, products ...variants.Product) (Meta, error) {
	var meta Meta
	for _, product := range products {
		var err error
		meta, err = s.Save(ctx, product, Meta{})
		if err != nil {
			return Meta{}, err
		}
	}
	return meta, nil
}
