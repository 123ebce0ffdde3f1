package records

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   []Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Initialize is a no-op for the memory store.
func (r *MemoryRepo) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// Insert appends rec with the next id.
func (r *MemoryRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, storageErr("insert", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = r.nextID
	r.nextID++
	r.data = append(r.data, rec)
	return rec, nil
}

// ListAll returns a copy of all records in insertion order.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.data))
	copy(out, r.data)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
