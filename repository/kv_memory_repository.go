package repository

import (
	"context"
	"sync"
)

// KVMemoryRepository keeps values in process memory. Used in development and tests.
type KVMemoryRepository struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewKVMemoryRepository creates a new KVMemoryRepository
func NewKVMemoryRepository() *KVMemoryRepository {
	return &KVMemoryRepository{values: make(map[string]map[string]string)}
}

// Ensure KVMemoryRepository implements KeyValueRepositoryInterface
var _ KeyValueRepositoryInterface = (*KVMemoryRepository)(nil)

// Get returns the value stored under name, or ErrNotFound
func (r *KVMemoryRepository) Get(ctx context.Context, scope, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[scope][name]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under name
func (r *KVMemoryRepository) Set(ctx context.Context, scope, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.values[scope]
	if !ok {
		bucket = make(map[string]string)
		r.values[scope] = bucket
	}
	bucket[name] = value
	return nil
}

// Delete removes name; deleting a missing name is not an error
func (r *KVMemoryRepository) Delete(ctx context.Context, scope, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values[scope], name)
	return nil
}
