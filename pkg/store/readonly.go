package store

import (
	"context"
	"errors"

	"github.com/knowledgebox/knowledgebox/pkg/models"
)

// ErrReadOnly is returned for write operations while the application is in
// read-only maintenance mode.
var ErrReadOnly = errors.New("operation denied: application is in read-only mode")

// ReadOnlyStore wraps a Store and rejects writes when in read-only mode.
//
// The read-only state is determined dynamically by the isReadOnly function,
// so the application can toggle between read-write and read-only without
// recreating the store. Read operations always pass through.
type ReadOnlyStore struct {
	Store
	isReadOnly func() bool
}

// NewReadOnlyStore creates a read-only wrapper around store.
func NewReadOnlyStore(store Store, isReadOnly func() bool) Store {
	return &ReadOnlyStore{
		Store:      store,
		isReadOnly: isReadOnly,
	}
}

// Unwrap returns the underlying store.
func (r *ReadOnlyStore) Unwrap() Store {
	return r.Store
}

func (r *ReadOnlyStore) checkReadOnly() error {
	if r.isReadOnly() {
		return ErrReadOnly
	}
	return nil
}

// Write operations check read-only mode first.

func (r *ReadOnlyStore) Insert(ctx context.Context, kb *models.KnowledgeBox) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.Insert(ctx, kb)
}

func (r *ReadOnlyStore) Update(ctx context.Context, id string, fn Mutator) (*models.KnowledgeBox, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.Store.Update(ctx, id, fn)
}

func (r *ReadOnlyStore) Delete(ctx context.Context, id string) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.Delete(ctx, id)
}

// Get and All pass through via the embedded Store.
