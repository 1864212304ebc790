// Package store defines the storage contract for knowledge box records.
//
// The store is deliberately dumb: it knows nothing about callers or
// visibility. Ownership checks and query semantics live in the service
// layer, which is the only component that talks to a Store.
package store

import (
	"context"
	"errors"

	"github.com/knowledgebox/knowledgebox/pkg/models"
)

var (
	// ErrNotFound is returned when no record exists for the given ID.
	ErrNotFound = errors.New("knowledge box not found")
	// ErrDuplicateID is returned by Insert when the ID is already taken.
	// With generated UUIDs this should never happen in practice.
	ErrDuplicateID = errors.New("knowledge box ID already exists")
)

// Mutator is applied to a record inside the store's critical section.
// The record passed in is the stored copy; the mutator may modify it in
// place and the result is persisted atomically.
type Mutator func(kb *models.KnowledgeBox)

// Store holds all knowledge box records. Implementations must serialize
// mutations so that two concurrent updates to the same record cannot lose
// writes, and reads must never observe a record mid-mutation.
type Store interface {
	// Insert stores a new record. Fails with ErrDuplicateID if the ID exists.
	Insert(ctx context.Context, kb *models.KnowledgeBox) error

	// Get returns a copy of the record, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.KnowledgeBox, error)

	// Update applies fn to the stored record atomically and returns a copy
	// of the result, or ErrNotFound if the ID is absent.
	Update(ctx context.Context, id string, fn Mutator) (*models.KnowledgeBox, error)

	// Delete removes the record permanently, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// All returns a snapshot of every record in insertion order. The
	// service imposes any caller-facing ordering on top of this.
	All(ctx context.Context) ([]*models.KnowledgeBox, error)

	// Close releases any resources held by the store.
	Close() error
}
