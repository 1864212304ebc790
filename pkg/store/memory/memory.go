// Package memory provides the in-memory Store implementation backing the
// knowledge box service. All records live for the lifetime of the process.
package memory

import (
	"context"
	"sync"

	"github.com/knowledgebox/knowledgebox/pkg/models"
	"github.com/knowledgebox/knowledgebox/pkg/store"
)

// MemoryStore keeps records in a map guarded by a RWMutex. Every operation
// holds the lock for its full duration, so single operations are atomic
// with respect to each other. Records are cloned on the way in and out;
// nothing outside the store ever holds a live reference to stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.KnowledgeBox
	order   []string // insertion order for stable snapshots
}

var _ store.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*models.KnowledgeBox),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, kb *models.KnowledgeBox) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[kb.ID]; exists {
		return store.ErrDuplicateID
	}
	s.records[kb.ID] = kb.Clone()
	s.order = append(s.order, kb.ID)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.KnowledgeBox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kb, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return kb.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn store.Mutator) (*models.KnowledgeBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kb, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	fn(kb)
	return kb.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) All(ctx context.Context) ([]*models.KnowledgeBox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.KnowledgeBox, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out, nil
}

// Len returns the number of stored records. Useful for tests and health
// reporting.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error {
	return nil
}
