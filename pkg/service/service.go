// Package service implements the knowledge box operations on top of a
// store.Store. It is the only component that touches the store; the
// authorization policy and query filtering are applied here, per request.
//
// Expected business outcomes (validation failures, not-found) are returned
// as sentinel errors rather than propagated as faults. A record the caller
// may not read is reported exactly like a missing record, so private
// records owned by other users do not leak their existence.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/knowledgebox/knowledgebox/pkg/models"
	"github.com/knowledgebox/knowledgebox/pkg/store"
)

var (
	// ErrNotFound covers both a genuinely absent record and a record the
	// caller is not allowed to see or touch.
	ErrNotFound = store.ErrNotFound

	// ErrValidation is returned when a create request is missing required
	// fields.
	ErrValidation = errors.New("title and topic are required")
)

// Service orchestrates store access, authorization, and search for every
// knowledge box operation.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// New creates a Service backed by st.
func New(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Create validates the request, normalizes tags, and inserts a new record
// owned by callerID.
func (s *Service) Create(ctx context.Context, callerID string, req *models.CreateKnowledgeBoxRequest) (*models.KnowledgeBox, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Topic) == "" {
		return nil, ErrValidation
	}

	now := time.Now().UTC()
	kb := &models.KnowledgeBox{
		ID:            models.NewRecordID(),
		Title:         req.Title,
		Topic:         req.Topic,
		Content:       req.Content,
		OwnerID:       callerID,
		IsPublic:      req.IsPublic,
		Tags:          models.NormalizeTags(req.Tags),
		Collaborators: append([]string(nil), req.Collaborators...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Insert(ctx, kb); err != nil {
		return nil, err
	}
	s.log.Debug().Str("id", kb.ID).Str("owner", callerID).Msg("knowledge box created")
	return kb, nil
}

// GetByID returns the record when callerID may read it. Absent records and
// unreadable records are both ErrNotFound.
func (s *Service) GetByID(ctx context.Context, callerID, id string) (*models.KnowledgeBox, error) {
	kb, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(kb, callerID) {
		return nil, ErrNotFound
	}
	return kb, nil
}

// Update applies the patch to the record when callerID owns it. Nil fields
// in the patch leave the stored value untouched; a non-nil Tags slice
// replaces the whole tag set after normalization. UpdatedAt is refreshed on
// success. The ownership check runs inside the store's critical section, so
// a concurrent delete or update cannot interleave with it.
func (s *Service) Update(ctx context.Context, callerID, id string, req *models.UpdateKnowledgeBoxRequest) (*models.KnowledgeBox, error) {
	denied := false
	kb, err := s.store.Update(ctx, id, func(kb *models.KnowledgeBox) {
		if !CanWrite(kb, callerID) {
			denied = true
			return
		}
		if req.Title != nil {
			kb.Title = *req.Title
		}
		if req.Topic != nil {
			kb.Topic = *req.Topic
		}
		if req.Content != nil {
			kb.Content = *req.Content
		}
		if req.IsPublic != nil {
			kb.IsPublic = *req.IsPublic
		}
		if req.Tags != nil {
			kb.Tags = models.NormalizeTags(req.Tags)
		}
		if req.Collaborators != nil {
			// Collaborators are opaque identity strings: stored as given,
			// never consulted by any authorization decision.
			kb.Collaborators = append([]string(nil), req.Collaborators...)
		}
		kb.UpdatedAt = time.Now().UTC()
	})
	if err != nil {
		return nil, err
	}
	if denied {
		return nil, ErrNotFound
	}
	s.log.Debug().Str("id", id).Str("owner", callerID).Msg("knowledge box updated")
	return kb, nil
}

// Delete removes the record when callerID owns it. A record deleted by a
// racing request surfaces as ErrNotFound, never as corruption.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	kb, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanWrite(kb, callerID) {
		return ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug().Str("id", id).Str("owner", callerID).Msg("knowledge box deleted")
	return nil
}

// ListAll returns every record owned by callerID, most recently updated
// first. An empty result is a success, not an error.
func (s *Service) ListAll(ctx context.Context, callerID string) ([]*models.KnowledgeBox, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.KnowledgeBox, 0, len(records))
	for _, kb := range records {
		if kb.OwnerID == callerID {
			out = append(out, kb)
		}
	}
	sortByRecency(out)
	return out, nil
}

// Search filters the records visible to callerID (owned or public) by
// free-text query and/or comma-separated tags, sorted by recency.
func (s *Service) Search(ctx context.Context, callerID, query, tagsCSV string) ([]*models.KnowledgeBox, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return searchRecords(records, callerID, query, models.SplitTagsCSV(tagsCSV)), nil
}

// ListPublic returns every public record across all owners, most recently
// updated first. No caller identity is involved.
func (s *Service) ListPublic(ctx context.Context) ([]*models.KnowledgeBox, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.KnowledgeBox, 0, len(records))
	for _, kb := range records {
		if kb.IsPublic {
			out = append(out, kb)
		}
	}
	sortByRecency(out)
	return out, nil
}
