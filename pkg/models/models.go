// Package models defines the knowledge box entity and the request and
// response shapes exchanged over the HTTP API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousOwner is the sentinel owner identity assigned to records created
// while the server runs in anonymous mode (no authentication configured).
const AnonymousOwner = "anonymous"

// KnowledgeBox is a single knowledge box record. A record belongs to the
// user that created it; OwnerID never changes after creation. Tags are kept
// normalized at all times: lowercase, trimmed, no empties, no duplicates.
// Collaborators are stored for clients but carry no permissions.
type KnowledgeBox struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Content       string    `json:"content"`
	OwnerID       string    `json:"ownerId"`
	IsPublic      bool      `json:"isPublic"`
	Tags          []string  `json:"tags"`
	Collaborators []string  `json:"collaborators"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewRecordID generates a unique identifier for a new record.
func NewRecordID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of the record. The store hands out clones so
// callers never hold a reference into its internal state.
func (kb *KnowledgeBox) Clone() *KnowledgeBox {
	out := *kb
	if kb.Tags != nil {
		out.Tags = append([]string(nil), kb.Tags...)
	}
	if kb.Collaborators != nil {
		out.Collaborators = append([]string(nil), kb.Collaborators...)
	}
	return &out
}

// HasTag reports whether the record carries the given normalized tag.
func (kb *KnowledgeBox) HasTag(tag string) bool {
	for _, t := range kb.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CreateKnowledgeBoxRequest is the payload for creating a record.
// Title and Topic are required; the rest default to zero values.
type CreateKnowledgeBoxRequest struct {
	Title         string   `json:"title"`
	Topic         string   `json:"topic"`
	Content       string   `json:"content"`
	IsPublic      bool     `json:"isPublic"`
	Tags          []string `json:"tags"`
	Collaborators []string `json:"collaborators"`
}

// UpdateKnowledgeBoxRequest is a patch: a nil field means "leave unchanged".
// Pointer fields distinguish an omitted value from an explicit zero, so a
// client can set Content to the empty string or IsPublic to false. A non-nil
// Tags slice replaces the entire tag set after normalization; partial tag
// edits are not supported.
type UpdateKnowledgeBoxRequest struct {
	Title         *string  `json:"title"`
	Topic         *string  `json:"topic"`
	Content       *string  `json:"content"`
	IsPublic      *bool    `json:"isPublic"`
	Tags          []string `json:"tags"`
	Collaborators []string `json:"collaborators"`
}

// KnowledgeBoxResponse is the envelope for single-record operations.
type KnowledgeBoxResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	KnowledgeBox *KnowledgeBox `json:"knowledgeBox,omitempty"`
}

// KnowledgeBoxListResponse is the envelope for list and search operations.
type KnowledgeBoxListResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message,omitempty"`
	KnowledgeBoxes []*KnowledgeBox `json:"knowledgeBoxes,omitempty"`
	TotalCount     int             `json:"totalCount"`
}

// DeleteKnowledgeBoxResponse is the envelope for delete operations.
type DeleteKnowledgeBoxResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TokenResponse is returned by the test-token issuance endpoints.
type TokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GenerateTokenRequest asks the auth endpoint to mint a JWT for the given
// identity. Both fields fall back to test defaults when empty.
type GenerateTokenRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
