package service

import "github.com/knowledgebox/knowledgebox/pkg/models"

// CanRead reports whether callerID may read the record: the owner always
// can, and anyone can read a public record.
func CanRead(kb *models.KnowledgeBox, callerID string) bool {
	return kb.IsPublic || kb.OwnerID == callerID
}

// CanWrite reports whether callerID may mutate or delete the record.
// Only the owner can; public visibility never grants write access.
func CanWrite(kb *models.KnowledgeBox, callerID string) bool {
	return kb.OwnerID == callerID
}
