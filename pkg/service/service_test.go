package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledgebox/knowledgebox/pkg/models"
	"github.com/knowledgebox/knowledgebox/pkg/service"
	"github.com/knowledgebox/knowledgebox/pkg/store/memory"
)

func newService() *service.Service {
	return service.New(memory.NewMemoryStore(), zerolog.Nop())
}

func mustCreate(t *testing.T, svc *service.Service, callerID string, req *models.CreateKnowledgeBoxRequest) *models.KnowledgeBox {
	t.Helper()
	kb, err := svc.Create(context.Background(), callerID, req)
	require.NoError(t, err)
	return kb
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreate(t *testing.T) {
	svc := newService()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{
		Title:   "Test Knowledge Box",
		Topic:   "Test Topic",
		Content: "Test Content",
		Tags:    []string{" Test ", "TEST", "knowledge"},
	})

	assert.NotEmpty(t, kb.ID)
	assert.Equal(t, "Test Knowledge Box", kb.Title)
	assert.Equal(t, "Test Topic", kb.Topic)
	assert.Equal(t, "Test Content", kb.Content)
	assert.Equal(t, "user-a", kb.OwnerID)
	assert.False(t, kb.IsPublic)
	assert.Equal(t, []string{"test", "knowledge"}, kb.Tags)
	assert.False(t, kb.CreatedAt.IsZero())
	assert.Equal(t, kb.CreatedAt, kb.UpdatedAt)
}

func TestCreateValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", &models.CreateKnowledgeBoxRequest{Topic: "topic"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Create(ctx, "user-a", &models.CreateKnowledgeBoxRequest{Title: "title"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Create(ctx, "user-a", &models.CreateKnowledgeBoxRequest{Title: "  ", Topic: "topic"})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestGetByID(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "T", Topic: "P"})

	got, err := svc.GetByID(ctx, "user-a", kb.ID)
	require.NoError(t, err)
	assert.Equal(t, kb, got)

	_, err = svc.GetByID(ctx, "user-a", "no-such-id")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetByIDVisibility(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	private := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "Private", Topic: "P"})
	public := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "Public", Topic: "P", IsPublic: true})

	// Owner reads both.
	_, err := svc.GetByID(ctx, "user-a", private.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, "user-a", public.ID)
	assert.NoError(t, err)

	// A stranger reads the public one, and the private one is
	// indistinguishable from a missing record.
	_, err = svc.GetByID(ctx, "user-b", public.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, "user-b", private.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdatePartial(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{
		Title:   "Original Title",
		Topic:   "Original Topic",
		Content: "Original Content",
		Tags:    []string{"keep", "these"},
	})

	time.Sleep(5 * time.Millisecond)

	updated, err := svc.Update(ctx, "user-a", kb.ID, &models.UpdateKnowledgeBoxRequest{
		Title: strPtr("New Title"),
	})
	require.NoError(t, err)

	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "Original Topic", updated.Topic)
	assert.Equal(t, "Original Content", updated.Content)
	assert.Equal(t, []string{"keep", "these"}, updated.Tags)
	assert.False(t, updated.IsPublic)
	assert.Equal(t, kb.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(kb.UpdatedAt), "UpdatedAt must move strictly forward")
	assert.Equal(t, "user-a", updated.OwnerID)
}

func TestUpdateReplacesTagSet(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{
		Title: "T", Topic: "P", Tags: []string{"old", "tags"},
	})

	updated, err := svc.Update(ctx, "user-a", kb.ID, &models.UpdateKnowledgeBoxRequest{
		Tags: []string{" AI ", "ai", "ML"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "ml"}, updated.Tags)

	// Explicit empty slice clears the set; nil would have left it alone.
	cleared, err := svc.Update(ctx, "user-a", kb.ID, &models.UpdateKnowledgeBoxRequest{
		Tags: []string{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)
}

func TestUpdateExplicitZeroValues(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{
		Title: "T", Topic: "P", Content: "something", IsPublic: true,
	})

	updated, err := svc.Update(ctx, "user-a", kb.ID, &models.UpdateKnowledgeBoxRequest{
		Content:  strPtr(""),
		IsPublic: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Content)
	assert.False(t, updated.IsPublic)
}

func TestUpdateAuthorization(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	// Public visibility never grants write access.
	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{
		Title: "T", Topic: "P", IsPublic: true,
	})

	_, err := svc.Update(ctx, "user-b", kb.ID, &models.UpdateKnowledgeBoxRequest{
		Title: strPtr("hijacked"),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	got, err := svc.GetByID(ctx, "user-a", kb.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "T", Topic: "P"})

	require.NoError(t, svc.Delete(ctx, "user-a", kb.ID))

	_, err := svc.GetByID(ctx, "user-a", kb.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// Idempotence: the second delete is a clean not-found.
	assert.ErrorIs(t, svc.Delete(ctx, "user-a", kb.ID), service.ErrNotFound)
}

func TestDeleteAuthorization(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	kb := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{
		Title: "T", Topic: "P", IsPublic: true,
	})

	assert.ErrorIs(t, svc.Delete(ctx, "user-b", kb.ID), service.ErrNotFound)

	_, err := svc.GetByID(ctx, "user-a", kb.ID)
	assert.NoError(t, err)
}

func TestListAllIsOwnerScoped(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "A1", Topic: "P"})
	mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "A2", Topic: "P", IsPublic: true})
	mustCreate(t, svc, "user-b", &models.CreateKnowledgeBoxRequest{Title: "B1", Topic: "P", IsPublic: true})

	records, err := svc.ListAll(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, kb := range records {
		assert.Equal(t, "user-a", kb.OwnerID)
	}

	empty, err := svc.ListAll(ctx, "user-c")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListAllSortedByRecency(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "First", Topic: "P"})
	second := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "Second", Topic: "P"})

	time.Sleep(5 * time.Millisecond)
	_, err := svc.Update(ctx, "user-a", first.ID, &models.UpdateKnowledgeBoxRequest{
		Content: strPtr("bumped"),
	})
	require.NoError(t, err)

	records, err := svc.ListAll(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestListPublic(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "Private A", Topic: "P"})
	pubA := mustCreate(t, svc, "user-a", &models.CreateKnowledgeBoxRequest{Title: "Public A", Topic: "P", IsPublic: true})
	pubB := mustCreate(t, svc, "user-b", &models.CreateKnowledgeBoxRequest{Title: "Public B", Topic: "P", IsPublic: true})

	records, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, kb := range records {
		assert.True(t, kb.IsPublic, "listPublic must never return a private record")
	}

	ids := []string{records[0].ID, records[1].ID}
	assert.Contains(t, ids, pubA.ID)
	assert.Contains(t, ids, pubB.ID)
}
