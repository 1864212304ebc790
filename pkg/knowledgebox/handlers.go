package knowledgebox

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/knowledgebox/knowledgebox/pkg/models"
	"github.com/knowledgebox/knowledgebox/pkg/service"
	"github.com/knowledgebox/knowledgebox/pkg/store"
)

// handleListKnowledgeBoxes returns every record owned by the caller,
// most recently updated first.
//
// GET /knowledgeboxes
func (a *App) handleListKnowledgeBoxes(w http.ResponseWriter, r *http.Request, callerID string) {
	records, err := a.service.ListAll(r.Context(), callerID)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.KnowledgeBoxListResponse{
		Success:        true,
		KnowledgeBoxes: records,
		TotalCount:     len(records),
	})
}

// handleGetKnowledgeBox returns a single record by ID. Records the caller
// may not read are reported as not found.
//
// GET /knowledgeboxes/{id}
func (a *App) handleGetKnowledgeBox(w http.ResponseWriter, r *http.Request, callerID string) {
	id := mux.Vars(r)["id"]

	kb, err := a.service.GetByID(r.Context(), callerID, id)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.KnowledgeBoxResponse{
		Success:      true,
		KnowledgeBox: kb,
	})
}

// handleCreateKnowledgeBox creates a record owned by the caller.
//
// POST /knowledgeboxes
func (a *App) handleCreateKnowledgeBox(w http.ResponseWriter, r *http.Request, callerID string) {
	var req models.CreateKnowledgeBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	kb, err := a.service.Create(r.Context(), callerID, &req)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, models.KnowledgeBoxResponse{
		Success:      true,
		Message:      "Knowledge box created successfully",
		KnowledgeBox: kb,
	})
}

// handleUpdateKnowledgeBox applies a partial update to a record the caller
// owns. Fields omitted from the payload are left unchanged.
//
// PUT /knowledgeboxes/{id}
func (a *App) handleUpdateKnowledgeBox(w http.ResponseWriter, r *http.Request, callerID string) {
	id := mux.Vars(r)["id"]

	var req models.UpdateKnowledgeBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	kb, err := a.service.Update(r.Context(), callerID, id, &req)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.KnowledgeBoxResponse{
		Success:      true,
		Message:      "Knowledge box updated successfully",
		KnowledgeBox: kb,
	})
}

// handleDeleteKnowledgeBox removes a record the caller owns.
//
// DELETE /knowledgeboxes/{id}
func (a *App) handleDeleteKnowledgeBox(w http.ResponseWriter, r *http.Request, callerID string) {
	id := mux.Vars(r)["id"]

	if err := a.service.Delete(r.Context(), callerID, id); err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.DeleteKnowledgeBoxResponse{
		Success: true,
		Message: "Knowledge box deleted successfully",
	})
}

// handleSearchKnowledgeBoxes filters the records visible to the caller by
// free-text query and/or comma-separated tags.
//
// GET /knowledgeboxes/search?query=&tags=
func (a *App) handleSearchKnowledgeBoxes(w http.ResponseWriter, r *http.Request, callerID string) {
	query := r.URL.Query().Get("query")
	tags := r.URL.Query().Get("tags")

	records, err := a.service.Search(r.Context(), callerID, query, tags)
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.KnowledgeBoxListResponse{
		Success:        true,
		KnowledgeBoxes: records,
		TotalCount:     len(records),
	})
}

// handleListPublicKnowledgeBoxes returns every public record across all
// owners. No authentication required.
//
// GET /knowledgeboxes/public
func (a *App) handleListPublicKnowledgeBoxes(w http.ResponseWriter, r *http.Request) {
	records, err := a.service.ListPublic(r.Context())
	if err != nil {
		a.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.KnowledgeBoxListResponse{
		Success:        true,
		KnowledgeBoxes: records,
		TotalCount:     len(records),
	})
}

// handleHealth reports liveness plus the current operating mode.
//
// GET /health
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"anonymous": a.config.Anonymous,
		"readOnly":  a.IsReadOnly(),
		"time":      time.Now().Unix(),
	})
}

// respondServiceError maps service outcomes to the response envelope.
// Validation and read-only rejections are business failures (400),
// not-found is 404, and anything else is an internal fault that gets
// logged and surfaced generically.
func (a *App) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Knowledge box not found")
	case errors.Is(err, store.ErrReadOnly):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		a.log.Error().Err(err).Msg("internal fault")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response with the given status and payload.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends a failure envelope with the given status and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.KnowledgeBoxResponse{
		Success: false,
		Message: message,
	})
}
