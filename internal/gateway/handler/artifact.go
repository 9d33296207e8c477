package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"backforge/internal/gateway/entity"
	"backforge/internal/gateway/repository"
)

// GetArtifact returns one artifact with its content.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, ok, err := h.store.GetArtifact(r.Context(), chi.URLParam(r, "artifactID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load artifact")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "artifact not found")
		return
	}
	respondJSON(w, http.StatusOK, artifact)
}

type updateArtifactRequest struct {
	Name    *string `json:"name,omitempty"`
	Content *string `json:"content,omitempty"`
}

// UpdateArtifact applies a partial update: rename, replace content,
// or both.
func (h *Handler) UpdateArtifact(w http.ResponseWriter, r *http.Request) {
	var req updateArtifactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil && req.Content == nil {
		respondError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	id := chi.URLParam(r, "artifactID")
	var (
		artifact entity.Artifact
		err      error
	)
	if req.Content != nil {
		artifact, err = h.store.UpdateArtifactContent(r.Context(), id, *req.Content)
	}
	if err == nil && req.Name != nil {
		artifact, err = h.store.UpdateArtifactName(r.Context(), id, strings.TrimSpace(*req.Name))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "artifact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update artifact")
		return
	}
	respondJSON(w, http.StatusOK, artifact)
}

// DeleteArtifact removes a single artifact.
func (h *Handler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteArtifact(r.Context(), chi.URLParam(r, "artifactID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "artifact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete artifact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArtifactURL mirrors the artifact into object storage and returns a
// presigned download link. Unavailable when the mirror is disabled.
func (h *Handler) ArtifactURL(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil {
		respondError(w, http.StatusNotImplemented, "artifact mirror is not configured")
		return
	}

	projectID := chi.URLParam(r, "projectID")
	artifact, ok, err := h.store.GetArtifact(r.Context(), chi.URLParam(r, "artifactID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load artifact")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "artifact not found")
		return
	}

	if err := h.blobs.Put(r.Context(), projectID, artifact.Name, []byte(artifact.Content)); err != nil {
		h.log.Error().Err(err).Str("artifact_id", artifact.ID).Msg("mirror artifact")
		respondError(w, http.StatusBadGateway, "failed to mirror artifact")
		return
	}
	url, err := h.blobs.URL(r.Context(), projectID, artifact.Name)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to presign artifact")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
