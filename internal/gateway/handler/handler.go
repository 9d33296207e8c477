// Package handler exposes the gateway's REST, SSE, and WebSocket
// endpoints over the workflow manager, chat router, and repository.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"backforge/internal/chatrouter"
	"backforge/internal/gateway/repository"
	"backforge/internal/gateway/repository/blob"
	"backforge/internal/workflow"
)

// Handler holds the gateway's request-handling dependencies.
type Handler struct {
	store   repository.Store
	manager *workflow.Manager
	chat    *chatrouter.Router
	broker  *workflow.EventBroker
	blobs   blob.Store // nil when the artifact mirror is disabled
	log     zerolog.Logger
}

func New(store repository.Store, manager *workflow.Manager, chat *chatrouter.Router, broker *workflow.EventBroker, blobs blob.Store, log zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		manager: manager,
		chat:    chat,
		broker:  broker,
		blobs:   blobs,
		log:     log.With().Str("component", "handler").Logger(),
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

const maxRequestBody = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
