package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"backforge/internal/agent"
	"backforge/internal/gateway/entity"
	"backforge/internal/workflow"
)

// StreamGeneration runs generation while streaming progress to the
// client as server-sent events. With a stage in the body only that
// stage runs; otherwise the full workflow does.
func (h *Handler) StreamGeneration(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var stageType entity.StageType
	if strings.TrimSpace(req.Stage) != "" {
		parsed, ok := entity.ParseStageType(req.Stage)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown stage type")
			return
		}
		stageType = parsed
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(ev workflow.Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			return
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	if msg := strings.TrimSpace(req.Message); msg != "" {
		send(workflow.Event{Type: workflow.EventUserMessage, Message: msg})
	}

	projectID := chi.URLParam(r, "projectID")
	var err error
	if stageType != "" {
		_, err = h.manager.ExecuteStageStream(r.Context(), projectID, stageType, func(c agent.StreamChunk) {
			send(chunkEvent(stageType, c))
		})
		if err == nil {
			send(workflow.Event{Type: workflow.EventComplete, Stage: stageType, Message: "Stage completed"})
		}
	} else {
		err = h.manager.StartWorkflow(r.Context(), projectID, send)
	}
	if err != nil {
		if errors.Is(err, workflow.ErrProjectNotFound) {
			send(workflow.Event{Type: workflow.EventError, Message: "project not found"})
			return
		}
		h.log.Error().Err(err).Str("project_id", projectID).Msg("streamed generation failed")
		send(workflow.Event{Type: workflow.EventError, Stage: stageType, Message: "generation failed"})
	}
}

func chunkEvent(stage entity.StageType, c agent.StreamChunk) workflow.Event {
	return workflow.Event{
		Type:       workflow.EventType(c.Type),
		Stage:      stage,
		Message:    c.Message,
		Content:    c.Content,
		FileName:   c.FileName,
		FileType:   c.FileType,
		Language:   c.Language,
		ArtifactID: c.ArtifactID,
	}
}
