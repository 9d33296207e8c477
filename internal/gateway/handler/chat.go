package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"backforge/internal/chatrouter"
	"backforge/internal/gateway/entity"
)

const minMessageChars = 2

type chatRequest struct {
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// Chat routes one conversational turn through the chat router. The
// reply may be plain conversation or the result of a generation run.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(strings.TrimSpace(req.Message)) < minMessageChars {
		respondError(w, http.StatusBadRequest, "message is too short")
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

	result, err := h.chat.Handle(r.Context(), chi.URLParam(r, "projectID"), req.Message, stageType)
	if err != nil {
		if errors.Is(err, chatrouter.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.log.Error().Err(err).Msg("chat turn failed")
		respondError(w, http.StatusInternalServerError, "chat failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ListMessages returns a project's chat history, optionally filtered
// to one stage via ?stage=.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, ok, err := h.store.GetProject(r.Context(), projectID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load project")
		return
	} else if !ok {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	messages, err := h.store.ListMessages(r.Context(), projectID, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	if raw := r.URL.Query().Get("stage"); raw != "" {
		stageType, ok := entity.ParseStageType(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown stage type")
			return
		}
		filtered := messages[:0]
		for _, m := range messages {
			if m.StageType == stageType {
				filtered = append(filtered, m)
			}
		}
		messages = filtered
	}

	if messages == nil {
		messages = []entity.ChatMessage{}
	}
	respondJSON(w, http.StatusOK, messages)
}
