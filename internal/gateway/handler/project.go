package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"backforge/internal/gateway/entity"
	"backforge/internal/workflow"
)

const (
	eventBufferSize = 256

	minPromptChars = 10
	maxPromptChars = 3000
	maxNameChars   = 100
)

type createProjectRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	// AutoStart defaults to true; pass false to create without
	// launching the workflow.
	AutoStart *bool `json:"autoStart,omitempty"`
}

// CreateProject registers a project and, unless autoStart is false,
// kicks off the full workflow in the background. Progress is
// observable on the watch endpoint.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if len(req.Prompt) < minPromptChars || len(req.Prompt) > maxPromptChars {
		respondError(w, http.StatusBadRequest, "prompt must be between 10 and 3000 characters")
		return
	}
	if len(req.Name) > maxNameChars {
		respondError(w, http.StatusBadRequest, "name must be at most 100 characters")
		return
	}
	if req.Name == "" {
		req.Name = "Untitled Project"
	}

	project, err := h.store.CreateProject(r.Context(), req.Name, req.Prompt)
	if err != nil {
		h.log.Error().Err(err).Msg("create project")
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	if req.AutoStart == nil || *req.AutoStart {
		h.launchWorkflow(project.ID)
	}
	respondJSON(w, http.StatusCreated, project)
}

// RegenerateProject re-runs the full workflow for an existing project.
func (h *Handler) RegenerateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	project, ok, err := h.store.GetProject(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load project")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	if project.Status == entity.ProjectGenerating {
		respondError(w, http.StatusConflict, "generation already in progress")
		return
	}

	h.launchWorkflow(project.ID)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": string(entity.ProjectGenerating)})
}

// launchWorkflow runs the five-stage workflow detached from the
// request, publishing progress to the project's event channel.
func (h *Handler) launchWorkflow(projectID string) {
	h.broker.Allocate(projectID, eventBufferSize)
	go func() {
		defer h.broker.ScheduleCleanup(projectID)
		err := h.manager.StartWorkflow(context.Background(), projectID, func(ev workflow.Event) {
			h.broker.Publish(projectID, ev)
		})
		if err != nil {
			h.log.Error().Err(err).Str("project_id", projectID).Msg("workflow failed")
		}
	}()
}

// ListProjects returns all projects, newest first.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// GetProject returns one project with its stages and artifacts.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	project, ok, err := h.store.GetProject(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load project")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// DeleteProject removes a project and everything under it.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if err := h.store.DeleteProject(r.Context(), projectID); err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStage returns one stage of a project with its artifacts.
func (h *Handler) GetStage(w http.ResponseWriter, r *http.Request) {
	stageType, ok := entity.ParseStageType(chi.URLParam(r, "stageType"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown stage type")
		return
	}
	stage, found, err := h.store.GetStage(r.Context(), chi.URLParam(r, "projectID"), stageType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load stage")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "stage not found")
		return
	}
	respondJSON(w, http.StatusOK, stage)
}

// ExecuteStage runs a single stage synchronously and returns it with
// its refreshed artifacts.
func (h *Handler) ExecuteStage(w http.ResponseWriter, r *http.Request) {
	stageType, ok := entity.ParseStageType(chi.URLParam(r, "stageType"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown stage type")
		return
	}
	stage, err := h.manager.ExecuteStage(r.Context(), chi.URLParam(r, "projectID"), stageType)
	if err != nil {
		if errors.Is(err, workflow.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.log.Error().Err(err).Str("stage", string(stageType)).Msg("execute stage")
		respondError(w, http.StatusInternalServerError, "stage execution failed")
		return
	}
	respondJSON(w, http.StatusOK, stage)
}
