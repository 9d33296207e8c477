// Package workflow orchestrates stage agents across a project's
// lifecycle: single-stage execution, streamed execution, and the full
// five-stage run.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"backforge/internal/agent"
	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

// ErrProjectNotFound is returned when execution targets an unknown project.
var ErrProjectNotFound = errors.New("project not found")

// Store is the persistence surface the orchestrator needs. The
// gateway repository satisfies it.
type Store interface {
	agent.ArtifactStore
	GetProject(ctx context.Context, id string) (entity.Project, bool, error)
	UpdateProjectStatus(ctx context.Context, id string, status entity.ProjectStatus) error
	EnsureStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, error)
	UpdateStageStatus(ctx context.Context, stageID string, status entity.StageStatus) error
	GetStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, bool, error)
}

// Manager maps stage types to agents and drives their execution.
type Manager struct {
	store  Store
	agents map[entity.StageType]agent.Agent
	log    zerolog.Logger
}

// NewManager wires the standard agent per stage type.
func NewManager(llm llmclient.Client, store Store, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		agents: map[entity.StageType]agent.Agent{
			entity.StagePlanning:    agent.NewPlanning(llm, store, log),
			entity.StageDesign:      agent.NewDesign(llm, store, log),
			entity.StageDevelopment: agent.NewDevelopment(llm, store, log),
			entity.StageTesting:     agent.NewTesting(llm, store, log),
			entity.StageDeployment:  agent.NewDeployment(llm, store, log),
		},
		log: log.With().Str("component", "workflow").Logger(),
	}
}

// Agent returns the agent registered for a stage type.
func (m *Manager) Agent(t entity.StageType) (agent.Agent, bool) {
	a, ok := m.agents[t]
	return a, ok
}

// ExecuteStage runs one stage for a project and returns the stage
// with its refreshed artifacts.
func (m *Manager) ExecuteStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, error) {
	return m.execute(ctx, projectID, stageType, nil)
}

// ExecuteStageStream runs one stage, relaying progress through
// onChunk. Agents without native streaming get synthetic start and
// finish status events so watchers always see the stage move.
func (m *Manager) ExecuteStageStream(ctx context.Context, projectID string, stageType entity.StageType, onChunk func(agent.StreamChunk)) (entity.Stage, error) {
	return m.execute(ctx, projectID, stageType, onChunk)
}

func (m *Manager) execute(ctx context.Context, projectID string, stageType entity.StageType, onChunk func(agent.StreamChunk)) (entity.Stage, error) {
	project, ok, err := m.store.GetProject(ctx, projectID)
	if err != nil {
		return entity.Stage{}, err
	}
	if !ok {
		return entity.Stage{}, ErrProjectNotFound
	}

	ag, ok := m.agents[stageType]
	if !ok {
		return entity.Stage{}, fmt.Errorf("no agent registered for stage type %s", stageType)
	}

	stage, err := m.store.EnsureStage(ctx, projectID, stageType)
	if err != nil {
		return entity.Stage{}, err
	}
	if err := m.store.UpdateStageStatus(ctx, stage.ID, entity.StageInProgress); err != nil {
		return entity.Stage{}, err
	}

	m.log.Info().Str("project_id", projectID).Str("stage", string(stageType)).Msg("executing stage")

	runErr := m.runAgent(ctx, ag, stage, project.Prompt, onChunk)
	if runErr != nil {
		if err := m.store.UpdateStageStatus(ctx, stage.ID, entity.StageErrored); err != nil {
			m.log.Error().Err(err).Str("stage_id", stage.ID).Msg("failed to mark stage errored")
		}
		return entity.Stage{}, runErr
	}

	if err := m.store.UpdateStageStatus(ctx, stage.ID, entity.StageCompleted); err != nil {
		return entity.Stage{}, err
	}
	updated, _, err := m.store.GetStage(ctx, projectID, stageType)
	return updated, err
}

func (m *Manager) runAgent(ctx context.Context, ag agent.Agent, stage entity.Stage, prompt string, onChunk func(agent.StreamChunk)) error {
	if onChunk == nil {
		_, err := ag.Run(ctx, stage, prompt)
		return err
	}
	if streamer, ok := ag.(agent.StreamingAgent); ok {
		_, err := streamer.RunStream(ctx, stage, prompt, onChunk)
		return err
	}
	onChunk(agent.StreamChunk{Type: agent.ChunkStatus, Message: fmt.Sprintf("Executing %s stage...", stage.Type.DisplayName())})
	_, err := ag.Run(ctx, stage, prompt)
	if err != nil {
		return err
	}
	onChunk(agent.StreamChunk{Type: agent.ChunkStatus, Message: fmt.Sprintf("%s stage completed", stage.Type.DisplayName())})
	return nil
}

// StartWorkflow runs all five stages in order, marking the project
// completed or errored at the end. Progress flows through onEvent
// when provided.
func (m *Manager) StartWorkflow(ctx context.Context, projectID string, onEvent func(Event)) error {
	emit := func(ev Event) {
		if onEvent != nil {
			onEvent(ev)
		}
	}

	if err := m.store.UpdateProjectStatus(ctx, projectID, entity.ProjectGenerating); err != nil {
		return err
	}

	for _, stageType := range entity.StageOrder {
		emit(Event{Type: EventStatus, Stage: stageType, Message: fmt.Sprintf("Starting %s stage", stageType.DisplayName())})

		_, err := m.ExecuteStageStream(ctx, projectID, stageType, func(c agent.StreamChunk) {
			emit(chunkToEvent(stageType, c))
		})
		if err != nil {
			m.log.Error().Err(err).Str("project_id", projectID).Str("stage", string(stageType)).Msg("workflow stage failed")
			if statusErr := m.store.UpdateProjectStatus(ctx, projectID, entity.ProjectError); statusErr != nil {
				m.log.Error().Err(statusErr).Str("project_id", projectID).Msg("failed to mark project errored")
			}
			emit(Event{Type: EventError, Stage: stageType, Message: err.Error()})
			return err
		}
		emit(Event{Type: EventStatus, Stage: stageType, Message: fmt.Sprintf("%s stage completed", stageType.DisplayName())})
	}

	if err := m.store.UpdateProjectStatus(ctx, projectID, entity.ProjectCompleted); err != nil {
		return err
	}
	emit(Event{Type: EventComplete, Message: "Workflow completed"})
	m.log.Info().Str("project_id", projectID).Msg("workflow completed")
	return nil
}

func chunkToEvent(stage entity.StageType, c agent.StreamChunk) Event {
	return Event{
		Type:       EventType(c.Type),
		Stage:      stage,
		Message:    c.Message,
		Content:    c.Content,
		FileName:   c.FileName,
		FileType:   c.FileType,
		Language:   c.Language,
		ArtifactID: c.ArtifactID,
	}
}
