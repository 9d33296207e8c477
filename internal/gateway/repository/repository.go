// Package repository persists projects, stages, artifacts, and chat
// history. The primary implementation is backed by ent on Postgres;
// MemoryStore provides the same surface for tests and local runs
// without a database.
package repository

import (
	"context"
	"errors"

	"backforge/internal/gateway/entity"
)

// ErrNotFound is returned by mutating operations whose target row
// does not exist. Read operations use (value, ok, error) instead.
var ErrNotFound = errors.New("repository: not found")

// Store is the full persistence surface of the gateway.
type Store interface {
	CreateProject(ctx context.Context, name, prompt string) (entity.Project, error)
	GetProject(ctx context.Context, id string) (entity.Project, bool, error)
	ListProjects(ctx context.Context) ([]entity.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, status entity.ProjectStatus) error
	DeleteProject(ctx context.Context, id string) error

	EnsureStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, error)
	GetStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, bool, error)
	UpdateStageStatus(ctx context.Context, stageID string, status entity.StageStatus) error

	CreateArtifact(ctx context.Context, stageID string, a entity.Artifact) (entity.Artifact, error)
	GetArtifact(ctx context.Context, id string) (entity.Artifact, bool, error)
	UpdateArtifactContent(ctx context.Context, id, content string) (entity.Artifact, error)
	UpdateArtifactName(ctx context.Context, id, name string) (entity.Artifact, error)
	DeleteArtifact(ctx context.Context, id string) error
	ListProjectArtifacts(ctx context.Context, projectID string) ([]entity.Artifact, error)
	// ReplaceArtifacts swaps a stage's artifact set atomically so
	// readers never observe the stage empty mid-regeneration.
	ReplaceArtifacts(ctx context.Context, stageID string, artifacts []entity.Artifact) ([]entity.Artifact, error)

	AppendMessage(ctx context.Context, m entity.ChatMessage) (entity.ChatMessage, error)
	// ListMessages returns the most recent limit messages in
	// chronological order; limit <= 0 returns everything.
	ListMessages(ctx context.Context, projectID string, limit int) ([]entity.ChatMessage, error)
}
