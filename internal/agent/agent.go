// Package agent implements the five lifecycle stage agents. Each
// agent turns a stage execution request into one or more persisted
// artifacts by prompting the generation model, parsing its output,
// and writing the results through the artifact store.
package agent

import (
	"context"

	"github.com/rs/zerolog"

	"backforge/internal/codegen"
	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
	"backforge/internal/retriever"
)

// Agent executes one lifecycle stage for a project.
type Agent interface {
	Name() string
	Run(ctx context.Context, stage entity.Stage, prompt string) ([]entity.Artifact, error)
}

// StreamingAgent additionally supports incremental progress delivery.
type StreamingAgent interface {
	Agent
	RunStream(ctx context.Context, stage entity.Stage, prompt string, onChunk func(StreamChunk)) ([]entity.Artifact, error)
}

// ChunkType enumerates the streaming progress events an agent emits.
type ChunkType string

const (
	ChunkStatus       ChunkType = "status"
	ChunkFileStart    ChunkType = "file_start"
	ChunkFileChunk    ChunkType = "file_chunk"
	ChunkFileComplete ChunkType = "file_complete"
)

// StreamChunk is one progress event from a streaming stage execution.
type StreamChunk struct {
	Type       ChunkType `json:"type"`
	FileName   string    `json:"fileName,omitempty"`
	FileType   string    `json:"fileType,omitempty"`
	Language   string    `json:"language,omitempty"`
	Content    string    `json:"content,omitempty"`
	Message    string    `json:"message,omitempty"`
	ArtifactID string    `json:"artifactId,omitempty"`
}

// ArtifactStore is the persistence surface agents need. The gateway
// repository satisfies it.
type ArtifactStore interface {
	CreateArtifact(ctx context.Context, stageID string, a entity.Artifact) (entity.Artifact, error)
	ListProjectArtifacts(ctx context.Context, projectID string) ([]entity.Artifact, error)
}

// Per-call generation budgets. Planning runs warmer and shorter than
// the code-producing calls; deployment summaries sit in between.
const (
	planningTemperature   float32 = 0.3
	planningMaxTokens     int32   = 4096
	generationTemperature float32 = 0.2
	generationMaxTokens   int32   = 8192
	deploymentTemperature float32 = 0.3
)

type deps struct {
	llm   llmclient.Client
	store ArtifactStore
	ctxb  *ContextBuilder
	log   zerolog.Logger
}

func newDeps(llm llmclient.Client, store ArtifactStore, log zerolog.Logger, component string) deps {
	return deps{
		llm:   llm,
		store: store,
		ctxb:  NewContextBuilder(store),
		log:   log.With().Str("component", component).Logger(),
	}
}

// stageContext fetches prompt context from an earlier stage. A
// retrieval failure degrades to the no-context sentinel so a broken
// read never aborts generation; only persistence errors do that.
func (d deps) stageContext(ctx context.Context, projectID string, stage entity.StageType, query string) string {
	out, err := d.ctxb.StageContext(ctx, projectID, stage, query)
	if err != nil {
		d.log.Warn().Err(err).Str("stage", string(stage)).Msg("context retrieval failed, proceeding without context")
		return retriever.NoContextSentinel
	}
	return out
}

// saveDoc persists a single documentation artifact.
func (d deps) saveDoc(ctx context.Context, stageID, name, content string) (entity.Artifact, error) {
	return d.store.CreateArtifact(ctx, stageID, entity.Artifact{
		Name:     name,
		Content:  content,
		Type:     entity.ArtifactDocumentation,
		Language: "markdown",
	})
}

// saveFiles persists parsed generation output as artifacts, one per file.
func (d deps) saveFiles(ctx context.Context, stageID string, files []codegen.GeneratedFile) ([]entity.Artifact, error) {
	artifacts := make([]entity.Artifact, 0, len(files))
	for _, f := range files {
		a, err := d.store.CreateArtifact(ctx, stageID, entity.Artifact{
			Name:     f.Filename,
			Content:  f.Content,
			Type:     f.Type,
			Language: f.Language,
		})
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
