package agent

import (
	"context"

	"github.com/rs/zerolog"

	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

const planArtifactName = "Project Plan"

// Planning produces the project plan document. It is the only agent
// whose single model call maps cleanly onto token streaming, so it
// also implements StreamingAgent.
type Planning struct {
	deps
}

func NewPlanning(llm llmclient.Client, store ArtifactStore, log zerolog.Logger) *Planning {
	return &Planning{deps: newDeps(llm, store, log, "agent.planning")}
}

func (a *Planning) Name() string { return "planning" }

func (a *Planning) Run(ctx context.Context, stage entity.Stage, prompt string) ([]entity.Artifact, error) {
	return a.run(ctx, stage, prompt, nil)
}

// RunStream implements StreamingAgent. Tokens are relayed as file
// chunks for a single virtual plan file.
func (a *Planning) RunStream(ctx context.Context, stage entity.Stage, prompt string, onChunk func(StreamChunk)) ([]entity.Artifact, error) {
	return a.run(ctx, stage, prompt, onChunk)
}

func (a *Planning) run(ctx context.Context, stage entity.Stage, prompt string, onChunk func(StreamChunk)) ([]entity.Artifact, error) {
	rendered := render(projectPlanningPrompt, map[string]string{"user_prompt": prompt})
	opts := []llmclient.CallOption{
		llmclient.WithTemperature(planningTemperature),
		llmclient.WithMaxOutputTokens(planningMaxTokens),
	}

	var (
		content string
		err     error
	)
	if onChunk != nil {
		onChunk(StreamChunk{Type: ChunkStatus, Message: "Generating project plan..."})
		onChunk(StreamChunk{Type: ChunkFileStart, FileName: planArtifactName, FileType: entity.ArtifactDocumentation, Language: "markdown"})
		content, err = a.llm.Stream(ctx, rendered, func(token string) {
			onChunk(StreamChunk{Type: ChunkFileChunk, FileName: planArtifactName, Content: token})
		}, opts...)
	} else {
		content, err = a.llm.Complete(ctx, rendered, opts...)
	}

	name := planArtifactName
	if err != nil {
		a.log.Error().Err(err).Str("project_id", stage.ProjectID).Msg("plan generation failed, writing fallback")
		name = planArtifactName + " (Fallback)"
		content = fallbackPlan(prompt)
	}

	artifact, saveErr := a.saveDoc(ctx, stage.ID, name, content)
	if saveErr != nil {
		return nil, saveErr
	}
	if onChunk != nil {
		onChunk(StreamChunk{Type: ChunkFileComplete, FileName: name, ArtifactID: artifact.ID})
	}
	return []entity.Artifact{artifact}, nil
}
