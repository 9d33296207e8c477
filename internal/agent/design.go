package agent

import (
	"context"

	"github.com/rs/zerolog"

	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

// Design produces three documents in sequence: the system design,
// then an API specification and a database design derived from it.
// The steps are inherently serial since the later two consume the
// system design text.
type Design struct {
	deps
}

func NewDesign(llm llmclient.Client, store ArtifactStore, log zerolog.Logger) *Design {
	return &Design{deps: newDeps(llm, store, log, "agent.design")}
}

func (a *Design) Name() string { return "design" }

func (a *Design) Run(ctx context.Context, stage entity.Stage, prompt string) ([]entity.Artifact, error) {
	opts := []llmclient.CallOption{
		llmclient.WithTemperature(generationTemperature),
		llmclient.WithMaxOutputTokens(generationMaxTokens),
	}

	planning := a.stageContext(ctx, stage.ProjectID, entity.StagePlanning, prompt)

	systemDesign, err := a.llm.Complete(ctx, render(systemDesignPrompt, map[string]string{
		"user_prompt": prompt,
		"context":     planning,
	}), opts...)
	if err != nil {
		a.log.Error().Err(err).Str("project_id", stage.ProjectID).Msg("system design failed, writing fallback")
		artifact, saveErr := a.saveDoc(ctx, stage.ID, "System Design (Fallback)", fallbackStageDoc("System Design", prompt))
		if saveErr != nil {
			return nil, saveErr
		}
		return []entity.Artifact{artifact}, nil
	}

	var artifacts []entity.Artifact
	sys, err := a.saveDoc(ctx, stage.ID, "System Design", systemDesign)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, sys)

	apiSpec, err := a.llm.Complete(ctx, render(apiSpecPrompt, map[string]string{
		"system_design": systemDesign,
	}), opts...)
	if err != nil {
		a.log.Error().Err(err).Msg("API specification failed")
		apiSpec = fallbackStageDoc("API Specification", prompt)
	}
	api, err := a.saveDoc(ctx, stage.ID, "API Specification", apiSpec)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, api)

	dbDesign, err := a.llm.Complete(ctx, render(databaseDesignPrompt, map[string]string{
		"system_design": systemDesign,
	}), opts...)
	if err != nil {
		a.log.Error().Err(err).Msg("database design failed")
		dbDesign = fallbackStageDoc("Database Design", prompt)
	}
	db, err := a.saveDoc(ctx, stage.ID, "Database Design", dbDesign)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, db)

	return artifacts, nil
}
