package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"backforge/internal/codegen"
	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

// Development generates the backend implementation, then derives test
// and configuration files from it. Backend generation runs first; the
// test and config calls run concurrently since both only read the
// backend result.
type Development struct {
	deps
}

func NewDevelopment(llm llmclient.Client, store ArtifactStore, log zerolog.Logger) *Development {
	return &Development{deps: newDeps(llm, store, log, "agent.development")}
}

func (a *Development) Name() string { return "development" }

func (a *Development) Run(ctx context.Context, stage entity.Stage, prompt string) ([]entity.Artifact, error) {
	opts := []llmclient.CallOption{
		llmclient.WithTemperature(generationTemperature),
		llmclient.WithMaxOutputTokens(generationMaxTokens),
	}

	design := a.stageContext(ctx, stage.ProjectID, entity.StageDesign, prompt)
	planning := a.stageContext(ctx, stage.ProjectID, entity.StagePlanning, prompt)

	backendOut, err := a.llm.Complete(ctx, render(backendCodePrompt, map[string]string{
		"user_prompt":      prompt,
		"design_context":   design,
		"planning_context": planning,
	}), opts...)
	if err != nil {
		a.log.Error().Err(err).Str("project_id", stage.ProjectID).Msg("backend generation failed, writing fallback")
		artifact, saveErr := a.saveDoc(ctx, stage.ID, "Backend Implementation (Fallback)", fallbackStageDoc("Backend Implementation", prompt))
		if saveErr != nil {
			return nil, saveErr
		}
		return []entity.Artifact{artifact}, nil
	}

	backendFiles := codegen.Parse(backendOut)
	a.log.Info().Int("files", len(backendFiles)).Msg("backend implementation parsed")

	var testFiles, configFiles []codegen.GeneratedFile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := a.llm.Complete(gctx, render(testFilesPrompt, map[string]string{
			"user_prompt":   prompt,
			"backend_files": summarizeFiles(backendFiles),
		}), opts...)
		if err != nil {
			a.log.Warn().Err(err).Msg("test file generation failed")
			return nil
		}
		testFiles = codegen.Parse(out)
		return nil
	})
	g.Go(func() error {
		out, err := a.llm.Complete(gctx, render(configFilesPrompt, map[string]string{
			"user_prompt":    prompt,
			"design_context": design,
		}), opts...)
		if err != nil {
			a.log.Warn().Err(err).Msg("config file generation failed")
			return nil
		}
		configFiles = codegen.Parse(out)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]codegen.GeneratedFile, 0, len(backendFiles)+len(testFiles)+len(configFiles))
	all = append(all, backendFiles...)
	all = append(all, testFiles...)
	all = append(all, configFiles...)
	return a.saveFiles(ctx, stage.ID, all)
}

// summarizeFiles renders a compact filename-and-type listing so the
// test prompt sees what exists without replaying every file body.
func summarizeFiles(files []codegen.GeneratedFile) string {
	if len(files) == 0 {
		return "No backend files were generated."
	}
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = fmt.Sprintf("%s: %s", f.Filename, f.Type)
	}
	return strings.Join(lines, "\n")
}
