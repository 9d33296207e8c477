package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"backforge/internal/codegen"
	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

// Testing produces the verification suite: five generation passes
// (unit suite, performance, security, integration, test config) plus
// summary and execution-guide documents assembled from the results.
// A failed pass contributes nothing rather than failing the stage.
type Testing struct {
	deps
}

func NewTesting(llm llmclient.Client, store ArtifactStore, log zerolog.Logger) *Testing {
	return &Testing{deps: newDeps(llm, store, log, "agent.testing")}
}

func (a *Testing) Name() string { return "testing" }

func (a *Testing) Run(ctx context.Context, stage entity.Stage, prompt string) ([]entity.Artifact, error) {
	opts := []llmclient.CallOption{
		llmclient.WithTemperature(generationTemperature),
		llmclient.WithMaxOutputTokens(generationMaxTokens),
	}

	development := a.stageContext(ctx, stage.ProjectID, entity.StageDevelopment, prompt)
	design := a.stageContext(ctx, stage.ProjectID, entity.StageDesign, prompt)

	passes := []struct {
		label  string
		prompt string
	}{
		{"unit test", render(testSuitePrompt, map[string]string{
			"user_prompt":    prompt,
			"design_context": design,
			"code_context":   development,
		})},
		{"performance test", render(performanceTestsPrompt, map[string]string{
			"user_prompt":  prompt,
			"code_context": development,
		})},
		{"security test", render(securityTestsPrompt, map[string]string{
			"user_prompt":  prompt,
			"code_context": development,
		})},
		{"integration test", render(integrationTestsPrompt, map[string]string{
			"user_prompt":  prompt,
			"code_context": development,
		})},
		{"test configuration", render(testConfigPrompt, map[string]string{
			"user_prompt":  prompt,
			"code_context": development,
		})},
	}

	var mu sync.Mutex
	results := make([][]codegen.GeneratedFile, len(passes))
	g, gctx := errgroup.WithContext(ctx)
	for i, pass := range passes {
		g.Go(func() error {
			out, err := a.llm.Complete(gctx, pass.prompt, opts...)
			if err != nil {
				a.log.Warn().Err(err).Str("pass", pass.label).Msg("generation pass failed")
				return nil
			}
			files := codegen.Parse(out)
			mu.Lock()
			results[i] = files
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []codegen.GeneratedFile
	counts := make([]int, len(passes))
	for i, files := range results {
		counts[i] = len(files)
		all = append(all, files...)
	}

	artifacts, err := a.saveFiles(ctx, stage.ID, all)
	if err != nil {
		return artifacts, err
	}

	summary := fmt.Sprintf(`# Testing Summary

Generated comprehensive testing suite with %d test artifacts:
- %d unit test files
- %d performance test files
- %d security test files
- %d integration test files
- %d test configuration files
`, len(all), counts[0], counts[1], counts[2], counts[3], counts[4])

	doc, err := a.saveDoc(ctx, stage.ID, "Testing Summary", summary)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, doc)

	guide, err := a.saveDoc(ctx, stage.ID, "Test Execution Guide", testExecutionGuide(all))
	if err != nil {
		return artifacts, err
	}
	return append(artifacts, guide), nil
}

func testExecutionGuide(files []codegen.GeneratedFile) string {
	listing := "No test files were generated."
	if len(files) > 0 {
		lines := make([]string, len(files))
		for i, f := range files {
			lines[i] = "- " + f.Filename
		}
		listing = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(`# Test Execution Guide

This stage produced %d test files:
%s

## 1. Install
Install dependencies, then run the unit and integration suites with the project's test runner.

## 2. Performance
Performance scripts run against a deployed instance; point them at a staging URL.

## 3. Security
Run the security suite last; several checks need seeded credentials from the test configuration files.
`, len(files), listing)
}
