package agent

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"backforge/internal/codegen"
	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

// Deployment generates release infrastructure: six independent passes
// (Terraform, CI/CD, containers, monitoring, security, environment
// config) fanned out concurrently, then a model-written summary and a
// short operator guide.
type Deployment struct {
	deps
}

func NewDeployment(llm llmclient.Client, store ArtifactStore, log zerolog.Logger) *Deployment {
	return &Deployment{deps: newDeps(llm, store, log, "agent.deployment")}
}

func (a *Deployment) Name() string { return "deployment" }

func (a *Deployment) Run(ctx context.Context, stage entity.Stage, prompt string) ([]entity.Artifact, error) {
	opts := []llmclient.CallOption{
		llmclient.WithTemperature(deploymentTemperature),
		llmclient.WithMaxOutputTokens(generationMaxTokens),
	}

	development := a.stageContext(ctx, stage.ProjectID, entity.StageDevelopment, prompt)
	testing := a.stageContext(ctx, stage.ProjectID, entity.StageTesting, prompt)

	base := map[string]string{
		"user_prompt":  prompt,
		"code_context": development,
	}
	passes := []struct {
		label  string
		prompt string
	}{
		{"infrastructure", render(terraformInfraPrompt, base)},
		{"cicd", render(cicdPipelinePrompt, map[string]string{
			"user_prompt":     prompt,
			"code_context":    development,
			"testing_context": testing,
		})},
		{"container", render(containerConfigPrompt, base)},
		{"monitoring", render(monitoringConfigPrompt, base)},
		{"security", render(securityConfigPrompt, base)},
		{"configuration", render(deployConfigPrompt, base)},
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
	for _, files := range results {
		all = append(all, files...)
	}

	artifacts, err := a.saveFiles(ctx, stage.ID, all)
	if err != nil {
		return artifacts, err
	}

	summary, err := a.llm.Complete(ctx, render(deploymentSummaryPrompt, map[string]string{
		"user_prompt":    prompt,
		"code_context":   development,
		"artifact_count": strconv.Itoa(len(all)),
	}), opts...)
	if err != nil {
		a.log.Warn().Err(err).Msg("deployment summary generation failed")
		summary = "Failed to generate deployment summary."
	}
	doc, err := a.saveDoc(ctx, stage.ID, "Deployment Summary", summary)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, doc)

	guide, err := a.saveDoc(ctx, stage.ID, "Deployment Guide", deploymentGuide(prompt, len(all)))
	if err != nil {
		return artifacts, err
	}
	return append(artifacts, guide), nil
}

func deploymentGuide(prompt string, artifactCount int) string {
	return fmt.Sprintf(`# Deployment Guide

Project: %s

This stage produced %d deployment artifacts.

## 1. Infrastructure
Review the Terraform files, set the required variables, then run plan and apply.

## 2. CI/CD Pipeline
Commit the workflow files and configure repository secrets before the first run.

## 3. Rollback Strategy
Deployments are versioned; redeploy the previous image tag to roll back.
`, prompt, artifactCount)
}
