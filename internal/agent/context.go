package agent

import (
	"context"

	"backforge/internal/gateway/entity"
	"backforge/internal/retriever"
)

// ContextBuilder assembles prompt context from a project's existing
// artifacts. All selection goes through the lexical retriever so a
// single huge stage cannot drown the prompt.
type ContextBuilder struct {
	store ArtifactStore
}

func NewContextBuilder(store ArtifactStore) *ContextBuilder {
	return &ContextBuilder{store: store}
}

// StageContext returns formatted context restricted to artifacts of a
// single earlier stage.
func (b *ContextBuilder) StageContext(ctx context.Context, projectID string, stage entity.StageType, query string) (string, error) {
	artifacts, err := b.store.ListProjectArtifacts(ctx, projectID)
	if err != nil {
		return "", err
	}
	var filtered []entity.Artifact
	for _, a := range artifacts {
		if a.StageType == stage {
			filtered = append(filtered, a)
		}
	}
	return retriever.FormatForPrompt(retriever.Retrieve(query, toDocuments(filtered))), nil
}

func toDocuments(artifacts []entity.Artifact) []retriever.Document {
	docs := make([]retriever.Document, len(artifacts))
	for i, a := range artifacts {
		docs[i] = retriever.Document{
			Filename:  a.Name,
			StageType: string(a.StageType),
			Content:   a.Content,
		}
	}
	return docs
}
