package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backforge/internal/gateway/entity"
)

func TestMemoryStoreProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := s.CreateProject(ctx, "todo-api", "build a todo api")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, entity.ProjectIdea, p.Status)

	got, ok, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "todo-api", got.Name)

	require.NoError(t, s.UpdateProjectStatus(ctx, p.ID, entity.ProjectGenerating))
	got, _, _ = s.GetProject(ctx, p.ID)
	assert.Equal(t, entity.ProjectGenerating, got.Status)

	_, ok, err = s.GetProject(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.UpdateProjectStatus(ctx, "missing", entity.ProjectError), ErrNotFound)
}

func TestMemoryStoreEnsureStageIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.CreateProject(ctx, "p", "prompt")

	first, err := s.EnsureStage(ctx, p.ID, entity.StageDesign)
	require.NoError(t, err)
	second, err := s.EnsureStage(ctx, p.ID, entity.StageDesign)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Design", first.Name)
	assert.Equal(t, entity.StageNotStarted, first.Status)
}

func TestMemoryStoreArtifactsCrossStageListing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.CreateProject(ctx, "p", "prompt")
	plan, _ := s.EnsureStage(ctx, p.ID, entity.StagePlanning)
	dev, _ := s.EnsureStage(ctx, p.ID, entity.StageDevelopment)

	_, err := s.CreateArtifact(ctx, plan.ID, entity.Artifact{Name: "Project Plan", Type: entity.ArtifactDocumentation})
	require.NoError(t, err)
	_, err = s.CreateArtifact(ctx, dev.ID, entity.Artifact{Name: "index.ts", Type: entity.ArtifactAPI})
	require.NoError(t, err)

	all, err := s.ListProjectArtifacts(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Project Plan", all[0].Name, "creation order is preserved")
	assert.Equal(t, entity.StagePlanning, all[0].StageType)
	assert.Equal(t, entity.StageDevelopment, all[1].StageType)
}

func TestMemoryStoreArtifactUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.CreateProject(ctx, "p", "prompt")
	dev, _ := s.EnsureStage(ctx, p.ID, entity.StageDevelopment)
	a, _ := s.CreateArtifact(ctx, dev.ID, entity.Artifact{Name: "app.ts", Content: "v1"})

	updated, err := s.UpdateArtifactContent(ctx, a.ID, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	renamed, err := s.UpdateArtifactName(ctx, a.ID, "main.ts")
	require.NoError(t, err)
	assert.Equal(t, "main.ts", renamed.Name)
	assert.Equal(t, "v2", renamed.Content)

	_, err = s.UpdateArtifactName(ctx, "missing", "x.ts")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReplaceArtifactsSwapsSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.CreateProject(ctx, "p", "prompt")
	dev, _ := s.EnsureStage(ctx, p.ID, entity.StageDevelopment)
	old, _ := s.CreateArtifact(ctx, dev.ID, entity.Artifact{Name: "old.ts"})

	replaced, err := s.ReplaceArtifacts(ctx, dev.ID, []entity.Artifact{
		{Name: "new-a.ts"}, {Name: "new-b.ts"},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)

	_, ok, _ := s.GetArtifact(ctx, old.ID)
	assert.False(t, ok, "old artifacts are gone after replacement")

	stage, ok, err := s.GetStage(ctx, p.ID, entity.StageDevelopment)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, stage.Artifacts, 2)
	assert.Equal(t, "new-a.ts", stage.Artifacts[0].Name)
}

func TestMemoryStoreDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.CreateProject(ctx, "p", "prompt")
	dev, _ := s.EnsureStage(ctx, p.ID, entity.StageDevelopment)
	a, _ := s.CreateArtifact(ctx, dev.ID, entity.Artifact{Name: "f.ts"})
	_, _ = s.AppendMessage(ctx, entity.ChatMessage{ProjectID: p.ID, Role: entity.RoleUser, Content: "hi"})

	require.NoError(t, s.DeleteProject(ctx, p.ID))

	_, ok, _ := s.GetProject(ctx, p.ID)
	assert.False(t, ok)
	_, ok, _ = s.GetArtifact(ctx, a.ID)
	assert.False(t, ok)
	msgs, _ := s.ListMessages(ctx, p.ID, 0)
	assert.Empty(t, msgs)
	_, ok, _ = s.GetStage(ctx, p.ID, entity.StageDevelopment)
	assert.False(t, ok)
}

func TestMemoryStoreListMessagesWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.CreateProject(ctx, "p", "prompt")

	for i := 0; i < 5; i++ {
		_, err := s.AppendMessage(ctx, entity.ChatMessage{
			ProjectID: p.ID,
			Role:      entity.RoleUser,
			Content:   string(rune('a' + i)),
		})
		require.NoError(t, err)
	}

	msgs, err := s.ListMessages(ctx, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "c", msgs[0].Content, "the window keeps the newest messages in order")
	assert.Equal(t, "e", msgs[2].Content)

	all, err := s.ListMessages(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
