package workflow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backforge/internal/agent"
	"backforge/internal/gateway/entity"
	"backforge/internal/gateway/repository"
	"backforge/internal/llmclient"
	"backforge/internal/workflow"
)

type scriptedLLM struct {
	mu      sync.Mutex
	calls   int
	respond func(prompt string) (string, error)
}

func (f *scriptedLLM) Complete(_ context.Context, prompt string, _ ...llmclient.CallOption) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *scriptedLLM) Stream(ctx context.Context, prompt string, onToken func(string), _ ...llmclient.CallOption) (string, error) {
	text, err := f.Complete(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	if onToken != nil {
		onToken(text)
	}
	return text, nil
}

func docLLM() *scriptedLLM {
	return &scriptedLLM{respond: func(prompt string) (string, error) {
		return "generated stage documentation body", nil
	}}
}

func TestStartWorkflowRunsAllStages(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, err := store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)

	m := workflow.NewManager(docLLM(), store, zerolog.Nop())

	var events []workflow.Event
	require.NoError(t, m.StartWorkflow(ctx, project.ID, func(ev workflow.Event) {
		events = append(events, ev)
	}))

	got, ok, err := store.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.ProjectCompleted, got.Status)
	require.Len(t, got.Stages, len(entity.StageOrder))
	for i, stage := range got.Stages {
		assert.Equal(t, entity.StageOrder[i], stage.Type, "stages come back in lifecycle order")
		assert.Equal(t, entity.StageCompleted, stage.Status)
	}

	// Planning always yields a document, even with no parseable code.
	plan, ok, err := store.GetStage(ctx, project.ID, entity.StagePlanning)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, plan.Artifacts)
	assert.Equal(t, "Project Plan", plan.Artifacts[0].Name)

	require.NotEmpty(t, events)
	assert.Equal(t, workflow.EventComplete, events[len(events)-1].Type)

	var statusStages []entity.StageType
	for _, ev := range events {
		if ev.Type == workflow.EventStatus && ev.Stage != "" {
			statusStages = append(statusStages, ev.Stage)
		}
	}
	assert.Equal(t, entity.StagePlanning, statusStages[0], "the first status event belongs to planning")
}

func TestStartWorkflowUnknownProject(t *testing.T) {
	store := repository.NewMemoryStore()
	m := workflow.NewManager(docLLM(), store, zerolog.Nop())
	err := m.StartWorkflow(context.Background(), "missing", nil)
	assert.Error(t, err)
}

func TestExecuteStageUnknownProject(t *testing.T) {
	store := repository.NewMemoryStore()
	m := workflow.NewManager(docLLM(), store, zerolog.Nop())
	_, err := m.ExecuteStage(context.Background(), "missing", entity.StageDesign)
	assert.ErrorIs(t, err, workflow.ErrProjectNotFound)
}

func TestExecuteStageReturnsRefreshedArtifacts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")
	m := workflow.NewManager(docLLM(), store, zerolog.Nop())

	stage, err := m.ExecuteStage(ctx, project.ID, entity.StageDesign)
	require.NoError(t, err)
	assert.Equal(t, entity.StageCompleted, stage.Status)
	require.Len(t, stage.Artifacts, 3)
	assert.Equal(t, "System Design", stage.Artifacts[0].Name)
}

func TestExecuteStageStreamSyntheticEventsForNonStreamingAgent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")
	m := workflow.NewManager(docLLM(), store, zerolog.Nop())

	var messages []string
	_, err := m.ExecuteStageStream(ctx, project.ID, entity.StageDesign, func(c agent.StreamChunk) {
		messages = append(messages, c.Message)
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "Executing Design stage")
	assert.Contains(t, messages[1], "Design stage completed")
}

func TestEventBrokerPublishAndDrop(t *testing.T) {
	b := workflow.NewEventBroker()
	ch := b.Allocate("p1", 1)

	b.Publish("p1", workflow.Event{Type: workflow.EventStatus, Message: "one"})
	b.Publish("p1", workflow.Event{Type: workflow.EventStatus, Message: "two"}) // buffer full, dropped

	got := <-ch
	assert.Equal(t, "one", got.Message)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected buffered event: %+v", ev)
	default:
	}

	b.Publish("unknown", workflow.Event{Type: workflow.EventStatus}) // no channel, no panic

	_, ok := b.Get("p1")
	assert.True(t, ok)
}
