package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backforge/internal/chatrouter"
	"backforge/internal/gateway/entity"
	"backforge/internal/gateway/handler"
	"backforge/internal/gateway/repository"
	"backforge/internal/gateway/server"
	"backforge/internal/llmclient"
	"backforge/internal/workflow"
)

type fakeLLM struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, _ ...llmclient.CallOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeLLM) Stream(ctx context.Context, prompt string, onToken func(string), opts ...llmclient.CallOption) (string, error) {
	text, err := f.Complete(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}
	onToken(text)
	return text, nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeBlobStore) Put(_ context.Context, projectID, name string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[projectID+"/"+name] = content
	return nil
}

func (f *fakeBlobStore) Get(_ context.Context, projectID, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[projectID+"/"+name], nil
}

func (f *fakeBlobStore) URL(_ context.Context, projectID, name string) (string, error) {
	return "https://blobs.local/" + projectID + "/" + name, nil
}

type testEnv struct {
	store  *repository.MemoryStore
	broker *workflow.EventBroker
	mux    http.Handler
}

func newTestEnv(t *testing.T, llm llmclient.Client, blobs *fakeBlobStore) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	manager := workflow.NewManager(llm, store, zerolog.Nop())
	chat := chatrouter.NewRouter(llm, store, manager, zerolog.Nop())
	broker := workflow.NewEventBroker()

	var h *handler.Handler
	if blobs != nil {
		h = handler.New(store, manager, chat, broker, blobs, zerolog.Nop())
	} else {
		h = handler.New(store, manager, chat, broker, nil, zerolog.Nop())
	}
	return &testEnv{
		store:  store,
		broker: broker,
		mux:    server.NewMux(h, zerolog.Nop()),
	}
}

func docLLM() *fakeLLM {
	return &fakeLLM{respond: func(string) (string, error) {
		return "A short generated document.", nil
	}}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)
	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]string{"name": "empty"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing prompt")

	rec = env.do(t, http.MethodPost, "/api/projects", map[string]string{"prompt": "too short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "prompt below minimum length")

	rec = env.do(t, http.MethodPost, "/api/projects", map[string]string{
		"name":   strings.Repeat("n", 101),
		"prompt": "build a todo api",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name above maximum length")
}

func TestCreateProjectWithoutAutoStart(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)
	rec := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name":      "todo",
		"prompt":    "build a todo api",
		"autoStart": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var project entity.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))

	got, ok, err := env.store.GetProject(context.Background(), project.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.ProjectIdea, got.Status)
	_, watching := env.broker.Get(project.ID)
	assert.False(t, watching, "no event channel without a launched workflow")
}

func TestCreateProjectRunsWorkflowInBackground(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)
	rec := env.do(t, http.MethodPost, "/api/projects", map[string]string{
		"name":   "todo",
		"prompt": "build a todo api",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var project entity.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	require.NotEmpty(t, project.ID)

	require.Eventually(t, func() bool {
		got, ok, err := env.store.GetProject(context.Background(), project.ID)
		return err == nil && ok && got.Status == entity.ProjectCompleted
	}, 2*time.Second, 10*time.Millisecond, "background workflow completes")

	artifacts, err := env.store.ListProjectArtifacts(context.Background(), project.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, artifacts)
}

func TestGetProjectNotFound(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)
	rec := env.do(t, http.MethodGet, "/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProjectIncludesStages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)
	_, err = env.store.EnsureStage(ctx, project.ID, entity.StagePlanning)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/projects/"+project.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got entity.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Stages, 1)
	assert.Equal(t, entity.StagePlanning, got.Stages[0].Type)
}

func TestRegenerateConflictsWhileGenerating(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)
	require.NoError(t, env.store.UpdateProjectStatus(ctx, project.ID, entity.ProjectGenerating))

	rec := env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/regenerate", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChatRejectsShortMessage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/chat", map[string]string{"message": "y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatConversationReturnsBothMessages(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{respond: func(string) (string, error) {
		return "Consider adding pagination.", nil
	}}
	env := newTestEnv(t, llm, nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/chat", map[string]string{
		"message": "what do you think of the current design?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result chatrouter.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.CodeGenerated)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, entity.RoleAssistant, result.Messages[1].Role)
}

func TestListMessagesFiltersByStage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)
	_, err = env.store.AppendMessage(ctx, entity.ChatMessage{ProjectID: project.ID, Role: entity.RoleUser, Content: "general question"})
	require.NoError(t, err)
	_, err = env.store.AppendMessage(ctx, entity.ChatMessage{ProjectID: project.ID, Role: entity.RoleUser, Content: "design question", StageType: entity.StageDesign})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/projects/"+project.ID+"/chat?stage=design", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []entity.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "design question", messages[0].Content)
}

func TestExecuteStageReturnsArtifacts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/stages/planning/execute", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stage entity.Stage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stage))
	assert.Equal(t, entity.StagePlanning, stage.Type)
	assert.Equal(t, entity.StageCompleted, stage.Status)
	assert.NotEmpty(t, stage.Artifacts)
}

func TestExecuteStageUnknownType(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)
	rec := env.do(t, http.MethodPost, "/api/projects/p1/stages/launch/execute", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamGenerationEmitsEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/chat/stream", map[string]string{
		"message": "generate the design",
		"stage":   "design",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `"type":"user_message"`)
	assert.Contains(t, body, `"type":"status"`)
	assert.Contains(t, body, `"type":"complete"`)
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		if line == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(line, "data: "), "every SSE line is a data frame: %q", line)
	}
}

func TestArtifactURLWithoutMirror(t *testing.T) {
	env := newTestEnv(t, docLLM(), nil)
	rec := env.do(t, http.MethodGet, "/api/projects/p1/artifacts/a1/url", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestArtifactURLMirrorsAndPresigns(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobStore{}
	env := newTestEnv(t, docLLM(), blobs)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)
	stage, err := env.store.EnsureStage(ctx, project.ID, entity.StageDevelopment)
	require.NoError(t, err)
	artifact, err := env.store.CreateArtifact(ctx, stage.ID, entity.Artifact{Name: "src/app.ts", Content: "export {}"})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/projects/"+project.ID+"/artifacts/"+artifact.ID+"/url", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://blobs.local/"+project.ID+"/src/app.ts")

	mirrored, err := blobs.Get(ctx, project.ID, "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, []byte("export {}"), mirrored)
}

func TestUpdateAndDeleteArtifact(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, docLLM(), nil)
	project, err := env.store.CreateProject(ctx, "todo", "build a todo api")
	require.NoError(t, err)
	stage, err := env.store.EnsureStage(ctx, project.ID, entity.StageDevelopment)
	require.NoError(t, err)
	artifact, err := env.store.CreateArtifact(ctx, stage.ID, entity.Artifact{Name: "src/app.ts", Content: "v1"})
	require.NoError(t, err)

	base := "/api/projects/" + project.ID + "/artifacts/" + artifact.ID

	rec := env.do(t, http.MethodPatch, base, map[string]string{"content": "v2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.Artifact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "v2", updated.Content)

	rec = env.do(t, http.MethodPatch, base, map[string]string{"name": "src/main.ts"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "src/main.ts", updated.Name)
	assert.Equal(t, "v2", updated.Content, "rename keeps content")

	rec = env.do(t, http.MethodPatch, base, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty patch is rejected")

	rec = env.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
