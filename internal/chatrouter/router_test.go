package chatrouter_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backforge/internal/chatrouter"
	"backforge/internal/gateway/entity"
	"backforge/internal/gateway/repository"
	"backforge/internal/llmclient"
)

type scriptedLLM struct {
	mu      sync.Mutex
	calls   []string
	respond func(prompt string) (string, error)
}

func (f *scriptedLLM) Complete(_ context.Context, prompt string, _ ...llmclient.CallOption) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *scriptedLLM) Stream(ctx context.Context, prompt string, onToken func(string), opts ...llmclient.CallOption) (string, error) {
	return f.Complete(ctx, prompt, opts...)
}

type stubExecutor struct {
	stage entity.Stage
	err   error
	calls int
}

func (s *stubExecutor) ExecuteStage(context.Context, string, entity.StageType) (entity.Stage, error) {
	s.calls++
	return s.stage, s.err
}

func delimitedFile(name, lang, typ, body string) string {
	return fmt.Sprintf("===FILE_START===\nFILENAME: %s\nLANGUAGE: %s\nTYPE: %s\nCONTENT:\n%s\n===FILE_END===\n", name, lang, typ, body)
}

func TestHandleUnknownProject(t *testing.T) {
	store := repository.NewMemoryStore()
	r := chatrouter.NewRouter(&scriptedLLM{respond: func(string) (string, error) { return "", nil }}, store, &stubExecutor{}, zerolog.Nop())

	_, err := r.Handle(context.Background(), "missing", "hello there", "")
	assert.ErrorIs(t, err, chatrouter.ErrProjectNotFound)
}

func TestHandleConversationStoresBothMessages(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")

	llm := &scriptedLLM{respond: func(string) (string, error) { return "You could consider pagination here.", nil }}
	r := chatrouter.NewRouter(llm, store, &stubExecutor{}, zerolog.Nop())

	res, err := r.Handle(ctx, project.ID, "what do you think about the current design?", "")
	require.NoError(t, err)
	assert.False(t, res.CodeGenerated)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, entity.RoleUser, res.Messages[0].Role)
	assert.Equal(t, entity.RoleAssistant, res.Messages[1].Role)
	assert.Equal(t, "You could consider pagination here.", res.Messages[1].Content)

	msgs, err := store.ListMessages(ctx, project.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestHandleConversationStripsCodeFromReply(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")

	llm := &scriptedLLM{respond: func(string) (string, error) {
		return "Here is an idea:\n```ts\nconst x = 1;\n```\nUse caching.", nil
	}}
	r := chatrouter.NewRouter(llm, store, &stubExecutor{}, zerolog.Nop())

	res, err := r.Handle(ctx, project.ID, "any thoughts on performance?", "")
	require.NoError(t, err)
	reply := res.Messages[1].Content
	assert.NotContains(t, reply, "const x")
	assert.Contains(t, reply, "Use caching.")
}

func TestHandleCodeIntentReplacesDevelopmentArtifacts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")
	dev, _ := store.EnsureStage(ctx, project.ID, entity.StageDevelopment)
	stale, _ := store.CreateArtifact(ctx, dev.ID, entity.Artifact{Name: "stale.ts", Content: "old"})

	llm := &scriptedLLM{respond: func(string) (string, error) {
		return delimitedFile("src/orders.ts", "typescript", "api", "export const orders = listOrders();"), nil
	}}
	r := chatrouter.NewRouter(llm, store, &stubExecutor{}, zerolog.Nop())

	res, err := r.Handle(ctx, project.ID, "please add an orders endpoint", "")
	require.NoError(t, err)
	assert.True(t, res.CodeGenerated)
	assert.Equal(t, 1, res.FilesCount)

	_, ok, _ := store.GetArtifact(ctx, stale.ID)
	assert.False(t, ok, "regeneration replaces the previous artifact set")

	stage, ok, _ := store.GetStage(ctx, project.ID, entity.StageDevelopment)
	require.True(t, ok)
	require.Len(t, stage.Artifacts, 1)
	assert.Equal(t, "src/orders.ts", stage.Artifacts[0].Name)

	got, _, _ := store.GetProject(ctx, project.ID)
	assert.Equal(t, entity.ProjectCompleted, got.Status)

	// The generation call carries the original prompt and the request.
	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0], "build a todo api")
	assert.Contains(t, llm.calls[0], "add an orders endpoint")
}

func TestHandleCodeIntentModelFailureMarksProjectErrored(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")

	llm := &scriptedLLM{respond: func(string) (string, error) { return "", errors.New("quota exceeded") }}
	r := chatrouter.NewRouter(llm, store, &stubExecutor{}, zerolog.Nop())

	res, err := r.Handle(ctx, project.ID, "generate the user endpoints", "")
	require.NoError(t, err, "generation failure becomes an assistant reply, not a request error")
	assert.False(t, res.CodeGenerated)
	assert.Contains(t, res.Messages[1].Content, "quota")

	got, _, _ := store.GetProject(ctx, project.ID)
	assert.Equal(t, entity.ProjectError, got.Status)
}

func TestHandleStageScopedCodeRequestRunsAgent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")

	exec := &stubExecutor{stage: entity.Stage{
		Type: entity.StageDesign,
		Artifacts: []entity.Artifact{
			{Name: "System Design"}, {Name: "API Specification"},
		},
	}}
	llm := &scriptedLLM{respond: func(string) (string, error) { return "unused", nil }}
	r := chatrouter.NewRouter(llm, store, exec, zerolog.Nop())

	res, err := r.Handle(ctx, project.ID, "generate the design documents", entity.StageDesign)
	require.NoError(t, err)
	assert.Equal(t, 1, exec.calls)
	assert.True(t, res.CodeGenerated)
	assert.Equal(t, 2, res.FilesCount)
	assert.Contains(t, res.Messages[1].Content, "design stage")
	assert.Contains(t, res.Messages[1].Content, "System Design")
	assert.Empty(t, llm.calls, "stage execution does not use the chat model")
}

func TestHandleStageScopedQuestionSkipsAgent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	project, _ := store.CreateProject(ctx, "todo", "build a todo api")

	exec := &stubExecutor{}
	llm := &scriptedLLM{respond: func(string) (string, error) { return "unused", nil }}
	r := chatrouter.NewRouter(llm, store, exec, zerolog.Nop())

	res, err := r.Handle(ctx, project.ID, "why is this phase necessary?", entity.StagePlanning)
	require.NoError(t, err)
	assert.Zero(t, exec.calls)
	assert.False(t, res.CodeGenerated)
	assert.Contains(t, res.Messages[1].Content, "planning stage")
	assert.Equal(t, entity.StagePlanning, res.Messages[1].StageType, "stage scoping sticks to stored messages")
}

func TestKeywordClassifier(t *testing.T) {
	c := chatrouter.KeywordClassifier{}

	got := c.Classify("please add a login endpoint")
	assert.True(t, got.Code)
	assert.Equal(t, "api", got.Focus)

	got = c.Classify("create a users table in the schema")
	assert.True(t, got.Code)
	assert.Equal(t, "database", got.Focus)

	got = c.Classify("what is your opinion on monoliths?")
	assert.False(t, got.Code)
	assert.Empty(t, got.Focus)

	got = c.Classify("improve the error messages")
	assert.True(t, got.Code)
	assert.Equal(t, "general", got.Focus)
}

func TestStripCode(t *testing.T) {
	in := "Use a queue.\n```go\npackage main\n```\nimport something from 'x'\nThat should help."
	out := chatrouter.StripCode(in)
	assert.Equal(t, "Use a queue.\nThat should help.", out)

	onlyCode := "```js\nconst a = 1;\n```"
	assert.NotEmpty(t, chatrouter.StripCode(onlyCode), "fully stripped replies get a stand-in sentence")
	assert.NotContains(t, chatrouter.StripCode(onlyCode), "const a")

	plain := "No code here at all."
	assert.Equal(t, plain, chatrouter.StripCode(plain))
}
