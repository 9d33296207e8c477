package chatrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"backforge/internal/codegen"
	"backforge/internal/gateway/entity"
	"backforge/internal/llmclient"
)

// ErrProjectNotFound is returned when a chat targets an unknown project.
var ErrProjectNotFound = errors.New("project not found")

const (
	chatTemperature   float32 = 0.3
	chatMaxTokens     int32   = 1024
	maxChatReplyChars         = 2000
	historyWindow             = 40
)

// Store is the persistence surface the router needs.
type Store interface {
	GetProject(ctx context.Context, id string) (entity.Project, bool, error)
	UpdateProjectStatus(ctx context.Context, id string, status entity.ProjectStatus) error
	EnsureStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, error)
	ReplaceArtifacts(ctx context.Context, stageID string, artifacts []entity.Artifact) ([]entity.Artifact, error)
	AppendMessage(ctx context.Context, m entity.ChatMessage) (entity.ChatMessage, error)
	ListMessages(ctx context.Context, projectID string, limit int) ([]entity.ChatMessage, error)
}

// StageExecutor runs a single lifecycle stage. The workflow manager
// satisfies it.
type StageExecutor interface {
	ExecuteStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, error)
}

// Result is the outcome of routing one chat message.
type Result struct {
	Messages      []entity.ChatMessage `json:"messages"`
	CodeGenerated bool                 `json:"codeGenerated"`
	FilesCount    int                  `json:"filesCount"`
}

// Router dispatches chat messages to the right handling path.
type Router struct {
	llm        llmclient.Client
	store      Store
	exec       StageExecutor
	classifier Classifier
	log        zerolog.Logger
}

func NewRouter(llm llmclient.Client, store Store, exec StageExecutor, log zerolog.Logger) *Router {
	return &Router{
		llm:        llm,
		store:      store,
		exec:       exec,
		classifier: KeywordClassifier{},
		log:        log.With().Str("component", "chatrouter").Logger(),
	}
}

// WithClassifier swaps the intent classifier.
func (r *Router) WithClassifier(c Classifier) *Router {
	r.classifier = c
	return r
}

// Handle records the user message, routes it, and records the
// assistant reply. stageType scopes the conversation to one lifecycle
// stage; empty means project-level chat.
func (r *Router) Handle(ctx context.Context, projectID, message string, stageType entity.StageType) (Result, error) {
	project, ok, err := r.store.GetProject(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, ErrProjectNotFound
	}

	userMsg, err := r.store.AppendMessage(ctx, entity.ChatMessage{
		ProjectID: projectID,
		Role:      entity.RoleUser,
		Content:   strings.TrimSpace(message),
		StageType: stageType,
	})
	if err != nil {
		return Result{}, err
	}

	intent := r.classifier.Classify(message)

	var (
		reply         string
		codeGenerated bool
		filesCount    int
	)
	switch {
	case stageType != "":
		reply, codeGenerated, filesCount = r.handleStageChat(ctx, projectID, stageType, intent)
	case intent.Code:
		reply, codeGenerated, filesCount = r.handleRegeneration(ctx, project, message, intent)
	default:
		reply = r.handleConversation(ctx, project, message, stageType)
	}

	assistantMsg, err := r.store.AppendMessage(ctx, entity.ChatMessage{
		ProjectID: projectID,
		Role:      entity.RoleAssistant,
		Content:   strings.TrimSpace(reply),
		StageType: stageType,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Messages:      []entity.ChatMessage{userMsg, assistantMsg},
		CodeGenerated: codeGenerated,
		FilesCount:    filesCount,
	}, nil
}

// handleStageChat drives the stage agent when the message asks for
// generation, otherwise answers with a short phase prompt.
func (r *Router) handleStageChat(ctx context.Context, projectID string, stageType entity.StageType, intent Intent) (string, bool, int) {
	lower := strings.ToLower(string(stageType))
	if !intent.Code {
		return fmt.Sprintf("I understand your request for the %s stage. How can I help you with this phase?", lower), false, 0
	}

	stage, err := r.exec.ExecuteStage(ctx, projectID, stageType)
	if err != nil {
		r.log.Error().Err(err).Str("project_id", projectID).Str("stage", string(stageType)).Msg("stage execution from chat failed")
		return fmt.Sprintf("I understand your request, but I encountered an issue generating artifacts for the %s stage.", lower), false, 0
	}
	if len(stage.Artifacts) == 0 {
		return fmt.Sprintf("I understand your request for the %s stage, but no artifacts were generated.", lower), false, 0
	}

	names := make([]string, len(stage.Artifacts))
	for i, a := range stage.Artifacts {
		names[i] = a.Name
	}
	return fmt.Sprintf("Generated %d artifacts for the %s stage: %s", len(stage.Artifacts), lower, strings.Join(names, ", ")), true, len(stage.Artifacts)
}

// handleRegeneration rebuilds the development artifact set from the
// project prompt plus the new request. The swap is atomic so readers
// never see a half-replaced stage.
func (r *Router) handleRegeneration(ctx context.Context, project entity.Project, message string, intent Intent) (string, bool, int) {
	enhanced := fmt.Sprintf("%s\n\nAdditional request: %s\n\nFocus on: %s", project.Prompt, strings.TrimSpace(message), intent.Focus)

	if err := r.store.UpdateProjectStatus(ctx, project.ID, entity.ProjectGenerating); err != nil {
		r.log.Error().Err(err).Str("project_id", project.ID).Msg("failed to mark project generating")
	}

	out, err := r.llm.Complete(ctx, render(backendGenerationPrompt, enhanced),
		llmclient.WithTemperature(0.2),
		llmclient.WithMaxOutputTokens(8192),
	)
	if err != nil {
		r.markError(ctx, project.ID)
		r.log.Error().Err(err).Str("project_id", project.ID).Msg("chat regeneration failed")
		return fmt.Sprintf("I'd like to help generate code for you, but there was an issue: %s. You can try rephrasing your request or use the Regenerate button.", llmclient.UserMessage(llmclient.Classify(err))), false, 0
	}

	files := codegen.Parse(out)
	if len(files) == 0 {
		r.markError(ctx, project.ID)
		return "I'd like to help generate code for you, but the response contained no usable files. You can try rephrasing your request or use the Regenerate button.", false, 0
	}

	stage, err := r.store.EnsureStage(ctx, project.ID, entity.StageDevelopment)
	if err != nil {
		r.markError(ctx, project.ID)
		return "I generated the code but failed to save it. Please try again or use the Regenerate button.", false, 0
	}
	artifacts := make([]entity.Artifact, len(files))
	for i, f := range files {
		artifacts[i] = entity.Artifact{Name: f.Filename, Content: f.Content, Type: f.Type, Language: f.Language}
	}
	if _, err := r.store.ReplaceArtifacts(ctx, stage.ID, artifacts); err != nil {
		r.markError(ctx, project.ID)
		r.log.Error().Err(err).Str("project_id", project.ID).Msg("failed to persist regenerated artifacts")
		return "I generated the code but failed to save it. Please try again or use the Regenerate button.", false, 0
	}

	if err := r.store.UpdateProjectStatus(ctx, project.ID, entity.ProjectCompleted); err != nil {
		r.log.Error().Err(err).Str("project_id", project.ID).Msg("failed to mark project completed")
	}
	return fmt.Sprintf("Generated %d files based on your request. The artifact viewer has been updated.", len(files)), true, len(files)
}

// handleConversation answers without generating anything. The reply
// is stripped of code so generation stays an explicit action.
func (r *Router) handleConversation(ctx context.Context, project entity.Project, message string, stageType entity.StageType) string {
	history, err := r.store.ListMessages(ctx, project.ID, historyWindow)
	if err != nil {
		r.log.Error().Err(err).Str("project_id", project.ID).Msg("failed to load chat history")
	}

	var convo strings.Builder
	for _, m := range history {
		if stageType != "" && m.StageType != stageType {
			continue
		}
		fmt.Fprintf(&convo, "%s: %s\n", strings.ToUpper(m.Role), m.Content)
	}

	prompt := fmt.Sprintf(`You are an AI backend assistant helping refine and extend a generated backend project.
Project original prompt: %q.

Guidelines:
- Provide helpful, actionable advice about backend development
- You can suggest improvements, explain concepts, help with architecture decisions
- If the user asks for code implementation, let them know you can generate it automatically
- Do not include code in your reply; respond in prose only
- Keep responses concise but informative

Conversation so far:
%s
USER: %s
ASSISTANT:`, project.Prompt, convo.String(), strings.TrimSpace(message))

	reply, err := r.llm.Complete(ctx, prompt,
		llmclient.WithTemperature(chatTemperature),
		llmclient.WithMaxOutputTokens(chatMaxTokens),
	)
	if err != nil {
		r.log.Error().Err(err).Str("project_id", project.ID).Msg("chat completion failed")
		return "I'm having trouble responding right now. Please try again."
	}
	reply = StripCode(reply)
	if len(reply) > maxChatReplyChars {
		reply = reply[:maxChatReplyChars]
	}
	return reply
}

func (r *Router) markError(ctx context.Context, projectID string) {
	if err := r.store.UpdateProjectStatus(ctx, projectID, entity.ProjectError); err != nil {
		r.log.Error().Err(err).Str("project_id", projectID).Msg("failed to mark project errored")
	}
}

func render(tmpl, userPrompt string) string {
	return strings.ReplaceAll(tmpl, "{user_prompt}", userPrompt)
}
