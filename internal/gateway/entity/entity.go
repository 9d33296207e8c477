package entity

import (
	"strings"
	"time"
)

// ProjectStatus tracks the lifecycle of a whole project.
type ProjectStatus string

const (
	ProjectIdea       ProjectStatus = "idea"
	ProjectGenerating ProjectStatus = "generating"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectError      ProjectStatus = "error"
)

// StageType identifies one phase of the fixed generation lifecycle.
type StageType string

const (
	StagePlanning    StageType = "PLANNING"
	StageDesign      StageType = "DESIGN"
	StageDevelopment StageType = "DEVELOPMENT"
	StageTesting     StageType = "TESTING"
	StageDeployment  StageType = "DEPLOYMENT"
)

// StageOrder is the canonical stage sequence. Context retrieval and the
// full-workflow runner both depend on this ordering.
var StageOrder = []StageType{
	StagePlanning,
	StageDesign,
	StageDevelopment,
	StageTesting,
	StageDeployment,
}

// Index returns the position of t in StageOrder, or -1 for unknown types.
func (t StageType) Index() int {
	for i, s := range StageOrder {
		if s == t {
			return i
		}
	}
	return -1
}

// DisplayName renders the type as a human-readable stage name ("Planning").
func (t StageType) DisplayName() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return s[:1] + strings.ToLower(s[1:])
}

// ParseStageType normalizes a raw stage-type string.
func ParseStageType(raw string) (StageType, bool) {
	t := StageType(strings.ToUpper(strings.TrimSpace(raw)))
	if t.Index() < 0 {
		return "", false
	}
	return t, true
}

// StageStatus is the per-stage state machine.
type StageStatus string

const (
	StageNotStarted StageStatus = "NOT_STARTED"
	StageInProgress StageStatus = "IN_PROGRESS"
	StageCompleted  StageStatus = "COMPLETED"
	StageErrored    StageStatus = "ERROR"
)

// Project is a named unit of generation work.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Prompt    string        `json:"prompt"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Stages    []Stage       `json:"stages,omitempty"`
}

// Stage is one lifecycle phase of a project. A project holds at most
// one stage per type; stages are created lazily on first execution.
type Stage struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"project_id"`
	Type      StageType   `json:"type"`
	Status    StageStatus `json:"status"`
	Name      string      `json:"name"`
	Artifacts []Artifact  `json:"artifacts,omitempty"`
}

// Artifact is a single generated output unit, either a documentation
// blob or a code file, belonging to exactly one stage.
type Artifact struct {
	ID        string    `json:"id"`
	StageID   string    `json:"stage_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// StageType is the owning stage's type, populated on cross-stage
	// reads so consumers don't need a second lookup.
	StageType StageType `json:"stage_type,omitempty"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a project-scoped conversation. StageType
// is empty for project-level chat.
type ChatMessage struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	StageType StageType `json:"stage_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Artifact type tags. The set is open; these are the values the
// generation prompts instruct the model to use.
const (
	ArtifactDocumentation = "documentation"
	ArtifactAPI           = "api"
	ArtifactDB            = "db"
	ArtifactTest          = "test"
	ArtifactConfig        = "config"
	ArtifactMiddleware    = "middleware"
)
