package workflow

import (
	"strings"
	"sync"
	"time"

	"backforge/internal/gateway/entity"
)

const completedWorkflowRetention = 30 * time.Second

// EventType enumerates the progress events published while a
// workflow or single stage executes.
type EventType string

const (
	EventUserMessage  EventType = "user_message"
	EventStatus       EventType = "status"
	EventChunk        EventType = "chunk"
	EventFileStart    EventType = "file_start"
	EventFileChunk    EventType = "file_chunk"
	EventFileComplete EventType = "file_complete"
	EventComplete     EventType = "complete"
	EventError        EventType = "error"
)

// Event is one progress notification for a project's generation work.
type Event struct {
	Type       EventType        `json:"type"`
	Stage      entity.StageType `json:"stage,omitempty"`
	Message    string           `json:"message,omitempty"`
	Content    string           `json:"content,omitempty"`
	FileName   string           `json:"fileName,omitempty"`
	FileType   string           `json:"fileType,omitempty"`
	Language   string           `json:"language,omitempty"`
	ArtifactID string           `json:"artifactId,omitempty"`
}

// EventBroker manages per-project event channels. Watch endpoints
// attach to the channel; executors publish into it.
type EventBroker struct {
	mu     sync.RWMutex
	events map[string]chan Event
}

// NewEventBroker creates a new event broker.
func NewEventBroker() *EventBroker {
	return &EventBroker{events: make(map[string]chan Event)}
}

// Allocate creates and registers a new event channel for a project.
func (b *EventBroker) Allocate(projectID string, size int) chan Event {
	if size <= 0 {
		size = 1
	}
	ch := make(chan Event, size)
	b.mu.Lock()
	b.events[strings.TrimSpace(projectID)] = ch
	b.mu.Unlock()
	return ch
}

// Get returns the event channel for a project.
func (b *EventBroker) Get(projectID string) (chan Event, bool) {
	b.mu.RLock()
	ch, ok := b.events[strings.TrimSpace(projectID)]
	b.mu.RUnlock()
	return ch, ok
}

// Publish sends an event to a project's channel if one is attached.
// A full buffer drops the event rather than blocking the executor.
func (b *EventBroker) Publish(projectID string, ev Event) {
	ch, ok := b.Get(projectID)
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}

// ScheduleCleanup removes a project's event channel after a retention
// period, leaving late watchers a window to drain the tail.
func (b *EventBroker) ScheduleCleanup(projectID string) {
	time.AfterFunc(completedWorkflowRetention, func() {
		b.mu.Lock()
		delete(b.events, strings.TrimSpace(projectID))
		b.mu.Unlock()
	})
}
