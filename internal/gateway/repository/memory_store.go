package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"backforge/internal/gateway/entity"
)

// MemoryStore is an in-memory Store for tests and database-less runs.
type MemoryStore struct {
	mu        sync.RWMutex
	projects  map[string]entity.Project
	stages    map[string]entity.Stage
	artifacts map[string]entity.Artifact
	messages  map[string][]entity.ChatMessage

	// clock is monotonic-ish ordering for CreatedAt so list results
	// are stable even when operations land in the same nanosecond.
	clock int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:  make(map[string]entity.Project),
		stages:    make(map[string]entity.Stage),
		artifacts: make(map[string]entity.Artifact),
		messages:  make(map[string][]entity.ChatMessage),
	}
}

func (s *MemoryStore) now() time.Time {
	s.clock++
	return time.Unix(1700000000, s.clock*int64(time.Millisecond))
}

func (s *MemoryStore) CreateProject(_ context.Context, name, prompt string) (entity.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	p := entity.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Prompt:    prompt,
		Status:    entity.ProjectIdea,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.projects[p.ID] = p
	return p, nil
}

func (s *MemoryStore) GetProject(_ context.Context, id string) (entity.Project, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return entity.Project{}, false, nil
	}
	p.Stages = s.projectStagesLocked(id)
	return p, true, nil
}

func (s *MemoryStore) ListProjects(_ context.Context) ([]entity.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateProjectStatus(_ context.Context, id string, status entity.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = s.now()
	s.projects[id] = p
	return nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	for stageID, st := range s.stages {
		if st.ProjectID != id {
			continue
		}
		delete(s.stages, stageID)
		for artifactID, a := range s.artifacts {
			if a.StageID == stageID {
				delete(s.artifacts, artifactID)
			}
		}
	}
	delete(s.messages, id)
	return nil
}

func (s *MemoryStore) EnsureStage(_ context.Context, projectID string, stageType entity.StageType) (entity.Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stages {
		if st.ProjectID == projectID && st.Type == stageType {
			return st, nil
		}
	}
	st := entity.Stage{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Type:      stageType,
		Status:    entity.StageNotStarted,
		Name:      stageType.DisplayName(),
	}
	s.stages[st.ID] = st
	return st, nil
}

func (s *MemoryStore) GetStage(_ context.Context, projectID string, stageType entity.StageType) (entity.Stage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.stages {
		if st.ProjectID == projectID && st.Type == stageType {
			st.Artifacts = s.stageArtifactsLocked(st.ID)
			return st, true, nil
		}
	}
	return entity.Stage{}, false, nil
}

func (s *MemoryStore) UpdateStageStatus(_ context.Context, stageID string, status entity.StageStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stages[stageID]
	if !ok {
		return ErrNotFound
	}
	st.Status = status
	s.stages[stageID] = st
	return nil
}

func (s *MemoryStore) CreateArtifact(_ context.Context, stageID string, a entity.Artifact) (entity.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createArtifactLocked(stageID, a), nil
}

func (s *MemoryStore) createArtifactLocked(stageID string, a entity.Artifact) entity.Artifact {
	a.ID = uuid.NewString()
	a.StageID = stageID
	a.CreatedAt = s.now()
	a.StageType = ""
	s.artifacts[a.ID] = a
	return a
}

func (s *MemoryStore) GetArtifact(_ context.Context, id string) (entity.Artifact, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[id]
	if !ok {
		return entity.Artifact{}, false, nil
	}
	if st, ok := s.stages[a.StageID]; ok {
		a.StageType = st.Type
	}
	return a, true, nil
}

func (s *MemoryStore) UpdateArtifactContent(_ context.Context, id, content string) (entity.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[id]
	if !ok {
		return entity.Artifact{}, ErrNotFound
	}
	a.Content = content
	s.artifacts[id] = a
	return a, nil
}

func (s *MemoryStore) UpdateArtifactName(_ context.Context, id, name string) (entity.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[id]
	if !ok {
		return entity.Artifact{}, ErrNotFound
	}
	a.Name = name
	s.artifacts[id] = a
	return a, nil
}

func (s *MemoryStore) DeleteArtifact(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artifacts[id]; !ok {
		return ErrNotFound
	}
	delete(s.artifacts, id)
	return nil
}

func (s *MemoryStore) ListProjectArtifacts(_ context.Context, projectID string) ([]entity.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Artifact
	for _, a := range s.artifacts {
		st, ok := s.stages[a.StageID]
		if !ok || st.ProjectID != projectID {
			continue
		}
		a.StageType = st.Type
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ReplaceArtifacts(_ context.Context, stageID string, artifacts []entity.Artifact) ([]entity.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.artifacts {
		if a.StageID == stageID {
			delete(s.artifacts, id)
		}
	}
	out := make([]entity.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, s.createArtifactLocked(stageID, a))
	}
	return out, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, m entity.ChatMessage) (entity.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.NewString()
	m.CreatedAt = s.now()
	s.messages[m.ProjectID] = append(s.messages[m.ProjectID], m)
	return m, nil
}

func (s *MemoryStore) ListMessages(_ context.Context, projectID string, limit int) ([]entity.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[projectID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]entity.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) projectStagesLocked(projectID string) []entity.Stage {
	var out []entity.Stage
	for _, st := range s.stages {
		if st.ProjectID != projectID {
			continue
		}
		st.Artifacts = s.stageArtifactsLocked(st.ID)
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Type.Index() < out[j].Type.Index()
	})
	return out
}

func (s *MemoryStore) stageArtifactsLocked(stageID string) []entity.Artifact {
	var out []entity.Artifact
	for _, a := range s.artifacts {
		if a.StageID == stageID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
