package repository

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"backforge/internal/gateway/ent"
	"backforge/internal/gateway/ent/artifact"
	"backforge/internal/gateway/ent/chatmessage"
	"backforge/internal/gateway/ent/project"
	"backforge/internal/gateway/ent/stage"
	"backforge/internal/gateway/entity"
)

// EntStore is the Postgres-backed Store implementation.
type EntStore struct {
	client *ent.Client
}

// Open connects to Postgres through the pgx stdlib driver and wraps
// the connection in an ent client.
func Open(databaseURL string) (*ent.Client, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	drv := entsql.OpenDB(dialect.Postgres, db)
	return ent.NewClient(ent.Driver(drv)), nil
}

func NewEntStore(client *ent.Client) *EntStore {
	return &EntStore{client: client}
}

// Migrate creates or updates the schema.
func (s *EntStore) Migrate(ctx context.Context) error {
	return s.client.Schema.Create(ctx)
}

func (s *EntStore) Close() error {
	return s.client.Close()
}

func (s *EntStore) CreateProject(ctx context.Context, name, prompt string) (entity.Project, error) {
	row, err := s.client.Project.Create().
		SetName(name).
		SetPrompt(prompt).
		SetStatus(string(entity.ProjectIdea)).
		Save(ctx)
	if err != nil {
		return entity.Project{}, err
	}
	return toProject(row, nil), nil
}

func (s *EntStore) GetProject(ctx context.Context, id string) (entity.Project, bool, error) {
	row, err := s.client.Project.Query().
		Where(project.ID(id)).
		WithStages(func(q *ent.StageQuery) {
			q.WithArtifacts(func(aq *ent.ArtifactQuery) {
				aq.Order(ent.Asc(artifact.FieldCreatedAt))
			})
		}).
		Only(ctx)
	if ent.IsNotFound(err) {
		return entity.Project{}, false, nil
	}
	if err != nil {
		return entity.Project{}, false, err
	}
	return toProject(row, row.Edges.Stages), true, nil
}

func (s *EntStore) ListProjects(ctx context.Context) ([]entity.Project, error) {
	rows, err := s.client.Project.Query().
		Order(ent.Desc(project.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]entity.Project, len(rows))
	for i, row := range rows {
		projects[i] = toProject(row, nil)
	}
	return projects, nil
}

func (s *EntStore) UpdateProjectStatus(ctx context.Context, id string, status entity.ProjectStatus) error {
	n, err := s.client.Project.Update().
		Where(project.ID(id)).
		SetStatus(string(status)).
		Save(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes the project and everything hanging off it.
// The schema has no database-level cascade, so the cleanup runs
// bottom-up inside one transaction.
func (s *EntStore) DeleteProject(ctx context.Context, id string) error {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Artifact.Delete().
		Where(artifact.HasStageWith(stage.ProjectID(id))).
		Exec(ctx); err != nil {
		return rollback(tx, err)
	}
	if _, err := tx.Stage.Delete().
		Where(stage.ProjectID(id)).
		Exec(ctx); err != nil {
		return rollback(tx, err)
	}
	if _, err := tx.ChatMessage.Delete().
		Where(chatmessage.ProjectID(id)).
		Exec(ctx); err != nil {
		return rollback(tx, err)
	}
	n, err := tx.Project.Delete().
		Where(project.ID(id)).
		Exec(ctx)
	if err != nil {
		return rollback(tx, err)
	}
	if n == 0 {
		return rollback(tx, ErrNotFound)
	}
	return tx.Commit()
}

func (s *EntStore) EnsureStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, error) {
	row, err := s.client.Stage.Query().
		Where(stage.ProjectID(projectID), stage.TypeEQ(stage.Type(stageType))).
		Only(ctx)
	if err == nil {
		return toStage(row, nil), nil
	}
	if !ent.IsNotFound(err) {
		return entity.Stage{}, err
	}
	row, err = s.client.Stage.Create().
		SetProjectID(projectID).
		SetType(stage.Type(stageType)).
		SetStatus(stage.Status(entity.StageNotStarted)).
		SetName(stageType.DisplayName()).
		Save(ctx)
	if err != nil {
		return entity.Stage{}, err
	}
	return toStage(row, nil), nil
}

func (s *EntStore) GetStage(ctx context.Context, projectID string, stageType entity.StageType) (entity.Stage, bool, error) {
	row, err := s.client.Stage.Query().
		Where(stage.ProjectID(projectID), stage.TypeEQ(stage.Type(stageType))).
		WithArtifacts(func(aq *ent.ArtifactQuery) {
			aq.Order(ent.Asc(artifact.FieldCreatedAt))
		}).
		Only(ctx)
	if ent.IsNotFound(err) {
		return entity.Stage{}, false, nil
	}
	if err != nil {
		return entity.Stage{}, false, err
	}
	return toStage(row, row.Edges.Artifacts), true, nil
}

func (s *EntStore) UpdateStageStatus(ctx context.Context, stageID string, status entity.StageStatus) error {
	n, err := s.client.Stage.Update().
		Where(stage.ID(stageID)).
		SetStatus(stage.Status(status)).
		Save(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EntStore) CreateArtifact(ctx context.Context, stageID string, a entity.Artifact) (entity.Artifact, error) {
	row, err := s.client.Artifact.Create().
		SetStageID(stageID).
		SetName(a.Name).
		SetContent(a.Content).
		SetType(a.Type).
		SetLanguage(a.Language).
		Save(ctx)
	if err != nil {
		return entity.Artifact{}, err
	}
	return toArtifact(row), nil
}

func (s *EntStore) GetArtifact(ctx context.Context, id string) (entity.Artifact, bool, error) {
	row, err := s.client.Artifact.Query().
		Where(artifact.ID(id)).
		WithStage().
		Only(ctx)
	if ent.IsNotFound(err) {
		return entity.Artifact{}, false, nil
	}
	if err != nil {
		return entity.Artifact{}, false, err
	}
	a := toArtifact(row)
	if row.Edges.Stage != nil {
		a.StageType = entity.StageType(row.Edges.Stage.Type)
	}
	return a, true, nil
}

func (s *EntStore) UpdateArtifactContent(ctx context.Context, id, content string) (entity.Artifact, error) {
	row, err := s.client.Artifact.UpdateOneID(id).
		SetContent(content).
		Save(ctx)
	if ent.IsNotFound(err) {
		return entity.Artifact{}, ErrNotFound
	}
	if err != nil {
		return entity.Artifact{}, err
	}
	return toArtifact(row), nil
}

func (s *EntStore) UpdateArtifactName(ctx context.Context, id, name string) (entity.Artifact, error) {
	row, err := s.client.Artifact.UpdateOneID(id).
		SetName(name).
		Save(ctx)
	if ent.IsNotFound(err) {
		return entity.Artifact{}, ErrNotFound
	}
	if err != nil {
		return entity.Artifact{}, err
	}
	return toArtifact(row), nil
}

func (s *EntStore) DeleteArtifact(ctx context.Context, id string) error {
	err := s.client.Artifact.DeleteOneID(id).Exec(ctx)
	if ent.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *EntStore) ListProjectArtifacts(ctx context.Context, projectID string) ([]entity.Artifact, error) {
	rows, err := s.client.Artifact.Query().
		Where(artifact.HasStageWith(stage.ProjectID(projectID))).
		WithStage().
		Order(ent.Asc(artifact.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, err
	}
	artifacts := make([]entity.Artifact, len(rows))
	for i, row := range rows {
		a := toArtifact(row)
		if row.Edges.Stage != nil {
			a.StageType = entity.StageType(row.Edges.Stage.Type)
		}
		artifacts[i] = a
	}
	return artifacts, nil
}

func (s *EntStore) ReplaceArtifacts(ctx context.Context, stageID string, artifacts []entity.Artifact) ([]entity.Artifact, error) {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Artifact.Delete().
		Where(artifact.StageID(stageID)).
		Exec(ctx); err != nil {
		return nil, rollback(tx, err)
	}
	out := make([]entity.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		row, err := tx.Artifact.Create().
			SetStageID(stageID).
			SetName(a.Name).
			SetContent(a.Content).
			SetType(a.Type).
			SetLanguage(a.Language).
			Save(ctx)
		if err != nil {
			return nil, rollback(tx, err)
		}
		out = append(out, toArtifact(row))
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *EntStore) AppendMessage(ctx context.Context, m entity.ChatMessage) (entity.ChatMessage, error) {
	row, err := s.client.ChatMessage.Create().
		SetProjectID(m.ProjectID).
		SetRole(chatmessage.Role(m.Role)).
		SetContent(m.Content).
		SetStageType(string(m.StageType)).
		Save(ctx)
	if err != nil {
		return entity.ChatMessage{}, err
	}
	return toMessage(row), nil
}

func (s *EntStore) ListMessages(ctx context.Context, projectID string, limit int) ([]entity.ChatMessage, error) {
	q := s.client.ChatMessage.Query().
		Where(chatmessage.ProjectID(projectID)).
		Order(ent.Desc(chatmessage.FieldCreatedAt))
	if limit > 0 {
		q = q.Limit(limit)
	}
	rows, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	// Newest-first query for the limit window, then back to
	// chronological order for callers.
	messages := make([]entity.ChatMessage, len(rows))
	for i, row := range rows {
		messages[len(rows)-1-i] = toMessage(row)
	}
	return messages, nil
}

func rollback(tx *ent.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return fmt.Errorf("%w: rolling back: %v", err, rerr)
	}
	return err
}

func toProject(row *ent.Project, stages []*ent.Stage) entity.Project {
	p := entity.Project{
		ID:        row.ID,
		Name:      row.Name,
		Prompt:    row.Prompt,
		Status:    entity.ProjectStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for _, s := range stages {
		p.Stages = append(p.Stages, toStage(s, s.Edges.Artifacts))
	}
	return p
}

func toStage(row *ent.Stage, artifacts []*ent.Artifact) entity.Stage {
	s := entity.Stage{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Type:      entity.StageType(row.Type),
		Status:    entity.StageStatus(row.Status),
		Name:      row.Name,
	}
	for _, a := range artifacts {
		s.Artifacts = append(s.Artifacts, toArtifact(a))
	}
	return s
}

func toArtifact(row *ent.Artifact) entity.Artifact {
	return entity.Artifact{
		ID:        row.ID,
		StageID:   row.StageID,
		Name:      row.Name,
		Content:   row.Content,
		Type:      row.Type,
		Language:  row.Language,
		CreatedAt: row.CreatedAt,
	}
}

func toMessage(row *ent.ChatMessage) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Role:      string(row.Role),
		Content:   row.Content,
		StageType: entity.StageType(row.StageType),
		CreatedAt: row.CreatedAt,
	}
}
