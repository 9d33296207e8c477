package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// Stage holds the schema definition for the Stage entity.
type Stage struct {
	ent.Schema
}

// Fields of the Stage.
func (Stage) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("stage_id").
			DefaultFunc(uuid.NewString).
			Unique().
			Immutable(),
		field.String("project_id").
			NotEmpty(),
		field.Enum("type").
			Values("PLANNING", "DESIGN", "DEVELOPMENT", "TESTING", "DEPLOYMENT"),
		field.Enum("status").
			Values("NOT_STARTED", "IN_PROGRESS", "COMPLETED", "ERROR").
			Default("NOT_STARTED"),
		field.String("name").
			Default(""),
	}
}

// Edges of the Stage.
func (Stage) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("project", Project.Type).
			Ref("stages").
			Field("project_id").
			Unique().
			Required(),
		edge.To("artifacts", Artifact.Type),
	}
}

// Indexes of the Stage.
func (Stage) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("project_id", "type").Unique(),
	}
}
