package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// ChatMessage holds the schema definition for the ChatMessage entity.
// Messages are append-only; history is read back in creation order.
type ChatMessage struct {
	ent.Schema
}

// Fields of the ChatMessage.
func (ChatMessage) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("message_id").
			DefaultFunc(uuid.NewString).
			Unique().
			Immutable(),
		field.String("project_id").
			NotEmpty(),
		field.Enum("role").
			Values("user", "assistant"),
		field.Text("content").
			Default(""),
		field.String("stage_type").
			Default(""),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ChatMessage.
func (ChatMessage) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("project", Project.Type).
			Ref("messages").
			Field("project_id").
			Unique().
			Required(),
	}
}

// Indexes of the ChatMessage.
func (ChatMessage) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("project_id", "created_at"),
	}
}
