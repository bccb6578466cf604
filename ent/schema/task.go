// ent/schema/task.go
package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Task holds the schema definition for the Task entity. The tasks table is
// created by the SQL migrations in internal/database; this definition must
// stay column-for-column in line with them.
type Task struct {
	ent.Schema
}

// Fields of the Task.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			MaxLen(36).
			NotEmpty().
			Immutable().
			Comment("UUIDv7, so ids sort in creation order"),

		field.String("title").
			NotEmpty().
			Comment("Task title as sent, macros included"),

		field.Text("description").
			Default("").
			Comment("Detailed description of the task"),

		field.Enum("status").
			Values("ACTIVE", "COMPLETED").
			Default("ACTIVE").
			Comment("Raw status; OVERDUE and LATE are derived on read"),

		field.Enum("priority").
			Values("CRITICAL", "HIGH", "MEDIUM", "LOW").
			Optional().
			Nillable().
			Comment("Priority level of the task"),

		field.Time("deadline").
			Optional().
			Nillable().
			SchemaType(map[string]string{
				dialect.Postgres: "date",
				dialect.SQLite:   "date",
			}).
			Comment("Calendar day the task is due"),

		field.Time("created_at").
			Immutable().
			Comment("When the task was created"),

		field.Time("updated_at").
			Comment("When the task was last updated"),
	}
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		// Creation order for the default list
		index.Fields("created_at", "id"),
	}
}
