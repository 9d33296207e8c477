// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// Artifact is the predicate function for artifact builders.
type Artifact func(*sql.Selector)

// ChatMessage is the predicate function for chatmessage builders.
type ChatMessage func(*sql.Selector)

// Project is the predicate function for project builders.
type Project func(*sql.Selector)

// Stage is the predicate function for stage builders.
type Stage func(*sql.Selector)
