package sql

import (
	"reflect"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
)

// builtins maps native Go type spellings to the SQL type names the
// engine resolves without a matching CREATE TYPE.
var builtins = map[string]string{
	"bool":      "boolean",
	"int16":     "smallint",
	"int32":     "integer",
	"int":       "bigint",
	"int64":     "bigint",
	"float32":   "real",
	"float64":   "double precision",
	"string":    "text",
	"[]byte":    "bytea",
	"time.Time": "timestamptz",

	reflect.TypeOf(uuid.UUID{}).String(): "uuid",
}

// TypeName resolves a Go type spelling to its SQL type name. Spellings
// without a builtin mapping are treated as extension-declared types
// and take the snake_case form of the Go name, matching the names
// TypeDef entities are emitted under.
func (r *Renderer) TypeName(goType string) string {
	if sql, ok := r.types[goType]; ok {
		return sql
	}
	return inflect.Underscore(goType)
}

// RegisterType adds a Go-to-SQL type mapping, keyed by the reflected
// spelling of goType. It overrides any builtin mapping.
func (r *Renderer) RegisterType(goType any, sqlName string) {
	r.types[reflect.TypeOf(goType).String()] = sqlName
}
