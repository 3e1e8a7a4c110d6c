// Package sql renders entity graph nodes into PostgreSQL DDL.
//
// Each entity kind renders to one independent statement (the root to a
// header comment block). The emitted text is handed to the engine as
// is; no SQL validation happens here.
package sql

import (
	"fmt"
	"strings"

	"github.com/pgcraft/pgcraft/compiler/gen"
	"github.com/pgcraft/pgcraft/schema/shape"
)

// Renderer renders graph entities into PostgreSQL DDL statements. It
// implements gen.Renderer.
type Renderer struct {
	types map[string]string
}

// NewRenderer returns a Renderer with the builtin Go-to-SQL type map.
func NewRenderer() *Renderer {
	types := make(map[string]string, len(builtins))
	for k, v := range builtins {
		types[k] = v
	}
	return &Renderer{types: types}
}

// Render renders one entity into its DDL statement.
func (r *Renderer) Render(e gen.Entity) (string, error) {
	switch e := e.(type) {
	case *gen.Root:
		return r.renderRoot(e), nil
	case *gen.TypeDef:
		return r.renderType(e), nil
	case *gen.FunctionDef:
		return r.renderFunction(e), nil
	case *gen.AggregateDef:
		return r.renderAggregate(e), nil
	case *gen.OperatorDef:
		return r.renderOperator(e), nil
	}
	return "", fmt.Errorf("sql: unknown entity kind %T", e)
}

// renderRoot renders the header comment block. The root carries no
// executable DDL of its own.
func (r *Renderer) renderRoot(e *gen.Root) string {
	var b strings.Builder
	b.WriteString("/*\n")
	fmt.Fprintf(&b, "%s.\n\n", e.Control.Comment)
	b.WriteString("This file is auto generated by pgcraft.\n\n")
	b.WriteString("The ordering of items is not stable, it is driven by a dependency graph.\n")
	b.WriteString("*/")
	return b.String()
}

func (r *Renderer) renderType(e *gen.TypeDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TYPE %s (\n", e.Name)
	b.WriteString("\tINTERNALLENGTH = variable,\n")
	fmt.Fprintf(&b, "\tINPUT = %s,\n", e.InFunc)
	fmt.Fprintf(&b, "\tOUTPUT = %s,\n", e.OutFunc)
	b.WriteString("\tSTORAGE = extended\n")
	b.WriteString(");")
	return b.String()
}

func (r *Renderer) renderFunction(e *gen.FunctionDef) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = r.arg(a.Name, a.Shape)
	}
	returns := "void"
	if e.Returns != "" {
		returns = r.TypeName(e.Returns)
	}
	link := e.Link
	if link == "" {
		link = e.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE FUNCTION %s(%s) RETURNS %s\n", e.Name, strings.Join(args, ", "), returns)
	if e.Strict {
		b.WriteString("STRICT\n")
	}
	b.WriteString("LANGUAGE c\n")
	fmt.Fprintf(&b, "AS 'MODULE_PATHNAME', '%s';", link)
	return b.String()
}

func (r *Renderer) renderAggregate(e *gen.AggregateDef) string {
	d := e.Desc
	args := make([]string, len(d.Args.Shapes))
	for i, s := range d.Args.Shapes {
		args[i] = r.arg("", s)
	}
	signature := strings.Join(args, ", ")
	if d.OrderBy != "" {
		signature += " ORDER BY " + r.TypeName(d.OrderBy)
	}

	clauses := []string{
		"SFUNC = " + d.StateFunc,
		"STYPE = " + r.TypeName(d.State),
	}
	appendf := func(format string, args ...any) {
		clauses = append(clauses, fmt.Sprintf(format, args...))
	}
	if d.CombineFunc != "" {
		appendf("COMBINEFUNC = %s", d.CombineFunc)
	}
	if d.SerialFunc != "" {
		appendf("SERIALFUNC = %s", d.SerialFunc)
	}
	if d.DeserialFunc != "" {
		appendf("DESERIALFUNC = %s", d.DeserialFunc)
	}
	if d.FinalizeFunc != "" {
		appendf("FINALFUNC = %s", d.FinalizeFunc)
	}
	if m := d.FinalizeModify.String(); m != "" {
		appendf("FINALFUNC_MODIFY = %s", m)
	}
	if d.InitialCondition != nil {
		appendf("INITCOND = '%s'", quote(*d.InitialCondition))
	}
	if d.MovingState != "" {
		appendf("MSFUNC = %s", d.MovingStateFunc)
		appendf("MINVFUNC = %s", d.MovingInverseFunc)
		appendf("MSTYPE = %s", r.TypeName(d.MovingState))
		if d.MovingInitialCondition != nil {
			appendf("MINITCOND = '%s'", quote(*d.MovingInitialCondition))
		}
		if d.MovingFinalFunc != "" {
			appendf("MFINALFUNC = %s", d.MovingFinalFunc)
		}
		if m := d.MovingFinalizeModify.String(); m != "" {
			appendf("MFINALFUNC_MODIFY = %s", m)
		}
	}
	if p := d.Parallel.String(); p != "" {
		appendf("PARALLEL = %s", p)
	}
	if d.SortOperator != "" {
		appendf("SORTOP = %s", d.SortOperator)
	}
	if d.Hypothetical {
		clauses = append(clauses, "HYPOTHETICAL")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE AGGREGATE %s (%s)\n(\n", d.Name, signature)
	b.WriteString("\t" + strings.Join(clauses, ",\n\t") + "\n")
	b.WriteString(");")
	return b.String()
}

func (r *Renderer) renderOperator(e *gen.OperatorDef) string {
	clauses := []string{"PROCEDURE = " + e.Procedure}
	if e.Left != "" {
		clauses = append(clauses, "LEFTARG = "+r.TypeName(e.Left))
	}
	if e.Right != "" {
		clauses = append(clauses, "RIGHTARG = "+r.TypeName(e.Right))
	}
	if e.Commutator != "" {
		clauses = append(clauses, "COMMUTATOR = "+e.Commutator)
	}
	if e.Negator != "" {
		clauses = append(clauses, "NEGATOR = "+e.Negator)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OPERATOR %s (\n", e.Name)
	b.WriteString("\t" + strings.Join(clauses, ",\n\t") + "\n")
	b.WriteString(");")
	return b.String()
}

// arg renders one parameter, using the inner type with the VARIADIC
// marker for variadic shapes.
func (r *Renderer) arg(name string, s shape.Shape) string {
	t := r.TypeName(s.Type)
	if s.Variadic {
		t = "VARIADIC " + t + "[]"
	}
	if name != "" {
		return name + " " + t
	}
	return t
}

// quote doubles single quotes for embedding in a SQL string literal.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
