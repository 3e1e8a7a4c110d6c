package gen

import (
	"fmt"

	"github.com/pgcraft/pgcraft/control"
	"github.com/pgcraft/pgcraft/schema/aggregate"
	"github.com/pgcraft/pgcraft/schema/shape"
)

// RootIdentity is the identity of the extension root entity. Every
// other entity depends on it, directly or transitively.
const RootIdentity = "extension root"

// Entity is one SQL-producing node of the entity graph. The set of
// implementations is closed: Root, TypeDef, FunctionDef, AggregateDef
// and OperatorDef cover the DDL vocabulary the target engine accepts,
// and rendering switches over them exhaustively.
type Entity interface {
	// Identity returns the entity's stable textual identity, used for
	// cross-referencing and deduplication within a graph.
	Identity() string
	// DependsOn returns the identities this entity must be emitted after.
	DependsOn() []string

	// sealed marks the variant set as closed.
	sealed()
}

// Root is the graph's root entity, built from the extension's control
// file. It renders to a header comment only; it exists to anchor the
// dependency edges of every other entity.
type Root struct {
	Control *control.ControlFile
}

// Identity implements Entity.
func (*Root) Identity() string { return RootIdentity }

// DependsOn implements Entity.
func (*Root) DependsOn() []string { return nil }

func (*Root) sealed() {}

// TypeDef declares a SQL type backed by a native representation with
// textual input/output functions.
type TypeDef struct {
	// Name is the SQL type name.
	Name string
	// GoType is the native Go type backing the SQL type.
	GoType string
	// InFunc and OutFunc are the SQL names of the I/O functions.
	InFunc  string
	OutFunc string
	// Requires holds identities beyond the root this type depends on.
	Requires []string
}

// Identity implements Entity.
func (t *TypeDef) Identity() string { return "type " + t.Name }

// DependsOn implements Entity.
func (t *TypeDef) DependsOn() []string {
	return append([]string{RootIdentity}, t.Requires...)
}

func (*TypeDef) sealed() {}

// Arg is one declared argument of a SQL function.
type Arg struct {
	// Name is the parameter name; empty for positional parameters.
	Name string
	// Shape is the classified value shape.
	Shape shape.Shape
}

// FunctionDef declares a SQL function backed by a native Go function.
type FunctionDef struct {
	// Name is the SQL function name.
	Name string
	// Args holds the declared parameters in order.
	Args []Arg
	// Returns is the return type; empty renders as void.
	Returns string
	// Strict marks the function STRICT (null in, null out).
	Strict bool
	// Link is the symbol name emitted in the DDL's AS clause.
	// Defaults to the SQL name.
	Link string
	// Glue is the Go binding expression for the glue table: either a
	// package-level function name or a "Recv.Method" pair. Empty
	// leaves the function out of the glue table.
	Glue string
	// Requires holds identities beyond the root this function depends on.
	Requires []string
}

// Identity implements Entity.
func (f *FunctionDef) Identity() string { return "function " + f.Name }

// DependsOn implements Entity.
func (f *FunctionDef) DependsOn() []string {
	return append([]string{RootIdentity}, f.Requires...)
}

func (*FunctionDef) sealed() {}

// AggregateDef declares a SQL aggregate from its schema descriptor.
type AggregateDef struct {
	Desc *aggregate.Descriptor
	// Requires holds identities beyond the root this aggregate depends
	// on: its state type and its named transition functions.
	Requires []string
}

// Identity implements Entity.
func (a *AggregateDef) Identity() string { return "aggregate " + a.Desc.Name }

// DependsOn implements Entity.
func (a *AggregateDef) DependsOn() []string {
	return append([]string{RootIdentity}, a.Requires...)
}

func (*AggregateDef) sealed() {}

// OperatorDef declares a SQL operator wired to a function.
type OperatorDef struct {
	// Name is the operator spelling, e.g. "=" or "<->".
	Name string
	// Left and Right are the operand types; either may be empty for a
	// prefix operator.
	Left  string
	Right string
	// Procedure is the SQL function implementing the operator.
	Procedure string
	// Commutator and Negator are optional related operator spellings.
	Commutator string
	Negator    string
	// Requires holds identities beyond the root this operator depends on.
	Requires []string
}

// Identity implements Entity.
func (o *OperatorDef) Identity() string {
	return fmt.Sprintf("operator %s(%s,%s)", o.Name, o.Left, o.Right)
}

// DependsOn implements Entity.
func (o *OperatorDef) DependsOn() []string {
	return append([]string{RootIdentity}, o.Requires...)
}

func (*OperatorDef) sealed() {}
