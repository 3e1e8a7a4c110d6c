package gen

import (
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/pgcraft/pgcraft/compiler/load"
	"github.com/pgcraft/pgcraft/control"
	"github.com/pgcraft/pgcraft/schema/shape"
)

// BuildGraph assembles the entity graph for one extension build: the
// control file becomes the root, loaded declarations become entities,
// and the transition machinery of each aggregate is synthesized as
// function entities so the emitted script carries the full calling
// convention wiring.
func BuildGraph(cf *control.ControlFile, s *load.Schema) (*Graph, error) {
	b := &builder{
		graph:    NewGraph(),
		declared: make(map[string]string),
	}
	if err := b.graph.Insert(&Root{Control: cf}); err != nil {
		return nil, err
	}
	for _, t := range s.Types {
		if err := b.addType(t); err != nil {
			return nil, err
		}
	}
	for _, fn := range s.Functions {
		if err := b.addFunction(fn); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Aggregates {
		if err := b.addAggregate(a); err != nil {
			return nil, err
		}
	}
	for _, op := range s.Operators {
		if err := b.addOperator(op); err != nil {
			return nil, err
		}
	}
	return b.graph, nil
}

type builder struct {
	graph *Graph
	// declared maps both the Go and the SQL spelling of every declared
	// type to its graph identity, for dependency edge wiring.
	declared map[string]string
}

func (b *builder) addType(t *load.Type) error {
	name := t.Name
	if name == "" {
		name = inflect.Underscore(t.GoType)
	}
	def := &TypeDef{
		Name:    name,
		GoType:  t.GoType,
		InFunc:  name + "_in",
		OutFunc: name + "_out",
	}
	// Textual I/O functions for the varlena-style representation.
	in := &FunctionDef{
		Name:    def.InFunc,
		Args:    []Arg{{Name: "input", Shape: shape.Shape{Type: "cstring"}}},
		Returns: name,
		Strict:  true,
	}
	out := &FunctionDef{
		Name:    def.OutFunc,
		Args:    []Arg{{Name: "value", Shape: shape.Shape{Type: name}}},
		Returns: "cstring",
		Strict:  true,
	}
	def.Requires = []string{in.Identity(), out.Identity()}
	for _, e := range []Entity{in, out, def} {
		if err := b.graph.Insert(e); err != nil {
			return err
		}
	}
	b.declared[t.GoType] = def.Identity()
	b.declared[name] = def.Identity()
	return nil
}

func (b *builder) addFunction(fn *load.Function) error {
	def := &FunctionDef{
		Name:    fn.Name,
		Returns: fn.Returns,
		Strict:  fn.Strict,
		Link:    fn.Link,
		Glue:    fn.Glue,
	}
	for _, a := range fn.Args {
		l, err := shape.Parse(a.Type)
		if err != nil {
			return fmt.Errorf("function %q (%s): %w", fn.Name, fn.Pos, err)
		}
		if len(l.Shapes) != 1 {
			return fmt.Errorf("function %q (%s): parameter %q must be a single type", fn.Name, fn.Pos, a.Type)
		}
		def.Args = append(def.Args, Arg{Name: a.Name, Shape: l.Shapes[0]})
		def.Requires = b.require(def.Requires, l.Shapes[0].Type)
	}
	def.Requires = b.require(def.Requires, fn.Returns)
	return b.graph.Insert(def)
}

func (b *builder) addAggregate(a *load.Aggregate) error {
	d := a.Desc
	if err := d.Validate(); err != nil {
		return err
	}
	def := &AggregateDef{Desc: d}

	// next-input parameters shared by the plain and moving transitions.
	next := make([]Arg, len(d.Args.Shapes))
	for i, sh := range d.Args.Shapes {
		name := "next"
		if len(next) > 1 {
			name = fmt.Sprintf("arg%d", i+1)
		}
		next[i] = Arg{Name: name, Shape: sh}
	}

	glue := func(method string) string {
		if a.GoType == "" {
			return ""
		}
		return a.GoType + "." + method
	}
	state := Arg{Name: "state", Shape: shape.Shape{Type: d.State}}
	fns := []*FunctionDef{{
		Name:    d.StateFunc,
		Args:    append([]Arg{state}, next...),
		Returns: d.State,
		Glue:    glue("State"),
	}}
	if d.CombineFunc != "" {
		fns = append(fns, &FunctionDef{
			Name: d.CombineFunc,
			Args: []Arg{
				{Name: "a", Shape: shape.Shape{Type: d.State}},
				{Name: "b", Shape: shape.Shape{Type: d.State}},
			},
			Returns: d.State,
			Glue:    glue("Combine"),
		})
	}
	if d.SerialFunc != "" {
		fns = append(fns,
			&FunctionDef{
				Name:    d.SerialFunc,
				Args:    []Arg{state},
				Returns: "[]byte",
				Strict:  true,
				Glue:    glue("Serial"),
			},
			&FunctionDef{
				Name:    d.DeserialFunc,
				Args:    []Arg{{Name: "data", Shape: shape.Shape{Type: "[]byte"}}},
				Returns: d.State,
				Strict:  true,
				Glue:    glue("Deserial"),
			})
	}
	if d.FinalizeFunc != "" {
		fns = append(fns, &FunctionDef{
			Name:    d.FinalizeFunc,
			Args:    []Arg{state},
			Returns: d.Finalize,
			Glue:    glue("Finalize"),
		})
	}
	if d.MovingState != "" {
		mstate := Arg{Name: "mstate", Shape: shape.Shape{Type: d.MovingState}}
		fns = append(fns,
			&FunctionDef{
				Name:    d.MovingStateFunc,
				Args:    append([]Arg{mstate}, next...),
				Returns: d.MovingState,
				Glue:    glue("MovingState"),
			},
			&FunctionDef{
				Name:    d.MovingInverseFunc,
				Args:    append([]Arg{mstate}, next...),
				Returns: d.MovingState,
				Glue:    glue("MovingStateInverse"),
			})
		if d.MovingFinalFunc != "" {
			fns = append(fns, &FunctionDef{
				Name:    d.MovingFinalFunc,
				Args:    []Arg{mstate},
				Returns: d.Finalize,
				Glue:    glue("MovingFinalize"),
			})
		}
	}

	for _, fn := range fns {
		for _, arg := range fn.Args {
			fn.Requires = b.require(fn.Requires, arg.Shape.Type)
		}
		fn.Requires = b.require(fn.Requires, fn.Returns)
		if err := b.graph.Insert(fn); err != nil {
			return err
		}
		def.Requires = append(def.Requires, fn.Identity())
	}
	def.Requires = b.require(def.Requires, d.State)
	def.Requires = b.require(def.Requires, d.MovingState)
	return b.graph.Insert(def)
}

func (b *builder) addOperator(op *load.Operator) error {
	def := &OperatorDef{
		Name:       op.Name,
		Left:       op.Left,
		Right:      op.Right,
		Procedure:  op.Procedure,
		Commutator: op.Commutator,
		Negator:    op.Negator,
		Requires:   []string{"function " + op.Procedure},
	}
	def.Requires = b.require(def.Requires, op.Left)
	def.Requires = b.require(def.Requires, op.Right)
	return b.graph.Insert(def)
}

// require appends the declared-type identity for ref, when one exists.
// Builtin type references carry no graph edge.
func (b *builder) require(deps []string, ref string) []string {
	id, ok := b.declared[ref]
	if !ok {
		return deps
	}
	for _, d := range deps {
		if d == id {
			return deps
		}
	}
	return append(deps, id)
}
