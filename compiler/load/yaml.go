package load

import (
	"fmt"
	"os"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/pgcraft/pgcraft"
	"github.com/pgcraft/pgcraft/schema/aggregate"
)

// description is the YAML form of a schema: the intermediate
// structured input accepted in place of Go source declarations.
type description struct {
	Aggregates []descAggregate `yaml:"aggregates"`
	Functions  []descFunction  `yaml:"functions"`
	Types      []descType      `yaml:"types"`
	Operators  []*Operator     `yaml:"operators"`
}

type descAggregate struct {
	Name                 string  `yaml:"name"`
	Args                 string  `yaml:"args"`
	State                string  `yaml:"state"`
	Finalize             string  `yaml:"finalize"`
	OrderBy              string  `yaml:"order_by"`
	MovingState          string  `yaml:"moving_state"`
	Parallel             string  `yaml:"parallel"`
	FinalizeModify       string  `yaml:"finalize_modify"`
	MovingFinalizeModify string  `yaml:"moving_finalize_modify"`
	InitCond             *string `yaml:"initcond"`
	MovingInitCond       *string `yaml:"moving_initcond"`
	SortOperator         string  `yaml:"sort_operator"`
	Hypothetical         bool    `yaml:"hypothetical"`
	Combine              bool    `yaml:"combine"`
	Serialized           bool    `yaml:"serialized"`
}

type descFunction struct {
	Name    string    `yaml:"name"`
	Link    string    `yaml:"link"`
	Args    []descArg `yaml:"args"`
	Returns string    `yaml:"returns"`
	Strict  bool      `yaml:"strict"`
}

type descArg struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type descType struct {
	Name   string `yaml:"name"`
	GoType string `yaml:"go_type"`
}

var parallelSpellings = map[string]pgcraft.ParallelOption{
	"":           pgcraft.ParallelUnspecified,
	"safe":       pgcraft.ParallelSafe,
	"restricted": pgcraft.ParallelRestricted,
	"unsafe":     pgcraft.ParallelUnsafe,
}

var modifySpellings = map[string]pgcraft.FinalizeModify{
	"":           pgcraft.FinalizeModifyUnspecified,
	"read_only":  pgcraft.FinalizeReadOnly,
	"shareable":  pgcraft.FinalizeShareable,
	"read_write": pgcraft.FinalizeReadWrite,
}

// LoadDescription parses a YAML description file into a Schema.
func LoadDescription(path string) (*Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d description
	if err := yaml.Unmarshal(buf, &d); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := &Schema{Operators: d.Operators}
	for _, a := range d.Aggregates {
		desc, err := a.build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s.Aggregates = append(s.Aggregates, &Aggregate{Desc: desc, Pos: path})
	}
	for _, f := range d.Functions {
		if f.Name == "" {
			return nil, fmt.Errorf("%s: function declarations need a name", path)
		}
		fn := &Function{Name: f.Name, Link: f.Link, Returns: f.Returns, Strict: f.Strict, Pos: path}
		if fn.Link == "" {
			fn.Link = fn.Name
		}
		for _, a := range f.Args {
			fn.Args = append(fn.Args, Arg{Name: a.Name, Type: a.Type})
		}
		s.Functions = append(s.Functions, fn)
	}
	for _, t := range d.Types {
		if t.GoType == "" {
			return nil, fmt.Errorf("%s: type declarations need a go_type", path)
		}
		name := t.Name
		if name == "" {
			name = inflect.Underscore(t.GoType)
		}
		s.Types = append(s.Types, &Type{Name: name, GoType: t.GoType, Pos: path})
	}
	return s, nil
}

func (a descAggregate) build() (*aggregate.Descriptor, error) {
	b := aggregate.Reduce(a.Name).Args(a.Args).State(a.State)
	if a.Finalize != "" {
		b.Finalize(a.Finalize)
	}
	if a.OrderBy != "" {
		b.OrderBy(a.OrderBy)
	}
	if a.MovingState != "" {
		b.MovingState(a.MovingState)
	}
	if a.InitCond != nil {
		b.InitialCondition(*a.InitCond)
	}
	if a.MovingInitCond != nil {
		b.MovingInitialCondition(*a.MovingInitCond)
	}
	if a.SortOperator != "" {
		b.SortOperator(a.SortOperator)
	}
	if a.Hypothetical {
		b.Hypothetical()
	}
	if a.Combine {
		b.Combine()
	}
	if a.Serialized {
		b.Serialized()
	}
	p, ok := parallelSpellings[a.Parallel]
	if !ok {
		return nil, fmt.Errorf("aggregate %q: unknown parallel option %q", a.Name, a.Parallel)
	}
	b.Parallel(p)
	fm, ok := modifySpellings[a.FinalizeModify]
	if !ok {
		return nil, fmt.Errorf("aggregate %q: unknown finalize_modify %q", a.Name, a.FinalizeModify)
	}
	b.FinalizeModify(fm)
	mfm, ok := modifySpellings[a.MovingFinalizeModify]
	if !ok {
		return nil, fmt.Errorf("aggregate %q: unknown moving_finalize_modify %q", a.Name, a.MovingFinalizeModify)
	}
	b.MovingFinalizeModify(mfm)
	return b.Descriptor()
}
