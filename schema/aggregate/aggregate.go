package aggregate

import (
	"github.com/go-openapi/inflect"

	"github.com/pgcraft/pgcraft"
	"github.com/pgcraft/pgcraft/schema/shape"
)

// Descriptor holds everything the generator needs to emit one
// CREATE AGGREGATE statement and its graph edges.
//
// Optional type references and function names are empty when absent.
// The two initial conditions are pointers because an empty-string
// initial condition is meaningful to the engine.
type Descriptor struct {
	// Name is the SQL-visible aggregate name.
	Name string
	// Args is the classified argument list.
	Args *shape.List
	// State is the transition state type.
	State string
	// Finalize is the output type of the finalize function.
	Finalize string
	// OrderBy is the direct argument type of an ordered-set aggregate.
	OrderBy string
	// MovingState is the state type of the moving (window) variant.
	MovingState string

	Parallel             pgcraft.ParallelOption
	FinalizeModify       pgcraft.FinalizeModify
	MovingFinalizeModify pgcraft.FinalizeModify

	InitialCondition       *string
	MovingInitialCondition *string
	SortOperator           string
	Hypothetical           bool

	// SQL-visible names of the transition machinery. StateFunc is
	// always set after Descriptor(); the rest are set when the
	// matching capability is declared.
	StateFunc         string
	FinalizeFunc      string
	CombineFunc       string
	SerialFunc        string
	DeserialFunc      string
	MovingStateFunc   string
	MovingInverseFunc string
	MovingFinalFunc   string

	// Err holds the first error met while building the descriptor.
	Err error
}

// Builder is the fluent API for constructing an aggregate Descriptor.
type Builder struct {
	desc *Descriptor
}

// Reduce starts building an aggregate descriptor with the given
// SQL-visible name.
func Reduce(name string) *Builder {
	return &Builder{desc: &Descriptor{Name: name}}
}

// Args sets the aggregate's argument list from a type expression. A
// tuple expression declares several arguments; the trailing one may be
// wrapped in the variadic marker.
func (b *Builder) Args(expr string) *Builder {
	l, err := shape.Parse(expr)
	if err != nil && b.desc.Err == nil {
		b.desc.Err = err
	}
	b.desc.Args = l
	return b
}

// State sets the transition state type.
func (b *Builder) State(t string) *Builder {
	b.desc.State = t
	return b
}

// Finalize sets the output type and enables the finalize function.
func (b *Builder) Finalize(t string) *Builder {
	b.desc.Finalize = t
	return b
}

// OrderBy sets the direct argument type of an ordered-set aggregate.
func (b *Builder) OrderBy(t string) *Builder {
	b.desc.OrderBy = t
	return b
}

// MovingState sets the moving (window) state type and enables the
// moving-aggregate machinery.
func (b *Builder) MovingState(t string) *Builder {
	b.desc.MovingState = t
	return b
}

// Parallel sets the aggregate's parallel safety classification.
func (b *Builder) Parallel(p pgcraft.ParallelOption) *Builder {
	b.desc.Parallel = p
	return b
}

// FinalizeModify sets the finalize function's state modification mode.
func (b *Builder) FinalizeModify(m pgcraft.FinalizeModify) *Builder {
	b.desc.FinalizeModify = m
	return b
}

// MovingFinalizeModify sets the moving finalize function's state
// modification mode.
func (b *Builder) MovingFinalizeModify(m pgcraft.FinalizeModify) *Builder {
	b.desc.MovingFinalizeModify = m
	return b
}

// InitialCondition sets the literal initial state.
func (b *Builder) InitialCondition(s string) *Builder {
	b.desc.InitialCondition = &s
	return b
}

// MovingInitialCondition sets the literal initial moving state.
func (b *Builder) MovingInitialCondition(s string) *Builder {
	b.desc.MovingInitialCondition = &s
	return b
}

// SortOperator sets the operator used for MAX/MIN-style optimization.
func (b *Builder) SortOperator(op string) *Builder {
	b.desc.SortOperator = op
	return b
}

// Hypothetical marks the aggregate as a hypothetical-set aggregate.
func (b *Builder) Hypothetical() *Builder {
	b.desc.Hypothetical = true
	return b
}

// Combine enables the combine (partial state merge) function.
func (b *Builder) Combine() *Builder {
	b.desc.CombineFunc = b.fn("combine")
	return b
}

// Serialized enables the serialize/deserialize function pair.
func (b *Builder) Serialized() *Builder {
	b.desc.SerialFunc = b.fn("serial")
	b.desc.DeserialFunc = b.fn("deserial")
	return b
}

// StateFunc overrides the derived state transition function name.
func (b *Builder) StateFunc(name string) *Builder {
	b.desc.StateFunc = name
	return b
}

// FinalizeFunc overrides the derived finalize function name.
func (b *Builder) FinalizeFunc(name string) *Builder {
	b.desc.FinalizeFunc = name
	return b
}

// fn derives a transition function name from the aggregate name.
func (b *Builder) fn(suffix string) string {
	return inflect.Underscore(b.desc.Name) + "_" + suffix
}

// Descriptor finalizes the builder: derived function names are filled
// in and the descriptor is validated. The first error met while
// building, classifying argument shapes or validating is returned.
func (b *Builder) Descriptor() (*Descriptor, error) {
	d := b.desc
	if d.Err != nil {
		return nil, d.Err
	}
	if d.StateFunc == "" {
		d.StateFunc = b.fn("state")
	}
	if d.Finalize != "" && d.FinalizeFunc == "" {
		d.FinalizeFunc = b.fn("final")
	}
	if d.MovingState != "" {
		if d.MovingStateFunc == "" {
			d.MovingStateFunc = b.fn("moving_state")
		}
		if d.MovingInverseFunc == "" {
			d.MovingInverseFunc = b.fn("moving_inverse")
		}
		if d.Finalize != "" && d.MovingFinalFunc == "" {
			d.MovingFinalFunc = b.fn("moving_final")
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDescriptor is like Descriptor but panics on error. It is meant
// for static schema declarations where a malformed descriptor is a
// programming error.
func (b *Builder) MustDescriptor() *Descriptor {
	d, err := b.Descriptor()
	if err != nil {
		panic(err)
	}
	return d
}

// Validate checks the descriptor for internal consistency.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return pgcraft.NewInvalidAggregateError(d.Name, "aggregate name is required")
	}
	if d.State == "" {
		return pgcraft.NewInvalidAggregateError(d.Name, "state type is required")
	}
	if d.Args == nil || len(d.Args.Shapes) == 0 {
		return pgcraft.NewInvalidAggregateError(d.Name, "argument types are required")
	}
	for i, s := range d.Args.Shapes {
		if s.Variadic && i != len(d.Args.Shapes)-1 {
			return pgcraft.NewInvalidAggregateError(d.Name, "variadic argument must be last")
		}
	}
	if d.MovingState == "" {
		switch {
		case d.MovingInitialCondition != nil:
			return pgcraft.NewInvalidAggregateError(d.Name, "moving initial condition without a moving state type")
		case d.MovingFinalizeModify != pgcraft.FinalizeModifyUnspecified:
			return pgcraft.NewInvalidAggregateError(d.Name, "moving finalize modify without a moving state type")
		case d.MovingStateFunc != "" || d.MovingInverseFunc != "" || d.MovingFinalFunc != "":
			return pgcraft.NewInvalidAggregateError(d.Name, "moving transition functions without a moving state type")
		}
		return nil
	}
	if d.MovingInitialCondition == nil {
		return pgcraft.NewInvalidAggregateError(d.Name, "moving state type without a moving initial condition")
	}
	if d.MovingStateFunc == "" || d.MovingInverseFunc == "" {
		return pgcraft.NewInvalidAggregateError(d.Name, "moving state type without moving transition functions")
	}
	return nil
}
