package load

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/pgcraft/pgcraft"
	"github.com/pgcraft/pgcraft/schema/aggregate"
)

// parallelNames maps the root package's enum spellings for the scan.
var parallelNames = map[string]pgcraft.ParallelOption{
	"ParallelSafe":        pgcraft.ParallelSafe,
	"ParallelRestricted":  pgcraft.ParallelRestricted,
	"ParallelUnsafe":      pgcraft.ParallelUnsafe,
	"ParallelUnspecified": pgcraft.ParallelUnspecified,
}

var modifyNames = map[string]pgcraft.FinalizeModify{
	"FinalizeReadOnly":          pgcraft.FinalizeReadOnly,
	"FinalizeShareable":         pgcraft.FinalizeShareable,
	"FinalizeReadWrite":         pgcraft.FinalizeReadWrite,
	"FinalizeModifyUnspecified": pgcraft.FinalizeModifyUnspecified,
}

// step is one folded builder method call.
type step struct {
	name string
	call *ast.CallExpr
}

// foldBuilder evaluates an aggregate.Reduce builder chain
// syntactically. Only literal arguments and the root package's enum
// constants are supported; anything else fails with its position.
func foldBuilder(fset *token.FileSet, expr ast.Expr) (*aggregate.Builder, error) {
	var steps []step
	for {
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			return nil, errAt(fset, expr, "expected an aggregate.Reduce builder chain")
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return nil, errAt(fset, expr, "expected an aggregate.Reduce builder chain")
		}
		if base, ok := sel.X.(*ast.Ident); ok && base.Name == "aggregate" && sel.Sel.Name == "Reduce" {
			name, err := stringArg(fset, call, 0)
			if err != nil {
				return nil, err
			}
			b := aggregate.Reduce(name)
			for i := len(steps) - 1; i >= 0; i-- {
				if err := apply(fset, b, steps[i]); err != nil {
					return nil, err
				}
			}
			return b, nil
		}
		steps = append(steps, step{name: sel.Sel.Name, call: call})
		expr = sel.X
	}
}

// apply dispatches one builder method by name.
func apply(fset *token.FileSet, b *aggregate.Builder, st step) error {
	one := func(f func(string) *aggregate.Builder) error {
		v, err := stringArg(fset, st.call, 0)
		if err != nil {
			return err
		}
		f(v)
		return nil
	}
	switch st.name {
	case "Args":
		return one(b.Args)
	case "State":
		return one(b.State)
	case "Finalize":
		return one(b.Finalize)
	case "OrderBy":
		return one(b.OrderBy)
	case "MovingState":
		return one(b.MovingState)
	case "InitialCondition":
		return one(b.InitialCondition)
	case "MovingInitialCondition":
		return one(b.MovingInitialCondition)
	case "SortOperator":
		return one(b.SortOperator)
	case "StateFunc":
		return one(b.StateFunc)
	case "FinalizeFunc":
		return one(b.FinalizeFunc)
	case "Hypothetical":
		b.Hypothetical()
	case "Combine":
		b.Combine()
	case "Serialized":
		b.Serialized()
	case "Parallel":
		v, err := enumArg(fset, st.call, parallelNames)
		if err != nil {
			return err
		}
		b.Parallel(v)
	case "FinalizeModify":
		v, err := enumArg(fset, st.call, modifyNames)
		if err != nil {
			return err
		}
		b.FinalizeModify(v)
	case "MovingFinalizeModify":
		v, err := enumArg(fset, st.call, modifyNames)
		if err != nil {
			return err
		}
		b.MovingFinalizeModify(v)
	default:
		return errAt(fset, st.call, fmt.Sprintf("unsupported builder method %q", st.name))
	}
	return nil
}

// stringArg extracts a string literal argument.
func stringArg(fset *token.FileSet, call *ast.CallExpr, i int) (string, error) {
	if len(call.Args) <= i {
		return "", errAt(fset, call, "missing argument")
	}
	lit, ok := call.Args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", errAt(fset, call.Args[i], "builder arguments must be string literals")
	}
	v, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", errAt(fset, call.Args[i], "builder arguments must be string literals")
	}
	return v, nil
}

// enumArg extracts a pgcraft enum constant argument.
func enumArg[T any](fset *token.FileSet, call *ast.CallExpr, names map[string]T) (T, error) {
	var zero T
	if len(call.Args) != 1 {
		return zero, errAt(fset, call, "missing argument")
	}
	sel, ok := call.Args[0].(*ast.SelectorExpr)
	if !ok {
		return zero, errAt(fset, call.Args[0], "expected a pgcraft enum constant")
	}
	if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != "pgcraft" {
		return zero, errAt(fset, call.Args[0], "expected a pgcraft enum constant")
	}
	v, ok := names[sel.Sel.Name]
	if !ok {
		return zero, errAt(fset, call.Args[0], fmt.Sprintf("unknown enum constant %q", sel.Sel.Name))
	}
	return v, nil
}

func errAt(fset *token.FileSet, node ast.Node, msg string) error {
	return fmt.Errorf("%s: %s", fset.Position(node.Pos()), msg)
}
