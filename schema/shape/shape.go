// Package shape classifies source-level type expressions into value
// shapes used by the SQL object descriptors.
//
// Classification is purely syntactic: there is no type resolution, so
// variadic detection is a best guess driven by the documented call
// path rule. An element is variadic iff it is a call expression whose
// path is exactly `variadic(T)` or `pgcraft.variadic(T)`; any other
// call-like expression is a scalar.
package shape

import (
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"github.com/pgcraft/pgcraft"
)

// Namespace is the package prefix accepted for a qualified variadic marker.
const Namespace = "pgcraft"

// Marker is the call path segment that triggers variadic detection.
const Marker = "variadic"

// Shape is one classified value: a type reference that is either a
// single scalar value or a variadic trailing parameter.
type Shape struct {
	// Type is the type reference. For a variadic shape it is the
	// inner (element) type, not the wrapper.
	Type string
	// Variadic reports whether the value is a repeated trailing argument.
	Variadic bool
	// Path is the call path that triggered variadic detection
	// ("variadic" or "pgcraft.variadic"). Diagnostics only; empty for
	// scalar shapes.
	Path string
}

// List is the ordered decomposition of one type expression. A tuple
// expression yields one shape per element, anything else yields a
// single shape.
type List struct {
	Shapes []Shape
	// Original is the expression the list was parsed from.
	Original string
}

// Parse classifies the given type expression.
//
// The expression is split on top-level commas (the tuple form); each
// element is classified independently with order preserved. An element
// that cannot be parsed fails with a MalformedTypeError carrying the
// offending span.
func Parse(expr string) (*List, error) {
	l := &List{Original: expr}
	for _, el := range splitTop(expr) {
		text := strings.TrimSpace(el.text)
		if text == "" {
			return nil, pgcraft.NewMalformedTypeError(expr, el.offset, "empty tuple element")
		}
		s, err := classify(expr, el.offset, text)
		if err != nil {
			return nil, err
		}
		l.Shapes = append(l.Shapes, s)
	}
	return l, nil
}

// element is a top-level comma-separated slice of the input, with its
// byte offset in the original expression.
type element struct {
	text   string
	offset int
}

// splitTop splits expr on commas outside any bracket nesting.
func splitTop(expr string) []element {
	var (
		els   []element
		depth int
		start int
	)
	for i, r := range expr {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				els = append(els, element{text: expr[start:i], offset: start})
				start = i + 1
			}
		}
	}
	return append(els, element{text: expr[start:], offset: start})
}

func classify(full string, offset int, text string) (Shape, error) {
	node, err := parser.ParseExpr(text)
	if err != nil {
		return Shape{}, pgcraft.NewMalformedTypeError(full, offset, err.Error())
	}
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return Shape{Type: text}, nil
	}
	segs := callPath(call)
	switch {
	case len(segs) == 1 && segs[0] == Marker:
	case len(segs) == 2 && segs[0] == Namespace && segs[1] == Marker:
	default:
		// A call expression with any other path is an ordinary type
		// expression as far as this classifier is concerned.
		return Shape{Type: text}, nil
	}
	if len(call.Args) != 1 {
		return Shape{}, pgcraft.NewMalformedTypeError(full, offset, "variadic marker takes exactly one type")
	}
	return Shape{
		Type:     types.ExprString(call.Args[0]),
		Variadic: true,
		Path:     strings.Join(segs, "."),
	}, nil
}

// callPath extracts the dotted path segments of a call expression's
// callee. Callees that are not plain identifier paths yield nil.
func callPath(call *ast.CallExpr) []string {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return []string{fn.Name}
	case *ast.SelectorExpr:
		if x, ok := fn.X.(*ast.Ident); ok {
			return []string{x.Name, fn.Sel.Name}
		}
	}
	return nil
}
