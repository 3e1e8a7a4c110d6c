// Package load extracts SQL object declarations from an extension's
// schema package.
//
// Loading is an explicit build-step pass: declarations are read
// directly from source (or from a YAML description file) and handed to
// the graph builder, with no reliance on registration side effects at
// program load.
//
// Two declaration forms are recognized in Go source:
//
//   - a method named Aggregate returning *aggregate.Builder, whose
//     body is a single return of an aggregate.Reduce builder chain
//     with literal arguments;
//   - the directive comments `//pgcraft:type` and `//pgcraft:function`
//     on type and func declarations.
//
// The scan is syntactic, matching the classifier's best-guess
// contract: builder arguments must be literals, and unsupported
// constructs fail loading rather than being silently skipped.
package load

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/tools/go/packages"

	"github.com/pgcraft/pgcraft/schema/aggregate"
)

// Schema holds every declaration loaded from one schema package or
// description file.
type Schema struct {
	Aggregates []*Aggregate
	Functions  []*Function
	Types      []*Type
	Operators  []*Operator
}

// Aggregate is a loaded aggregate declaration.
type Aggregate struct {
	Desc *aggregate.Descriptor
	// GoType is the receiver type of the Aggregate declaration; empty
	// for description-file aggregates.
	GoType string
	// Pos is the source position of the declaration.
	Pos string
}

// Type is a loaded SQL type declaration.
type Type struct {
	// Name is the SQL type name; derived from GoType when not set.
	Name string
	// GoType is the native Go type name.
	GoType string
	Pos    string
}

// Function is a loaded SQL function declaration.
type Function struct {
	// Name is the SQL function name; derived from the Go name when not set.
	Name string
	// Link is the symbol for the DDL AS clause; defaults to Name.
	Link string
	// Glue is the Go binding expression for the glue table.
	Glue string
	// Args holds the declared parameters; a Go `...T` parameter is
	// spelled `variadic(T)` so the shape classifier picks it up.
	Args []Arg
	// Returns is the return type expression; empty means void.
	Returns string
	Strict  bool
	Pos     string
}

// Arg is one declared function parameter.
type Arg struct {
	Name string
	Type string
}

// Operator is a loaded SQL operator declaration. Operators are
// declared in description files only.
type Operator struct {
	Name       string `yaml:"name"`
	Left       string `yaml:"left"`
	Right      string `yaml:"right"`
	Procedure  string `yaml:"procedure"`
	Commutator string `yaml:"commutator"`
	Negator    string `yaml:"negator"`
}

// Load scans the Go package rooted at dir for SQL object declarations,
// merging in any `*.pgcraft.yaml` description files found alongside.
func Load(ctx context.Context, dir string) (*Schema, error) {
	s := &Schema{}
	gofiles, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}
	// A directory without Go files is a description-only schema.
	if len(gofiles) > 0 {
		cfg := &packages.Config{
			Context: ctx,
			Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes,
			Dir:     dir,
		}
		pkgs, err := packages.Load(cfg, ".")
		if err != nil {
			return nil, fmt.Errorf("load schema package %q: %w", dir, err)
		}
		for _, pkg := range pkgs {
			if len(pkg.Errors) > 0 {
				return nil, fmt.Errorf("load schema package %q: %v", dir, pkg.Errors[0])
			}
			for _, file := range pkg.Syntax {
				if err := s.scanFile(pkg.Fset, file); err != nil {
					return nil, err
				}
			}
		}
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.pgcraft.yaml"))
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		desc, err := LoadDescription(path)
		if err != nil {
			return nil, err
		}
		s.merge(desc)
	}
	return s, nil
}

func (s *Schema) merge(other *Schema) {
	s.Aggregates = append(s.Aggregates, other.Aggregates...)
	s.Functions = append(s.Functions, other.Functions...)
	s.Types = append(s.Types, other.Types...)
	s.Operators = append(s.Operators, other.Operators...)
}

// scanFile walks one parsed file for declarations.
func (s *Schema) scanFile(fset *token.FileSet, file *ast.File) error {
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				args, ok := directive(decl.Doc, "type")
				if !ok {
					args, ok = directive(ts.Doc, "type")
				}
				if !ok {
					continue
				}
				t := &Type{
					GoType: ts.Name.Name,
					Name:   args["name"],
					Pos:    fset.Position(ts.Pos()).String(),
				}
				if t.Name == "" {
					t.Name = inflect.Underscore(t.GoType)
				}
				s.Types = append(s.Types, t)
			}
		case *ast.FuncDecl:
			if decl.Recv == nil {
				if err := s.scanFunc(fset, decl); err != nil {
					return err
				}
				continue
			}
			if decl.Name.Name != "Aggregate" {
				continue
			}
			if err := s.scanAggregate(fset, decl); err != nil {
				return err
			}
		}
	}
	return nil
}

// scanFunc loads a `//pgcraft:function` directive declaration.
func (s *Schema) scanFunc(fset *token.FileSet, decl *ast.FuncDecl) error {
	args, ok := directive(decl.Doc, "function")
	if !ok {
		return nil
	}
	pos := fset.Position(decl.Pos()).String()
	fn := &Function{
		Name:   args["name"],
		Glue:   decl.Name.Name,
		Strict: args["strict"] == "true",
		Pos:    pos,
	}
	if fn.Name == "" {
		fn.Name = inflect.Underscore(decl.Name.Name)
	}
	fn.Link = fn.Name
	for _, field := range decl.Type.Params.List {
		typ := paramType(field.Type)
		if len(field.Names) == 0 {
			fn.Args = append(fn.Args, Arg{Type: typ})
			continue
		}
		for _, name := range field.Names {
			fn.Args = append(fn.Args, Arg{Name: inflect.Underscore(name.Name), Type: typ})
		}
	}
	if res := decl.Type.Results; res != nil {
		if len(res.List) != 1 {
			return fmt.Errorf("%s: function %s: multiple results are not supported", pos, decl.Name.Name)
		}
		fn.Returns = types.ExprString(res.List[0].Type)
	}
	s.Functions = append(s.Functions, fn)
	return nil
}

// paramType renders a parameter type, spelling `...T` in the variadic
// marker form the shape classifier accepts.
func paramType(expr ast.Expr) string {
	if ell, ok := expr.(*ast.Ellipsis); ok {
		return fmt.Sprintf("variadic(%s)", types.ExprString(ell.Elt))
	}
	return types.ExprString(expr)
}

// scanAggregate folds an Aggregate method body into a descriptor.
func (s *Schema) scanAggregate(fset *token.FileSet, decl *ast.FuncDecl) error {
	pos := fset.Position(decl.Pos()).String()
	recv, err := receiverName(decl)
	if err != nil {
		return fmt.Errorf("%s: %w", pos, err)
	}
	if decl.Body == nil || len(decl.Body.List) != 1 {
		return fmt.Errorf("%s: Aggregate body must be a single return statement", pos)
	}
	ret, ok := decl.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return fmt.Errorf("%s: Aggregate body must be a single return statement", pos)
	}
	b, err := foldBuilder(fset, ret.Results[0])
	if err != nil {
		return err
	}
	desc, err := b.Descriptor()
	if err != nil {
		return fmt.Errorf("%s: %w", pos, err)
	}
	s.Aggregates = append(s.Aggregates, &Aggregate{Desc: desc, GoType: recv, Pos: pos})
	return nil
}

func receiverName(decl *ast.FuncDecl) (string, error) {
	if len(decl.Recv.List) != 1 {
		return "", fmt.Errorf("Aggregate declaration needs a named receiver type")
	}
	expr := decl.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	id, ok := expr.(*ast.Ident)
	if !ok {
		return "", fmt.Errorf("Aggregate declaration needs a named receiver type")
	}
	return id.Name, nil
}

// directive matches a `//pgcraft:<kind> k=v ...` comment line and
// returns its key=value arguments.
func directive(doc *ast.CommentGroup, kind string) (map[string]string, bool) {
	if doc == nil {
		return nil, false
	}
	prefix := "//pgcraft:" + kind
	for _, c := range doc.List {
		if c.Text != prefix && !strings.HasPrefix(c.Text, prefix+" ") {
			continue
		}
		args := make(map[string]string)
		for _, kv := range strings.Fields(strings.TrimPrefix(c.Text, prefix)) {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				v = "true"
			}
			args[k] = v
		}
		return args, true
	}
	return nil, false
}
