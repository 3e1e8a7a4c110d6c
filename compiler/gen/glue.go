package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// glueFile builds the Go source binding each SQL-visible function name
// to its native implementation. The engine's dispatch layer resolves
// calls through this table, so the SQL names emitted in the script and
// the Go symbols compiled into the module stay in lockstep.
func (g *Generator) glueFile() *jen.File {
	f := jen.NewFile(g.cfg.Package)
	f.HeaderComment("Code generated by pgcraft. DO NOT EDIT.")

	bindings := jen.Dict{}
	for _, e := range g.graph.Entities() {
		fn, ok := e.(*FunctionDef)
		if !ok || fn.Glue == "" {
			continue
		}
		bindings[jen.Lit(fn.Name)] = glueSymbol(fn.Glue)
	}

	f.Comment("Functions binds each SQL-visible function name to its native implementation.")
	f.Var().Id("Functions").Op("=").Map(jen.String()).Any().Values(bindings)
	return f
}

// glueSymbol renders a binding expression. A bare name references a
// package-level function; a dotted "Recv.Method" pair references a
// method value, taken through new(Recv) so pointer receivers resolve
// too.
func glueSymbol(glue string) jen.Code {
	recv, method, ok := strings.Cut(glue, ".")
	if !ok {
		return jen.Id(glue)
	}
	return jen.New(jen.Id(recv)).Dot(method)
}
