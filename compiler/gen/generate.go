// Package gen owns the SQL entity graph: the dependency graph of
// every SQL-producing descriptor derived from an extension's
// declarations, its linearization, and the emission of the extension
// install script plus native glue.
package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Renderer renders one graph entity into its DDL statement. The SQL
// dialect packages implement it.
type Renderer interface {
	Render(Entity) (string, error)
}

// Generator emits the artifacts of one extension build: the
// `<name>--<version>.sql` install script, a copy of the control file
// and, when configured, the Go glue file.
//
// The graph is frozen once a Generator holds it: emission only reads.
type Generator struct {
	graph    *Graph
	renderer Renderer
	cfg      *Config
}

// NewGenerator returns a generator over the given graph. The graph
// must contain a Root entity.
func NewGenerator(g *Graph, r Renderer, opts ...Option) (*Generator, error) {
	cfg := &Config{Target: ".", Logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Name == "" {
		root, err := rootOf(g)
		if err != nil {
			return nil, err
		}
		cfg.Name = defaultName(root.Control.ModulePathname)
	}
	return &Generator{graph: g, renderer: r, cfg: cfg}, nil
}

// Graph returns the entity graph the generator emits from.
func (g *Generator) Graph() *Graph {
	return g.graph
}

// Statements linearizes the graph and renders each entity, in
// dependency order.
func (g *Generator) Statements() ([]string, error) {
	ordered, err := g.graph.Linearize()
	if err != nil {
		return nil, err
	}
	stmts := make([]string, len(ordered))
	for i, e := range ordered {
		s, err := g.renderer.Render(e)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", e.Identity(), err)
		}
		stmts[i] = s
	}
	return stmts, nil
}

// SQL returns the full install script text.
func (g *Generator) SQL() (string, error) {
	stmts, err := g.Statements()
	if err != nil {
		return "", err
	}
	return strings.Join(stmts, "\n\n") + "\n", nil
}

// Generate writes the build artifacts. The graph work is a single
// synchronous pass; only the final file writes run concurrently.
func (g *Generator) Generate(ctx context.Context) error {
	root, err := rootOf(g.graph)
	if err != nil {
		return err
	}
	script, err := g.SQL()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	scriptName := fmt.Sprintf("%s--%s.sql", g.cfg.Name, root.Control.DefaultVersion)
	log := g.cfg.Logger.With("extension", g.cfg.Name)

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("writing install script", "file", scriptName, "entities", g.graph.Len())
		return os.WriteFile(filepath.Join(g.cfg.Target, scriptName), []byte(script), 0o644)
	})
	eg.Go(func() error {
		name := g.cfg.Name + ".control"
		log.Info("writing control file", "file", name)
		return os.WriteFile(filepath.Join(g.cfg.Target, name), []byte(root.Control.Render()), 0o644)
	})
	if g.cfg.GlueTarget != "" {
		eg.Go(func() error {
			name := filepath.Join(g.cfg.GlueTarget, "pgcraft_glue.go")
			log.Info("writing glue file", "file", name)
			return g.glueFile().Save(name)
		})
	}
	return eg.Wait()
}

// rootOf returns the graph's root entity.
func rootOf(g *Graph) (*Root, error) {
	e, ok := g.Lookup(RootIdentity)
	if !ok {
		return nil, fmt.Errorf("pgcraft: graph has no root entity")
	}
	return e.(*Root), nil
}
