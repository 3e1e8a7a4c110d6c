package cli

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pgcraft/pgcraft/compiler/gen"
	"github.com/pgcraft/pgcraft/compiler/load"
	"github.com/pgcraft/pgcraft/control"
	"github.com/pgcraft/pgcraft/dialect/sql"
)

func newGenerateCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the extension DDL script and glue bindings",
		Long: `Scan the schema package, order the implied SQL objects by dependency
and write the versioned script file. With --glue-dir set, the Go glue
bindings are written alongside.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch {
				return watchLoop(cmd.Context())
			}
			return generate(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate whenever the schema changes")
	return cmd
}

// buildGenerator loads the control file and schema package and wires
// them into a generator.
func buildGenerator(ctx context.Context) (*gen.Generator, error) {
	if cfg.Control == "" {
		return nil, fmt.Errorf("a control file is required (--control or pgcraft.yaml)")
	}
	cf, err := control.ParseFile(cfg.Control)
	if err != nil {
		return nil, err
	}
	schema, err := load.Load(ctx, cfg.Schema)
	if err != nil {
		return nil, err
	}
	g, err := gen.BuildGraph(cf, schema)
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{gen.WithTarget(cfg.Target), gen.WithLogger(logger)}
	if cfg.GlueDir != "" {
		opts = append(opts, gen.WithGlue(cfg.GluePackage, cfg.GlueDir))
	}
	return gen.NewGenerator(g, sql.NewRenderer(), opts...)
}

func generate(ctx context.Context) error {
	gtor, err := buildGenerator(ctx)
	if err != nil {
		return err
	}
	return gtor.Generate(ctx)
}

// watchLoop regenerates on every schema or control file change until
// the context is cancelled.
func watchLoop(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.Schema); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Schema, err)
	}
	if err := watcher.Add(cfg.Control); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Control, err)
	}

	run := func() {
		if err := generate(ctx); err != nil {
			logger.Error("generate failed", "err", err)
			return
		}
		logger.Info("generated", "schema", cfg.Schema, "target", cfg.Target)
	}
	run()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name)
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)
		}
	}
}
