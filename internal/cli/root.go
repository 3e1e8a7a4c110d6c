// Package cli provides the command-line interface for pgcraft.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *Config
	logger  *slog.Logger
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pgcraft",
		Short: "pgcraft - PostgreSQL extension generator",
		Long: `pgcraft turns Go schema declarations into a PostgreSQL extension:
it scans the schema package for declared types, functions, aggregates
and operators, orders the implied SQL objects by dependency and writes
the versioned DDL script plus the native glue bindings.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
PostgreSQL extension generator
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pgcraft.yaml)")
	rootCmd.PersistentFlags().String("control", "", "Path to the extension control file")
	rootCmd.PersistentFlags().String("schema", "", "Path to the schema package directory")
	rootCmd.PersistentFlags().String("target", "", "Directory the script file is written to")
	rootCmd.PersistentFlags().String("glue-package", "", "Package name of the generated glue file")
	rootCmd.PersistentFlags().String("glue-dir", "", "Directory the glue file is written to (empty disables glue)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
