package gen

import (
	"errors"
	"log/slog"
	"path"
)

// Config carries the generator settings.
type Config struct {
	// Name is the extension name; it names the emitted script file.
	// Defaults to the basename of the control file's module_pathname.
	Name string
	// Target is the output directory for the emitted SQL artifacts.
	Target string
	// Package is the Go package name the glue file is generated into.
	Package string
	// GlueTarget is the directory the glue file is written to. Empty
	// skips glue generation.
	GlueTarget string
	// Logger receives build progress. Defaults to slog.Default.
	Logger *slog.Logger
}

// Option configures SQL generation.
type Option func(*Config) error

// WithName overrides the extension name.
func WithName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("gen: extension name cannot be empty")
		}
		c.Name = name
		return nil
	}
}

// WithTarget sets the output directory for the emitted script.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return errors.New("gen: target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithGlue enables glue generation into the given package and directory.
func WithGlue(pkg, dir string) Option {
	return func(c *Config) error {
		if pkg == "" || dir == "" {
			return errors.New("gen: glue package and directory cannot be empty")
		}
		c.Package = pkg
		c.GlueTarget = dir
		return nil
	}
}

// WithLogger sets the build logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return errors.New("gen: logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// defaultName derives an extension name from a module pathname like
// `$libdir/demo`.
func defaultName(modulePathname string) string {
	return path.Base(modulePathname)
}
