package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config drives one generator run. Values come from pgcraft.yaml,
// PGCRAFT_ environment variables and command line flags, in rising
// precedence.
type Config struct {
	// Control is the path of the extension control file.
	Control string `koanf:"control"`
	// Schema is the directory of the schema package.
	Schema string `koanf:"schema"`
	// Target is the directory the script file is written to.
	Target string `koanf:"target"`
	// GluePackage and GlueDir select the glue binding output; glue
	// generation is skipped when GlueDir is empty.
	GluePackage string `koanf:"glue_package"`
	GlueDir     string `koanf:"glue_dir"`
	Verbose     bool   `koanf:"verbose"`
}

// findConfigFile finds the config file to use.
// Priority: explicit path > pgcraft.yaml > pgcraft.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"pgcraft.yaml", "pgcraft.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from file, environment variables and
// flags. Precedence (highest to lowest): flags > env vars > config
// file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"schema": ".",
		"target": ".",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// PGCRAFT_GLUE_DIR -> glue_dir
	if err := k.Load(env.Provider("PGCRAFT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PGCRAFT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
