// Package config loads ratiochase settings.
//
// Settings are resolved from, lowest to highest priority:
//
//  1. Built-in defaults ([Default])
//  2. The config file ($XDG_CONFIG_HOME/ratiochase/config.toml)
//  3. Environment variables (RATIOCHASE_PROVE_PARALLEL, RATIOCHASE_RENDER_FORMATS, ...)
//  4. Command-line flags bound to the viper instance
//
// Keys are dotted section paths: prove.parallel, render.formats, log.verbose.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	appName   = "ratiochase"
	envPrefix = "RATIOCHASE"
	fileName  = "config"
	fileType  = "toml"
)

// Config holds every setting the CLI reads.
type Config struct {
	Prove  Prove  `mapstructure:"prove" yaml:"prove" toml:"prove"`
	Render Render `mapstructure:"render" yaml:"render" toml:"render"`
	Log    Log    `mapstructure:"log" yaml:"log" toml:"log"`
}

// Prove configures goal proving.
type Prove struct {
	Parallel     int     `mapstructure:"parallel" yaml:"parallel" toml:"parallel"`
	NoNumeric    bool    `mapstructure:"no_numeric" yaml:"no_numeric" toml:"no_numeric"`
	ToleranceRel float64 `mapstructure:"tolerance_rel" yaml:"tolerance_rel" toml:"tolerance_rel"`
	ToleranceAbs float64 `mapstructure:"tolerance_abs" yaml:"tolerance_abs" toml:"tolerance_abs"`
}

// Render configures proof graph output.
type Render struct {
	Formats  []string `mapstructure:"formats" yaml:"formats" toml:"formats"`
	Detailed bool     `mapstructure:"detailed" yaml:"detailed" toml:"detailed"`
	Pretty   bool     `mapstructure:"pretty" yaml:"pretty" toml:"pretty"`
}

// Log configures the CLI logger.
type Log struct {
	Verbose bool `mapstructure:"verbose" yaml:"verbose" toml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Prove: Prove{
			Parallel:     4,
			ToleranceRel: 1e-9,
			ToleranceAbs: 1e-7,
		},
		Render: Render{
			Formats: []string{"text"},
		},
	}
}

// Dir returns the config directory, $XDG_CONFIG_HOME/ratiochase or
// ~/.config/ratiochase.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName+"."+fileType), nil
}

// SetDefaults registers [Default] on v so that every key is known to the
// environment lookup.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("prove.parallel", d.Prove.Parallel)
	v.SetDefault("prove.no_numeric", d.Prove.NoNumeric)
	v.SetDefault("prove.tolerance_rel", d.Prove.ToleranceRel)
	v.SetDefault("prove.tolerance_abs", d.Prove.ToleranceAbs)
	v.SetDefault("render.formats", d.Render.Formats)
	v.SetDefault("render.detailed", d.Render.Detailed)
	v.SetDefault("render.pretty", d.Render.Pretty)
	v.SetDefault("log.verbose", d.Log.Verbose)
}

// Load resolves the configuration into v and decodes it. An explicit file
// must exist; without one the default path is searched and a missing file
// is not an error. Flags must be bound to v before calling Load.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Format names are checked by the pipeline.
func (c *Config) Validate() error {
	if c.Prove.Parallel < 0 {
		return fmt.Errorf("prove.parallel must not be negative, got %d", c.Prove.Parallel)
	}
	if c.Prove.ToleranceRel < 0 || c.Prove.ToleranceAbs < 0 {
		return fmt.Errorf("prove tolerances must not be negative")
	}
	return nil
}

// Write encodes cfg as a commented TOML config file.
func Write(w io.Writer, cfg Config) error {
	header := `# ratiochase configuration
#
# Priority (highest first): flags, RATIOCHASE_* environment variables,
# this file, built-in defaults. Environment variables use the upper-cased
# key with dots replaced by underscores, e.g. RATIOCHASE_PROVE_PARALLEL=8.

`
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(cfg)
}

// Init writes the default configuration to path, creating its directory.
// It refuses to overwrite an existing file.
func Init(path string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()
	return Write(f, Default())
}
