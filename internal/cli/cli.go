// Package cli implements the ratiochase command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/ratiochase/internal/config"
	"github.com/matzehuels/ratiochase/pkg/buildinfo"
	"github.com/matzehuels/ratiochase/pkg/cache"
	"github.com/matzehuels/ratiochase/pkg/numeric"
	"github.com/matzehuels/ratiochase/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ratiochase"

	// memoCleanup is how often expired canonical forms are evicted.
	memoCleanup = time.Minute

	// configKeyAnnotation marks flags that override a config key.
	configKeyAnnotation = "ratiochase_config_key"

	// skipConfigAnnotation marks commands that run without loading the
	// config file.
	skipConfigAnnotation = "ratiochase_skip_config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // command output such as traces and YAML
	Status io.Writer // styled progress and summaries

	viper   *viper.Viper
	cfgFile string
	config  *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Status: w,
		viper:  viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Ratiochase proves ratio and angle goals by linear closure",
		Long: `Ratiochase canonicalizes geometric statements about segment ratios and
angles, derives goals from premises with union-find closure tables, and
renders the resulting proofs as layered graphs.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if cmd.Annotations[skipConfigAnnotation] != "" {
				return nil
			}
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			if c.config.Log.Verbose {
				c.SetLogLevel(LogDebug)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/ratiochase/config.toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	bindConfigKey(root.PersistentFlags(), "verbose", "log.verbose")

	root.AddCommand(c.proveCommand())
	root.AddCommand(c.canonCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// bindConfigKey marks a flag as an override for a config key. The binding
// is applied to the viper instance only when the flag's command runs.
func bindConfigKey(flags *pflag.FlagSet, flag, key string) {
	_ = flags.SetAnnotation(flag, configKeyAnnotation, []string{key})
}

// loadConfig binds the running command's annotated flags and resolves the
// configuration.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = c.viper.BindPFlag(keys[0], f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	cfg, err := config.Load(c.viper, c.cfgFile)
	if err != nil {
		return err
	}
	c.config = cfg
	if used := c.viper.ConfigFileUsed(); used != "" {
		c.Logger.Debug("Loaded config", "file", used)
	}
	return nil
}

// pipelineOptions converts the resolved configuration into pipeline options.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return pipeline.Options{
		Parallel:  cfg.Prove.Parallel,
		NoNumeric: cfg.Prove.NoNumeric,
		Tolerance: numeric.Tolerance{Rel: cfg.Prove.ToleranceRel, Abs: cfg.Prove.ToleranceAbs},
		Formats:   cfg.Render.Formats,
		Detailed:  cfg.Render.Detailed,
		Pretty:    cfg.Render.Pretty,
		Logger:    c.Logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with an in-memory canonical-form memo.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(cache.NewMemoryCache(pipeline.CanonTTL, memoCleanup), c.Logger)
}

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] || ext == ".txt" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// fileExt maps a format to its file extension.
func fileExt(format string) string {
	switch format {
	case pipeline.FormatText:
		return "txt"
	case pipeline.FormatGraph:
		return "graph.json"
	}
	return format
}

// writeArtifacts writes rendered outputs. The text format goes to Out when
// no output path is given; everything else is written next to base.
func (c *CLI) writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	if len(formats) == 1 && output != "" {
		return c.writeFile(output, artifacts[formats[0]])
	}
	base := basePath(output, input)
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		if f == pipeline.FormatText && output == "" {
			if _, err := c.Out.Write(data); err != nil {
				return err
			}
			continue
		}
		if err := c.writeFile(base+"."+fileExt(f), data); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.Logger.Info("Wrote output", "path", path, "bytes", len(data))
	return nil
}
