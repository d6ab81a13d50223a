package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiochase/pkg/pipeline"
	"github.com/matzehuels/ratiochase/pkg/problem"
)

// proveOpts holds flags of the prove command that are not config keys.
type proveOpts struct {
	output  string
	metrics bool
}

// proveCommand creates the prove command.
func (c *CLI) proveCommand() *cobra.Command {
	var opts proveOpts

	cmd := &cobra.Command{
		Use:   "prove [problem.toml]",
		Short: "Prove the goals of a problem file",
		Long: `Prove the goals of a problem file.

Premises are assumed in order; a premise contradicting the earlier ones
aborts the run. Each goal is first checked against the problem's
coordinates (unless --no-numeric is given) and then derived from the
closure tables. The proof of every derived goal is written in the
requested formats:

  text   labelled trace, printed to stdout unless -o is given
  json   nodes/links proof graph
  graph  layered graph, readable by 'ratiochase render'
  dot    Graphviz source
  svg, png, pdf

The command fails when a goal is not proved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print deduction metrics after the run")

	cmd.Flags().StringP("format", "f", "", "output format(s): text (default), json, graph, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().IntP("parallel", "p", pipeline.DefaultParallel, "goals proved concurrently")
	cmd.Flags().Bool("no-numeric", false, "skip the numeric pre-check against point coordinates")
	cmd.Flags().Bool("detailed", false, "show trace labels and rows in graph nodes")
	cmd.Flags().Bool("pretty", false, "label graph nodes with AB:CD = EF:GH forms")
	bindConfigKey(cmd.Flags(), "format", "render.formats")
	bindConfigKey(cmd.Flags(), "parallel", "prove.parallel")
	bindConfigKey(cmd.Flags(), "no-numeric", "prove.no_numeric")
	bindConfigKey(cmd.Flags(), "detailed", "render.detailed")
	bindConfigKey(cmd.Flags(), "pretty", "render.pretty")

	return cmd
}

// runProve loads the problem, proves its goals and writes the artifacts.
func (c *CLI) runProve(ctx context.Context, input string, opts proveOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	p, err := problem.Load(input)
	if err != nil {
		return fmt.Errorf("load problem: %w", err)
	}

	var m *metrics
	if opts.metrics {
		m = newMetrics()
		defer m.install()()
	}

	runner := c.newRunner()
	defer runner.Close()

	popts := c.pipelineOptions()
	res, err := runner.Execute(ctx, p, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Proved %d of %d goals", res.Proved(), len(res.Goals)))

	printSummary(c.Status, res)
	if m != nil {
		if err := m.print(c.Status); err != nil {
			return err
		}
	}

	if res.Proved() > 0 {
		formats := popts.Formats
		if len(formats) == 0 {
			formats = []string{pipeline.FormatText}
		}
		if err := c.writeArtifacts(res.Artifacts, formats, input, opts.output); err != nil {
			return err
		}
	}

	if missing := len(res.Goals) - res.Proved(); missing > 0 {
		return fmt.Errorf("%d of %d goals not proved", missing, len(res.Goals))
	}
	return nil
}
