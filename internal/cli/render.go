package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiochase/pkg/io"
	"github.com/matzehuels/ratiochase/pkg/pipeline"
	"github.com/matzehuels/ratiochase/pkg/proof"
)

// renderOpts holds the flags of the render command that are not config keys.
type renderOpts struct {
	output  string   // output file path (or base path for multiple outputs)
	formats []string // output formats
}

// renderCommand creates the render command for re-rendering stored proofs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [trace.txt|graph.json]",
		Short: "Render a stored proof trace or graph",
		Long: `Render a stored proof trace or graph.

Text input is read as a <problem>/<proof> trace as written by
'ratiochase prove --format text'. Files ending in .json are read as graphs
written with --format graph. The graph is layered, ordered to reduce edge
crossings and written in the requested formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatSVG, "output format(s): svg (default), json, graph, dot, png, pdf (comma-separated)")
	cmd.Flags().Bool("detailed", false, "show trace labels and rows in graph nodes")
	cmd.Flags().Bool("pretty", false, "label graph nodes with AB:CD = EF:GH forms")
	bindConfigKey(cmd.Flags(), "detailed", "render.detailed")
	bindConfigKey(cmd.Flags(), "pretty", "render.pretty")

	return cmd
}

// runRender loads the input, renders it and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := c.newRunner()
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Formats = opts.formats

	var (
		rendered *pipeline.Rendered
		err      error
	)
	if strings.EqualFold(filepath.Ext(input), ".json") {
		g, ierr := io.ImportJSON(input)
		if ierr != nil {
			return ierr
		}
		rendered, err = runner.RenderGraph(ctx, g, popts)
	} else {
		data, rerr := os.ReadFile(input)
		if rerr != nil {
			return rerr
		}
		tr, perr := proof.ParseTrace(string(data))
		if perr != nil {
			return fmt.Errorf("%s: %w", input, perr)
		}
		rendered, err = runner.Render(ctx, tr, popts)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", rendered.Graph.NodeCount()))

	printStats(c.Status,
		fmt.Sprintf("%d nodes", rendered.Graph.NodeCount()),
		fmt.Sprintf("%d rows", len(rendered.Graph.RowIDs())),
		fmt.Sprintf("%d crossings", rendered.Crossings),
	)
	return c.writeArtifacts(rendered.Artifacts, opts.formats, input, opts.output)
}
