package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/ratiochase/pkg/dag"
	"github.com/matzehuels/ratiochase/pkg/dag/transform"
	"github.com/matzehuels/ratiochase/pkg/io"
	"github.com/matzehuels/ratiochase/pkg/observability"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/render"
	"github.com/matzehuels/ratiochase/pkg/render/nodelink"
)

// Rendered is the output of [Runner.Render] and [Runner.RenderGraph].
type Rendered struct {
	Graph     *dag.DAG          // layered graph, subdividers included
	Artifacts map[string][]byte // keyed by format
	Crossings int
}

// Render lays out a trace and writes it in every requested format.
func (r *Runner) Render(ctx context.Context, tr proof.Trace, opts Options) (*Rendered, error) {
	g, err := dag.FromTrace(tr)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return r.render(ctx, g, &tr, opts)
}

// RenderGraph lays out an existing graph, for example one read with
// io.ReadJSON, and renders it. The text format needs a trace and is
// rejected here.
func (r *Runner) RenderGraph(ctx context.Context, g *dag.DAG, opts Options) (*Rendered, error) {
	return r.render(ctx, g, nil, opts)
}

func (r *Runner) render(ctx context.Context, g *dag.DAG, tr *proof.Trace, opts Options) (*Rendered, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	out, err := r.renderFormats(ctx, g, tr, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return out, err
}

func (r *Runner) renderFormats(ctx context.Context, g *dag.DAG, tr *proof.Trace, opts Options) (*Rendered, error) {
	if back := transform.BreakCycles(g); len(back) > 0 {
		opts.Logger.Warn("removed cyclic edges", "count", len(back), "first", back[0].From+"->"+back[0].To)
	}
	transform.Layer(g)
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("layered graph: %w", err)
	}

	orders := transform.Barycentric{Passes: DefaultOrderingPasses}.OrderRows(g)
	out := &Rendered{
		Graph:     g,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Crossings: dag.CountCrossings(g, orders),
	}
	opts.Logger.Debug("layered proof graph",
		"nodes", g.NodeCount(),
		"rows", len(g.RowIDs()),
		"crossings", out.Crossings)

	dot := nodelink.ToDOT(g, nodelink.Options{
		Detailed: opts.Detailed,
		Labeler:  r.labeler(opts),
		Orders:   orders,
	})

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			if tr == nil {
				return nil, fmt.Errorf("format %s needs a proof trace", format)
			}
			data = []byte(tr.String())
		case FormatJSON:
			var buf bytes.Buffer
			err = io.WriteProofJSON(g, &buf)
			data = buf.Bytes()
		case FormatGraph:
			var buf bytes.Buffer
			err = io.WriteJSON(g, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, DefaultPNGScale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out.Artifacts[format] = data
	}
	return out, nil
}

// labeler returns the fact label function for opts: the pretty form of the
// statement when opts.Pretty is set, nil otherwise.
func (r *Runner) labeler(opts Options) func(*dag.Node) string {
	if !opts.Pretty {
		return nil
	}
	return func(n *dag.Node) string {
		s, err := r.Canon.Parse(n.Label)
		if err != nil {
			return n.Label
		}
		return s.Pretty()
	}
}
