// Package render converts rendered proof diagrams between output formats.
//
// The [nodelink] subpackage draws a layered proof graph with Graphviz and
// produces SVG. [ToPDF] and [ToPNG] convert that SVG with the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2)
//
// [nodelink]: github.com/matzehuels/ratiochase/pkg/render/nodelink
package render
