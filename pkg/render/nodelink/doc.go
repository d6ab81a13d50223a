// Package nodelink draws layered proof graphs as Graphviz diagrams.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Orders: orders})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The graph must already be layered (see dag/transform.Layer). Each row is
// emitted as a rank=same group, so Graphviz keeps facts on odd rows and rule
// applications on even rows.
//
// # Styling
//
//   - premises: blue ellipses
//   - derived facts: blue boxes
//   - facts on the last fact row: green
//   - requested goals: double outline
//   - rule applications: red diamonds labelled with the rule name
//   - subdividers: invisible points, so long edges look continuous
//
// # Dependencies
//
// SVG rendering runs in-process with [github.com/goccy/go-graphviz]. PDF
// and PNG conversion lives in the parent render package and needs librsvg.
package nodelink
