package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ratiochase/pkg/dag"
)

// Options configures proof diagram rendering.
type Options struct {
	// Detailed prefixes fact labels with their trace label and adds the
	// row number to every node.
	Detailed bool
	// Labeler, when set, replaces the display text of fact nodes, for
	// example with the pretty form of the statement.
	Labeler func(n *dag.Node) string
	// Orders gives the left-to-right node order per row. Rows missing from
	// Orders keep insertion order.
	Orders map[int][]string
}

// ToDOT converts a layered proof graph to Graphviz DOT.
//
// Premises are drawn as ellipses and derived facts as boxes, blue except
// for facts on the last fact row, which are green. Rule applications are
// red diamonds and subdividers are invisible points. Every row becomes a
// rank=same group so Graphviz keeps the layering.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph proof {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  fontname=\"Arial\";\n")
	buf.WriteString("  node [fontname=\"Arial\", style=filled];\n")
	buf.WriteString("  edge [fontname=\"Arial\"];\n")
	buf.WriteString("\n")

	final := lastFactRow(g)
	for _, n := range g.Nodes() {
		attrs := fmtAttrs(*n, fmtLabel(n, opts), n.IsFact() && n.Row == final)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if dst, ok := g.Node(e.To); ok && dst.IsSubdivider() {
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("\n")
	for _, r := range g.RowIDs() {
		ids := rowOrder(g, r, opts.Orders)
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func lastFactRow(g *dag.DAG) int {
	last := 0
	for _, n := range g.Nodes() {
		if n.IsFact() {
			last = max(last, n.Row)
		}
	}
	return last
}

func rowOrder(g *dag.DAG, row int, orders map[int][]string) []string {
	if ids, ok := orders[row]; ok {
		return ids
	}
	return dag.NodeIDs(g.NodesInRow(row))
}

func fmtLabel(n *dag.Node, opts Options) string {
	label := n.DisplayLabel()
	if n.IsFact() && opts.Labeler != nil {
		label = opts.Labeler(n)
	}
	if !opts.Detailed {
		return label
	}
	if n.IsFact() {
		label = fmt.Sprintf("[%s] %s", n.ID, label)
	}
	parts := []string{label, fmt.Sprintf("row: %d", n.Row)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		if k == dag.MetaStatement || k == dag.MetaRule {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, label string, final bool) []string {
	switch {
	case n.IsSubdivider():
		return []string{`label=""`, "shape=point", "width=0.01", "height=0.01", "style=invis"}
	case n.IsRule():
		return []string{fmt.Sprintf("label=%q", label), "shape=diamond", "color=red", "fillcolor=pink"}
	}

	shape := "box"
	if n.Kind == dag.NodeKindPremise {
		shape = "ellipse"
	}
	color, fill := "blue", "lightblue"
	if final {
		color, fill = "green", "lightgreen"
	}
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=" + shape, "color=" + color, "fillcolor=" + fill}
	if goal, _ := n.Meta[dag.MetaGoal].(bool); goal {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
