package transform_test

import (
	"fmt"

	"github.com/matzehuels/ratiochase/pkg/dag"
	"github.com/matzehuels/ratiochase/pkg/dag/transform"
	"github.com/matzehuels/ratiochase/pkg/proof"
)

func ExampleLayer() {
	trace, _ := proof.ParseTrace(`
<problem>
perp a b c d [001];
perp c d e f [002];
</problem>
<proof>
para a b e f [003] angle_chase [001] [002];
</proof>`)
	g, _ := dag.FromTrace(trace)
	transform.Layer(g)

	for _, r := range g.RowIDs() {
		fmt.Println(r, dag.NodeIDs(g.NodesInRow(r)))
	}
	fmt.Println("valid:", g.Validate() == nil)
	// Output:
	// 1 [001 002]
	// 2 [r_angle_chase_1]
	// 3 [003]
	// valid: true
}

func ExampleBarycentric() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 1})
	_ = g.AddNode(dag.Node{ID: "b", Row: 1})
	_ = g.AddNode(dag.Node{ID: "x", Row: 2})
	_ = g.AddNode(dag.Node{ID: "y", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	orders := transform.Barycentric{Passes: 4}.OrderRows(g)
	fmt.Println("crossings:", dag.CountCrossings(g, orders))
	// Output:
	// crossings: 0
}
