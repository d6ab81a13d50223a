package transform

import "github.com/matzehuels/ratiochase/pkg/dag"

// Layer runs the full layering pipeline in place and returns g:
// BreakCycles, AssignLayers, Tighten, Subdivide. Afterwards g passes
// [dag.DAG.Validate].
func Layer(g *dag.DAG) *dag.DAG {
	BreakCycles(g)
	AssignLayers(g)
	Tighten(g)
	Subdivide(g)
	return g
}
