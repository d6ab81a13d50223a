package transform

import (
	"cmp"
	"strconv"

	"github.com/matzehuels/ratiochase/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// [dag.NodeKindSubdivider] nodes, one per skipped row, and returns the
// number of subdividers added:
//
//	Before: 001 (row 1) → r_ratio_chase_2 (row 6)
//	After:  001 → 001_sub_2 → 001_sub_3 → 001_sub_4 → 001_sub_5 → r_ratio_chase_2
//
// Subdividers carry the chain's source as MasterID. A taken ID gets a
// "__n" suffix ("001_sub_2__1"). The original edge metadata moves to the
// last link of the chain.
func Subdivide(g *dag.DAG) int {
	taken := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		taken[n.ID] = true
	}
	fresh := func(master string, row int) string {
		base := master + "_sub_" + strconv.Itoa(row)
		id := base
		for i := 1; taken[id]; i++ {
			id = base + "__" + strconv.Itoa(i)
		}
		taken[id] = true
		return id
	}

	added := 0
	for _, e := range g.Edges() {
		src, ok1 := g.Node(e.From)
		dst, ok2 := g.Node(e.To)
		if !ok1 || !ok2 || dst.Row-src.Row < 2 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		master := cmp.Or(src.MasterID, src.ID)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := fresh(master, row)
			mustAdd(g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindSubdivider, MasterID: master}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
			added++
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: dst.ID}))
	}
	return added
}

// mustAdd panics on an insertion error. Subdivide only creates fresh IDs
// and edges between existing nodes, so an error is a bug.
func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
