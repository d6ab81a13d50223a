package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ratiochase/pkg/dag"
)

// Orderer decides the left-to-right sequence of nodes in each row.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// Barycentric orders rows with the barycenter heuristic: alternating down
// and up sweeps place each node at the mean position of its neighbours in
// the adjacent row. The ordering with the fewest crossings seen is kept.
//
// A zero Passes value runs a single down and up sweep.
type Barycentric struct {
	Passes int
}

// OrderRows implements [Orderer]. The initial ordering is row insertion
// order, which for proof graphs is trace label order.
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string)
	for _, r := range g.RowIDs() {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	rows := g.RowIDs()
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)
	passes := max(b.Passes, 1)
	for range passes {
		if bestCrossings == 0 {
			break
		}
		for i := 1; i < len(rows); i++ {
			sortByBarycenter(orders[rows[i]], orders[rows[i-1]], g.Parents)
		}
		for i := len(rows) - 2; i >= 0; i-- {
			sortByBarycenter(orders[rows[i]], orders[rows[i+1]], g.Children)
		}
		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}
	return best
}

// sortByBarycenter reorders row in place. Nodes without neighbours in adj
// keep their current position as their barycenter.
func sortByBarycenter(row, adj []string, neighbours func(string) []string) {
	pos := dag.PosMap(adj)
	center := make(map[string]float64, len(row))
	for i, id := range row {
		sum, n := 0.0, 0
		for _, nb := range neighbours(id) {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			center[id] = float64(i)
			continue
		}
		center[id] = sum / float64(n)
	}
	slices.SortStableFunc(row, func(a, b string) int { return cmp.Compare(center[a], center[b]) })
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
