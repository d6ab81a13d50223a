package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ratiochase/pkg/dag"
)

// FirstRow is the row of source nodes after AssignLayers. Premises of a
// proof land here, so facts occupy odd rows and rule applications even rows.
const FirstRow = 1

// AssignLayers assigns rows by longest path from the sources using Kahn's
// algorithm. Sources are placed at [FirstRow]; every other node sits one row
// below its deepest parent. For a proof graph this puts a rule one row below
// its deepest cited fact and the conclusion one row below the rule.
//
// Existing row assignments are overwritten. Nodes on a cycle never reach
// in-degree zero and stay at FirstRow; run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := len(g.Parents(n.ID))
		inDegree[n.ID] = degree
		rows[n.ID] = FirstRow
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

// Tighten moves every node with children down to the row just above its
// highest child. A fact cited by a late rule application is drawn next to
// that rule instead of at the top of the graph.
//
// Nodes are visited bottom-up, so a node only moves after all of its
// children have settled. Rows only ever increase and edges keep pointing
// downward.
func Tighten(g *dag.DAG) {
	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b *dag.Node) int { return cmp.Compare(b.Row, a.Row) })

	rows := make(map[string]int, len(nodes))
	for _, n := range nodes {
		rows[n.ID] = n.Row
	}
	for _, n := range nodes {
		children := g.Children(n.ID)
		if len(children) == 0 {
			continue
		}
		lowest := rows[children[0]]
		for _, c := range children[1:] {
			lowest = min(lowest, rows[c])
		}
		if lowest-1 > rows[n.ID] {
			rows[n.ID] = lowest - 1
		}
	}
	g.SetRows(rows)
}
