package transform

import "github.com/matzehuels/ratiochase/pkg/dag"

// BreakCycles removes the back edges of a depth-first search and returns
// them. The search starts at the sources, then picks up nodes that are only
// reachable through a cycle, in [dag.DAG.Nodes] order.
//
// Traces built by the prover are acyclic, so this only changes graphs read
// from JSON. The walk keeps its own stack so long citation chains do not
// grow the goroutine stack.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		unvisited = iota
		onStack
		done
	)
	type frame struct {
		id   string
		next int // index of the next child to visit
	}

	state := make(map[string]int, g.NodeCount())
	var back []dag.Edge

	walk := func(root string) {
		stack := []frame{{id: root}}
		state[root] = onStack
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				state[top.id] = done
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch state[child] {
			case unvisited:
				state[child] = onStack
				stack = append(stack, frame{id: child})
			case onStack:
				back = append(back, dag.Edge{From: top.id, To: child})
			}
		}
	}

	nodes := g.Nodes()
	for _, sources := range []bool{true, false} {
		for _, n := range nodes {
			if state[n.ID] == unvisited && (!sources || len(g.Parents(n.ID)) == 0) {
				walk(n.ID)
			}
		}
	}

	for _, e := range back {
		g.RemoveEdge(e.From, e.To)
	}
	return back
}
