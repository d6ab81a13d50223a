// Package dag provides the layered graph used to draw proof traces.
//
// # Overview
//
// A proof trace is a list of facts, each either given or derived by a rule
// from earlier facts. [FromTrace] turns it into a bipartite graph: fact
// nodes ([NodeKindPremise], [NodeKindDerived]) and one [NodeKindRule] node per
// derivation, with edges from the cited facts to the rule and from the rule
// to its conclusion.
//
// Nodes are organized into rows (layers). The [transform] subpackage assigns
// rows so that facts sit on odd layers and rule applications on even layers,
// then subdivides long edges with [NodeKindSubdivider] nodes until every
// edge joins consecutive rows. [DAG.Validate] checks that shape.
//
//	t, _ := sess.Trace(goal)
//	g, err := dag.FromTrace(t)
//	if err != nil {
//	    return err
//	}
//	transform.Layer(g)
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between
// consecutive rows as inversions, found by merge sort in O(E log E).
// Renderers report the count for the row orderings they draw.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// [transform]: github.com/matzehuels/ratiochase/pkg/dag/transform
package dag
