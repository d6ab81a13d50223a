package dag

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrInvalidNodeID   = errors.New("node ID must not be empty")
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is wrapped by [DAG.AddEdge] together with the missing
	// endpoint.
	ErrUnknownNode = errors.New("unknown node")

	// ErrLongEdge and ErrCycle are returned by [DAG.Validate].
	ErrLongEdge = errors.New("edge does not join consecutive rows")
	ErrCycle    = errors.New("graph contains a cycle")
)

// Metadata holds per-node annotations for renderers and exporters.
type Metadata map[string]any

// NodeKind distinguishes facts, rule applications and synthetic nodes.
type NodeKind int

const (
	// NodeKindPremise is a fact given by the problem.
	NodeKindPremise NodeKind = iota
	// NodeKindDerived is a fact produced by a rule application.
	NodeKindDerived
	// NodeKindRule is one application of an inference rule. Its parents are
	// the cited facts and its single child is the conclusion.
	NodeKindRule
	// NodeKindSubdivider breaks a long edge. MasterID names the fact or
	// rule the edge started from.
	NodeKindSubdivider
)

var kindNames = [...]string{
	NodeKindPremise:    "initial_fact",
	NodeKindDerived:    "derived_fact",
	NodeKindRule:       "rule",
	NodeKindSubdivider: "subdivider",
}

// String returns the kind name used in exported graphs.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindFromString is the inverse of [NodeKind.String].
func KindFromString(s string) (NodeKind, bool) {
	k := slices.Index(kindNames[:], s)
	return NodeKind(k), k >= 0
}

// Node is a fact, a rule application or a subdivider.
type Node struct {
	ID       string
	Row      int
	Label    string // falls back to ID
	Kind     NodeKind
	MasterID string
	Meta     Metadata
}

func (n Node) IsFact() bool       { return n.Kind == NodeKindPremise || n.Kind == NodeKindDerived }
func (n Node) IsRule() bool       { return n.Kind == NodeKindRule }
func (n Node) IsSubdivider() bool { return n.Kind == NodeKindSubdivider }

// DisplayLabel returns Label, or ID when no label is set.
func (n Node) DisplayLabel() string { return cmp.Or(n.Label, n.ID) }

// Edge points from a cited fact to a rule, or from a rule to its
// conclusion.
type Edge struct {
	From, To string
}

// DAG is a proof graph whose nodes are grouped into rows. Nodes and
// adjacency lists keep insertion order.
//
// Use New; the zero value is not ready.
type DAG struct {
	byID     map[string]*Node
	edges    []Edge
	children map[string][]string
	parents  map[string][]string
	rows     map[int][]*Node
}

// New returns an empty graph.
func New() *DAG {
	return &DAG{
		byID:     map[string]*Node{},
		children: map[string][]string{},
		parents:  map[string][]string{},
		rows:     map[int][]*Node{},
	}
}

// AddNode stores a copy of n in row n.Row. A nil Meta is replaced by an
// empty map.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrInvalidNodeID
	case d.byID[n.ID] != nil:
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.byID[n.ID] = &n
	d.rows[n.Row] = append(d.rows[n.Row], &n)
	return nil
}

// AddEdge links two existing nodes. Rows are not checked until Validate.
func (d *DAG) AddEdge(e Edge) error {
	for _, id := range []string{e.From, e.To} {
		if d.byID[id] == nil {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	d.edges = append(d.edges, e)
	d.children[e.From] = append(d.children[e.From], e.To)
	d.parents[e.To] = append(d.parents[e.To], e.From)
	return nil
}

// RemoveEdge deletes every from→to edge.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e == Edge{from, to} })
	d.children[from] = slices.DeleteFunc(d.children[from], func(id string) bool { return id == to })
	d.parents[to] = slices.DeleteFunc(d.parents[to], func(id string) bool { return id == from })
}

// SetRows moves the nodes named in rows. Nodes keep their relative order
// within the row they end up in.
func (d *DAG) SetRows(rows map[string]int) {
	moved := make(map[int][]*Node, len(d.rows))
	for _, r := range d.RowIDs() {
		for _, n := range d.rows[r] {
			if to, ok := rows[n.ID]; ok {
				n.Row = to
			}
			moved[n.Row] = append(moved[n.Row], n)
		}
	}
	d.rows = moved
}

// Node looks a node up by ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Nodes returns the graph's nodes sorted by row and then ID.
func (d *DAG) Nodes() []*Node {
	return slices.SortedFunc(maps.Values(d.byID), func(a, b *Node) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.ID, b.ID))
	})
}

func (d *DAG) Edges() []Edge  { return slices.Clone(d.edges) }
func (d *DAG) NodeCount() int { return len(d.byID) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children and Parents return adjacency in edge order. Callers must not
// modify the result.
func (d *DAG) Children(id string) []string { return d.children[id] }
func (d *DAG) Parents(id string) []string  { return d.parents[id] }

// NodesInRow returns the nodes of a row in their current order. Callers
// must not modify the result.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowIDs returns the non-empty rows in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// Validate reports ErrLongEdge when an edge does not go down exactly one
// row and ErrCycle when the graph is not acyclic.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if d.byID[e.To].Row-d.byID[e.From].Row != 1 {
			return fmt.Errorf("%w: %s -> %s", ErrLongEdge, e.From, e.To)
		}
	}
	return d.checkAcyclic()
}

// checkAcyclic peels off nodes without remaining parents; whatever is left
// lies on or below a cycle.
func (d *DAG) checkAcyclic() error {
	waiting := make(map[string]int, len(d.byID))
	var ready []string
	for id := range d.byID {
		if waiting[id] = len(d.parents[id]); waiting[id] == 0 {
			ready = append(ready, id)
		}
	}
	seen := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		seen++
		for _, c := range d.children[id] {
			if waiting[c]--; waiting[c] == 0 {
				ready = append(ready, c)
			}
		}
	}
	if seen < len(d.byID) {
		return ErrCycle
	}
	return nil
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs returns the IDs of nodes in order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
