package dag

import (
	"errors"
	"testing"

	"github.com/matzehuels/ratiochase/pkg/proof"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id: %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate id: %v", err)
	}
	if n, _ := g.Node("a"); n.Meta == nil {
		t.Error("Meta not initialized")
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown source: %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown target: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d after failed adds", g.EdgeCount())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		rows  map[string]int
		edges [][2]string
		want  error
	}{
		{"consecutive", map[string]int{"a": 1, "b": 2, "c": 3}, [][2]string{{"a", "b"}, {"b", "c"}}, nil},
		{"long edge", map[string]int{"a": 1, "b": 2, "c": 3}, [][2]string{{"a", "c"}}, ErrLongEdge},
		{"upward edge", map[string]int{"a": 2, "b": 1}, [][2]string{{"a", "b"}}, ErrLongEdge},
		{"cycle", map[string]int{"a": 0, "b": 0}, [][2]string{{"a", "b"}, {"b", "a"}}, ErrLongEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for id, row := range tt.rows {
				_ = g.AddNode(Node{ID: id, Row: row})
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(Edge{From: e[0], To: e[1]})
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})
	g.RemoveEdge("b", "a")
	if g.EdgeCount() != 1 || len(g.Parents("a")) != 0 || len(g.Children("b")) != 0 {
		t.Errorf("edges = %v", g.Edges())
	}
	if err := g.checkAcyclic(); err != nil {
		t.Errorf("checkAcyclic() = %v", err)
	}
}

func TestDetectCycles(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	if err := g.checkAcyclic(); err != nil {
		t.Fatalf("acyclic graph: %v", err)
	}
	_ = g.AddEdge(Edge{From: "c", To: "a"})
	if err := g.checkAcyclic(); !errors.Is(err, ErrCycle) {
		t.Errorf("cyclic graph: %v", err)
	}
}

func TestSetRowsKeepsOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		_ = g.AddNode(Node{ID: id})
	}
	g.SetRows(map[string]int{"a": 1})
	got := NodeIDs(g.NodesInRow(0))
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Errorf("row 0 = %v, want [c b]", got)
	}
	if rows := g.RowIDs(); len(rows) != 2 || rows[1] != 1 {
		t.Errorf("rows = %v", g.RowIDs())
	}
}

func TestFromTrace(t *testing.T) {
	tr := proof.Trace{
		Lines: []proof.Line{
			{Label: "001", Statement: "cong a b c d", Rule: proof.RulePremise, Premise: true},
			{Label: "002", Statement: "cong c d e f", Rule: proof.RulePremise, Premise: true},
			{Label: "003", Statement: "cong a b e f", Rule: proof.RuleRatioChase, Antecedents: []string{"001", "002"}},
			{Label: "004", Statement: "cong e f a b", Rule: proof.RuleRatioChase, Antecedents: []string{"003"}},
		},
		Goals: []string{"004"},
	}
	g, err := FromTrace(tr)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 6 || g.EdgeCount() != 5 {
		t.Errorf("nodes=%d edges=%d, want 6 and 5", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.Node("r_ratio_chase_2"); !ok {
		t.Error("second ratio_chase application missing")
	}
	goal, _ := g.Node("004")
	if goal.Meta[MetaGoal] != true || goal.Kind != NodeKindDerived {
		t.Errorf("goal node = %+v", goal)
	}
	if got := g.Children("003"); len(got) != 1 || got[0] != "r_ratio_chase_2" {
		t.Errorf("children of 003 = %v", got)
	}
	if got := g.Children("004"); len(got) != 0 {
		t.Errorf("goal has children %v", got)
	}

	tr.Lines = append(tr.Lines, proof.Line{Label: "005", Rule: proof.RuleAngleChase, Antecedents: []string{"009"}})
	if _, err := FromTrace(tr); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("dangling citation: %v", err)
	}
}

func TestKindFromString(t *testing.T) {
	for _, k := range []NodeKind{NodeKindPremise, NodeKindDerived, NodeKindRule, NodeKindSubdivider} {
		got, ok := KindFromString(k.String())
		if !ok || got != k {
			t.Errorf("KindFromString(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := KindFromString("auxiliary"); ok {
		t.Error("unknown kind accepted")
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, n := range []Node{{ID: "a", Row: 1}, {ID: "b", Row: 1}, {ID: "c", Row: 1}, {ID: "x", Row: 2}, {ID: "y", Row: 2}, {ID: "z", Row: 2}} {
		_ = g.AddNode(n)
	}
	for _, e := range [][2]string{{"a", "z"}, {"b", "y"}, {"c", "x"}, {"a", "x"}} {
		_ = g.AddEdge(Edge{From: e[0], To: e[1]})
	}

	tests := []struct {
		upper, lower []string
		want         int
	}{
		// a→z crosses b→y and c→x, b→y crosses c→x.
		{[]string{"a", "b", "c"}, []string{"x", "y", "z"}, 3},
		{[]string{"c", "b", "a"}, []string{"x", "y", "z"}, 1},
		{[]string{"a", "b", "c"}, nil, 0},
	}
	for _, tt := range tests {
		if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
			t.Errorf("CountLayerCrossings(%v, %v) = %d, want %d", tt.upper, tt.lower, got, tt.want)
		}
	}

	orders := map[int][]string{1: {"a", "b", "c"}, 2: {"x", "y", "z"}, 4: {"q"}}
	if got := CountCrossings(g, orders); got != 3 {
		t.Errorf("CountCrossings() = %d, want 3", got)
	}
}

func TestInversions(t *testing.T) {
	a := []int{3, 1, 2, 0, 2}
	if got := inversions(a, make([]int, len(a))); got != 6 {
		t.Errorf("inversions = %d, want 6", got)
	}
	if a[0] != 0 || a[4] != 3 {
		t.Errorf("inversions should sort in place, got %v", a)
	}
}
