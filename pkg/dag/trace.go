package dag

import (
	"fmt"

	"github.com/matzehuels/ratiochase/pkg/proof"
)

// Metadata keys set by FromTrace.
const (
	MetaStatement = "statement" // canonical statement text of a fact
	MetaRule      = "rule"      // rule name of a rule node
	MetaGoal      = "goal"      // true on facts the trace was extracted for
)

// FromTrace builds the unlayered graph of a proof trace. Each line becomes
// a fact node with the line label as ID. Each derivation adds a rule node
// "r_<rule>_<n>", n counting applications of that rule from 1, with edges
// from every cited fact to the rule and from the rule to the conclusion.
//
// All nodes start in row 0; run transform.Layer to assign rows.
func FromTrace(t proof.Trace) (*DAG, error) {
	g := New()
	goals := make(map[string]bool, len(t.Goals))
	for _, l := range t.Goals {
		goals[l] = true
	}

	applied := make(map[proof.Rule]int)
	for _, l := range t.Lines {
		kind := NodeKindDerived
		if l.Premise {
			kind = NodeKindPremise
		}
		meta := Metadata{MetaStatement: l.Statement}
		if goals[l.Label] {
			meta[MetaGoal] = true
		}
		if err := g.AddNode(Node{ID: l.Label, Label: l.Statement, Kind: kind, Meta: meta}); err != nil {
			return nil, fmt.Errorf("fact [%s]: %w", l.Label, err)
		}
		if l.Premise {
			continue
		}

		applied[l.Rule]++
		rule := fmt.Sprintf("r_%s_%d", l.Rule, applied[l.Rule])
		if err := g.AddNode(Node{
			ID:    rule,
			Label: string(l.Rule),
			Kind:  NodeKindRule,
			Meta:  Metadata{MetaRule: string(l.Rule)},
		}); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule, err)
		}
		for _, a := range l.Antecedents {
			if err := g.AddEdge(Edge{From: a, To: rule}); err != nil {
				return nil, fmt.Errorf("fact [%s] cites [%s]: %w", l.Label, a, err)
			}
		}
		if err := g.AddEdge(Edge{From: rule, To: l.Label}); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule, err)
		}
	}
	return g, nil
}
