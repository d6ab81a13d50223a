package proof

import (
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
)

// ErrUnknownFact is returned when a fact id does not exist or cites a fact
// that does not exist yet.
var ErrUnknownFact = errors.New("unknown fact")

// ID identifies a fact within one [Graph]. Ids are dense and start at 0.
type ID int

// Rule tags the inference that produced a fact.
type Rule string

// Rules used by the deduction core.
const (
	// RulePremise marks facts given by the problem rather than derived.
	RulePremise Rule = "premise"
	// RuleRatioChase marks facts derived by the length closure table.
	RuleRatioChase Rule = "ratio_chase"
	// RuleAngleChase marks facts derived by the angle closure table.
	RuleAngleChase Rule = "angle_chase"
	// RuleDecompose marks a primitive fact implied by a compound statement.
	RuleDecompose Rule = "decompose"
)

// Statement is what a fact establishes. Key is the canonical text; two
// statements with equal keys are the same fact.
type Statement interface {
	Key() string
}

// Fact is an immutable node of the justification graph.
type Fact struct {
	ID          ID
	Statement   Statement
	Rule        Rule
	Antecedents []ID
}

// Key returns the canonical key of the fact's statement.
func (f Fact) Key() string { return f.Statement.Key() }

// IsPremise reports whether f was given rather than derived.
func (f Fact) IsPremise() bool { return f.Rule == RulePremise && len(f.Antecedents) == 0 }

// Graph is an append-only DAG of facts. The zero value is not usable; use
// NewGraph. A Graph is not safe for concurrent use.
type Graph struct {
	facts    []Fact
	interned map[string]ID
	byStmt   map[string]ID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{interned: make(map[string]ID), byStmt: make(map[string]ID)}
}

// MakeFact appends a new fact. Every antecedent must be an existing fact,
// which by construction has a smaller id than the new one; otherwise an
// UNKNOWN_FACT error wrapping ErrUnknownFact is returned.
func (g *Graph) MakeFact(stmt Statement, rule Rule, antecedents ...ID) (ID, error) {
	id := ID(len(g.facts))
	for _, a := range antecedents {
		if a < 0 || a >= id {
			return 0, errs.Wrap(errs.ErrCodeUnknownFact, ErrUnknownFact,
				"fact %d (%s) cites fact %d", id, stmt.Key(), a)
		}
	}
	g.facts = append(g.facts, Fact{
		ID:          id,
		Statement:   stmt,
		Rule:        rule,
		Antecedents: slices.Clone(antecedents),
	})
	g.interned[internKey(stmt.Key(), rule, antecedents)] = id
	if _, ok := g.byStmt[stmt.Key()]; !ok {
		g.byStmt[stmt.Key()] = id
	}
	return id, nil
}

// Intern is MakeFact with deduplication: when a fact with the same statement
// key, rule and antecedent set exists, its id is returned instead.
func (g *Graph) Intern(stmt Statement, rule Rule, antecedents ...ID) (ID, error) {
	if id, ok := g.interned[internKey(stmt.Key(), rule, antecedents)]; ok {
		return id, nil
	}
	return g.MakeFact(stmt, rule, antecedents...)
}

func internKey(key string, rule Rule, antecedents []ID) string {
	ids := slices.Clone(antecedents)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	var b strings.Builder
	b.WriteString(key)
	b.WriteByte('|')
	b.WriteString(string(rule))
	for _, a := range ids {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(int(a)))
	}
	return b.String()
}

// Fact returns the fact with the given id.
func (g *Graph) Fact(id ID) (Fact, bool) {
	if id < 0 || int(id) >= len(g.facts) {
		return Fact{}, false
	}
	return g.facts[id], true
}

// Lookup returns the first fact that established the statement with the
// given canonical key.
func (g *Graph) Lookup(key string) (ID, bool) {
	id, ok := g.byStmt[key]
	return id, ok
}

// Len returns the number of facts.
func (g *Graph) Len() int { return len(g.facts) }

// Facts returns all facts in creation order.
func (g *Graph) Facts() []Fact { return slices.Clone(g.facts) }

// Ancestors returns the ids of every fact id transitively depends on,
// excluding id itself, in ascending order.
func (g *Graph) Ancestors(id ID) []ID {
	if _, ok := g.Fact(id); !ok {
		return nil
	}
	seen := g.closure([]ID{id})
	delete(seen, id)
	return slices.Sorted(maps.Keys(seen))
}

// closure returns the goals and everything they depend on.
func (g *Graph) closure(goals []ID) map[ID]struct{} {
	seen := make(map[ID]struct{})
	stack := slices.Clone(goals)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		stack = append(stack, g.facts[id].Antecedents...)
	}
	return seen
}

// Clone returns an independent copy of the graph. Facts are immutable, so
// only the indexes are copied.
func (g *Graph) Clone() *Graph {
	return &Graph{
		facts:    slices.Clone(g.facts),
		interned: maps.Clone(g.interned),
		byStmt:   maps.Clone(g.byStmt),
	}
}
