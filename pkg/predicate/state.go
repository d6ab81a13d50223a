package predicate

import (
	"errors"
	"fmt"

	"github.com/matzehuels/ratiochase/pkg/chase"
	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/observability"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// ErrNotDerivable is returned by [State.Why] for a statement that does not
// follow from the facts added so far.
var ErrNotDerivable = errors.New("statement is not derivable")

// State is one deduction context: the quantity registry, one closure table
// per quantity kind and the justification graph their facts live in.
//
// A State is not safe for concurrent use. Independent branches each work on
// their own Clone.
type State struct {
	Registry *quantity.Registry
	Ratios   *chase.Table
	Angles   *chase.Table
	Graph    *proof.Graph
}

// NewState returns an empty deduction context.
func NewState() *State {
	return &State{
		Registry: quantity.NewRegistry(),
		Ratios:   chase.New(quantity.Length),
		Angles:   chase.New(quantity.Angle),
		Graph:    proof.NewGraph(),
	}
}

// Clone returns an independent copy of the state.
func (st *State) Clone() *State {
	return &State{
		Registry: st.Registry.Clone(),
		Ratios:   st.Ratios.Clone(),
		Angles:   st.Angles.Clone(),
		Graph:    st.Graph.Clone(),
	}
}

// Table returns the closure table for the given quantity kind.
func (st *State) Table(kind quantity.Kind) *chase.Table {
	if kind == quantity.Angle {
		return st.Angles
	}
	return st.Ratios
}

func rule(kind quantity.Kind) proof.Rule {
	if kind == quantity.Angle {
		return proof.RuleAngleChase
	}
	return proof.RuleRatioChase
}

// Check reports whether s follows from the facts added so far: every
// equation of every primitive of s holds in its table.
func (st *State) Check(s Statement) (bool, error) {
	ok, err := st.check(s)
	if err == nil {
		observability.Deduction().OnCheck(s.Kind.String(), ok)
	}
	return ok, err
}

func (st *State) check(s Statement) (bool, error) {
	prims, err := Decompose(s)
	if err != nil {
		return false, err
	}
	for _, p := range prims {
		terms, err := Equations(p, st.Registry)
		if err != nil {
			return false, err
		}
		table := st.Table(p.Kind.Table())
		for _, t := range terms {
			if !table.Holds(t) {
				return false, nil
			}
		}
	}
	return true, nil
}

// Add asserts s, citing fact as its justification. A compound statement
// gets one decompose fact per primitive, each citing fact, and the
// primitives are added citing those.
//
// A contradiction is returned as a [*chase.Contradiction] error. The state
// may then hold part of the statement's equations; callers that want to
// keep going discard it or work on a Clone.
func (st *State) Add(s Statement, fact proof.ID) error {
	err := st.add(s, fact)
	observability.Deduction().OnAdd(s.Kind.String(), err)
	var c *chase.Contradiction
	if errors.As(err, &c) {
		observability.Deduction().OnContradiction(c.Kind.String())
	}
	return err
}

func (st *State) add(s Statement, fact proof.ID) error {
	if s.Kind.IsCompound() {
		prims, err := Decompose(s)
		if err != nil {
			return err
		}
		for _, p := range prims {
			id, err := st.Graph.Intern(p, proof.RuleDecompose, fact)
			if err != nil {
				return err
			}
			if err := st.add(p, id); err != nil {
				return err
			}
		}
		return nil
	}
	terms, err := Equations(s, st.Registry)
	if err != nil {
		return err
	}
	table := st.Table(s.Kind.Table())
	for _, t := range terms {
		if err := table.Add(t, fact); err != nil {
			return fmt.Errorf("add %s: %w", s.Key(), err)
		}
	}
	return nil
}

// Assume records s as a premise fact and adds it.
func (st *State) Assume(s Statement) (proof.ID, error) {
	id, err := st.Graph.Intern(s, proof.RulePremise)
	if err != nil {
		return 0, err
	}
	return id, st.Add(s, id)
}

// Why builds the fact deriving s from the facts added so far and returns
// its id. For a primitive statement the antecedents are the explanations of
// its equations, deduplicated in order; for a compound one they are the
// derived facts of its primitives in decomposition order.
//
// Returns an error wrapping ErrNotDerivable when s does not hold.
func (st *State) Why(s Statement) (proof.ID, error) {
	ok, err := st.check(s)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotDerivable, s.Key())
	}

	if !s.Kind.IsCompound() {
		return st.why(s)
	}
	prims, err := Decompose(s)
	if err != nil {
		return 0, err
	}
	ante := make([]proof.ID, 0, len(prims))
	for _, p := range prims {
		id, err := st.why(p)
		if err != nil {
			return 0, err
		}
		ante = append(ante, id)
	}
	id, err := st.Graph.Intern(s, rule(s.Kind.Table()), ante...)
	if err != nil {
		return 0, err
	}
	observability.Deduction().OnWhy(s.Kind.String(), len(ante))
	return id, nil
}

// why derives a primitive statement that is known to hold.
func (st *State) why(s Statement) (proof.ID, error) {
	terms, err := Equations(s, st.Registry)
	if err != nil {
		return 0, err
	}
	table := st.Table(s.Kind.Table())
	var ante []proof.ID
	seen := make(map[proof.ID]struct{})
	for _, t := range terms {
		for _, id := range table.Explain(t) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ante = append(ante, id)
		}
	}
	id, err := st.Graph.Intern(s, rule(s.Kind.Table()), ante...)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInternal, err, "derive %s", s.Key())
	}
	observability.Deduction().OnWhy(s.Kind.String(), len(ante))
	return id, nil
}

// Prove checks s and, when it holds, derives it. proved is false, with a
// nil error, when s does not follow.
func (st *State) Prove(s Statement) (id proof.ID, proved bool, err error) {
	ok, err := st.Check(s)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err = st.Why(s)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Stats reports the size of both closure tables.
func (st *State) Stats() (ratios, angles chase.Stats) {
	return st.Ratios.Stats(), st.Angles.Stats()
}
