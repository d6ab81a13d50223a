package chase

import (
	"errors"
	"math/big"
	"slices"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

var (
	// ErrKindMismatch is returned when an equation of one kind is added to
	// the table of another kind.
	ErrKindMismatch = errors.New("equation kind does not match table")

	// ErrUnsupportedCoefficient is returned for angle equations with
	// non-integer coefficients, whose constants are not defined modulo pi.
	ErrUnsupportedCoefficient = errors.New("unsupported coefficient")
)

type node struct {
	parent int
	rank   int
	off    linear.Const // value(node) - value(parent)
	facts  []proof.ID   // asserting fact and the facts used to reduce it, ascending
}

type pending struct {
	term *linear.Term
	fact proof.ID
}

// normal is an equation reduced to class representatives.
type normal struct {
	coefs map[int]*big.Rat
	c     linear.Const
}

// Table is the closure table for one quantity kind. The zero value is not
// usable; use New. A Table is not safe for concurrent use.
type Table struct {
	kind      quantity.Kind
	nodes     []node
	pending   []pending
	basis     []row // pending relations in echelon form
	redundant []proof.ID
	links     int
}

// New returns an empty table for quantities of kind.
func New(kind quantity.Kind) *Table {
	return &Table{kind: kind}
}

// Kind returns the quantity kind the table works on.
func (t *Table) Kind() quantity.Kind { return t.kind }

// Relation returns the equation q1 - q2 - q3 + q4 = 0 of the given kind:
// the ratio (or angle) of q1 and q2 equals that of q3 and q4.
func Relation(kind quantity.Kind, q1, q2, q3, q4 quantity.ID) *linear.Term {
	return linear.NewTerm(kind).AddInt(q1, 1).AddInt(q2, -1).AddInt(q3, -1).AddInt(q4, 1)
}

// Relation is the package level Relation for the table's kind. It does not
// touch the table.
func (t *Table) Relation(q1, q2, q3, q4 quantity.ID) *linear.Term {
	return Relation(t.kind, q1, q2, q3, q4)
}

func (t *Table) ensure(q quantity.ID) {
	for i := len(t.nodes); i <= int(q); i++ {
		t.nodes = append(t.nodes, node{parent: i, off: linear.Zero(t.kind)})
	}
}

// find returns the root of q and value(q) - value(root).
func (t *Table) find(q int) (int, linear.Const) {
	off := linear.Zero(t.kind)
	for q < len(t.nodes) && t.nodes[q].parent != q {
		off = off.Add(t.nodes[q].off)
		q = t.nodes[q].parent
	}
	return q, off
}

func (t *Table) reduce(term *linear.Term) (normal, bool) {
	n := normal{coefs: make(map[int]*big.Rat)}
	shift := linear.Zero(t.kind)
	for _, q := range term.Quantities() {
		c := term.Coef(q)
		root, off := t.find(int(q))
		scaled, ok := off.Mul(c)
		if !ok {
			return normal{}, false
		}
		shift = shift.Add(scaled)
		sum := new(big.Rat).Add(ratOrZero(n.coefs[root]), c)
		if sum.Sign() == 0 {
			delete(n.coefs, root)
		} else {
			n.coefs[root] = sum
		}
	}
	n.c = term.Const().Sub(shift)
	return n, true
}

func ratOrZero(r *big.Rat) *big.Rat {
	if r == nil {
		return new(big.Rat)
	}
	return r
}

// Add asserts term, justified by fact.
//
// It returns a *Contradiction if the term is inconsistent with the
// equations added so far, ErrKindMismatch for a term of the wrong kind and
// ErrUnsupportedCoefficient for angle terms with non-integer coefficients.
// Redundant equations are accepted and recorded. A rejected term leaves the
// table unchanged.
func (t *Table) Add(term *linear.Term, fact proof.ID) error {
	if term.Kind() != t.kind {
		return errs.Wrap(errs.ErrCodeInternal, ErrKindMismatch, "%s equation in %s table", term.Kind(), t.kind)
	}
	n, ok := t.reduce(term)
	if !ok {
		return errs.Wrap(errs.ErrCodeUnsupported, ErrUnsupportedCoefficient, "%s", term)
	}
	basis, left, changed, ok := t.insert(t.rowOf(term, n, fact))
	if !ok {
		return errs.Wrap(errs.ErrCodeUnsupported, ErrUnsupportedCoefficient, "%s", term)
	}
	if left.empty() && !left.c.IsZero() {
		return t.contradiction(term, fact, left)
	}
	if !changed {
		t.redundant = append(t.redundant, fact)
		return nil
	}

	for _, q := range term.Quantities() {
		t.ensure(q)
	}
	if t.tryLink(term, fact, n) {
		return t.promote()
	}
	t.pending = append(t.pending, pending{term: term.Clone(), fact: fact})
	t.commit(basis)
	return nil
}

// tryLink merges the two classes of a reduced equation c*r1 - c*r2 = k.
func (t *Table) tryLink(term *linear.Term, fact proof.ID, n normal) bool {
	if len(n.coefs) != 2 {
		return false
	}
	roots := make([]int, 0, 2)
	for r := range n.coefs {
		roots = append(roots, r)
	}
	slices.Sort(roots)
	r1, r2 := roots[0], roots[1]
	a := n.coefs[r1]
	if new(big.Rat).Add(a, n.coefs[r2]).Sign() != 0 {
		return false
	}
	d, ok := n.c.Div(a)
	if !ok {
		return false
	}
	// The roots carry no parent edge, so the facts the term flows through
	// are exactly the ones used to reduce it.
	facts := dedupe(append(t.flowFacts(term), fact))
	slices.Sort(facts)
	t.link(r1, r2, d, facts)
	return true
}

// link merges roots r1 and r2 given value(r1) - value(r2) = d.
func (t *Table) link(r1, r2 int, d linear.Const, facts []proof.ID) {
	t.links++
	a, b := &t.nodes[r1], &t.nodes[r2]
	if a.rank < b.rank {
		a.parent, a.off, a.facts = r2, d, facts
		return
	}
	b.parent, b.off, b.facts = r1, d.Neg(), facts
	if a.rank == b.rank {
		a.rank++
	}
}

// promote merges every pending relation that became representable and
// rebuilds the basis from the rest.
func (t *Table) promote() error {
	for changed := true; changed; {
		changed = false
		var keep []pending
		for i, p := range t.pending {
			n, ok := t.reduce(p.term)
			switch {
			case !ok:
				keep = append(keep, p)
			case len(n.coefs) == 0:
				if !n.c.IsZero() {
					t.pending = append(keep, t.pending[i+1:]...)
					return t.contradiction(p.term, p.fact, t.rowOf(p.term, n, p.fact))
				}
			case t.tryLink(p.term, p.fact, n):
				changed = true
			default:
				keep = append(keep, p)
			}
		}
		t.pending = keep
	}
	return t.rebuild()
}

// Holds reports whether term follows from the asserted equations: after
// substituting class representatives its left-hand side is a combination
// of pending relations with the same constant. Angle combinations must be
// integer ones, since k*x = c modulo pi does not determine x.
func (t *Table) Holds(term *linear.Term) bool {
	_, ok := t.solve(term)
	return ok
}

// Explain returns the facts term follows from, or nil if it does not hold.
// The result is deduplicated: the facts of the pending relations combined,
// ascending, then the facts of the parent edges the rest of the term flows
// through, in ascending quantity order.
func (t *Table) Explain(term *linear.Term) []proof.ID {
	v, ok := t.solve(term)
	if !ok {
		return nil
	}
	return dedupe(append(v.facts, t.flowFacts(v.raw)...))
}

// flowFacts returns the facts of every parent edge that term's
// coefficients flow through with a non-zero net amount.
func (t *Table) flowFacts(term *linear.Term) []proof.ID {
	flow := make(map[int]*big.Rat)
	var order []int
	for _, q := range term.Quantities() {
		c := term.Coef(q)
		for x := int(q); x < len(t.nodes) && t.nodes[x].parent != x; x = t.nodes[x].parent {
			f, ok := flow[x]
			if !ok {
				f = new(big.Rat)
				flow[x] = f
				order = append(order, x)
			}
			f.Add(f, c)
		}
	}
	var facts []proof.ID
	for _, x := range order {
		if flow[x].Sign() != 0 {
			facts = append(facts, t.nodes[x].facts...)
		}
	}
	return dedupe(facts)
}

func dedupe(ids []proof.ID) []proof.ID {
	seen := make(map[proof.ID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Connected reports whether q1 and q2 are in the same class, that is
// whether q1 - q2 is known.
func (t *Table) Connected(q1, q2 quantity.ID) bool {
	r1, _ := t.find(int(q1))
	r2, _ := t.find(int(q2))
	return r1 == r2
}

// Clone returns an independent copy of the table. Offsets, edge facts,
// pending equations and basis rows are never mutated once stored, so they
// are shared.
func (t *Table) Clone() *Table {
	return &Table{
		kind:      t.kind,
		nodes:     slices.Clone(t.nodes),
		pending:   slices.Clone(t.pending),
		basis:     slices.Clone(t.basis),
		redundant: slices.Clone(t.redundant),
		links:     t.links,
	}
}

// Stats summarizes the table's size.
type Stats struct {
	Quantities int // quantities seen by Add
	Classes    int // classes among them
	Links      int // merges performed
	Pending    int // equations not yet representable
	Redundant  int // equations that were already implied
}

// Stats returns the current size of the table.
func (t *Table) Stats() Stats {
	s := Stats{
		Quantities: len(t.nodes),
		Links:      t.links,
		Pending:    len(t.pending),
		Redundant:  len(t.redundant),
	}
	for i, n := range t.nodes {
		if n.parent == i {
			s.Classes++
		}
	}
	return s
}

// Redundant returns the facts whose equations were already implied when
// they were added.
func (t *Table) Redundant() []proof.ID { return slices.Clone(t.redundant) }
