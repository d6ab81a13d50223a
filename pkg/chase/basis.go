package chase

import (
	"math/big"
	"slices"

	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// row is an equation over class representatives. The table keeps its
// pending relations as rows in echelon form: every row of the basis has a
// different lead column.
//
// raw is the same equation over quantities, written as a combination of
// asserted terms, and facts lists the facts asserting those terms. mult is
// the multiple of the equation being inserted that the row contains; it is
// only meaningful during insert.
type row struct {
	coefs map[int]*big.Rat
	c     linear.Const
	raw   *linear.Term
	facts []proof.ID
	mult  *big.Rat
}

// lead returns the smallest column with a non-zero coefficient, or -1.
func (r row) lead() int {
	lead := -1
	for col := range r.coefs {
		if lead < 0 || col < lead {
			lead = col
		}
	}
	return lead
}

func (r row) empty() bool { return len(r.coefs) == 0 }

// combine returns x*a + y*b. ok is false when a constant multiple is
// undefined, that is for non-integer multiples of angles.
func combine(a row, x *big.Rat, b row, y *big.Rat) (row, bool) {
	ac, ok1 := a.c.Mul(x)
	bc, ok2 := b.c.Mul(y)
	if !ok1 || !ok2 {
		return row{}, false
	}
	raw, ok := linear.NewTerm(a.raw.Kind()).AddScaled(a.raw, x)
	if ok {
		raw, ok = raw.AddScaled(b.raw, y)
	}
	if !ok {
		return row{}, false
	}

	out := row{coefs: make(map[int]*big.Rat, len(a.coefs)+len(b.coefs)), c: ac.Add(bc), raw: raw}
	for col, v := range a.coefs {
		addCoef(out.coefs, col, new(big.Rat).Mul(v, x))
	}
	for col, v := range b.coefs {
		addCoef(out.coefs, col, new(big.Rat).Mul(v, y))
	}
	out.mult = new(big.Rat).Mul(ratOrZero(a.mult), x)
	out.mult.Add(out.mult, new(big.Rat).Mul(ratOrZero(b.mult), y))

	if x.Sign() != 0 {
		out.facts = append(out.facts, a.facts...)
	}
	if y.Sign() != 0 {
		out.facts = append(out.facts, b.facts...)
	}
	out.facts = dedupe(out.facts)
	slices.Sort(out.facts)
	return out, true
}

func addCoef(m map[int]*big.Rat, col int, v *big.Rat) {
	sum := new(big.Rat).Add(ratOrZero(m[col]), v)
	if sum.Sign() == 0 {
		delete(m, col)
		return
	}
	m[col] = sum
}

// pivotOf returns the index of the basis row leading at col.
func pivotOf(basis []row, col int) (int, bool) {
	return slices.BinarySearchFunc(basis, col, func(r row, col int) int { return r.lead() - col })
}

var one = big.NewRat(1, 1)

// member reduces v by the basis rows. The result is empty exactly when the
// left-hand side of v is an admissible combination of basis rows: any
// rational one for lengths, an integer one for angles.
func (t *Table) member(v row) (row, bool) {
	for {
		col := v.lead()
		if col < 0 {
			return v, true
		}
		i, found := pivotOf(t.basis, col)
		if !found {
			return v, true
		}
		b := t.basis[i]
		k := new(big.Rat).Quo(v.coefs[col], b.coefs[col])
		if t.kind == quantity.Angle && !k.IsInt() {
			return v, true
		}
		var ok bool
		if v, ok = combine(v, one, b, k.Neg(k)); !ok {
			return v, false
		}
	}
}

// insert adds v to a copy of the basis. It returns the new basis, the
// remainder of v and whether the basis changed. An empty remainder means v
// reduced to 0 = left.c against the rows; a non-zero constant there is a
// contradiction.
//
// Length rows are eliminated over the rationals. Angle constants are only
// defined modulo pi, so angle rows are combined with integer unimodular
// steps (extended gcd of the two lead coefficients), which keep the set of
// integer combinations unchanged.
func (t *Table) insert(v row) (basis []row, left row, changed, ok bool) {
	basis = slices.Clone(t.basis)
	for {
		col := v.lead()
		if col < 0 {
			return basis, v, changed, true
		}
		i, found := pivotOf(basis, col)
		if !found {
			return slices.Insert(basis, i, v), row{}, true, true
		}

		b := basis[i]
		p, q := b.coefs[col], v.coefs[col]
		k := new(big.Rat).Quo(q, p)
		if t.kind == quantity.Length || k.IsInt() {
			if v, ok = combine(v, one, b, k.Neg(k)); !ok {
				return nil, row{}, false, false
			}
			continue
		}

		// Angle rows have integer coefficients.
		x, y := new(big.Int), new(big.Int)
		g := new(big.Int).GCD(x, y, p.Num(), q.Num())
		nb, ok1 := combine(b, new(big.Rat).SetInt(x), v, new(big.Rat).SetInt(y))
		nv, ok2 := combine(b, new(big.Rat).SetFrac(q.Num(), g), v, new(big.Rat).SetFrac(new(big.Int).Neg(p.Num()), g))
		if !ok1 || !ok2 {
			return nil, row{}, false, false
		}
		basis[i], v, changed = nb, nv, true
	}
}

// rowOf returns the reduced form of term asserted by fact.
func (t *Table) rowOf(term *linear.Term, n normal, fact proof.ID) row {
	return row{coefs: n.coefs, c: n.c, raw: term.Clone(), facts: []proof.ID{fact}, mult: big.NewRat(1, 1)}
}

// commit stores basis, dropping insert bookkeeping.
func (t *Table) commit(basis []row) {
	for i := range basis {
		basis[i].mult = nil
	}
	t.basis = basis
}

// rebuild recomputes the basis from the pending relations after a merge
// changed the class representatives.
func (t *Table) rebuild() error {
	t.basis = nil
	for _, p := range t.pending {
		n, ok := t.reduce(p.term)
		if !ok {
			continue
		}
		basis, left, changed, ok := t.insert(t.rowOf(p.term, n, p.fact))
		if !ok {
			continue
		}
		if left.empty() && !left.c.IsZero() {
			return t.contradiction(p.term, p.fact, left)
		}
		if changed {
			t.commit(basis)
		}
	}
	return nil
}

// solve reduces term to representatives and then by the basis. ok reports
// whether the result is 0 = 0, that is whether term holds.
func (t *Table) solve(term *linear.Term) (row, bool) {
	if term.Kind() != t.kind {
		return row{}, false
	}
	n, ok := t.reduce(term)
	if !ok {
		return row{}, false
	}
	v, ok := t.member(row{coefs: n.coefs, c: n.c, raw: term.Clone()})
	return v, ok && v.empty() && v.c.IsZero()
}
