package linear

import (
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strings"

	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// Term is the linear equation sum(coef*q) = Const over quantities of one
// kind. Builder methods mutate the receiver and return it for chaining.
type Term struct {
	kind  quantity.Kind
	coefs map[quantity.ID]*big.Rat
	c     Const
}

// NewTerm returns the empty equation 0 = 0 of the given kind.
func NewTerm(kind quantity.Kind) *Term {
	return &Term{kind: kind, coefs: make(map[quantity.ID]*big.Rat), c: Zero(kind)}
}

// Kind returns the kind of the quantities and constant of t.
func (t *Term) Kind() quantity.Kind { return t.kind }

// Add adds coef*q to the left-hand side. A coefficient that cancels to zero
// removes q from the term.
func (t *Term) Add(q quantity.ID, coef *big.Rat) *Term {
	sum := new(big.Rat).Add(t.Coef(q), coef)
	if sum.Sign() == 0 {
		delete(t.coefs, q)
	} else {
		t.coefs[q] = sum
	}
	return t
}

// AddInt is Add with an integer coefficient.
func (t *Term) AddInt(q quantity.ID, coef int64) *Term {
	return t.Add(q, big.NewRat(coef, 1))
}

// WithConst sets the right-hand side. It panics if c belongs to another kind.
func (t *Term) WithConst(c Const) *Term {
	if c.Kind() != t.kind {
		panic(fmt.Sprintf("linear: %s constant in %s term", c.Kind(), t.kind))
	}
	t.c = c
	return t
}

// Const returns the right-hand side.
func (t *Term) Const() Const { return t.c }

// Coef returns the coefficient of q, zero if q does not occur.
func (t *Term) Coef(q quantity.ID) *big.Rat {
	if c, ok := t.coefs[q]; ok {
		return new(big.Rat).Set(c)
	}
	return new(big.Rat)
}

// Quantities returns the quantities occurring in t in ascending id order.
func (t *Term) Quantities() []quantity.ID {
	return slices.Sorted(maps.Keys(t.coefs))
}

// Len returns the number of quantities with a non-zero coefficient.
func (t *Term) Len() int { return len(t.coefs) }

// IsTrivial reports whether t is 0 = 0.
func (t *Term) IsTrivial() bool { return len(t.coefs) == 0 && t.c.IsZero() }

// Clone returns a deep copy of t.
func (t *Term) Clone() *Term {
	c := &Term{kind: t.kind, coefs: make(map[quantity.ID]*big.Rat, len(t.coefs)), c: t.c}
	for q, v := range t.coefs {
		c.coefs[q] = new(big.Rat).Set(v)
	}
	return c
}

// AddScaled returns the new term t + k*o. ok is false when the kinds differ
// or k*o's constant is undefined (a non-integer multiple of an angle).
func (t *Term) AddScaled(o *Term, k *big.Rat) (_ *Term, ok bool) {
	if t.kind != o.kind {
		return nil, false
	}
	kc, ok := o.c.Mul(k)
	if !ok {
		return nil, false
	}
	out := t.Clone()
	for q, v := range o.coefs {
		out.Add(q, new(big.Rat).Mul(v, k))
	}
	out.c = out.c.Add(kc)
	return out, true
}

// Equal reports whether t and o are the same equation written the same way.
// Scaled copies of an equation are not Equal.
func (t *Term) Equal(o *Term) bool {
	return t.kind == o.kind && t.c.Equal(o.c) &&
		maps.EqualFunc(t.coefs, o.coefs, func(a, b *big.Rat) bool { return a.Cmp(b) == 0 })
}

// String renders t with raw quantity ids, e.g. "q1 - q2 = log(2)".
func (t *Term) String() string {
	return t.Format(func(q quantity.ID) string { return fmt.Sprintf("q%d", q) })
}

// Format renders t using name to print quantities.
func (t *Term) Format(name func(quantity.ID) string) string {
	var b strings.Builder
	for i, q := range t.Quantities() {
		c := t.coefs[q]
		abs := new(big.Rat).Abs(c)
		switch {
		case i == 0 && c.Sign() < 0:
			b.WriteString("-")
		case i > 0 && c.Sign() < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		if abs.Cmp(big.NewRat(1, 1)) != 0 {
			b.WriteString(abs.RatString())
			b.WriteString("*")
		}
		b.WriteString(name(q))
	}
	if b.Len() == 0 {
		b.WriteString("0")
	}
	b.WriteString(" = ")
	b.WriteString(t.c.String())
	return b.String()
}
