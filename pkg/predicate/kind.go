package predicate

import (
	"fmt"
	"math/big"

	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// Kind identifies a predicate.
type Kind uint8

// Supported predicates.
const (
	Cong Kind = iota
	RConst
	EqRatio
	EqRatio3
	Para
	Perp
	AConst
	EqAngle

	kindCount = iota
)

// spec describes one predicate. Every per-predicate behavior is driven by
// this table rather than by type switches spread over the package.
type spec struct {
	name  string
	table quantity.Kind

	// arity is the exact number of point arguments. When group is set the
	// predicate takes any multiple of group with at least two groups, and
	// arity is ignored.
	arity int
	group int

	valued   bool
	compound bool

	canon     func(args []quantity.Point, v *big.Rat) ([]quantity.Point, *big.Rat, bool)
	equations func(reg *quantity.Registry, s Statement) ([]*linear.Term, error)
	pretty    func(s Statement) string
}

var (
	specs  [kindCount]spec
	byName = make(map[string]Kind, kindCount)
)

// The table is filled in init because its functions refer back to it
// through Kind methods.
func init() {
	specs = [kindCount]spec{
		Cong: {
			name: "cong", table: quantity.Length, arity: 4,
			canon:     canonSegmentPair,
			equations: pairEquation(nil),
			pretty:    prettyCong,
		},
		RConst: {
			name: "rconst", table: quantity.Length, arity: 4, valued: true,
			canon:     canonRConst,
			equations: pairEquation(func(s Statement) *big.Rat { return s.Value }),
			pretty:    prettyRConst,
		},
		EqRatio: {
			name: "eqratio", table: quantity.Length, group: 4,
			canon:     canonGroups,
			equations: groupEquations,
			pretty:    prettyEqRatio,
		},
		EqRatio3: {
			name: "eqratio3", table: quantity.Length, arity: 6, compound: true,
			canon:  canonEqRatio3,
			pretty: prettyEqRatio3,
		},
		Para: {
			name: "para", table: quantity.Angle, arity: 4,
			canon:     canonSegmentPair,
			equations: pairEquation(nil),
			pretty:    prettyPara,
		},
		Perp: {
			name: "perp", table: quantity.Angle, arity: 4,
			canon:     canonSegmentPair,
			equations: pairEquation(func(Statement) *big.Rat { return big.NewRat(1, 2) }),
			pretty:    prettyPerp,
		},
		AConst: {
			name: "aconst", table: quantity.Angle, arity: 4, valued: true,
			canon:     canonAConst,
			equations: pairEquation(func(s Statement) *big.Rat { return s.Value }),
			pretty:    prettyAConst,
		},
		EqAngle: {
			name: "eqangle", table: quantity.Angle, group: 4,
			canon:     canonGroups,
			equations: groupEquations,
			pretty:    prettyEqAngle,
		},
	}
	for k, sp := range specs {
		byName[sp.name] = Kind(k)
	}
}

// Kinds returns every supported predicate in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(specs))
	for i := range specs {
		out[i] = Kind(i)
	}
	return out
}

// KindOf returns the predicate with the given statement token.
func KindOf(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

func (k Kind) spec() (*spec, bool) {
	if k >= kindCount {
		return nil, false
	}
	return &specs[k], true
}

// String returns the statement token of the predicate (eqratio, para, ...).
func (k Kind) String() string {
	if sp, ok := k.spec(); ok {
		return sp.name
	}
	return fmt.Sprintf("predicate(%d)", uint8(k))
}

// Table returns the quantity kind whose closure table the predicate lives in.
func (k Kind) Table() quantity.Kind {
	if sp, ok := k.spec(); ok {
		return sp.table
	}
	return quantity.Length
}

// IsCompound reports whether statements of this predicate are conjunctions
// of primitive statements (see Decompose).
func (k Kind) IsCompound() bool {
	sp, ok := k.spec()
	return ok && sp.compound
}

// HasValue reports whether statements carry a rational constant.
func (k Kind) HasValue() bool {
	sp, ok := k.spec()
	return ok && sp.valued
}

// arityOK reports whether n points fit the predicate.
func (sp *spec) arityOK(n int) bool {
	if sp.group > 0 {
		return n >= 2*sp.group && n%sp.group == 0
	}
	return n == sp.arity
}

// arityText describes the accepted point counts for error messages.
func (sp *spec) arityText() string {
	if sp.group > 0 {
		return fmt.Sprintf("a multiple of %d points (at least %d)", sp.group, 2*sp.group)
	}
	return fmt.Sprintf("%d points", sp.arity)
}
