package predicate

import (
	"math/big"

	"github.com/matzehuels/ratiochase/pkg/chase"
	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// eqratio3Patterns lists the primitives of eqratio3 A B C D M N as indexes
// into its arguments (A=0 B=1 C=2 D=3 M=4 N=5):
//
//	MA:MC = NB:ND
//	MA:AC = NB:BD
//	MC:AC = ND:BD
var eqratio3Patterns = [][]int{
	{4, 0, 4, 2, 5, 1, 5, 3},
	{4, 0, 0, 2, 1, 5, 1, 3},
	{4, 2, 0, 2, 5, 3, 1, 3},
}

// Decompose returns the primitive statements a statement stands for. A
// primitive statement decomposes to itself; eqratio3 A B C D M N decomposes
// to the three canonical eqratio statements
//
//	eqratio M A M C N B N D
//	eqratio M A A C B N B D
//	eqratio M C A C N D B D
//
// in that order.
func Decompose(s Statement) ([]Statement, error) {
	if s.Kind != EqRatio3 {
		if _, ok := s.Kind.spec(); !ok {
			return nil, errs.New(errs.ErrCodeUnknownPredicate, "unknown predicate %s", s.Kind)
		}
		return []Statement{s}, nil
	}
	if len(s.Args) != 6 {
		return nil, errArity(EqRatio3, len(s.Args))
	}
	out := make([]Statement, 0, len(eqratio3Patterns))
	for _, pattern := range eqratio3Patterns {
		args := make([]quantity.Point, len(pattern))
		for i, j := range pattern {
			args[i] = s.Args[j]
		}
		prim, ok := Preparse(EqRatio, args, nil)
		if !ok {
			return nil, errs.Wrap(errs.ErrCodeDegenerate, ErrDegenerate, "%s: primitive %v", s.Key(), args)
		}
		out = append(out, prim)
	}
	return out, nil
}

// Equations returns the linear equations a primitive statement asserts,
// interning its quantities in reg. Compound statements must be decomposed
// first.
//
// Two-segment predicates give one equation q(AB) - q(CD) = c. Predicates
// with k groups give k-1 equations relating every later group to the first
// one: q1 - q2 - q3 + q4 = 0.
func Equations(s Statement, reg *quantity.Registry) ([]*linear.Term, error) {
	sp, ok := s.Kind.spec()
	if !ok {
		return nil, errs.New(errs.ErrCodeUnknownPredicate, "unknown predicate %s", s.Kind)
	}
	if sp.compound {
		return nil, errs.New(errs.ErrCodeInternal, "%s is compound and has no equations of its own", s.Kind)
	}
	if !sp.arityOK(len(s.Args)) {
		return nil, errArity(s.Kind, len(s.Args))
	}
	return sp.equations(reg, s)
}

// quantities interns the segments of args, two points each.
func quantities(reg *quantity.Registry, kind quantity.Kind, args []quantity.Point) ([]quantity.ID, error) {
	ids := make([]quantity.ID, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		q, err := reg.Get(kind, args[i], args[i+1])
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeDegenerate, err, "segment %s%s", args[i], args[i+1])
		}
		ids = append(ids, q.ID)
	}
	return ids, nil
}

// constant turns a statement value into the right-hand side of an equation.
func constant(kind quantity.Kind, v *big.Rat) (linear.Const, error) {
	if v == nil {
		return linear.Zero(kind), nil
	}
	if kind == quantity.Angle {
		return linear.Angle(v), nil
	}
	c, err := linear.Ratio(v)
	if err != nil {
		return linear.Const{}, errs.Wrap(errs.ErrCodeInvalidValue, err, "ratio %s", v.RatString())
	}
	return c, nil
}

// pairEquation builds q(AB) - q(CD) = value(s). A nil value function means
// zero.
func pairEquation(value func(Statement) *big.Rat) func(*quantity.Registry, Statement) ([]*linear.Term, error) {
	return func(reg *quantity.Registry, s Statement) ([]*linear.Term, error) {
		kind := s.Kind.Table()
		ids, err := quantities(reg, kind, s.Args)
		if err != nil {
			return nil, err
		}
		var v *big.Rat
		if value != nil {
			v = value(s)
		}
		c, err := constant(kind, v)
		if err != nil {
			return nil, err
		}
		return []*linear.Term{linear.NewTerm(kind).AddInt(ids[0], 1).AddInt(ids[1], -1).WithConst(c)}, nil
	}
}

func groupEquations(reg *quantity.Registry, s Statement) ([]*linear.Term, error) {
	kind := s.Kind.Table()
	ids, err := quantities(reg, kind, s.Args)
	if err != nil {
		return nil, err
	}
	out := make([]*linear.Term, 0, len(ids)/2-1)
	for i := 2; i+1 < len(ids); i += 2 {
		out = append(out, chase.Relation(kind, ids[0], ids[1], ids[i], ids[i+1]))
	}
	return out, nil
}

// errArity builds the INVALID_STATEMENT error for a wrong point count.
func errArity(k Kind, n int) error {
	sp, _ := k.spec()
	return errs.New(errs.ErrCodeInvalidStatement, "%s expects %s, got %d", k, sp.arityText(), n)
}
