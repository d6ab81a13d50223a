package chase

import (
	"errors"
	"maps"
	"math/big"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// components is a plain union-find used as the reference for connectivity.
type components []int

func newComponents(n int) components {
	c := make(components, n)
	for i := range c {
		c[i] = i
	}
	return c
}

func (c components) find(x int) int {
	for c[x] != x {
		x = c[x]
	}
	return x
}

func (c components) union(x, y int) { c[c.find(x)] = c.find(y) }

func randomValue(rng *rand.Rand, kind quantity.Kind) linear.Const {
	if kind == quantity.Angle {
		return angle(int64(rng.IntN(12)), 12)
	}
	r := big.NewRat(1, 1)
	for _, p := range []int64{2, 3, 5} {
		e := rng.IntN(7) - 3
		for range max(e, -e) {
			if e > 0 {
				r.Mul(r, big.NewRat(p, 1))
			} else {
				r.Mul(r, big.NewRat(1, p))
			}
		}
	}
	return linear.MustRatio(r)
}

// offBy returns a constant that is never a difference of two randomValues.
func offBy(kind quantity.Kind) linear.Const {
	if kind == quantity.Angle {
		return angle(1, 7)
	}
	return ratio(7, 1)
}

type system struct {
	kind   quantity.Kind
	values []linear.Const
	table  *Table
	ref    components
	terms  map[proof.ID]*linear.Term
}

// randomSystem asserts random pairwise equations that agree with a hidden
// assignment of values to n quantities.
func randomSystem(t *testing.T, seed uint64, kind quantity.Kind, n, facts int) *system {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, uint64(kind)))
	s := &system{
		kind:   kind,
		values: make([]linear.Const, n),
		table:  New(kind),
		ref:    newComponents(n),
		terms:  make(map[proof.ID]*linear.Term),
	}
	for i := range s.values {
		s.values[i] = randomValue(rng, kind)
	}
	for f := range facts {
		i, j := rng.IntN(n), rng.IntN(n)
		if i == j {
			continue
		}
		term := s.truth(i, j)
		if err := s.table.Add(term, proof.ID(f)); err != nil {
			t.Fatalf("seed %d: consistent fact %d rejected: %v", seed, f, err)
		}
		s.terms[proof.ID(f)] = term
		s.ref.union(i, j)
	}
	return s
}

func (s *system) truth(i, j int) *linear.Term {
	return diff(s.kind, quantity.ID(i), quantity.ID(j), s.values[i].Sub(s.values[j]))
}

func TestRandomConsistentSystems(t *testing.T) {
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		for seed := uint64(1); seed <= 25; seed++ {
			s := randomSystem(t, seed, kind, 10, 12)
			for i := range s.values {
				for j := range s.values {
					if i == j {
						continue
					}
					want := s.ref.find(i) == s.ref.find(j)
					if got := s.table.Holds(s.truth(i, j)); got != want {
						t.Errorf("%s seed %d: Holds(q%d - q%d) = %v, want %v", kind, seed, i, j, got, want)
					}
					wrong := diff(kind, quantity.ID(i), quantity.ID(j), s.values[i].Sub(s.values[j]).Add(offBy(kind)))
					if s.table.Holds(wrong) {
						t.Errorf("%s seed %d: false relation q%d - q%d holds", kind, seed, i, j)
					}
				}
			}
		}
	}
}

func TestRandomInconsistentSystems(t *testing.T) {
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		for seed := uint64(1); seed <= 25; seed++ {
			s := randomSystem(t, seed, kind, 8, 10)
			for i := range s.values {
				for j := i + 1; j < len(s.values); j++ {
					wrong := diff(kind, quantity.ID(i), quantity.ID(j), s.values[i].Sub(s.values[j]).Add(offBy(kind)))
					err := s.table.Clone().Add(wrong, 100)
					if connected := s.ref.find(i) == s.ref.find(j); connected != errors.Is(err, ErrContradiction) {
						t.Errorf("%s seed %d: adding a false q%d - q%d: connected=%v, err=%v", kind, seed, i, j, connected, err)
					}
				}
			}
		}
	}
}

func TestExplainReplay(t *testing.T) {
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		for seed := uint64(1); seed <= 25; seed++ {
			s := randomSystem(t, seed, kind, 10, 14)
			for i := range s.values {
				for j := range s.values {
					goal := s.truth(i, j)
					if i == j || !s.table.Holds(goal) {
						continue
					}
					facts := s.table.Explain(goal)
					replay := New(kind)
					for _, f := range slices.Sorted(slices.Values(facts)) {
						term, ok := s.terms[f]
						if !ok {
							t.Fatalf("%s seed %d: explanation cites unknown fact %d", kind, seed, f)
						}
						if err := replay.Add(term, f); err != nil {
							t.Fatalf("%s seed %d: replay: %v", kind, seed, err)
						}
					}
					if !replay.Holds(goal) {
						t.Errorf("%s seed %d: q%d - q%d does not hold after replaying %v", kind, seed, i, j, facts)
					}
				}
			}
		}
	}
}

func TestExplainReplayEqualRatios(t *testing.T) {
	tbl := New(quantity.Length)
	terms := []*linear.Term{
		tbl.Relation(ab, cd, ef, gh),
		diff(quantity.Length, cd, 4, ratio(1, 3)),
		diff(quantity.Length, ab, 4, ratio(2, 3)),
	}
	for i, term := range terms {
		if err := tbl.Add(term, proof.ID(i)); err != nil {
			t.Fatal(err)
		}
	}
	goal := diff(quantity.Length, ef, gh, ratio(2, 1))
	facts := tbl.Explain(goal)
	if len(facts) != 3 {
		t.Fatalf("Explain = %v, want all three facts", facts)
	}
	replay := New(quantity.Length)
	for _, f := range slices.Sorted(slices.Values(facts)) {
		replay.Add(terms[f], f)
	}
	if !replay.Holds(goal) {
		t.Error("replay does not reproduce EF:GH = 2")
	}
}

// span is a reference row space over the rationals, kept as dense rows in
// reduced echelon form. It ignores constants.
type span struct {
	n    int
	rows [][]*big.Rat
	lead []int
}

func (s *span) vector(term *linear.Term) []*big.Rat {
	v := make([]*big.Rat, s.n)
	for i := range v {
		v[i] = term.Coef(quantity.ID(i))
	}
	return v
}

// reduce eliminates the lead columns of s from v in place and reports
// whether anything is left.
func (s *span) reduce(v []*big.Rat) bool {
	for r, row := range s.rows {
		k := new(big.Rat).Quo(v[s.lead[r]], row[s.lead[r]])
		for i := range v {
			v[i].Sub(v[i], new(big.Rat).Mul(k, row[i]))
		}
	}
	return slices.ContainsFunc(v, func(x *big.Rat) bool { return x.Sign() != 0 })
}

func (s *span) add(term *linear.Term) {
	v := s.vector(term)
	if !s.reduce(v) {
		return
	}
	lead := slices.IndexFunc(v, func(x *big.Rat) bool { return x.Sign() != 0 })
	for r, row := range s.rows {
		k := new(big.Rat).Quo(row[lead], v[lead])
		for i := range row {
			row[i].Sub(row[i], new(big.Rat).Mul(k, v[i]))
		}
		s.rows[r] = row
	}
	s.rows = append(s.rows, v)
	s.lead = append(s.lead, lead)
}

func (s *span) contains(term *linear.Term) bool { return !s.reduce(s.vector(term)) }

// relationSystem asserts random equal-ratio (or equal-angle) relations and
// a few pairwise equations, all true under a hidden assignment.
func relationSystem(t *testing.T, seed uint64, kind quantity.Kind, n, facts int) (*system, *span) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 100+uint64(kind)))
	s := &system{
		kind:   kind,
		values: make([]linear.Const, n),
		table:  New(kind),
		terms:  make(map[proof.ID]*linear.Term),
	}
	for i := range s.values {
		s.values[i] = randomValue(rng, kind)
	}
	ref := &span{n: n}
	for f := range facts {
		var term *linear.Term
		if rng.IntN(5) == 0 {
			term = s.truth(rng.IntN(n), rng.IntN(n))
		} else {
			term = s.relation(rng.IntN(n), rng.IntN(n), rng.IntN(n), rng.IntN(n))
		}
		if term.Len() == 0 {
			continue
		}
		if err := s.table.Add(term, proof.ID(f)); err != nil {
			t.Fatalf("%s seed %d: consistent fact %d (%v) rejected: %v", kind, seed, f, term, err)
		}
		s.terms[proof.ID(f)] = term
		ref.add(term)
	}
	return s, ref
}

// relation returns q_i - q_j - q_k + q_l with its true constant.
func (s *system) relation(i, j, k, l int) *linear.Term {
	c := s.values[i].Sub(s.values[j]).Sub(s.values[k]).Add(s.values[l])
	return Relation(s.kind, quantity.ID(i), quantity.ID(j), quantity.ID(k), quantity.ID(l)).WithConst(c)
}

func (s *system) queries(rng *rand.Rand, count int) []*linear.Term {
	n := len(s.values)
	var out []*linear.Term
	for range count {
		if q := s.relation(rng.IntN(n), rng.IntN(n), rng.IntN(n), rng.IntN(n)); q.Len() > 0 {
			out = append(out, q)
		}
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			out = append(out, s.truth(i, j))
		}
	}
	return out
}

// combination returns a random integer combination of the asserted terms.
func (s *system) combination(rng *rand.Rand) *linear.Term {
	out := linear.NewTerm(s.kind)
	for _, f := range slices.Sorted(maps.Keys(s.terms)) {
		k := int64(rng.IntN(5) - 2)
		if k == 0 || rng.IntN(3) > 0 {
			continue
		}
		out, _ = out.AddScaled(s.terms[f], big.NewRat(k, 1))
	}
	return out
}

// wrongBy returns term with its constant shifted off the truth.
func wrongBy(term *linear.Term) *linear.Term {
	return term.Clone().WithConst(term.Const().Add(offBy(term.Kind())))
}

func TestRandomRelationSystems(t *testing.T) {
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		for seed := uint64(1); seed <= 30; seed++ {
			s, ref := relationSystem(t, seed, kind, 8, 7)
			rng := rand.New(rand.NewPCG(seed, 7))

			for _, q := range s.queries(rng, 40) {
				got, inSpan := s.table.Holds(q), ref.contains(q)
				// Every rational combination is implied for lengths; angle
				// equations are only implied by integer combinations, so the
				// rank test is an upper bound there.
				if kind == quantity.Length && got != inSpan {
					t.Errorf("%s seed %d: Holds(%v) = %v, rank test says %v", kind, seed, q, got, inSpan)
				}
				if got && !inSpan {
					t.Errorf("%s seed %d: Holds(%v) outside the row space", kind, seed, q)
				}
				if s.table.Holds(wrongBy(q)) {
					t.Errorf("%s seed %d: false %v holds", kind, seed, wrongBy(q))
				}
			}

			for range 20 {
				c := s.combination(rng)
				if c.Len() == 0 {
					continue
				}
				if !s.table.Holds(c) {
					t.Errorf("%s seed %d: integer combination %v does not hold", kind, seed, c)
				}
			}
		}
	}
}

func TestRandomInconsistentRelationSystems(t *testing.T) {
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		for seed := uint64(1); seed <= 30; seed++ {
			s, ref := relationSystem(t, seed, kind, 8, 7)
			rng := rand.New(rand.NewPCG(seed, 11))

			for _, q := range s.queries(rng, 30) {
				err := s.table.Clone().Add(wrongBy(q), 100)
				switch {
				case s.table.Holds(q):
					if !errors.Is(err, ErrContradiction) {
						t.Errorf("%s seed %d: false %v accepted: %v", kind, seed, wrongBy(q), err)
					}
				case !ref.contains(q):
					if err != nil {
						t.Errorf("%s seed %d: independent %v rejected: %v", kind, seed, wrongBy(q), err)
					}
				}
			}
		}
	}
}

func TestExplainReplayRelations(t *testing.T) {
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		for seed := uint64(1); seed <= 30; seed++ {
			s, _ := relationSystem(t, seed, kind, 8, 7)
			rng := rand.New(rand.NewPCG(seed, 13))

			for _, q := range s.queries(rng, 40) {
				if !s.table.Holds(q) {
					continue
				}
				facts := s.table.Explain(q)
				replay := New(kind)
				for _, f := range slices.Sorted(slices.Values(facts)) {
					term, ok := s.terms[f]
					if !ok {
						t.Fatalf("%s seed %d: explanation cites unknown fact %d", kind, seed, f)
					}
					if err := replay.Add(term, f); err != nil {
						t.Fatalf("%s seed %d: replay: %v", kind, seed, err)
					}
				}
				if !replay.Holds(q) {
					t.Errorf("%s seed %d: %v does not hold after replaying %v", kind, seed, q, facts)
				}
			}
		}
	}
}
