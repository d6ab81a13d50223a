package chase

import (
	"errors"
	"math/big"
	"slices"
	"testing"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// Quantity ids used as |ab|, |cd|, |ef|, |gh| in the scenarios below.
const (
	ab quantity.ID = iota
	cd
	ef
	gh
)

func ratio(n, d int64) linear.Const { return linear.MustRatio(big.NewRat(n, d)) }

func angle(n, d int64) linear.Const { return linear.Angle(big.NewRat(n, d)) }

// diff returns q1 - q2 = c.
func diff(kind quantity.Kind, q1, q2 quantity.ID, c linear.Const) *linear.Term {
	return linear.NewTerm(kind).AddInt(q1, 1).AddInt(q2, -1).WithConst(c)
}

func TestRelation(t *testing.T) {
	tbl := New(quantity.Length)
	term := tbl.Relation(ab, cd, ef, gh)
	want := linear.NewTerm(quantity.Length).AddInt(ab, 1).AddInt(cd, -1).AddInt(ef, -1).AddInt(gh, 1)
	if !term.Equal(want) {
		t.Errorf("Relation = %v, want %v", term, want)
	}
	if tbl.Stats().Quantities != 0 {
		t.Error("Relation touched the table")
	}
	if got := tbl.Relation(ab, cd, cd, ab); got.Coef(ab).Cmp(big.NewRat(2, 1)) != 0 {
		t.Errorf("repeated quantities should accumulate, got %v", got)
	}
}

func TestEqualRatiosFromSameConstant(t *testing.T) {
	tbl := New(quantity.Length)
	if err := tbl.Add(diff(quantity.Length, ab, cd, ratio(5, 3)), 0); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Add(diff(quantity.Length, ef, gh, ratio(5, 3)), 1); err != nil {
		t.Fatal(err)
	}

	goal := tbl.Relation(ab, cd, ef, gh)
	if !tbl.Holds(goal) {
		t.Fatal("AB:CD = EF:GH should hold")
	}
	if got := tbl.Explain(goal); !slices.Equal(got, []proof.ID{0, 1}) {
		t.Errorf("Explain = %v, want [0 1]", got)
	}
}

func TestConflictingRatios(t *testing.T) {
	tbl := New(quantity.Length)
	if err := tbl.Add(diff(quantity.Length, ab, cd, ratio(2, 1)), 0); err != nil {
		t.Fatal(err)
	}
	err := tbl.Add(diff(quantity.Length, ab, cd, ratio(3, 1)), 1)
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("error = %v, want ErrContradiction", err)
	}
	if !errs.Is(err, errs.ErrCodeContradiction) {
		t.Errorf("code = %q, want CONTRADICTION", errs.GetCode(err))
	}
	var c *Contradiction
	if !errors.As(err, &c) {
		t.Fatal("error is not a *Contradiction")
	}
	if c.Fact != 1 || !slices.Equal(c.Support, []proof.ID{0}) {
		t.Errorf("Fact = %d, Support = %v; want 1, [0]", c.Fact, c.Support)
	}
	if !c.Stated.Equal(ratio(3, 1)) || !c.Implied.Equal(ratio(2, 1)) {
		t.Errorf("Stated = %v, Implied = %v", c.Stated, c.Implied)
	}
	if !tbl.Holds(diff(quantity.Length, ab, cd, ratio(2, 1))) {
		t.Error("rejected fact changed the table")
	}
}

func TestRedundant(t *testing.T) {
	tbl := New(quantity.Length)
	tbl.Add(diff(quantity.Length, ab, cd, ratio(2, 1)), 0)
	tbl.Add(diff(quantity.Length, cd, ef, ratio(3, 1)), 1)
	if err := tbl.Add(diff(quantity.Length, ab, ef, ratio(6, 1)), 2); err != nil {
		t.Fatalf("implied fact rejected: %v", err)
	}
	if got := tbl.Redundant(); !slices.Equal(got, []proof.ID{2}) {
		t.Errorf("Redundant() = %v, want [2]", got)
	}
	if got := tbl.Explain(diff(quantity.Length, ab, ef, ratio(6, 1))); !slices.Equal(got, []proof.ID{0, 1}) {
		t.Errorf("Explain = %v, want [0 1]", got)
	}
}

func TestPendingPromotion(t *testing.T) {
	tbl := New(quantity.Length)
	// AB:CD = EF:GH before anything is known about either ratio.
	if err := tbl.Add(tbl.Relation(ab, cd, ef, gh), 0); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Stats().Pending; got != 1 {
		t.Fatalf("Pending = %d, want 1", got)
	}
	if tbl.Holds(diff(quantity.Length, ef, gh, ratio(2, 1))) {
		t.Fatal("EF:GH = 2 should not hold yet")
	}

	if err := tbl.Add(diff(quantity.Length, ab, cd, ratio(2, 1)), 1); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Stats().Pending; got != 0 {
		t.Errorf("Pending = %d after promotion, want 0", got)
	}
	goal := diff(quantity.Length, ef, gh, ratio(2, 1))
	if !tbl.Holds(goal) {
		t.Fatal("EF:GH = 2 should hold after promotion")
	}
	if got := tbl.Explain(goal); !slices.Equal(got, []proof.ID{0, 1}) {
		t.Errorf("Explain = %v, want [0 1]", got)
	}
}

func TestPendingMatch(t *testing.T) {
	tbl := New(quantity.Length)
	rel := tbl.Relation(ab, cd, ef, gh)
	tbl.Add(rel, 7)

	neg, _ := linear.NewTerm(quantity.Length).AddScaled(rel, big.NewRat(-1, 1))
	double, _ := linear.NewTerm(quantity.Length).AddScaled(rel, big.NewRat(2, 1))
	for _, term := range []*linear.Term{rel, neg, double} {
		if !tbl.Holds(term) {
			t.Errorf("Holds(%v) = false", term)
		}
		if got := tbl.Explain(term); !slices.Equal(got, []proof.ID{7}) {
			t.Errorf("Explain(%v) = %v, want [7]", term, got)
		}
	}
	if tbl.Holds(diff(quantity.Length, ab, cd, linear.Zero(quantity.Length))) {
		t.Error("AB = CD does not follow from AB:CD = EF:GH")
	}

	// Same left-hand side, different constant.
	err := tbl.Add(rel.Clone().WithConst(ratio(2, 1)), 8)
	if !errors.Is(err, ErrContradiction) {
		t.Errorf("error = %v, want ErrContradiction", err)
	}
}

func TestAngles(t *testing.T) {
	tbl := New(quantity.Angle)
	// AB parallel CD, CD perpendicular EF.
	tbl.Add(diff(quantity.Angle, ab, cd, linear.Zero(quantity.Angle)), 0)
	tbl.Add(diff(quantity.Angle, cd, ef, angle(1, 2)), 1)

	perp := diff(quantity.Angle, ab, ef, angle(1, 2))
	if !tbl.Holds(perp) {
		t.Fatal("AB perpendicular EF should hold")
	}
	if !tbl.Holds(diff(quantity.Angle, ef, ab, angle(1, 2))) {
		t.Error("perpendicularity is symmetric modulo pi")
	}
	if got := tbl.Explain(perp); !slices.Equal(got, []proof.ID{0, 1}) {
		t.Errorf("Explain = %v, want [0 1]", got)
	}

	err := tbl.Add(diff(quantity.Angle, ab, ef, linear.Zero(quantity.Angle)), 2)
	if !errors.Is(err, ErrContradiction) {
		t.Errorf("para after perp: error = %v, want ErrContradiction", err)
	}
}

func TestAngleHalvingStaysPending(t *testing.T) {
	tbl := New(quantity.Angle)
	// 2*dir(AB) - 2*dir(CD) = 0 allows AB parallel or perpendicular to CD.
	twice := linear.NewTerm(quantity.Angle).AddInt(ab, 2).AddInt(cd, -2)
	if err := tbl.Add(twice, 0); err != nil {
		t.Fatal(err)
	}
	if tbl.Holds(diff(quantity.Angle, ab, cd, linear.Zero(quantity.Angle))) {
		t.Error("parallel does not follow")
	}
	if !tbl.Holds(twice) {
		t.Error("the asserted equation should hold")
	}

	// Making AB perpendicular to CD contradicts nothing; 2*(pi/2) = 0.
	if err := tbl.Add(diff(quantity.Angle, ab, cd, angle(1, 2)), 1); err != nil {
		t.Errorf("perpendicular: %v", err)
	}
}

func TestContradictionWithMultiple(t *testing.T) {
	tbl := New(quantity.Angle)
	// 2*dir(AB) - 2*dir(CD) = pi/2 leaves AB and CD at pi/4 or 3pi/4.
	tbl.Add(linear.NewTerm(quantity.Angle).AddInt(ab, 2).AddInt(cd, -2).WithConst(angle(1, 2)), 0)

	err := tbl.Add(diff(quantity.Angle, ab, cd, linear.Zero(quantity.Angle)), 1)
	var c *Contradiction
	if !errors.As(err, &c) {
		t.Fatalf("error = %v, want *Contradiction", err)
	}
	if c.Fact != 1 || !slices.Equal(c.Support, []proof.ID{0}) {
		t.Errorf("Fact = %d, Support = %v; want 1, [0]", c.Fact, c.Support)
	}
	if !c.Ambiguous || c.Residue.IsZero() {
		t.Errorf("Ambiguous = %v, Residue = %v", c.Ambiguous, c.Residue)
	}
	if tbl.Connected(ab, cd) {
		t.Error("rejected fact merged AB and CD")
	}

	// pi/4 is one of the two solutions.
	if err := tbl.Add(diff(quantity.Angle, ab, cd, angle(1, 4)), 2); err != nil {
		t.Errorf("consistent fact rejected: %v", err)
	}
}

func TestTransitiveRelations(t *testing.T) {
	const ij, kl = gh + 1, gh + 2
	for _, kind := range []quantity.Kind{quantity.Length, quantity.Angle} {
		tbl := New(kind)
		// AB:CD = EF:GH and EF:GH = IJ:KL, nothing known about any pair.
		tbl.Add(Relation(kind, ab, cd, ef, gh), 0)
		tbl.Add(Relation(kind, ef, gh, ij, kl), 1)

		goal := Relation(kind, ab, cd, ij, kl)
		if !tbl.Holds(goal) {
			t.Fatalf("%s: AB:CD = IJ:KL should hold", kind)
		}
		if got := tbl.Explain(goal); !slices.Equal(got, []proof.ID{0, 1}) {
			t.Errorf("%s: Explain = %v, want [0 1]", kind, got)
		}
		if tbl.Holds(Relation(kind, ab, cd, ef, kl)) {
			t.Errorf("%s: AB:CD = EF:KL does not follow", kind)
		}
		if err := tbl.Add(goal, 2); err != nil {
			t.Errorf("%s: implied relation rejected: %v", kind, err)
		}
		if got := tbl.Redundant(); !slices.Equal(got, []proof.ID{2}) {
			t.Errorf("%s: Redundant() = %v, want [2]", kind, got)
		}
	}
}

func TestContradictionAcrossRelations(t *testing.T) {
	const ij, kl = gh + 1, gh + 2
	tbl := New(quantity.Length)
	tbl.Add(Relation(quantity.Length, ab, cd, ef, gh), 0)
	tbl.Add(Relation(quantity.Length, ef, gh, ij, kl), 1)
	// AB = IJ, so CD = KL follows from the two relations.
	if err := tbl.Add(diff(quantity.Length, ab, ij, linear.Zero(quantity.Length)), 2); err != nil {
		t.Fatal(err)
	}
	if !tbl.Holds(diff(quantity.Length, cd, kl, linear.Zero(quantity.Length))) {
		t.Fatal("CD = KL should hold")
	}

	err := tbl.Add(diff(quantity.Length, cd, kl, ratio(2, 1)), 3)
	var c *Contradiction
	if !errors.As(err, &c) {
		t.Fatalf("error = %v, want *Contradiction", err)
	}
	if c.Fact != 3 || !slices.Equal(c.Support, []proof.ID{0, 1, 2}) {
		t.Errorf("Fact = %d, Support = %v; want 3, [0 1 2]", c.Fact, c.Support)
	}
	if c.Ambiguous || !c.Implied.IsZero() || !c.Stated.Equal(ratio(2, 1)) {
		t.Errorf("Implied = %v, Stated = %v, Ambiguous = %v", c.Implied, c.Stated, c.Ambiguous)
	}
}

func TestKindMismatch(t *testing.T) {
	tbl := New(quantity.Length)
	term := diff(quantity.Angle, ab, cd, linear.Zero(quantity.Angle))
	if err := tbl.Add(term, 0); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("error = %v, want ErrKindMismatch", err)
	}
	if tbl.Holds(term) || tbl.Explain(term) != nil {
		t.Error("angle term answered by a length table")
	}
}

func TestUnsupportedCoefficient(t *testing.T) {
	tbl := New(quantity.Angle)
	tbl.Add(diff(quantity.Angle, ab, cd, angle(1, 3)), 0)
	half := linear.NewTerm(quantity.Angle).Add(ab, big.NewRat(1, 2)).Add(cd, big.NewRat(-1, 2))
	if err := tbl.Add(half, 1); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

func TestClone(t *testing.T) {
	tbl := New(quantity.Length)
	tbl.Add(diff(quantity.Length, ab, cd, ratio(2, 1)), 0)
	branch := tbl.Clone()
	branch.Add(diff(quantity.Length, cd, ef, ratio(2, 1)), 1)

	goal := diff(quantity.Length, ab, ef, ratio(4, 1))
	if !branch.Holds(goal) {
		t.Error("branch should see its own facts")
	}
	if tbl.Holds(goal) {
		t.Error("original sees a fact added to the branch")
	}
	if tbl.Connected(cd, ef) {
		t.Error("original classes were merged by the branch")
	}
}

func TestStats(t *testing.T) {
	tbl := New(quantity.Length)
	tbl.Add(diff(quantity.Length, ab, cd, ratio(2, 1)), 0)
	tbl.Add(diff(quantity.Length, ab, cd, ratio(2, 1)), 1)
	tbl.Add(tbl.Relation(ab, ef, gh, 4), 2)

	want := Stats{Quantities: 5, Classes: 4, Links: 1, Pending: 1, Redundant: 1}
	if got := tbl.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
