package chase

import (
	"errors"
	"fmt"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/linear"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// ErrContradiction matches every *Contradiction under errors.Is.
var ErrContradiction = errors.New("contradiction")

// Contradiction reports an equation that is inconsistent with the ones the
// table already holds: combined with the Support facts it reduces to
// 0 = Residue with a non-zero Residue.
type Contradiction struct {
	Kind    quantity.Kind
	Term    *linear.Term // the rejected equation
	Fact    proof.ID     // the fact asserting it
	Stated  linear.Const // constant the fact states
	Implied linear.Const // constant the table implies, unless Ambiguous
	Residue linear.Const
	Support []proof.ID // facts the conflict follows from, Fact excluded

	// Ambiguous is set when the table only fixes a multiple of the term's
	// left-hand side, as 2*x = 1/2pi does for an angle x.
	Ambiguous bool
}

// contradiction reports term against left, the empty remainder it reduced
// to after combining with the table's rows.
func (t *Table) contradiction(term *linear.Term, fact proof.ID, left row) *Contradiction {
	var support []proof.ID
	for _, id := range append(left.facts, t.flowFacts(left.raw)...) {
		if id != fact {
			support = append(support, id)
		}
	}
	c := &Contradiction{
		Kind:    t.kind,
		Term:    term.Clone(),
		Fact:    fact,
		Stated:  term.Const(),
		Residue: left.c,
		Support: dedupe(support),
	}
	if d, ok := left.c.Div(ratOrZero(left.mult)); ok {
		c.Implied = term.Const().Sub(d)
	} else {
		c.Implied, c.Ambiguous = linear.Zero(t.kind), true
	}
	return c
}

func (c *Contradiction) Error() string {
	if c.Ambiguous {
		return fmt.Sprintf("%s contradiction: fact %d states %s, facts %v leave a residue of %s",
			c.Kind, c.Fact, c.Stated, c.Support, c.Residue)
	}
	return fmt.Sprintf("%s contradiction: fact %d states %s, facts %v imply %s",
		c.Kind, c.Fact, c.Stated, c.Support, c.Implied)
}

// Is makes errors.Is(err, ErrContradiction) succeed.
func (c *Contradiction) Is(target error) bool { return target == ErrContradiction }

// ErrorCode returns the CONTRADICTION code.
func (c *Contradiction) ErrorCode() errs.Code { return errs.ErrCodeContradiction }
