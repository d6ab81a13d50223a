package proof_test

import (
	"fmt"

	"github.com/matzehuels/ratiochase/pkg/proof"
)

type statement string

func (s statement) Key() string { return string(s) }

func ExampleGraph_Trace() {
	g := proof.NewGraph()
	a, _ := g.MakeFact(statement("rconst a b c d 2"), proof.RulePremise)
	b, _ := g.MakeFact(statement("rconst c d e f 3"), proof.RulePremise)
	goal, _ := g.MakeFact(statement("rconst a b e f 6"), proof.RuleRatioChase, a, b)

	tr, _ := g.Trace(goal)
	fmt.Print(tr)
	// Output:
	// <problem>
	// rconst a b c d 2 [001];
	// rconst c d e f 3 [002];
	// </problem>
	// <proof>
	// rconst a b e f 6 [003] ratio_chase [001] [002];
	// </proof>
}
