package predicate_test

import (
	"fmt"

	"github.com/matzehuels/ratiochase/pkg/predicate"
)

func ExampleParse() {
	s, err := predicate.Parse("rconst d c b a 3/2")
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Key())
	fmt.Println(s.Pretty())
	// Output:
	// rconst a b c d 3/2
	// AB:CD = 3/2
}

func ExampleDecompose() {
	s, _ := predicate.Parse("eqratio3 a b c d m n")
	prims, _ := predicate.Decompose(s)
	for _, p := range prims {
		fmt.Println(p.Key())
	}
	// Output:
	// eqratio a m c m b n d n
	// eqratio a c a m b d b n
	// eqratio a c c m b d d n
}

func ExampleState() {
	st := predicate.NewState()
	for _, text := range []string{"eqratio a b c d e f g h", "cong a b c d"} {
		s, _ := predicate.Parse(text)
		if _, err := st.Assume(s); err != nil {
			panic(err)
		}
	}

	goal, _ := predicate.Parse("cong e f g h")
	id, proved, _ := st.Prove(goal)
	fmt.Println(proved)

	trace, _ := st.Graph.Trace(id)
	fmt.Print(trace)
	// Output:
	// true
	// <problem>
	// eqratio a b c d e f g h [001];
	// cong a b c d [002];
	// </problem>
	// <proof>
	// cong e f g h [003] ratio_chase [001] [002];
	// </proof>
}
