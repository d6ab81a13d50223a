package proof

import (
	"slices"
	"strings"
	"testing"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
)

func buildTrace(t *testing.T) (*Graph, ID) {
	t.Helper()
	g := NewGraph()
	a, _ := g.MakeFact(stmt("cong a b c d"), RulePremise)
	g.MakeFact(stmt("para a b c d"), RulePremise) // unrelated to the goal
	b, _ := g.MakeFact(stmt("cong c d e f"), RulePremise)
	goal, err := g.MakeFact(stmt("cong a b e f"), RuleRatioChase, a, b)
	if err != nil {
		t.Fatal(err)
	}
	return g, goal
}

func TestTrace(t *testing.T) {
	g, goal := buildTrace(t)
	tr, err := g.Trace(goal)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(tr.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(tr.Lines))
	}
	last := tr.Lines[2]
	if last.Label != "003" || !slices.Equal(last.Antecedents, []string{"001", "002"}) {
		t.Errorf("goal line = %+v", last)
	}
	if !slices.Equal(tr.Goals, []string{"003"}) {
		t.Errorf("Goals = %v, want [003]", tr.Goals)
	}

	want := "<problem>\n" +
		"cong a b c d [001];\n" +
		"cong c d e f [002];\n" +
		"</problem>\n" +
		"<proof>\n" +
		"cong a b e f [003] ratio_chase [001] [002];\n" +
		"</proof>\n"
	if got := tr.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestTraceUnknownGoal(t *testing.T) {
	g, _ := buildTrace(t)
	if _, err := g.Trace(42); !errs.Is(err, errs.ErrCodeUnknownFact) {
		t.Errorf("Trace(42) error = %v, want UNKNOWN_FACT", err)
	}
}

func TestParseTraceRoundTrip(t *testing.T) {
	g, goal := buildTrace(t)
	tr, _ := g.Trace(goal)

	back, err := ParseTrace(tr.String())
	if err != nil {
		t.Fatalf("ParseTrace: %v", err)
	}
	if back.String() != tr.String() {
		t.Errorf("round trip changed the trace:\n%s", back.String())
	}
}

func TestParseTraceErrors(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"no proof", "<problem>cong a b c d [001];</problem>", "no <proof>"},
		{"undefined label", "<proof>cong a b e f [002] ratio_chase [001];</proof>", "undefined"},
		{"missing rule", "<problem>cong a b c d [001];</problem><proof>cong a b e f [002];</proof>", "no rule"},
		{"unlabelled premise", "<problem>cong a b c d;</problem><proof></proof>", "no label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTrace(tt.text)
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Fatalf("error = %v, want INVALID_FORMAT", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
