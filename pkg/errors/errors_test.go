package errors

import (
	"errors"
	"fmt"
	"testing"
)

// contradiction mimics a closure-table error that carries its own code.
type contradiction struct{ kind string }

func (c contradiction) Error() string { return c.kind + " contradiction" }
func (contradiction) ErrorCode() Code { return ErrCodeContradiction }

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidStatement, "eqratio expects %d points, got %d", 8, 6)
	if got, want := err.Error(), "INVALID_STATEMENT: eqratio expects 8 points, got 6"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := UserMessage(err); got != "eqratio expects 8 points, got 6" {
		t.Errorf("UserMessage() = %q", got)
	}

	cause := errors.New("unknown predicate \"perp\"")
	wrapped := Wrap(ErrCodeInvalidProblem, cause, "goal %d", 2)
	if got, want := wrapped.Error(), `INVALID_PROBLEM: goal 2: unknown predicate "perp"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("Wrap should keep the cause reachable")
	}
	if got := UserMessage(cause); got != cause.Error() {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestCodes(t *testing.T) {
	inner := New(ErrCodeDegenerate, "cong a a b c")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", inner, ErrCodeDegenerate},
		{"outermost code wins", Wrap(ErrCodeInvalidProblem, inner, "premise 1"), ErrCodeInvalidProblem},
		{"fmt wrapped", fmt.Errorf("canon: %w", inner), ErrCodeDegenerate},
		{"foreign coded", fmt.Errorf("assume: %w", contradiction{"angle"}), ErrCodeContradiction},
		{"plain", errors.New("boom"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%q) = false", tt.want)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
		})
	}
}
