// Package session provides proof sessions: one deduction context plus the
// bookkeeping the pipeline needs around it.
//
// A [Session] owns a [predicate.State] (quantity registry, closure tables,
// justification graph) and parses statements through a shared
// [predicate.Canonicalizer]. Sessions are identified by a UUID that is
// attached to log lines and exported traces.
//
// # Branching
//
// Sessions are not safe for concurrent use. Parallel proof attempts each
// take a [Session.Clone]; a clone records the id of the session it was
// cloned from in Parent. Nothing is merged back: a branch that finds a proof
// reports it, and the branch is discarded afterwards.
//
// # Usage
//
//	sess := session.New("thales", canon)
//	for _, p := range premises {
//	    if _, err := sess.Assume(p); err != nil {
//	        return err // contradiction in the premises
//	    }
//	}
//	res := sess.Prove(goal)
//	if res.Proved {
//	    trace, _ := sess.Trace(res.Fact)
//	    fmt.Print(trace)
//	}
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ratiochase/pkg/predicate"
	"github.com/matzehuels/ratiochase/pkg/proof"
)

// ErrNoFacts is returned by [Session.Trace] when no goal is given.
var ErrNoFacts = errors.New("no facts to trace")

// Session is one proof context.
type Session struct {
	ID        string
	Parent    string // id of the session this one was cloned from
	Problem   string
	CreatedAt time.Time

	State *predicate.State
	canon *predicate.Canonicalizer
}

// New creates an empty session for the named problem. A nil canonicalizer
// parses without memoization.
func New(problem string, canon *predicate.Canonicalizer) *Session {
	if canon == nil {
		canon = predicate.NewCanonicalizer(nil, 0)
	}
	return &Session{
		ID:        uuid.NewString(),
		Problem:   problem,
		CreatedAt: time.Now(),
		State:     predicate.NewState(),
		canon:     canon,
	}
}

// Clone returns an independent branch of the session with a new id.
func (s *Session) Clone() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Parent:    s.ID,
		Problem:   s.Problem,
		CreatedAt: time.Now(),
		State:     s.State.Clone(),
		canon:     s.canon,
	}
}

// Parse canonicalizes a statement with the session's canonicalizer.
func (s *Session) Parse(text string) (predicate.Statement, error) {
	return s.canon.Parse(text)
}

// Assume adds a premise.
func (s *Session) Assume(stmt predicate.Statement) (proof.ID, error) {
	return s.State.Assume(stmt)
}

// AssumeText parses and adds a premise.
func (s *Session) AssumeText(text string) (proof.ID, error) {
	stmt, err := s.Parse(text)
	if err != nil {
		return 0, err
	}
	return s.Assume(stmt)
}

// Result is the outcome of one goal.
type Result struct {
	Goal   predicate.Statement
	Proved bool
	Fact   proof.ID // derived fact, valid when Proved
	Err    error
}

// Prove checks goal and derives it when it holds. Errors are reported in
// the result rather than returned so that one failing goal does not hide
// the others.
func (s *Session) Prove(goal predicate.Statement) Result {
	id, proved, err := s.State.Prove(goal)
	return Result{Goal: goal, Proved: proved, Fact: id, Err: err}
}

// Trace extracts the proof of the given facts.
func (s *Session) Trace(facts ...proof.ID) (proof.Trace, error) {
	if len(facts) == 0 {
		return proof.Trace{}, ErrNoFacts
	}
	return s.State.Graph.Trace(facts...)
}
