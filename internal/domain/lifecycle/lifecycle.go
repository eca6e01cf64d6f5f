// Package lifecycle defines the donation-request state machine.
//
// States: pending (initial) -> inprogress -> done | canceled, with
// pending -> canceled also legal. done and canceled are terminal. No edge
// returns to pending, and repeating a transition (done -> done) is illegal
// rather than silently accepted.
//
// This package is pure: it knows which edges exist, not who may trigger
// them. Actor gating lives in internal/app/policy.
package lifecycle

import "fmt"

// Status is a donation-request lifecycle state.
type Status string

const (
	Pending    Status = "pending"
	InProgress Status = "inprogress"
	Done       Status = "done"
	Canceled   Status = "canceled"
)

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case Pending, InProgress, Done, Canceled:
		return true
	}
	return false
}

// Terminal reports whether no transition is legal out of s.
func (s Status) Terminal() bool {
	return s == Done || s == Canceled
}

// Parse converts a raw string into a Status, rejecting unknown values.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown request status %q", raw)
	}
	return s, nil
}

// edge is a from->to pair in the transition table.
type edge struct{ from, to Status }

// legalEdges is the complete set of legal transitions. Everything absent is
// an IllegalTransitionError.
var legalEdges = map[edge]struct{}{
	{Pending, InProgress}:  {},
	{InProgress, Done}:     {},
	{Pending, Canceled}:    {},
	{InProgress, Canceled}: {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	_, ok := legalEdges[edge{from, to}]
	return ok
}

// CheckTransition returns an IllegalTransitionError if from -> to is not a
// legal edge, nil otherwise.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// IllegalTransitionError identifies the attempted from/to pair so callers
// can surface a specific, user-facing failure.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}
