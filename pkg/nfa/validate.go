package nfa

import (
	"errors"
	"fmt"
)

// Convertibility errors, in the order Check reports them.
var (
	ErrEmptyName      = errors.New("state has no name")
	ErrDuplicateName  = errors.New("duplicate state name")
	ErrDuplicateID    = errors.New("duplicate state id")
	ErrInitialCount   = errors.New("need exactly one initial state")
	ErrNoFinal        = errors.New("need at least one final state")
	ErrDanglingTarget = errors.New("transition to missing state")
)

// Check reports the first reason the registry cannot be converted, or nil.
// Checks run in a fixed order: names present, names distinct, ids
// distinct, one initial state, some final state, no dangling targets.
func (r *Registry) Check() error {
	names := make(map[string]int)
	ids := make(map[int]bool)
	initial, final := 0, 0

	for _, id := range r.order {
		s := r.states[id]
		if s.Name == "" {
			return fmt.Errorf("state %d: %w", s.ID, ErrEmptyName)
		}
		if other, ok := names[s.Name]; ok {
			return fmt.Errorf("states %d and %d named %q: %w", other, s.ID, s.Name, ErrDuplicateName)
		}
		if ids[s.ID] {
			return fmt.Errorf("state %d: %w", s.ID, ErrDuplicateID)
		}
		names[s.Name] = s.ID
		ids[s.ID] = true
		if s.Initial {
			initial++
		}
		if s.Final {
			final++
		}
	}

	if initial != 1 {
		return fmt.Errorf("found %d: %w", initial, ErrInitialCount)
	}
	if final == 0 {
		return ErrNoFinal
	}

	for _, id := range r.order {
		s := r.states[id]
		for _, sym := range r.alphabet {
			for _, to := range s.Transitions[sym] {
				if !ids[to] {
					return fmt.Errorf("state %d on %q to %d: %w", s.ID, sym, to, ErrDanglingTarget)
				}
			}
		}
	}
	return nil
}

// IsConvertible reports whether the registry passes every structural check.
func IsConvertible(r *Registry) bool {
	return r.Check() == nil
}

// InitialID returns the id of the first state flagged initial.
func (r *Registry) InitialID() (int, bool) {
	for _, id := range r.order {
		if r.states[id].Initial {
			return id, true
		}
	}
	return 0, false
}

// FinalIDs returns the ids of all final states in iteration order.
func (r *Registry) FinalIDs() []int {
	var out []int
	for _, id := range r.order {
		if r.states[id].Final {
			out = append(out, id)
		}
	}
	return out
}
