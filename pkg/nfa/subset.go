package nfa

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrNotConvertible is returned by ToDFA when the registry fails Check.
var ErrNotConvertible = errors.New("registry is not convertible")

// EpsilonClosure returns the sorted set of states reachable from ids using
// only epsilon transitions, including ids themselves. Unknown ids stay in
// the set but contribute no edges.
func (r *Registry) EpsilonClosure(ids []int) []int {
	closure := make(map[int]bool, len(ids))
	var work []int
	for _, id := range ids {
		if !closure[id] {
			closure[id] = true
			work = append(work, id)
		}
	}

	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		s, ok := r.states[id]
		if !ok {
			continue
		}
		for _, to := range s.Transitions[Epsilon] {
			if !closure[to] {
				closure[to] = true
				work = append(work, to)
			}
		}
	}
	return setToSlice(closure)
}

// Move returns the sorted set of states reachable from ids with exactly
// one transition on sym, without epsilon expansion.
func (r *Registry) Move(ids []int, sym string) []int {
	target := make(map[int]bool)
	for _, id := range ids {
		s, ok := r.states[id]
		if !ok {
			continue
		}
		for _, to := range s.Transitions[sym] {
			target[to] = true
		}
	}
	return setToSlice(target)
}

// CanonicalName returns the canonical name of a state set, e.g. "{1,3,7}".
// ids must be sorted.
func CanonicalName(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// ToDFA converts the NFA to an equivalent DFA using the powerset
// construction. DFA states are named by their sorted NFA id sets.
//
// The result is partial: when move+closure on a symbol is empty no
// transition is recorded and no sink state is added.
func (r *Registry) ToDFA() (*DFA, error) {
	if err := r.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConvertible, err)
	}
	start, _ := r.InitialID()

	finals := make(map[int]bool)
	for _, id := range r.FinalIDs() {
		finals[id] = true
	}
	isFinal := func(members []int) bool {
		for _, id := range members {
			if finals[id] {
				return true
			}
		}
		return false
	}

	dfa := &DFA{
		alphabet: r.Symbols(),
		index:    make(map[string]int),
		labels:   make(map[int]string, len(r.states)),
	}
	for id, s := range r.states {
		dfa.labels[id] = s.Name
	}

	// Helper to register a newly discovered state set
	discover := func(members []int) string {
		name := CanonicalName(members)
		if _, ok := dfa.index[name]; ok {
			return name
		}
		dfa.index[name] = len(dfa.states)
		dfa.states = append(dfa.states, &DFAState{
			Name:        name,
			Members:     members,
			Final:       isFinal(members),
			Transitions: make(map[string]string),
		})
		return name
	}

	initial := r.EpsilonClosure([]int{start})
	dfa.initial = discover(initial)
	dfa.states[0].Initial = true

	// States are appended as they are found, so the slice doubles as the
	// worklist: everything past next is unmarked.
	for next := 0; next < len(dfa.states); next++ {
		current := dfa.states[next]
		for _, sym := range dfa.alphabet {
			moved := r.Move(current.Members, sym)
			if len(moved) == 0 {
				continue
			}
			target := r.EpsilonClosure(moved)
			current.Transitions[sym] = discover(target)
		}
	}

	return dfa, nil
}

// Convert runs the subset construction on r.
func Convert(r *Registry) (*DFA, error) {
	return r.ToDFA()
}

func setToSlice(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
