package nfa

import (
	"strings"
)

// DFAState is one state of a converted automaton: a set of NFA states.
type DFAState struct {
	Name        string            // canonical set name, e.g. "{0,1}"
	Members     []int             // sorted NFA state ids
	Initial     bool
	Final       bool
	Transitions map[string]string // symbol -> target state name
}

func (s *DFAState) clone() DFAState {
	c := DFAState{
		Name:        s.Name,
		Members:     append([]int{}, s.Members...),
		Initial:     s.Initial,
		Final:       s.Final,
		Transitions: make(map[string]string, len(s.Transitions)),
	}
	for sym, to := range s.Transitions {
		c.Transitions[sym] = to
	}
	return c
}

// DFA is the result of the subset construction. It shares no memory with
// the registry it was built from.
type DFA struct {
	alphabet []string
	states   []*DFAState
	index    map[string]int
	initial  string
	labels   map[int]string // NFA id -> NFA state name
}

// Alphabet returns the input symbols (epsilon excluded).
func (d *DFA) Alphabet() []string {
	return append([]string{}, d.alphabet...)
}

// Len returns the number of DFA states.
func (d *DFA) Len() int {
	return len(d.states)
}

// Initial returns the name of the initial state.
func (d *DFA) Initial() string {
	return d.initial
}

// States returns copies of all states in discovery order.
func (d *DFA) States() []DFAState {
	out := make([]DFAState, len(d.states))
	for i, s := range d.states {
		out[i] = s.clone()
	}
	return out
}

// State returns a copy of the named state.
func (d *DFA) State(name string) (DFAState, bool) {
	i, ok := d.index[name]
	if !ok {
		return DFAState{}, false
	}
	return d.states[i].clone(), true
}

// Transition returns the target of (from, sym), if defined.
func (d *DFA) Transition(from, sym string) (string, bool) {
	i, ok := d.index[from]
	if !ok {
		return "", false
	}
	to, ok := d.states[i].Transitions[sym]
	return to, ok
}

// Accepts runs the DFA over inputs. A missing transition rejects.
func (d *DFA) Accepts(inputs []string) bool {
	current := d.initial
	for _, sym := range inputs {
		next, ok := d.Transition(current, sym)
		if !ok {
			return false
		}
		current = next
	}
	s, _ := d.State(current)
	return s.Final
}

// Label renders a state with NFA state names instead of ids,
// e.g. "{q0,q1}".
func (d *DFA) Label(name string) string {
	i, ok := d.index[name]
	if !ok {
		return name
	}
	members := d.states[i].Members
	parts := make([]string, len(members))
	for j, id := range members {
		parts[j] = d.labels[id]
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// FinalNames returns the names of all final states in discovery order.
func (d *DFA) FinalNames() []string {
	var out []string
	for _, s := range d.states {
		if s.Final {
			out = append(out, s.Name)
		}
	}
	return out
}
