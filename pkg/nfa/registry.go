// Package nfa provides the editable NFA model, its structural checks and
// the subset construction that turns it into a DFA.
package nfa

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Epsilon is the reserved empty-input symbol. It is always the first
// symbol of an alphabet and can never be removed.
const Epsilon = "ε"

// SymbolPool is the pool new symbols are drawn from, in order.
const SymbolPool = "abcdefghijklmnopqrstuvwxyz"

// Registry errors.
var (
	ErrUnknownState      = errors.New("unknown state")
	ErrUnknownSymbol     = errors.New("unknown symbol")
	ErrSymbolExists      = errors.New("symbol already in alphabet")
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrInvalidName       = errors.New("invalid state name")
	ErrEpsilonReserved   = errors.New("epsilon is reserved")
	ErrAlphabetExhausted = errors.New("no unused symbols left")
)

// State is one automaton node.
type State struct {
	ID          int
	Name        string
	Initial     bool
	Final       bool
	Transitions map[string][]int // symbol -> ascending target ids
}

// Targets returns the target ids for a symbol.
func (s State) Targets(symbol string) []int {
	return s.Transitions[symbol]
}

func (s *State) clone() *State {
	c := &State{
		ID:          s.ID,
		Name:        s.Name,
		Initial:     s.Initial,
		Final:       s.Final,
		Transitions: make(map[string][]int, len(s.Transitions)),
	}
	for sym, to := range s.Transitions {
		c.Transitions[sym] = append([]int{}, to...)
	}
	return c
}

// Registry owns the states of an NFA and its alphabet. States are kept in
// an arena keyed by id; order records iteration (display) order.
type Registry struct {
	states   map[int]*State
	order    []int
	alphabet []string
}

// NewRegistry creates an empty registry. Epsilon is always present and is
// placed first; duplicate and invalid symbols are ignored.
func NewRegistry(symbols ...string) *Registry {
	r := &Registry{
		states:   make(map[int]*State),
		order:    make([]int, 0),
		alphabet: []string{Epsilon},
	}
	for _, sym := range symbols {
		if sym == Epsilon || r.HasSymbol(sym) || validateSymbol(sym) != nil {
			continue
		}
		r.alphabet = append(r.alphabet, sym)
	}
	return r
}

// NewDefault creates the registry a fresh editing session starts with:
// alphabet ε, a, b and a single initial state with id 0.
func NewDefault() *Registry {
	r := NewRegistry("a", "b")
	id := r.AddState()
	r.states[id].Initial = true
	return r
}

// Len returns the number of states.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns state ids in iteration order.
func (r *Registry) IDs() []int {
	return append([]int{}, r.order...)
}

// States returns copies of all states in iteration order.
func (r *Registry) States() []State {
	out := make([]State, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.states[id].clone())
	}
	return out
}

// State returns a copy of the state with the given id.
func (r *Registry) State(id int) (State, bool) {
	s, ok := r.states[id]
	if !ok {
		return State{}, false
	}
	return *s.clone(), true
}

// Has reports whether a state with the given id exists.
func (r *Registry) Has(id int) bool {
	_, ok := r.states[id]
	return ok
}

// Alphabet returns all symbols, epsilon first.
func (r *Registry) Alphabet() []string {
	return append([]string{}, r.alphabet...)
}

// Symbols returns the alphabet without epsilon.
func (r *Registry) Symbols() []string {
	return append([]string{}, r.alphabet[1:]...)
}

// HasSymbol reports whether sym is in the alphabet.
func (r *Registry) HasSymbol(sym string) bool {
	for _, a := range r.alphabet {
		if a == sym {
			return true
		}
	}
	return false
}

// AddState appends a new state with id max(ids)+1 and returns the id.
func (r *Registry) AddState() int {
	id := 0
	for _, existing := range r.order {
		if existing >= id {
			id = existing + 1
		}
	}
	r.insert(&State{ID: id})
	return id
}

// insert adds s, filling in an empty target list for every symbol.
func (r *Registry) insert(s *State) {
	if s.Transitions == nil {
		s.Transitions = make(map[string][]int, len(r.alphabet))
	}
	for _, sym := range r.alphabet {
		if s.Transitions[sym] == nil {
			s.Transitions[sym] = []int{}
		}
	}
	r.states[s.ID] = s
	r.order = append(r.order, s.ID)
}

// DeleteState removes a state and strips it from every transition list.
// Deleting the last state leaves an empty registry.
func (r *Registry) DeleteState(id int) error {
	if _, ok := r.states[id]; !ok {
		return fmt.Errorf("delete %d: %w", id, ErrUnknownState)
	}
	delete(r.states, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for _, s := range r.states {
		for sym, to := range s.Transitions {
			s.Transitions[sym] = removeID(to, id)
		}
	}
	return nil
}

// SetName renames a state. Surrounding whitespace is trimmed. Uniqueness
// is not enforced here; Check reports duplicates.
func (r *Registry) SetName(id int, name string) error {
	s, ok := r.states[id]
	if !ok {
		return fmt.Errorf("rename %d: %w", id, ErrUnknownState)
	}
	clean, err := cleanName(name)
	if err != nil {
		return fmt.Errorf("rename %d: %w", id, err)
	}
	s.Name = clean
	return nil
}

// cleanName trims a state name and rejects names the text form cannot
// carry.
func cleanName(name string) (string, error) {
	if strings.ContainsAny(name, "|\r\n") {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return strings.TrimSpace(name), nil
}

// SetInitial sets or clears the initial flag of a state.
func (r *Registry) SetInitial(id int, initial bool) error {
	s, ok := r.states[id]
	if !ok {
		return fmt.Errorf("set initial %d: %w", id, ErrUnknownState)
	}
	s.Initial = initial
	return nil
}

// SetFinal sets or clears the final flag of a state.
func (r *Registry) SetFinal(id int, final bool) error {
	s, ok := r.states[id]
	if !ok {
		return fmt.Errorf("set final %d: %w", id, ErrUnknownState)
	}
	s.Final = final
	return nil
}

func validateSymbol(sym string) error {
	if sym == "" || strings.ContainsAny(sym, "|, \t\r\n") {
		return fmt.Errorf("%q: %w", sym, ErrInvalidSymbol)
	}
	return nil
}

// AddSymbol appends a symbol to the alphabet and gives every state an
// empty target list for it.
func (r *Registry) AddSymbol(sym string) error {
	if r.HasSymbol(sym) {
		return fmt.Errorf("%q: %w", sym, ErrSymbolExists)
	}
	if err := validateSymbol(sym); err != nil {
		return err
	}
	r.alphabet = append(r.alphabet, sym)
	for _, s := range r.states {
		s.Transitions[sym] = []int{}
	}
	return nil
}

// NextSymbol returns the first pool letter not yet in the alphabet.
func (r *Registry) NextSymbol() (string, bool) {
	for _, c := range SymbolPool {
		if !r.HasSymbol(string(c)) {
			return string(c), true
		}
	}
	return "", false
}

// AddNextSymbol adds the symbol NextSymbol would return.
func (r *Registry) AddNextSymbol() (string, error) {
	sym, ok := r.NextSymbol()
	if !ok {
		return "", ErrAlphabetExhausted
	}
	return sym, r.AddSymbol(sym)
}

// RemoveSymbol drops a symbol from the alphabet and from every state.
func (r *Registry) RemoveSymbol(sym string) error {
	if sym == Epsilon {
		return ErrEpsilonReserved
	}
	idx := -1
	for i, a := range r.alphabet {
		if a == sym {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%q: %w", sym, ErrUnknownSymbol)
	}
	r.alphabet = append(r.alphabet[:idx], r.alphabet[idx+1:]...)
	for _, s := range r.states {
		delete(s.Transitions, sym)
	}
	return nil
}

// ToggleTransition adds target to the targets of (id, sym) if absent and
// removes it if present.
func (r *Registry) ToggleTransition(id int, sym string, target int) error {
	s, ok := r.states[id]
	if !ok {
		return fmt.Errorf("toggle from %d: %w", id, ErrUnknownState)
	}
	if !r.HasSymbol(sym) {
		return fmt.Errorf("toggle %q: %w", sym, ErrUnknownSymbol)
	}
	if _, ok := r.states[target]; !ok {
		return fmt.Errorf("toggle to %d: %w", target, ErrUnknownState)
	}
	to := s.Transitions[sym]
	if containsID(to, target) {
		s.Transitions[sym] = removeID(to, target)
	} else {
		s.Transitions[sym] = insertID(to, target)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with r.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		states:   make(map[int]*State, len(r.states)),
		order:    append([]int{}, r.order...),
		alphabet: append([]string{}, r.alphabet...),
	}
	for id, s := range r.states {
		c.states[id] = s.clone()
	}
	return c
}

// Equal reports whether two registries hold the same alphabet and the
// same states in the same order.
func (r *Registry) Equal(o *Registry) bool {
	if len(r.alphabet) != len(o.alphabet) || len(r.order) != len(o.order) {
		return false
	}
	for i := range r.alphabet {
		if r.alphabet[i] != o.alphabet[i] {
			return false
		}
	}
	for i, id := range r.order {
		if o.order[i] != id {
			return false
		}
		a, b := r.states[id], o.states[id]
		if a.Name != b.Name || a.Initial != b.Initial || a.Final != b.Final {
			return false
		}
		for _, sym := range r.alphabet {
			if !sameIDs(a.Transitions[sym], b.Transitions[sym]) {
				return false
			}
		}
	}
	return true
}

// Put inserts a fully formed state, as decoders build registries. Names
// follow the SetName rules. Targets are sorted and de-duplicated; symbols
// outside the alphabet are dropped.
func (r *Registry) Put(s State) error {
	if _, ok := r.states[s.ID]; ok {
		return fmt.Errorf("state %d: %w", s.ID, ErrDuplicateID)
	}
	name, err := cleanName(s.Name)
	if err != nil {
		return fmt.Errorf("state %d: %w", s.ID, err)
	}
	c := &State{
		ID:          s.ID,
		Name:        name,
		Initial:     s.Initial,
		Final:       s.Final,
		Transitions: make(map[string][]int, len(r.alphabet)),
	}
	for _, sym := range r.alphabet {
		c.Transitions[sym] = normalizeIDs(s.Transitions[sym])
	}
	r.insert(c)
	return nil
}

func containsID(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func removeID(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func insertID(ids []int, id int) []int {
	i := sort.SearchInts(ids, id)
	out := make([]int, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}

// normalizeIDs returns a sorted, duplicate free copy.
func normalizeIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
