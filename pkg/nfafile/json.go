package nfafile

import (
	"encoding/json"
	"fmt"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// jsonNFA is the JSON representation of a registry.
type jsonNFA struct {
	Alphabet []string    `json:"alphabet"`
	States   []jsonState `json:"states"`
}

type jsonState struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Initial     bool             `json:"initial"`
	Final       bool             `json:"final"`
	Transitions map[string][]int `json:"transitions,omitempty"`
}

// jsonDFA is the JSON representation of a converted automaton.
type jsonDFA struct {
	Alphabet []string       `json:"alphabet"`
	Initial  string         `json:"initial"`
	States   []jsonDFAState `json:"states"`
}

type jsonDFAState struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Members     []int             `json:"members"`
	Initial     bool              `json:"initial"`
	Final       bool              `json:"final"`
	Transitions map[string]string `json:"transitions,omitempty"`
}

// ParseJSON parses a registry from JSON. Epsilon is added to the alphabet
// if missing. Like the table form, the result is not validated.
func ParseJSON(data []byte) (*nfa.Registry, error) {
	var j jsonNFA
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	r := nfa.NewRegistry(j.Alphabet...)
	for _, js := range j.States {
		for sym := range js.Transitions {
			if !r.HasSymbol(sym) {
				return nil, fmt.Errorf("state %d: %w %q", js.ID, nfa.ErrUnknownSymbol, sym)
			}
		}
		err := r.Put(nfa.State{
			ID:          js.ID,
			Name:        js.Name,
			Initial:     js.Initial,
			Final:       js.Final,
			Transitions: js.Transitions,
		})
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ToJSON converts a registry to JSON.
func ToJSON(r *nfa.Registry, pretty bool) ([]byte, error) {
	j := jsonNFA{
		Alphabet: r.Alphabet(),
		States:   make([]jsonState, 0, r.Len()),
	}
	for _, s := range r.States() {
		js := jsonState{
			ID:      s.ID,
			Name:    s.Name,
			Initial: s.Initial,
			Final:   s.Final,
		}
		for sym, to := range s.Transitions {
			if len(to) == 0 {
				continue
			}
			if js.Transitions == nil {
				js.Transitions = make(map[string][]int)
			}
			js.Transitions[sym] = to
		}
		j.States = append(j.States, js)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

// DFAToJSON converts a DFA to JSON.
func DFAToJSON(d *nfa.DFA, pretty bool) ([]byte, error) {
	j := jsonDFA{
		Alphabet: d.Alphabet(),
		Initial:  d.Initial(),
		States:   make([]jsonDFAState, 0, d.Len()),
	}
	for _, s := range d.States() {
		js := jsonDFAState{
			Name:    s.Name,
			Label:   d.Label(s.Name),
			Members: s.Members,
			Initial: s.Initial,
			Final:   s.Final,
		}
		if len(s.Transitions) > 0 {
			js.Transitions = s.Transitions
		}
		j.States = append(j.States, js)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}
