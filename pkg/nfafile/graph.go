package nfafile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// Node is a state as seen by the renderers.
type Node struct {
	ID      string
	Label   string
	Initial bool
	Final   bool
}

// Edge is a transition as seen by the renderers. Parallel transitions
// between the same pair of nodes are merged, their symbols joined.
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph is a read-only view of an NFA or DFA for rendering.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Initial returns the id of the first initial node, or "".
func (g *Graph) Initial() string {
	for _, n := range g.Nodes {
		if n.Initial {
			return n.ID
		}
	}
	return ""
}

// NFAGraph builds a graph from a registry. Nodes are labelled with the
// state name, or the id when the name is empty. Targets that do not
// exist are skipped.
func NFAGraph(r *nfa.Registry) *Graph {
	g := &Graph{}
	edges := newEdgeSet()
	for _, s := range r.States() {
		id := strconv.Itoa(s.ID)
		label := s.Name
		if label == "" {
			label = id
		}
		g.Nodes = append(g.Nodes, Node{ID: id, Label: label, Initial: s.Initial, Final: s.Final})
		for _, sym := range r.Alphabet() {
			for _, to := range s.Targets(sym) {
				if r.Has(to) {
					edges.add(id, strconv.Itoa(to), sym)
				}
			}
		}
	}
	g.Edges = edges.list()
	return g
}

// DFAGraph builds a graph from a converted automaton. Nodes are labelled
// with NFA state names.
func DFAGraph(d *nfa.DFA) *Graph {
	g := &Graph{}
	edges := newEdgeSet()
	for _, s := range d.States() {
		g.Nodes = append(g.Nodes, Node{ID: s.Name, Label: d.Label(s.Name), Initial: s.Initial, Final: s.Final})
		for _, sym := range d.Alphabet() {
			if to, ok := s.Transitions[sym]; ok {
				edges.add(s.Name, to, sym)
			}
		}
	}
	g.Edges = edges.list()
	return g
}

// edgeSet groups symbols by (from, to) keeping first-seen order.
type edgeSet struct {
	order  [][2]string
	labels map[[2]string][]string
}

func newEdgeSet() *edgeSet {
	return &edgeSet{labels: make(map[[2]string][]string)}
}

func (e *edgeSet) add(from, to, sym string) {
	key := [2]string{from, to}
	if _, ok := e.labels[key]; !ok {
		e.order = append(e.order, key)
	}
	e.labels[key] = append(e.labels[key], sym)
}

func (e *edgeSet) list() []Edge {
	out := make([]Edge, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, Edge{From: key[0], To: key[1], Label: strings.Join(e.labels[key], ", ")})
	}
	return out
}

// SortedNodeIDs returns node ids in lexical order.
func (g *Graph) SortedNodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)
	return ids
}
