package nfa

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

// build creates a registry from a compact description. States are named
// "q<id>"; edges are {from, symbol, to}.
func build(t *testing.T, symbols []string, n, initial int, finals []int, edges [][3]any) *Registry {
	t.Helper()
	r := NewRegistry(symbols...)
	for i := 0; i < n; i++ {
		id := r.AddState()
		_ = r.SetName(id, "q"+string(rune('0'+id)))
	}
	_ = r.SetInitial(initial, true)
	for _, f := range finals {
		_ = r.SetFinal(f, true)
	}
	for _, e := range edges {
		mustToggle(t, r, e[0].(int), e[1].(string), e[2].(int))
	}
	return r
}

func TestEpsilonClosure(t *testing.T) {
	// 0 -ε-> 1 -ε-> 2, 2 -ε-> 0 (cycle), 3 isolated
	r := build(t, []string{"a"}, 4, 0, []int{2}, [][3]any{
		{0, Epsilon, 1},
		{1, Epsilon, 2},
		{2, Epsilon, 0},
		{3, "a", 0},
	})

	tests := []struct {
		in   []int
		want []int
	}{
		{[]int{0}, []int{0, 1, 2}},
		{[]int{2}, []int{0, 1, 2}},
		{[]int{3}, []int{3}},
		{[]int{3, 1}, []int{0, 1, 2, 3}},
		{[]int{}, []int{}},
	}
	for _, tt := range tests {
		got := r.EpsilonClosure(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("EpsilonClosure(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEpsilonClosureIdempotent(t *testing.T) {
	r := build(t, []string{"a", "b"}, 5, 0, []int{4}, [][3]any{
		{0, Epsilon, 1},
		{1, Epsilon, 3},
		{3, Epsilon, 1},
		{2, Epsilon, 4},
		{4, "a", 0},
	})

	sets := [][]int{{0}, {1}, {2}, {3}, {4}, {0, 2}, {1, 4}, {0, 1, 2, 3, 4}}
	for _, s := range sets {
		once := r.EpsilonClosure(s)
		twice := r.EpsilonClosure(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("closure(closure(%v)) = %v, closure = %v", s, twice, once)
		}
	}
}

func TestMove(t *testing.T) {
	r := build(t, []string{"a"}, 3, 0, []int{2}, [][3]any{
		{0, "a", 1},
		{0, "a", 2},
		{1, "a", 2},
		{1, Epsilon, 0},
	})
	if got := r.Move([]int{0, 1}, "a"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Move({0,1}, a) = %v, want [1 2]", got)
	}
	if got := r.Move([]int{2}, "a"); len(got) != 0 {
		t.Errorf("Move({2}, a) = %v, want empty", got)
	}
	// Move does not follow epsilon edges.
	if got := r.Move([]int{1}, Epsilon); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Move({1}, ε) = %v, want [0]", got)
	}
}

func TestToDFAEpsilonOnly(t *testing.T) {
	// 0 (initial) -ε-> 1 (final), alphabet {ε, a}
	r := build(t, []string{"a"}, 2, 0, []int{1}, [][3]any{
		{0, Epsilon, 1},
	})

	dfa, err := r.ToDFA()
	if err != nil {
		t.Fatalf("ToDFA: %v", err)
	}
	if dfa.Len() != 1 {
		t.Fatalf("Len() = %d, want 1: %v", dfa.Len(), dfa.States())
	}
	if dfa.Initial() != "{0,1}" {
		t.Errorf("Initial() = %q, want {0,1}", dfa.Initial())
	}
	s, _ := dfa.State("{0,1}")
	if !s.Initial || !s.Final {
		t.Errorf("state {0,1}: initial=%v final=%v, want both", s.Initial, s.Final)
	}
	if _, ok := dfa.Transition("{0,1}", "a"); ok {
		t.Error("unexpected transition on a")
	}
	if !reflect.DeepEqual(dfa.Alphabet(), []string{"a"}) {
		t.Errorf("Alphabet() = %v, want [a]", dfa.Alphabet())
	}
}

func TestToDFASingleEdge(t *testing.T) {
	r := build(t, []string{"a"}, 2, 0, []int{1}, [][3]any{
		{0, "a", 1},
	})

	dfa, err := r.ToDFA()
	if err != nil {
		t.Fatalf("ToDFA: %v", err)
	}
	if dfa.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dfa.Len())
	}
	s0, _ := dfa.State("{0}")
	s1, ok := dfa.State("{1}")
	if !ok {
		t.Fatal("state {1} missing")
	}
	if !s0.Initial || s0.Final {
		t.Errorf("{0}: initial=%v final=%v, want initial non-final", s0.Initial, s0.Final)
	}
	if s1.Initial || !s1.Final {
		t.Errorf("{1}: initial=%v final=%v, want final non-initial", s1.Initial, s1.Final)
	}
	if to, ok := dfa.Transition("{0}", "a"); !ok || to != "{1}" {
		t.Errorf("{0} -a-> %q (%v), want {1}", to, ok)
	}
	if _, ok := dfa.Transition("{1}", "a"); ok {
		t.Error("{1} should have no transition on a")
	}
	if dfa.Label("{1}") != "{q1}" {
		t.Errorf("Label({1}) = %q, want {q1}", dfa.Label("{1}"))
	}
}

func TestToDFAClassic(t *testing.T) {
	// Strings over {a,b} ending in "ab":
	// 0 -a-> 0, 0 -b-> 0, 0 -a-> 1, 1 -b-> 2 (final)
	r := build(t, []string{"a", "b"}, 3, 0, []int{2}, [][3]any{
		{0, "a", 0},
		{0, "b", 0},
		{0, "a", 1},
		{1, "b", 2},
	})

	dfa, err := r.ToDFA()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range dfa.States() {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"{0,1}", "{0,2}", "{0}"}) {
		t.Errorf("states = %v", names)
	}

	accept := [][]string{{"a", "b"}, {"b", "a", "b"}, {"a", "a", "b"}}
	reject := [][]string{{}, {"a"}, {"b"}, {"a", "b", "a"}}
	for _, in := range accept {
		if !dfa.Accepts(in) {
			t.Errorf("should accept %v", in)
		}
	}
	for _, in := range reject {
		if dfa.Accepts(in) {
			t.Errorf("should reject %v", in)
		}
	}
}

func TestToDFADeterministic(t *testing.T) {
	r := build(t, []string{"a", "b"}, 4, 0, []int{3}, [][3]any{
		{0, Epsilon, 1},
		{0, "a", 2},
		{1, "b", 3},
		{2, "a", 3},
		{2, Epsilon, 1},
		{3, "a", 0},
		{3, "b", 2},
	})

	first, err := r.ToDFA()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := r.ToDFA()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.States(), again.States()) {
			t.Fatalf("run %d produced a different DFA", i)
		}
	}
}

func TestToDFARejectsNonConvertible(t *testing.T) {
	r := NewDefault()
	_, err := r.ToDFA()
	if !errors.Is(err, ErrNotConvertible) {
		t.Errorf("ToDFA() = %v, want ErrNotConvertible", err)
	}
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("ToDFA() = %v, want wrapped ErrEmptyName", err)
	}
}

func TestToDFADoesNotAliasRegistry(t *testing.T) {
	r := build(t, []string{"a"}, 2, 0, []int{1}, [][3]any{{0, "a", 1}})
	dfa, err := r.ToDFA()
	if err != nil {
		t.Fatal(err)
	}
	_ = r.SetName(1, "renamed")
	_ = r.DeleteState(1)

	if dfa.Label("{1}") != "{q1}" {
		t.Errorf("DFA label changed after registry edit: %q", dfa.Label("{1}"))
	}
	states := dfa.States()
	states[0].Members[0] = 99
	s, _ := dfa.State("{0}")
	if s.Members[0] != 0 {
		t.Error("DFA changed through States()")
	}
}

func TestCanonicalName(t *testing.T) {
	if got := CanonicalName([]int{1, 3, 7}); got != "{1,3,7}" {
		t.Errorf("CanonicalName = %q", got)
	}
	if got := CanonicalName(nil); got != "{}" {
		t.Errorf("CanonicalName(nil) = %q", got)
	}
}
