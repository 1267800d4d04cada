package nfa

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewDefault(t *testing.T) {
	r := NewDefault()

	if got := r.Alphabet(); !reflect.DeepEqual(got, []string{Epsilon, "a", "b"}) {
		t.Errorf("Alphabet() = %v, want [ε a b]", got)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	s, ok := r.State(0)
	if !ok {
		t.Fatal("state 0 missing")
	}
	if !s.Initial || s.Final || s.Name != "" {
		t.Errorf("unexpected default state %+v", s)
	}
	for _, sym := range r.Alphabet() {
		if targets, ok := s.Transitions[sym]; !ok || len(targets) != 0 {
			t.Errorf("symbol %q: want empty target list, got %v (present=%v)", sym, targets, ok)
		}
	}
}

func TestAddStateUsesMaxPlusOne(t *testing.T) {
	r := NewRegistry("a")
	if id := r.AddState(); id != 0 {
		t.Errorf("first id = %d, want 0", id)
	}
	r.AddState()
	r.AddState()
	if err := r.DeleteState(1); err != nil {
		t.Fatal(err)
	}
	// max(0, 2) + 1
	if id := r.AddState(); id != 3 {
		t.Errorf("id after delete = %d, want 3", id)
	}
	if err := r.DeleteState(3); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteState(2); err != nil {
		t.Fatal(err)
	}
	if id := r.AddState(); id != 1 {
		t.Errorf("id after deleting the top ids = %d, want 1", id)
	}
}

func TestDeleteStateStripsReferences(t *testing.T) {
	r := NewRegistry("a")
	a, b, c := r.AddState(), r.AddState(), r.AddState()
	mustToggle(t, r, a, "a", b)
	mustToggle(t, r, a, "a", c)
	mustToggle(t, r, c, Epsilon, b)
	mustToggle(t, r, b, "a", b)

	if err := r.DeleteState(b); err != nil {
		t.Fatal(err)
	}
	if r.Has(b) {
		t.Error("state still present after delete")
	}
	for _, s := range r.States() {
		for sym, to := range s.Transitions {
			for _, id := range to {
				if id == b {
					t.Errorf("state %d still targets deleted %d on %q", s.ID, b, sym)
				}
			}
		}
	}
	sa, _ := r.State(a)
	if !reflect.DeepEqual(sa.Targets("a"), []int{c}) {
		t.Errorf("targets of %d on a = %v, want [%d]", a, sa.Targets("a"), c)
	}
}

func TestDeleteLastStateLeavesEmptyRegistry(t *testing.T) {
	r := NewDefault()
	if err := r.DeleteState(0); err != nil {
		t.Fatalf("DeleteState(0): %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if err := r.DeleteState(0); !errors.Is(err, ErrUnknownState) {
		t.Errorf("second delete: got %v, want ErrUnknownState", err)
	}
}

func TestToggleTransition(t *testing.T) {
	r := NewRegistry("a")
	a, b, c := r.AddState(), r.AddState(), r.AddState()

	mustToggle(t, r, a, "a", c)
	mustToggle(t, r, a, "a", b)
	s, _ := r.State(a)
	if !reflect.DeepEqual(s.Targets("a"), []int{b, c}) {
		t.Errorf("targets = %v, want ascending [%d %d]", s.Targets("a"), b, c)
	}

	mustToggle(t, r, a, "a", c)
	s, _ = r.State(a)
	if !reflect.DeepEqual(s.Targets("a"), []int{b}) {
		t.Errorf("after second toggle targets = %v, want [%d]", s.Targets("a"), b)
	}

	tests := []struct {
		name string
		from int
		sym  string
		to   int
		want error
	}{
		{"unknown source", 99, "a", b, ErrUnknownState},
		{"unknown symbol", a, "z", b, ErrUnknownSymbol},
		{"unknown target", a, "a", 99, ErrUnknownState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.ToggleTransition(tt.from, tt.sym, tt.to); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSymbols(t *testing.T) {
	r := NewRegistry("a")
	id := r.AddState()

	if err := r.AddSymbol("a"); !errors.Is(err, ErrSymbolExists) {
		t.Errorf("AddSymbol(a) = %v, want ErrSymbolExists", err)
	}
	if err := r.AddSymbol(Epsilon); !errors.Is(err, ErrSymbolExists) {
		t.Errorf("AddSymbol(ε) = %v, want ErrSymbolExists", err)
	}
	for _, bad := range []string{"", "a|b", "x,y", "two words"} {
		if err := r.AddSymbol(bad); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("AddSymbol(%q) = %v, want ErrInvalidSymbol", bad, err)
		}
	}

	if err := r.AddSymbol("go"); err != nil {
		t.Fatalf("AddSymbol(go): %v", err)
	}
	s, _ := r.State(id)
	if to, ok := s.Transitions["go"]; !ok || len(to) != 0 {
		t.Errorf("new symbol not initialised on existing state: %v", s.Transitions)
	}

	mustToggle(t, r, id, "go", id)
	if err := r.RemoveSymbol("go"); err != nil {
		t.Fatal(err)
	}
	s, _ = r.State(id)
	if _, ok := s.Transitions["go"]; ok {
		t.Error("removed symbol still present on state")
	}
	if err := r.RemoveSymbol(Epsilon); !errors.Is(err, ErrEpsilonReserved) {
		t.Errorf("RemoveSymbol(ε) = %v, want ErrEpsilonReserved", err)
	}
	if err := r.RemoveSymbol("nope"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("RemoveSymbol(nope) = %v, want ErrUnknownSymbol", err)
	}
}

func TestNextSymbolSkipsUsedLetters(t *testing.T) {
	r := NewRegistry("a", "c")
	sym, err := r.AddNextSymbol()
	if err != nil || sym != "b" {
		t.Fatalf("AddNextSymbol() = %q, %v; want b", sym, err)
	}
	sym, _ = r.AddNextSymbol()
	if sym != "d" {
		t.Errorf("AddNextSymbol() = %q, want d", sym)
	}

	full := NewRegistry()
	for range SymbolPool {
		if _, err := full.AddNextSymbol(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := full.AddNextSymbol(); !errors.Is(err, ErrAlphabetExhausted) {
		t.Errorf("got %v, want ErrAlphabetExhausted", err)
	}
}

func TestSetName(t *testing.T) {
	r := NewDefault()
	if err := r.SetName(0, "  q0 "); err != nil {
		t.Fatal(err)
	}
	s, _ := r.State(0)
	if s.Name != "q0" {
		t.Errorf("Name = %q, want trimmed q0", s.Name)
	}
	if err := r.SetName(0, "a|b"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("got %v, want ErrInvalidName", err)
	}
	if err := r.SetName(7, "x"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("got %v, want ErrUnknownState", err)
	}
}

func TestPutAppliesNameRules(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"a|b", "x\ny", "x\r"} {
		if err := r.Put(State{ID: 0, Name: name}); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Put(%q) = %v, want ErrInvalidName", name, err)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("rejected states were inserted: %d", r.Len())
	}
	if err := r.Put(State{ID: 3, Name: " q0 "}); err != nil {
		t.Fatal(err)
	}
	s, _ := r.State(3)
	if s.Name != "q0" {
		t.Errorf("Name = %q, want trimmed q0", s.Name)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewDefault()
	_ = r.SetName(0, "q0")
	c := r.Clone()

	id := r.AddState()
	mustToggle(t, r, 0, "a", id)
	_ = r.SetName(0, "changed")
	_ = r.AddSymbol("z")

	if c.Len() != 1 {
		t.Errorf("clone Len() = %d, want 1", c.Len())
	}
	s, _ := c.State(0)
	if s.Name != "q0" || len(s.Targets("a")) != 0 {
		t.Errorf("clone state modified: %+v", s)
	}
	if c.HasSymbol("z") {
		t.Error("clone alphabet modified")
	}
	if c.Equal(r) {
		t.Error("Equal() = true for diverged registries")
	}
}

func TestStatesReturnsCopies(t *testing.T) {
	r := NewDefault()
	states := r.States()
	states[0].Name = "mutated"
	states[0].Transitions["a"] = append(states[0].Transitions["a"], 42)

	s, _ := r.State(0)
	if s.Name != "" || len(s.Targets("a")) != 0 {
		t.Errorf("registry changed through States(): %+v", s)
	}
}

func mustToggle(t *testing.T, r *Registry, from int, sym string, to int) {
	t.Helper()
	if err := r.ToggleTransition(from, sym, to); err != nil {
		t.Fatalf("ToggleTransition(%d, %q, %d): %v", from, sym, to, err)
	}
}
