package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// endsInAB accepts strings over {a,b} ending in "ab".
func endsInAB(t *testing.T) *nfa.DFA {
	t.Helper()
	r := nfa.NewRegistry("a", "b")
	for _, name := range []string{"p", "q", "r"} {
		id := r.AddState()
		_ = r.SetName(id, name)
	}
	_ = r.SetInitial(0, true)
	_ = r.SetFinal(2, true)
	for _, e := range [][3]any{{0, "a", 0}, {0, "b", 0}, {0, "a", 1}, {1, "b", 2}} {
		if err := r.ToggleTransition(e[0].(int), e[1].(string), e[2].(int)); err != nil {
			t.Fatalf("ToggleTransition: %v", err)
		}
	}
	d, err := nfa.Convert(r)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return d
}

func TestGenerateGoParses(t *testing.T) {
	src := GenerateGo(endsInAB(t), "machine", "ends in ab")

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, 0)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	if f.Name.Name != "machine" {
		t.Errorf("package = %s, want machine", f.Name.Name)
	}

	for _, want := range []string{
		"type EndsInAbState uint16",
		"EndsInAbInputA EndsInAbInput = iota",
		"EndsInAbInputB",
		"func NewEndsInAb() *EndsInAb",
		`"{p,q}"`,
		"func (m *EndsInAb) IsAccepting() bool",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated code missing %q", want)
		}
	}
}

func TestGenerateGoDefaults(t *testing.T) {
	src := GenerateGo(endsInAB(t), "", "")
	if !strings.Contains(src, "package dfa") || !strings.Contains(src, "type DFA struct") {
		t.Errorf("defaults not applied:\n%s", src)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0); err != nil {
		t.Errorf("generated code does not parse: %v", err)
	}
}

func TestGenerateGoNoFinalState(t *testing.T) {
	r := nfa.NewRegistry("x")
	r.AddState()
	r.AddState()
	_ = r.SetName(0, "a")
	_ = r.SetName(1, "b")
	_ = r.SetInitial(0, true)
	_ = r.SetFinal(1, true)
	// 1 is unreachable, so the DFA has no final state.
	d, err := nfa.Convert(r)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	src := GenerateGo(d, "p", "M")
	if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0); err != nil {
		t.Errorf("generated code does not parse: %v\n%s", err, src)
	}
}

func TestGenerateC(t *testing.T) {
	src := GenerateC(endsInAB(t), "ends-in-ab")
	for _, want := range []string{
		"#ifndef ENDS_IN_AB_H",
		"#define ENDS_IN_AB_STATE_COUNT 3",
		"#define ENDS_IN_AB_INPUT_A 0",
		"static const ends_in_ab_state_t ends_in_ab_next[ENDS_IN_AB_STATE_COUNT][2]",
		"static inline bool ends_in_ab_step(",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("C header missing %q\n%s", want, src)
		}
	}
}

func TestInputNames(t *testing.T) {
	got := inputNames([]string{"a", "1", "A", "go-on"})
	want := []string{"A", "1", "2", "GoOn"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("inputNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestToPascalCaseKeepsCapitals(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EndsInAB", "EndsInAB"},
		{"ends in ab", "EndsInAb"},
		{"ends_in_AB", "EndsInAB"},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := toPascalCase(sanitizeName(tt.in)); got != tt.want {
			t.Errorf("toPascalCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	src := GenerateGo(endsInAB(t), "lexer", "EndsInAB")
	if !strings.Contains(src, "EndsInABInputA") {
		t.Errorf("explicit type name was rewritten:\n%s", src)
	}
}
