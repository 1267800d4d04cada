package nfafile

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

func TestParseHCL(t *testing.T) {
	src := `
symbols = ["a", "b"]

state "start" {
  id      = 0
  initial = true
  on = {
    a         = [1, 0]
    (epsilon) = [2]
  }
}

state "mid" {
  id = 1
  on = {
    b = [2]
  }
}

state "end" {
  id    = 2
  final = true
}
`
	r, err := ParseHCL([]byte(src), "test.hcl")
	if err != nil {
		t.Fatalf("ParseHCL failed: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	s, _ := r.State(0)
	if s.Name != "start" || !s.Initial || s.Final {
		t.Errorf("state 0 = %+v", s)
	}
	if !reflect.DeepEqual(s.Targets("a"), []int{0, 1}) {
		t.Errorf("a targets = %v, want [0 1]", s.Targets("a"))
	}
	if !reflect.DeepEqual(s.Targets(nfa.Epsilon), []int{2}) {
		t.Errorf("ε targets = %v, want [2]", s.Targets(nfa.Epsilon))
	}
	if !nfa.IsConvertible(r) {
		t.Errorf("not convertible: %v", r.Check())
	}
}

func TestHCLRoundTrip(t *testing.T) {
	r := sample(t)
	src := ToHCL(r)
	if !strings.Contains(string(src), `state "q0"`) {
		t.Errorf("missing state block:\n%s", src)
	}
	back, err := ParseHCL(src, "roundtrip.hcl")
	if err != nil {
		t.Fatalf("ParseHCL failed: %v\n%s", err, src)
	}
	if !back.Equal(r) {
		t.Errorf("round trip changed registry:\n%s", src)
	}
}

func TestParseHCLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown symbol", `
symbols = ["a"]
state "x" {
  id = 0
  on = { z = [0] }
}`, nfa.ErrUnknownSymbol},
		{"duplicate id", `
state "x" { id = 0 }
state "y" { id = 0 }
`, nfa.ErrDuplicateID},
		{"pipe in name", `
state "a|b" { id = 0 }
`, nfa.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tt.src), "bad.hcl")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	bad := []string{
		`state "x" {`,
		`state "x" { initial = true }`,
		`state "x" {
  id = 0
  on = { a = ["one"] }
}`,
	}
	for _, src := range bad {
		if _, err := ParseHCL([]byte(src), "bad.hcl"); err == nil {
			t.Errorf("ParseHCL(%q) succeeded, want error", src)
		}
	}
}
