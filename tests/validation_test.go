package tests

import (
	"errors"
	"testing"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
	"github.com/ha1tch/nfa2dfa/pkg/session"
)

const header = "|id|node|q0|F|ε|a|\n|---|---|---|---|---|---|\n"

// TestValidatorOnDecodedTables feeds decodable but invalid tables through
// the codec and checks which problem the validator reports first.
func TestValidatorOnDecodedTables(t *testing.T) {
	tests := []struct {
		name string
		rows string
		want error
	}{
		{"valid", "|0|p|true|false||1|\n|1|q|false|true|||\n", nil},
		{"empty name", "|0||true|true|||\n", nfa.ErrEmptyName},
		{"duplicate name", "|0|p|true|false|||\n|1|p|false|true|||\n", nfa.ErrDuplicateName},
		{"no initial", "|0|p|false|true|||\n", nfa.ErrInitialCount},
		{"two initial", "|0|p|true|true|||\n|1|q|true|false|||\n", nfa.ErrInitialCount},
		{"no final", "|0|p|true|false|||\n", nfa.ErrNoFinal},
		{"dangling", "|0|p|true|true||9|\n", nfa.ErrDanglingTarget},
		{"names before flags", "|0||false|false||9|\n", nfa.ErrEmptyName},
		{"flags before targets", "|0|p|false|false||9|\n", nfa.ErrInitialCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := nfafile.DecodeTable(header+tt.rows, []string{nfa.Epsilon, "a"})
			if err != nil {
				t.Fatalf("DecodeTable: %v", err)
			}
			err = r.Check()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Check() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Check() = %v, want %v", err, tt.want)
			}
			if nfa.IsConvertible(r) {
				t.Error("IsConvertible should agree with Check")
			}
		})
	}
}

// TestInvalidCommitBlocksConversion checks that a decodable but invalid
// table is committed and then gates conversion and text mode.
func TestInvalidCommitBlocksConversion(t *testing.T) {
	s := newTwoStateSession(t)
	must(t, s.ApplyText(header+"|0|p|true|true||9|\n"))

	if s.Convertible() {
		t.Fatal("dangling target should make the session unconvertible")
	}
	if _, err := s.Convert(); !errors.Is(err, session.ErrNotConvertible) || !errors.Is(err, nfa.ErrDanglingTarget) {
		t.Errorf("Convert() = %v", err)
	}
	if _, err := s.SwitchToText(); !errors.Is(err, session.ErrNotConvertible) {
		t.Errorf("SwitchToText() = %v", err)
	}

	// A missing target cannot be toggled off; undo is the way back.
	if err := s.ToggleTransition(0, "a", 9); !errors.Is(err, nfa.ErrUnknownState) {
		t.Fatalf("toggle of a missing target = %v, want ErrUnknownState", err)
	}
	must(t, s.Undo())
	if !s.Convertible() {
		t.Error("undo should restore the convertible automaton")
	}
}

// TestValidityTracksEdits checks convertibility after every edit.
func TestValidityTracksEdits(t *testing.T) {
	s := session.New(session.WithAlphabet("a"))
	steps := []struct {
		edit func() error
		want bool
	}{
		{func() error { return s.SetName(0, "start") }, false},
		{func() error { return s.SetFinal(0, true) }, true},
		{func() error { _, err := s.AddState(); return err }, false},
		{func() error { return s.SetName(1, "start") }, false},
		{func() error { return s.SetName(1, "end") }, true},
		{func() error { return s.SetInitial(1, true) }, false},
		{func() error { return s.SetInitial(0, false) }, true},
		{func() error { return s.SetFinal(0, false) }, false},
		{func() error { return s.DeleteState(0) }, false},
		{func() error { return s.SetFinal(1, true) }, true},
	}
	for i, step := range steps {
		must(t, step.edit())
		if got := s.Convertible(); got != step.want {
			t.Errorf("step %d: Convertible() = %v, want %v (%v)", i, got, step.want, s.Check())
		}
	}
}

// TestJSONDanglingTargetIsKept checks that loading keeps a bad target
// for the validator instead of dropping it.
func TestJSONDanglingTargetIsKept(t *testing.T) {
	r, err := nfafile.ParseJSON([]byte(`{
  "alphabet": ["a"],
  "states": [{"id": 0, "name": "p", "initial": true, "final": true, "transitions": {"a": [3]}}]
}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if err := r.Check(); !errors.Is(err, nfa.ErrDanglingTarget) {
		t.Errorf("Check() = %v, want ErrDanglingTarget", err)
	}
}
