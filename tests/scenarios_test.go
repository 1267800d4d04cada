package tests

import (
	"errors"
	"strings"
	"testing"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
	"github.com/ha1tch/nfa2dfa/pkg/session"
)

// newTwoStateSession returns a session over {ε, a} holding 0 (initial)
// and 1 (final), both named, with no transitions.
func newTwoStateSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(session.WithAlphabet("a"))
	must(t, s.SetName(0, "0"))
	id, err := s.AddState()
	must(t, err)
	must(t, s.SetName(id, "1"))
	must(t, s.SetFinal(id, true))
	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// TestEpsilonOnlyScenario: 0 --ε--> 1 converts to the single final state
// {0,1} with no move on a.
func TestEpsilonOnlyScenario(t *testing.T) {
	s := newTwoStateSession(t)
	must(t, s.ToggleTransition(0, nfa.Epsilon, 1))

	d, err := s.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("DFA has %d states, want 1", d.Len())
	}
	if d.Initial() != "{0,1}" {
		t.Errorf("initial = %s, want {0,1}", d.Initial())
	}
	st, _ := d.State("{0,1}")
	if !st.Final {
		t.Error("{0,1} should be final")
	}
	if _, ok := d.Transition("{0,1}", "a"); ok {
		t.Error("{0,1} should have no move on a")
	}
}

// TestSingleEdgeScenario: 0 --a--> 1 converts to {0} --a--> {1}.
func TestSingleEdgeScenario(t *testing.T) {
	s := newTwoStateSession(t)
	must(t, s.ToggleTransition(0, "a", 1))

	d, err := s.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("DFA has %d states, want 2", d.Len())
	}
	s0, _ := d.State("{0}")
	s1, _ := d.State("{1}")
	if !s0.Initial || s0.Final {
		t.Errorf("{0}: initial=%v final=%v, want true false", s0.Initial, s0.Final)
	}
	if s1.Initial || !s1.Final {
		t.Errorf("{1}: initial=%v final=%v, want false true", s1.Initial, s1.Final)
	}
	if to, ok := d.Transition("{0}", "a"); !ok || to != "{1}" {
		t.Errorf("{0} on a = %q, %v; want {1}", to, ok)
	}
	if _, ok := d.Transition("{1}", "a"); ok {
		t.Error("{1} should have no move on a")
	}
}

// TestEditTextConvertWorkflow walks the full editing loop: table edits,
// a text round trip, then conversion.
func TestEditTextConvertWorkflow(t *testing.T) {
	s := newTwoStateSession(t)

	if _, err := s.SwitchToText(); err != nil {
		t.Fatalf("SwitchToText: %v", err)
	}
	text := s.Text()
	if !strings.HasPrefix(text, "|id|node|q0|F|ε|a|\n|---|") {
		t.Fatalf("unexpected text:\n%s", text)
	}

	// Add a third state and wire 0 -a-> 2 -ε-> 1 in text.
	text = strings.Replace(text, "|0|0|true|false|||", "|0|0|true|false||2|", 1)
	text += "|2|two|false|false|1||\n"
	must(t, s.SetText(text))
	if !s.Applicable() {
		t.Fatalf("text should be applicable:\n%s", text)
	}
	must(t, s.Apply())
	if s.Mode() != session.ModeTable {
		t.Fatal("Apply should return to table mode")
	}

	r := s.Registry()
	if r.Len() != 3 {
		t.Fatalf("registry has %d states, want 3", r.Len())
	}
	if st, _ := r.State(0); !st.Initial {
		t.Error("state 0 lost its initial flag")
	}

	d, err := s.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if to, _ := d.Transition("{0}", "a"); to != "{1,2}" {
		t.Errorf("{0} on a = %s, want {1,2}", to)
	}
	if got := d.Label("{1,2}"); got != "{1,two}" {
		t.Errorf("label = %s, want {1,two}", got)
	}
}

// TestDecodeReplacesWholesale checks that states missing from the text
// are dropped, not merged.
func TestDecodeReplacesWholesale(t *testing.T) {
	s := newTwoStateSession(t)
	text := "|id|node|q0|F|ε|a|\n|---|---|---|---|---|---|\n|7|only|true|true|||\n"
	must(t, s.ApplyText(text))

	r := s.Registry()
	if ids := r.IDs(); len(ids) != 1 || ids[0] != 7 {
		t.Errorf("ids = %v, want [7]", ids)
	}
}

// TestRejectedTextLeavesSessionAlone checks that a failed commit changes
// nothing.
func TestRejectedTextLeavesSessionAlone(t *testing.T) {
	s := newTwoStateSession(t)
	before := s.Registry()
	bad := []string{
		"",
		"|id|node|q0|F|ε|a|\n|---|\n",
		"|id|node|q0|F|ε|\n|---|\n|0|x|true|true||\n",
		"|id|node|q0|F|ε|a|\n|---|\n|0|x|yes|true|||\n",
		"|id|node|q0|F|ε|a|\n|---|\n|0|x|TRUE|true|||\n",
		"|id|node|q0|F|ε|a|\n|---|\n|0|x|true|true||q|\n",
		"|id|node|q0|F|ε|a|\n|---|\n|0|x|true|true|||\n|0|y|false|false|||\n",
	}
	for _, text := range bad {
		err := s.ApplyText(text)
		if !errors.Is(err, session.ErrNotApplicable) {
			t.Errorf("ApplyText(%q) = %v, want ErrNotApplicable", text, err)
		}
		if !errors.Is(err, nfafile.ErrNotApplicable) {
			t.Errorf("ApplyText(%q) should wrap the codec error", text)
		}
	}
	if !s.Registry().Equal(before) {
		t.Error("registry changed by rejected text")
	}
}

// TestCapitalFlagNotApplicable checks that flag cells must be lowercase
// in the text view.
func TestCapitalFlagNotApplicable(t *testing.T) {
	s := newTwoStateSession(t)
	before := s.Registry()
	_, err := s.SwitchToText()
	must(t, err)

	text := strings.Replace(s.Text(), "|0|0|true|false|||", "|0|0|TRUE|false|||", 1)
	must(t, s.SetText(text))
	if s.Applicable() {
		t.Fatalf("TRUE should not be applicable:\n%s", text)
	}
	if err := s.Apply(); !errors.Is(err, session.ErrNotApplicable) {
		t.Errorf("Apply = %v, want ErrNotApplicable", err)
	}
	if !s.Registry().Equal(before) {
		t.Error("registry changed by rejected text")
	}
}

// TestConvertedDFAIsSnapshot checks that later edits do not reach a DFA
// already produced.
func TestConvertedDFAIsSnapshot(t *testing.T) {
	s := newTwoStateSession(t)
	must(t, s.ToggleTransition(0, "a", 1))
	d, err := s.Convert()
	must(t, err)
	before := nfafile.EncodeDFATable(d)

	must(t, s.ToggleTransition(0, "a", 0))
	must(t, s.SetName(1, "renamed"))
	if nfafile.EncodeDFATable(d) != before {
		t.Error("DFA changed after registry edits")
	}
}
