package nfa

import (
	"fmt"
	"strings"
)

// Runner simulates an NFA, tracking every state it could be in.
type Runner struct {
	reg     *Registry
	current []int
	history []Step
}

// Step records one step of execution.
type Step struct {
	From  []int
	Input string
	To    []int
}

// NewRunner creates a runner over a snapshot of r. The registry must be
// convertible.
func NewRunner(r *Registry) (*Runner, error) {
	if err := r.Check(); err != nil {
		return nil, fmt.Errorf("invalid NFA: %w", err)
	}
	run := &Runner{reg: r.Clone()}
	run.Reset()
	return run, nil
}

// Reset returns the runner to the closure of the initial state.
func (run *Runner) Reset() {
	start, _ := run.reg.InitialID()
	run.current = run.reg.EpsilonClosure([]int{start})
	run.history = make([]Step, 0)
}

// Current returns the sorted ids of the current states.
func (run *Runner) Current() []int {
	return append([]int{}, run.current...)
}

// CurrentState returns the current set formatted with state names.
func (run *Runner) CurrentState() string {
	names := make([]string, len(run.current))
	for i, id := range run.current {
		s, _ := run.reg.State(id)
		names[i] = s.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Accepting returns true if any current state is final.
func (run *Runner) Accepting() bool {
	for _, id := range run.current {
		if s, ok := run.reg.states[id]; ok && s.Final {
			return true
		}
	}
	return false
}

// Step consumes one input symbol. It returns an error, leaving the
// runner unchanged, when the symbol is unknown or no state can move.
func (run *Runner) Step(input string) error {
	if input == Epsilon || !run.reg.HasSymbol(input) {
		return fmt.Errorf("input %q: %w", input, ErrUnknownSymbol)
	}
	moved := run.reg.Move(run.current, input)
	if len(moved) == 0 {
		return fmt.Errorf("no transition from %s on input %q", run.CurrentState(), input)
	}
	next := run.reg.EpsilonClosure(moved)
	run.history = append(run.history, Step{
		From:  run.current,
		Input: input,
		To:    next,
	})
	run.current = next
	return nil
}

// Run processes a sequence of inputs, stopping at the first error.
func (run *Runner) Run(inputs []string) error {
	for _, input := range inputs {
		if err := run.Step(input); err != nil {
			return err
		}
	}
	return nil
}

// Accepts resets the runner and reports whether inputs are accepted.
func (run *Runner) Accepts(inputs []string) bool {
	run.Reset()
	if err := run.Run(inputs); err != nil {
		return false
	}
	return run.Accepting()
}

// History returns the execution history.
func (run *Runner) History() []Step {
	return run.history
}

// Status returns a status string for the current states.
func (run *Runner) Status() string {
	status := fmt.Sprintf("State: %s", run.CurrentState())
	if run.Accepting() {
		status += " [accepting]"
	}
	return status
}
