// Package session owns one editable NFA together with its text buffer,
// mode and undo history. It is the gate between editing surfaces (the
// terminal editor, the HTTP API) and the core: conversion and the switch
// to text mode are refused until the automaton is convertible, and text
// is only committed when it decodes as a whole.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ha1tch/nfa2dfa/internal/logging"
	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
)

// DefaultUndoLevels bounds the undo history unless WithUndoLimit is given.
const DefaultUndoLevels = 50

// Session errors.
var (
	ErrNotConvertible = errors.New("automaton is not convertible")
	ErrNotApplicable  = errors.New("text does not decode as a state table")
	ErrWrongMode      = errors.New("operation not available in this mode")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
)

// Mode is the active editing surface.
type Mode int

const (
	ModeTable Mode = iota
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "table"
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	reg    *nfa.Registry
	mode   Mode
	text   string
	undo   []*nfa.Registry
	redo   []*nfa.Registry
	limit  int
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithAlphabet starts from a single initial state over the given
// symbols instead of the default ε, a, b.
func WithAlphabet(symbols ...string) Option {
	return func(s *Session) {
		r := nfa.NewRegistry(symbols...)
		id := r.AddState()
		_ = r.SetInitial(id, true)
		s.reg = r
	}
}

// WithRegistry starts from a copy of r.
func WithRegistry(r *nfa.Registry) Option {
	return func(s *Session) {
		s.reg = r.Clone()
	}
}

// WithUndoLimit bounds the undo history; 0 disables undo.
func WithUndoLimit(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// New creates a session in table mode.
func New(opts ...Option) *Session {
	s := &Session{
		reg:    nfa.NewDefault(),
		limit:  DefaultUndoLevels,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the active mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Registry returns a copy of the current automaton.
func (s *Session) Registry() *nfa.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Clone()
}

// Check reports the first structural problem, or nil.
func (s *Session) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Check()
}

// Convertible reports whether conversion and text mode are allowed.
func (s *Session) Convertible() bool {
	return s.Check() == nil
}

// edit runs fn against the registry in table mode and records an undo
// step when it succeeds.
func (s *Session) edit(op string, fn func(r *nfa.Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeTable {
		return fmt.Errorf("%s: %w", op, ErrWrongMode)
	}
	before := s.reg.Clone()
	if err := fn(s.reg); err != nil {
		s.reg = before
		return err
	}
	s.pushUndo(before)
	s.logger.Debug("edit", "op", op, "states", s.reg.Len())
	return nil
}

func (s *Session) pushUndo(r *nfa.Registry) {
	s.redo = nil
	if s.limit == 0 {
		return
	}
	s.undo = append(s.undo, r)
	if len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
}

// AddState adds a state and returns its id.
func (s *Session) AddState() (int, error) {
	var id int
	err := s.edit("add state", func(r *nfa.Registry) error {
		id = r.AddState()
		return nil
	})
	return id, err
}

// DeleteState removes a state and every transition into it.
func (s *Session) DeleteState(id int) error {
	return s.edit("delete state", func(r *nfa.Registry) error {
		return r.DeleteState(id)
	})
}

// SetName renames a state.
func (s *Session) SetName(id int, name string) error {
	return s.edit("set name", func(r *nfa.Registry) error {
		return r.SetName(id, name)
	})
}

// SetInitial sets the initial flag of a state.
func (s *Session) SetInitial(id int, initial bool) error {
	return s.edit("set initial", func(r *nfa.Registry) error {
		return r.SetInitial(id, initial)
	})
}

// SetFinal sets the final flag of a state.
func (s *Session) SetFinal(id int, final bool) error {
	return s.edit("set final", func(r *nfa.Registry) error {
		return r.SetFinal(id, final)
	})
}

// StateUpdate names the fields of a state to change. Nil fields are left
// alone.
type StateUpdate struct {
	Name    *string
	Initial *bool
	Final   *bool
}

// UpdateState applies every field of u as a single undo step. If any
// field is rejected the state is left as it was.
func (s *Session) UpdateState(id int, u StateUpdate) error {
	return s.edit("update state", func(r *nfa.Registry) error {
		if u.Name != nil {
			if err := r.SetName(id, *u.Name); err != nil {
				return err
			}
		}
		if u.Initial != nil {
			if err := r.SetInitial(id, *u.Initial); err != nil {
				return err
			}
		}
		if u.Final != nil {
			return r.SetFinal(id, *u.Final)
		}
		return nil
	})
}

// AddSymbol adds sym to the alphabet.
func (s *Session) AddSymbol(sym string) error {
	return s.edit("add symbol", func(r *nfa.Registry) error {
		return r.AddSymbol(sym)
	})
}

// AddNextSymbol adds the first unused pool letter and returns it.
func (s *Session) AddNextSymbol() (string, error) {
	var sym string
	err := s.edit("add symbol", func(r *nfa.Registry) error {
		var err error
		sym, err = r.AddNextSymbol()
		return err
	})
	return sym, err
}

// RemoveSymbol removes sym from the alphabet and every state.
func (s *Session) RemoveSymbol(sym string) error {
	return s.edit("remove symbol", func(r *nfa.Registry) error {
		return r.RemoveSymbol(sym)
	})
}

// ToggleTransition adds or removes target from a state's targets on sym.
func (s *Session) ToggleTransition(id int, sym string, target int) error {
	return s.edit("toggle transition", func(r *nfa.Registry) error {
		return r.ToggleTransition(id, sym, target)
	})
}

// Undo restores the registry before the last edit or text commit.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeTable {
		return fmt.Errorf("undo: %w", ErrWrongMode)
	}
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.reg)
	s.reg = prev
	return nil
}

// Redo reapplies the last undone change.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeTable {
		return fmt.Errorf("redo: %w", ErrWrongMode)
	}
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.reg)
	s.reg = next
	return nil
}

// CanUndo reports whether Undo has a step to restore.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether Redo has a step to reapply.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// SwitchToText enters text mode with the buffer set to the encoded
// table. It is refused while the automaton is not convertible.
func (s *Session) SwitchToText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reg.Check(); err != nil {
		s.logger.Info("text mode refused", "err", err)
		return "", fmt.Errorf("%w: %w", ErrNotConvertible, err)
	}
	s.mode = ModeText
	s.text = nfafile.EncodeTable(s.reg)
	return s.text, nil
}

// SwitchToTable leaves text mode, discarding the buffer.
func (s *Session) SwitchToTable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeTable
	s.text = ""
}

// Text returns the text buffer. It is empty in table mode.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetText replaces the text buffer.
func (s *Session) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeText {
		return fmt.Errorf("set text: %w", ErrWrongMode)
	}
	s.text = text
	return nil
}

// Applicable reports whether the buffer decodes against the current
// alphabet.
func (s *Session) Applicable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == ModeText && nfafile.TableApplicable(s.text, s.reg.Alphabet())
}

// Apply commits the text buffer and returns to table mode. On failure
// the registry, the buffer and the mode are unchanged.
func (s *Session) Apply() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeText {
		return fmt.Errorf("apply: %w", ErrWrongMode)
	}
	if err := s.commit(s.text); err != nil {
		return err
	}
	s.mode = ModeTable
	s.text = ""
	return nil
}

// ApplyText commits text directly, whatever the mode, and returns to
// table mode on success.
func (s *Session) ApplyText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(text); err != nil {
		return err
	}
	s.mode = ModeTable
	s.text = ""
	return nil
}

// commit replaces the registry with the decoded text.
func (s *Session) commit(text string) error {
	r, err := nfafile.DecodeTable(text, s.reg.Alphabet())
	if err != nil {
		s.logger.Info("text rejected", "err", err)
		return fmt.Errorf("%w: %w", ErrNotApplicable, err)
	}
	s.pushUndo(s.reg)
	s.reg = r
	s.logger.Debug("text committed", "states", r.Len())
	return nil
}

// Convert runs the subset construction on the current automaton.
func (s *Session) Convert() (*nfa.DFA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reg.Check(); err != nil {
		s.logger.Info("conversion refused", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrNotConvertible, err)
	}
	d, err := nfa.Convert(s.reg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("converted", "nfa_states", s.reg.Len(), "dfa_states", d.Len())
	return d, nil
}

// Snapshot is a consistent read of the session.
type Snapshot struct {
	Alphabet    []string
	States      []nfa.State
	Mode        Mode
	Text        string
	Convertible bool
	Problem     string
	CanUndo     bool
	CanRedo     bool
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Alphabet:    s.reg.Alphabet(),
		States:      s.reg.States(),
		Mode:        s.mode,
		Text:        s.text,
		Convertible: true,
		CanUndo:     len(s.undo) > 0,
		CanRedo:     len(s.redo) > 0,
	}
	if err := s.reg.Check(); err != nil {
		snap.Convertible = false
		snap.Problem = err.Error()
	}
	return snap
}
