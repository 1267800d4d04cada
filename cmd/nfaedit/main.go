// Command nfaedit is a terminal editor for NFA state tables.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/nfa2dfa/internal/config"
	"github.com/ha1tch/nfa2dfa/internal/logging"
	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
	"github.com/ha1tch/nfa2dfa/pkg/session"
)

// Table columns before the symbol columns.
const (
	colID = iota
	colNode
	colInitial
	colFinal
	colSymbols
)

// Mode represents editor mode
type Mode int

const (
	ModeTable  Mode = iota
	ModeText        // editing the table as text
	ModeInput       // single-line prompt
	ModePicker      // choosing transition targets
	ModeDFA         // viewing the converted DFA
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// Editor holds the terminal state around one editing session.
type Editor struct {
	screen      tcell.Screen
	sess        *session.Session
	logger      *slog.Logger
	filename    string
	modified    bool
	mode        Mode
	message     string
	messageType MessageType

	// Table cursor
	row     int
	col     int
	scrollY int

	// Text buffer, one entry per line
	lines      []string
	textRow    int
	textCol    int // rune offset
	textScroll int

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// Target picker
	pickFrom   int
	pickSymbol string
	pickSel    int

	// DFA view
	dfaLines  []string
	dfaScroll int
}

func main() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewNop()
	if path := os.Getenv("NFA2DFA_EDIT_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		level, _ := logging.ParseLevel(cfg.Log.Level)
		logger = logging.NewWriter(f, level, cfg.Log.Format)
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithUndoLimit(cfg.Editor.UndoLevels),
		session.WithAlphabet(cfg.Editor.Alphabet...),
	}

	var filename string
	if len(os.Args) > 1 {
		filename = os.Args[1]
		if _, statErr := os.Stat(filename); statErr == nil {
			r, err := loadFile(filename)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
				os.Exit(1)
			}
			opts = append(opts, session.WithRegistry(r))
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}

	ed := newEditor(screen, session.New(opts...), logger)
	ed.filename = filename
	ed.run()

	screen.Fini()
}

func newEditor(screen tcell.Screen, sess *session.Session, logger *slog.Logger) *Editor {
	return &Editor{
		screen: screen,
		sess:   sess,
		logger: logger,
		mode:   ModeTable,
		col:    colNode,
	}
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		switch ev := ed.screen.PollEvent().(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

// handleKey dispatches a key event. It returns true to quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	switch ed.mode {
	case ModeTable:
		return ed.handleTableKey(ev)
	case ModeText:
		ed.handleTextKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModePicker:
		ed.handlePickerKey(ev)
	case ModeDFA:
		ed.handleDFAKey(ev)
	}
	return false
}

func (ed *Editor) handleTableKey(ev *tcell.EventKey) bool {
	snap := ed.sess.Snapshot()
	ed.clampCursor(snap)

	switch ev.Key() {
	case tcell.KeyUp:
		ed.row--
	case tcell.KeyDown:
		ed.row++
	case tcell.KeyLeft:
		ed.col--
	case tcell.KeyRight:
		ed.col++
	case tcell.KeyHome:
		ed.col = colID
	case tcell.KeyEnd:
		ed.col = colSymbols + len(snap.Alphabet) - 1
	case tcell.KeyEnter:
		ed.activateCell(snap)
	case tcell.KeyDelete:
		ed.deleteState(snap)
	case tcell.KeyCtrlZ:
		ed.undo()
	case tcell.KeyCtrlY:
		ed.redo()
	case tcell.KeyCtrlS:
		ed.save()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			ed.row--
		case 'j':
			ed.row++
		case 'h':
			ed.col--
		case 'l':
			ed.col++
		case 'a':
			ed.addState()
		case 'd':
			ed.deleteState(snap)
		case 'e':
			ed.editName(snap)
		case ' ':
			ed.toggleCell(snap)
		case '+':
			ed.addSymbol()
		case '-':
			ed.removeSymbol(snap)
		case 't':
			ed.enterText()
		case 'c':
			ed.convert()
		case 'u':
			ed.undo()
		case 'r':
			ed.redo()
		case 'w':
			ed.save()
		}
	}
	ed.clampCursor(ed.sess.Snapshot())
	return false
}

func (ed *Editor) clampCursor(snap session.Snapshot) {
	maxCol := colSymbols + len(snap.Alphabet) - 1
	ed.col = clamp(ed.col, colID, maxCol)
	ed.row = clamp(ed.row, 0, len(snap.States)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// current returns the state under the cursor.
func (ed *Editor) current(snap session.Snapshot) (nfa.State, bool) {
	if ed.row < 0 || ed.row >= len(snap.States) {
		return nfa.State{}, false
	}
	return snap.States[ed.row], true
}

// symbolAt returns the symbol of a symbol column.
func symbolAt(snap session.Snapshot, col int) (string, bool) {
	i := col - colSymbols
	if i < 0 || i >= len(snap.Alphabet) {
		return "", false
	}
	return snap.Alphabet[i], true
}

func (ed *Editor) activateCell(snap session.Snapshot) {
	switch {
	case ed.col == colNode:
		ed.editName(snap)
	case ed.col == colInitial || ed.col == colFinal:
		ed.toggleCell(snap)
	case ed.col >= colSymbols:
		st, ok := ed.current(snap)
		sym, symOK := symbolAt(snap, ed.col)
		if !ok || !symOK {
			return
		}
		ed.pickFrom = st.ID
		ed.pickSymbol = sym
		ed.pickSel = 0
		ed.mode = ModePicker
	}
}

func (ed *Editor) toggleCell(snap session.Snapshot) {
	st, ok := ed.current(snap)
	if !ok {
		return
	}
	var err error
	switch ed.col {
	case colInitial:
		err = ed.sess.SetInitial(st.ID, !st.Initial)
	case colFinal:
		err = ed.sess.SetFinal(st.ID, !st.Final)
	default:
		return
	}
	ed.afterEdit(err, "")
}

func (ed *Editor) addState() {
	id, err := ed.sess.AddState()
	ed.afterEdit(err, fmt.Sprintf("Added state %d", id))
	if err == nil {
		ed.row = ed.sess.Registry().Len() - 1
		ed.col = colNode
	}
}

func (ed *Editor) deleteState(snap session.Snapshot) {
	st, ok := ed.current(snap)
	if !ok {
		return
	}
	ed.afterEdit(ed.sess.DeleteState(st.ID), fmt.Sprintf("Deleted state %d", st.ID))
}

func (ed *Editor) editName(snap session.Snapshot) {
	st, ok := ed.current(snap)
	if !ok {
		return
	}
	id := st.ID
	ed.inputPrompt = fmt.Sprintf("Name of %d: ", id)
	ed.inputBuffer = st.Name
	ed.inputAction = func(name string) {
		ed.mode = ModeTable
		ed.afterEdit(ed.sess.SetName(id, name), "")
	}
	ed.mode = ModeInput
}

func (ed *Editor) addSymbol() {
	sym, err := ed.sess.AddNextSymbol()
	ed.afterEdit(err, fmt.Sprintf("Added symbol %s", sym))
}

func (ed *Editor) removeSymbol(snap session.Snapshot) {
	sym, ok := symbolAt(snap, ed.col)
	if !ok {
		ed.showMessage("Move to a symbol column to remove it", MsgError)
		return
	}
	ed.afterEdit(ed.sess.RemoveSymbol(sym), fmt.Sprintf("Removed symbol %s", sym))
}

func (ed *Editor) undo() {
	if err := ed.sess.Undo(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	ed.showMessage("Undo", MsgInfo)
}

func (ed *Editor) redo() {
	if err := ed.sess.Redo(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	ed.showMessage("Redo", MsgInfo)
}

// afterEdit reports the outcome of an edit.
func (ed *Editor) afterEdit(err error, success string) {
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	if success != "" {
		ed.showMessage(success, MsgSuccess)
	}
}

func (ed *Editor) convert() {
	d, err := ed.sess.Convert()
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.dfaLines = strings.Split(strings.TrimRight(nfafile.EncodeDFATable(d), "\n"), "\n")
	ed.dfaScroll = 0
	ed.mode = ModeDFA
	ed.showMessage(fmt.Sprintf("DFA has %d states", d.Len()), MsgSuccess)
}

func (ed *Editor) handleDFAKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		ed.mode = ModeTable
	case tcell.KeyUp:
		if ed.dfaScroll > 0 {
			ed.dfaScroll--
		}
	case tcell.KeyDown:
		if ed.dfaScroll < len(ed.dfaLines)-1 {
			ed.dfaScroll++
		}
	case tcell.KeyRune:
		if ev.Rune() == 'q' || ev.Rune() == 'c' {
			ed.mode = ModeTable
		}
	}
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeTable
		ed.inputBuffer = ""
	case tcell.KeyEnter:
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) handlePickerKey(ev *tcell.EventKey) {
	states := ed.sess.Snapshot().States
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		ed.mode = ModeTable
	case tcell.KeyUp:
		ed.pickSel = clamp(ed.pickSel-1, 0, len(states)-1)
	case tcell.KeyDown:
		ed.pickSel = clamp(ed.pickSel+1, 0, len(states)-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			if ed.pickSel < len(states) {
				target := states[ed.pickSel].ID
				ed.afterEdit(ed.sess.ToggleTransition(ed.pickFrom, ed.pickSymbol, target), "")
			}
		case 'q':
			ed.mode = ModeTable
		}
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
}

// File operations

func loadFile(path string) (*nfa.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return nfafile.ParseJSON(data)
	case ".hcl":
		return nfafile.ParseHCL(data, path)
	case ".md", ".txt", ".table":
		return nfafile.ReadTable(string(data))
	default:
		return nil, fmt.Errorf("unknown file format: %s", ext)
	}
}

func saveFile(path string, r *nfa.Registry) error {
	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = nfafile.ToJSON(r, true)
	case ".hcl":
		data = nfafile.ToHCL(r)
	case ".md", ".txt", ".table":
		data = []byte(nfafile.EncodeTable(r))
	default:
		err = fmt.Errorf("unknown file format: %s", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.inputPrompt = "Save as: "
		ed.inputBuffer = "nfa.json"
		ed.inputAction = func(path string) {
			ed.mode = ModeTable
			ed.filename = path
			ed.save()
		}
		ed.mode = ModeInput
		return
	}
	if err := saveFile(ed.filename, ed.sess.Registry()); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = false
	ed.logger.Info("saved", "file", ed.filename)
	ed.showMessage("Saved "+filepath.Base(ed.filename), MsgSuccess)
}
