package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/session"
)

// Styles
var (
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleHeader     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCell       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleCellInit   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCellAcc    = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleOK         = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleProblem    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	ed.screen.HideCursor()
	w, h := ed.screen.Size()
	snap := ed.sess.Snapshot()

	switch ed.mode {
	case ModeText:
		ed.drawText(w, h)
	case ModeDFA:
		ed.drawDFA(w, h)
	default:
		ed.drawTable(snap, w, h)
	}

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModePicker:
		ed.drawPicker(snap, w, h)
	}

	ed.drawStatusBar(w, h)
}

// cellText renders one table cell the way the text form writes it.
func cellText(st nfa.State, col int, alphabet []string) string {
	switch col {
	case colID:
		return strconv.Itoa(st.ID)
	case colNode:
		return st.Name
	case colInitial:
		return strconv.FormatBool(st.Initial)
	case colFinal:
		return strconv.FormatBool(st.Final)
	}
	targets := st.Targets(alphabet[col-colSymbols])
	parts := make([]string, len(targets))
	for i, id := range targets {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func headers(alphabet []string) []string {
	return append([]string{"id", "node", "q0", "F"}, alphabet...)
}

func columnWidths(snap session.Snapshot) []int {
	hdr := headers(snap.Alphabet)
	widths := make([]int, len(hdr))
	for i, hd := range hdr {
		widths[i] = utf8.RuneCountInString(hd)
	}
	for _, st := range snap.States {
		for col := range widths {
			if n := utf8.RuneCountInString(cellText(st, col, snap.Alphabet)); n > widths[col] {
				widths[col] = n
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	return widths
}

func (ed *Editor) drawTable(snap session.Snapshot, w, h int) {
	title := "nfaedit"
	if ed.filename != "" {
		title += ": " + filepath.Base(ed.filename)
	}
	ed.drawString(1, 0, title, styleTitle)

	widths := columnWidths(snap)
	hdr := headers(snap.Alphabet)

	x := 1
	for col, hd := range hdr {
		ed.drawString(x, 2, pad(hd, widths[col]), styleHeader)
		x += widths[col] + 3
	}

	// Rows between the header and the problem line
	visible := h - 8
	if visible < 1 {
		visible = 1
	}
	if ed.row < ed.scrollY {
		ed.scrollY = ed.row
	}
	if ed.row >= ed.scrollY+visible {
		ed.scrollY = ed.row - visible + 1
	}

	y := 3
	for i := ed.scrollY; i < len(snap.States) && y < 3+visible; i++ {
		st := snap.States[i]
		x = 1
		for col := range hdr {
			style := styleCell
			switch {
			case i == ed.row && col == ed.col && ed.mode == ModeTable:
				style = styleCursor
			case col == colNode && st.Initial:
				style = styleCellInit
			case col == colNode && st.Final:
				style = styleCellAcc
			}
			ed.drawString(x, y, pad(cellText(st, col, snap.Alphabet), widths[col]), style)
			x += widths[col] + 3
		}
		y++
	}

	y++
	if snap.Convertible {
		ed.drawString(1, y, "✓ convertible", styleOK)
	} else {
		ed.drawString(1, y, truncate("✗ "+snap.Problem, w-2), styleProblem)
	}
}

func (ed *Editor) drawText(w, h int) {
	ed.drawString(1, 0, "Text", styleTitle)
	if ed.sess.Applicable() {
		ed.drawString(8, 0, "applicable", styleOK)
	} else {
		ed.drawString(8, 0, "not applicable", styleProblem)
	}

	visible := h - 4
	if visible < 1 {
		visible = 1
	}
	if ed.textRow < ed.textScroll {
		ed.textScroll = ed.textRow
	}
	if ed.textRow >= ed.textScroll+visible {
		ed.textScroll = ed.textRow - visible + 1
	}

	for i := 0; i < visible && ed.textScroll+i < len(ed.lines); i++ {
		ed.drawString(1, 2+i, ed.lines[ed.textScroll+i], styleCell)
	}
	ed.screen.ShowCursor(1+ed.textCol, 2+ed.textRow-ed.textScroll)
}

func (ed *Editor) drawDFA(w, h int) {
	ed.drawString(1, 0, "DFA", styleTitle)
	for i := 0; i < h-4 && ed.dfaScroll+i < len(ed.dfaLines); i++ {
		ed.drawString(1, 2+i, truncate(ed.dfaLines[ed.dfaScroll+i], w-2), styleCell)
	}
}

func (ed *Editor) drawPicker(snap session.Snapshot, w, h int) {
	boxW := 40
	boxH := len(snap.States) + 4
	if boxH > h-4 {
		boxH = h - 4
	}
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)

	var from nfa.State
	for _, st := range snap.States {
		if st.ID == ed.pickFrom {
			from = st
		}
	}
	ed.drawString(boxX+2, boxY+1, truncate(fmt.Sprintf("%d on %s:", ed.pickFrom, ed.pickSymbol), boxW-4), styleInput)

	targets := make(map[int]bool)
	for _, id := range from.Targets(ed.pickSymbol) {
		targets[id] = true
	}
	for i, st := range snap.States {
		if i >= boxH-3 {
			break
		}
		mark := "[ ]"
		if targets[st.ID] {
			mark = "[x]"
		}
		style := styleInput
		if i == ed.pickSel {
			style = styleMenuSel
		}
		line := fmt.Sprintf("%s %d %s", mark, st.ID, st.Name)
		ed.drawString(boxX+2, boxY+2+i, pad(truncate(line, boxW-4), boxW-4), style)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+utf8.RuneCountInString(ed.inputPrompt), boxY+1, ed.inputBuffer+"_", styleInput)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-utf8.RuneCountInString(msg)-2, y, msg, style)
	}

	y = h - 2
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeText:
		return "TEXT"
	case ModeInput:
		return "INPUT"
	case ModePicker:
		return "TARGETS"
	case ModeDFA:
		return "DFA"
	default:
		return "TABLE"
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeText:
		return "Ctrl+S:Apply  Esc:Discard"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModePicker:
		return "↑↓:Select  Space:Toggle  Enter/Esc:Done"
	case ModeDFA:
		return "↑↓:Scroll  Esc:Back"
	default:
		return "a:Add  d:Delete  Enter:Edit  Space:Toggle  +/-:Symbol  t:Text  c:Convert  u/r:Undo/Redo  w:Save  q:Quit"
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		if maxLen < 0 {
			maxLen = 0
		}
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
