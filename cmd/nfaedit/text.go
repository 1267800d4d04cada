package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// enterText switches to text mode. The session refuses while the
// automaton is not convertible.
func (ed *Editor) enterText() {
	text, err := ed.sess.SwitchToText()
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	ed.textRow, ed.textCol, ed.textScroll = 0, 0, 0
	ed.mode = ModeText
	ed.showMessage("Editing as text, Ctrl+S applies", MsgInfo)
}

func (ed *Editor) text() string {
	return strings.Join(ed.lines, "\n") + "\n"
}

// syncText hands the buffer to the session so applicability stays current.
func (ed *Editor) syncText() {
	if err := ed.sess.SetText(ed.text()); err != nil {
		ed.showMessage(err.Error(), MsgError)
	}
}

func (ed *Editor) applyText() {
	if !ed.sess.Applicable() {
		ed.showMessage("Text is not a valid table", MsgError)
		return
	}
	if err := ed.sess.Apply(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.lines = nil
	ed.mode = ModeTable
	ed.modified = true
	ed.showMessage("Applied text", MsgSuccess)
}

func (ed *Editor) leaveText() {
	ed.sess.SwitchToTable()
	ed.lines = nil
	ed.mode = ModeTable
	ed.showMessage("Text discarded", MsgInfo)
}

func (ed *Editor) handleTextKey(ev *tcell.EventKey) {
	line := []rune(ed.lines[ed.textRow])
	ed.textCol = clamp(ed.textCol, 0, len(line))

	switch ev.Key() {
	case tcell.KeyEscape:
		ed.leaveText()
		return
	case tcell.KeyCtrlS:
		ed.applyText()
		return
	case tcell.KeyUp:
		ed.textRow--
	case tcell.KeyDown:
		ed.textRow++
	case tcell.KeyLeft:
		if ed.textCol > 0 {
			ed.textCol--
		} else if ed.textRow > 0 {
			ed.textRow--
			ed.textCol = len([]rune(ed.lines[ed.textRow]))
		}
	case tcell.KeyRight:
		if ed.textCol < len(line) {
			ed.textCol++
		} else if ed.textRow < len(ed.lines)-1 {
			ed.textRow++
			ed.textCol = 0
		}
	case tcell.KeyHome:
		ed.textCol = 0
	case tcell.KeyEnd:
		ed.textCol = len(line)
	case tcell.KeyEnter:
		rest := string(line[ed.textCol:])
		ed.lines[ed.textRow] = string(line[:ed.textCol])
		ed.lines = insertLine(ed.lines, ed.textRow+1, rest)
		ed.textRow++
		ed.textCol = 0
		ed.syncText()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		switch {
		case ed.textCol > 0:
			ed.lines[ed.textRow] = string(line[:ed.textCol-1]) + string(line[ed.textCol:])
			ed.textCol--
		case ed.textRow > 0:
			prev := []rune(ed.lines[ed.textRow-1])
			ed.lines[ed.textRow-1] = string(prev) + string(line)
			ed.lines = append(ed.lines[:ed.textRow], ed.lines[ed.textRow+1:]...)
			ed.textRow--
			ed.textCol = len(prev)
		}
		ed.syncText()
	case tcell.KeyDelete:
		switch {
		case ed.textCol < len(line):
			ed.lines[ed.textRow] = string(line[:ed.textCol]) + string(line[ed.textCol+1:])
		case ed.textRow < len(ed.lines)-1:
			ed.lines[ed.textRow] = string(line) + ed.lines[ed.textRow+1]
			ed.lines = append(ed.lines[:ed.textRow+1], ed.lines[ed.textRow+2:]...)
		}
		ed.syncText()
	case tcell.KeyRune:
		ed.lines[ed.textRow] = string(line[:ed.textCol]) + string(ev.Rune()) + string(line[ed.textCol:])
		ed.textCol++
		ed.syncText()
	}

	ed.textRow = clamp(ed.textRow, 0, len(ed.lines)-1)
	ed.textCol = clamp(ed.textCol, 0, len([]rune(ed.lines[ed.textRow])))
}

func insertLine(lines []string, at int, s string) []string {
	lines = append(lines, "")
	copy(lines[at+1:], lines[at:])
	lines[at] = s
	return lines
}
