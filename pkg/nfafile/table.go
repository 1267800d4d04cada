// Package nfafile reads and writes NFA definitions and renders automata:
// the text table form, JSON, HCL, DOT, Mermaid, SVG and PNG.
package nfafile

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// fixedColumns is the number of columns before the symbol columns:
// id, node, q0, F.
const fixedColumns = 4

// ErrNotApplicable is returned when text cannot be decoded as a table.
var ErrNotApplicable = errors.New("text is not a valid state table")

// EncodeTable renders a registry in the text table form:
//
//	|id|node|q0|F|ε|a|
//	|---|---|---|---|---|---|
//	|0|q0|true|false|1|0,1|
func EncodeTable(r *nfa.Registry) string {
	alphabet := r.Alphabet()
	var sb strings.Builder

	sb.WriteString("|id|node|q0|F|")
	sb.WriteString(strings.Join(alphabet, "|"))
	sb.WriteString("|\n")
	sb.WriteString(strings.Repeat("|---", fixedColumns+len(alphabet)))
	sb.WriteString("|\n")

	for _, s := range r.States() {
		sb.WriteString(fmt.Sprintf("|%d|%s|%t|%t|", s.ID, s.Name, s.Initial, s.Final))
		cells := make([]string, len(alphabet))
		for i, sym := range alphabet {
			cells[i] = joinIDs(s.Targets(sym))
		}
		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("|\n")
	}
	return sb.String()
}

// EncodeDFATable renders a converted automaton in the same layout. The
// id column holds the set name and the node column its NFA labels; a
// missing move is an empty cell. The result is for display only.
func EncodeDFATable(d *nfa.DFA) string {
	alphabet := d.Alphabet()
	var sb strings.Builder

	sb.WriteString("|id|node|q0|F|")
	sb.WriteString(strings.Join(alphabet, "|"))
	sb.WriteString("|\n")
	sb.WriteString(strings.Repeat("|---", fixedColumns+len(alphabet)))
	sb.WriteString("|\n")

	for _, s := range d.States() {
		sb.WriteString(fmt.Sprintf("|%s|%s|%t|%t|", s.Name, d.Label(s.Name), s.Initial, s.Final))
		cells := make([]string, len(alphabet))
		for i, sym := range alphabet {
			cells[i] = s.Transitions[sym]
		}
		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("|\n")
	}
	return sb.String()
}

// TableApplicable reports whether text can be decoded against alphabet.
func TableApplicable(text string, alphabet []string) bool {
	return CheckTable(text, alphabet) == nil
}

// CheckTable reports why text cannot be decoded against alphabet, or nil.
// The separator line is not inspected.
func CheckTable(text string, alphabet []string) error {
	if err := checkAlphabet(alphabet); err != nil {
		return err
	}
	rows := splitRows(text)
	if len(rows) <= 2 {
		return fmt.Errorf("%w: need a header, a separator and at least one row", ErrNotApplicable)
	}

	want := fixedColumns + len(alphabet)
	if n := len(headerCells(rows[0])); n != want {
		return fmt.Errorf("%w: header has %d columns, want %d", ErrNotApplicable, n, want)
	}

	ids := make(map[int]bool)
	for i := 2; i < len(rows); i++ {
		line := i + 1
		cols := rowCells(rows[i])
		if len(cols) != want {
			return fmt.Errorf("%w: line %d has %d columns, want %d", ErrNotApplicable, line, len(cols), want)
		}
		id, err := strconv.Atoi(cols[0])
		if err != nil {
			return fmt.Errorf("%w: line %d: id %q is not a number", ErrNotApplicable, line, cols[0])
		}
		for _, flag := range cols[2:4] {
			if flag != "true" && flag != "false" {
				return fmt.Errorf("%w: line %d: %q is not true or false", ErrNotApplicable, line, flag)
			}
		}
		for _, cell := range cols[fixedColumns:] {
			if _, err := parseIDs(cell); err != nil {
				return fmt.Errorf("%w: line %d: %v", ErrNotApplicable, line, err)
			}
		}
		if ids[id] {
			return fmt.Errorf("%w: line %d: duplicate id %d", ErrNotApplicable, line, id)
		}
		ids[id] = true
	}
	return nil
}

// checkAlphabet requires ε first followed by distinct valid symbols, the
// order a registry keeps them in.
func checkAlphabet(alphabet []string) error {
	if !slices.Equal(nfa.NewRegistry(alphabet...).Alphabet(), alphabet) {
		return fmt.Errorf("%w: alphabet %v must start with %s and hold distinct valid symbols",
			ErrNotApplicable, alphabet, nfa.Epsilon)
	}
	return nil
}

// DecodeTable parses text into a new registry over alphabet. Nothing is
// built unless the whole text passes CheckTable. Transition targets are
// sorted; dangling targets are kept for the validator to report.
func DecodeTable(text string, alphabet []string) (*nfa.Registry, error) {
	if err := CheckTable(text, alphabet); err != nil {
		return nil, err
	}

	r := nfa.NewRegistry(alphabet...)
	rows := splitRows(text)
	for i := 2; i < len(rows); i++ {
		cols := rowCells(rows[i])
		id, _ := strconv.Atoi(cols[0])
		s := nfa.State{
			ID:          id,
			Name:        cols[1],
			Initial:     cols[2] == "true",
			Final:       cols[3] == "true",
			Transitions: make(map[string][]int, len(alphabet)),
		}
		for j, sym := range alphabet {
			s.Transitions[sym], _ = parseIDs(cols[fixedColumns+j])
		}
		if err := r.Put(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// TableAlphabet reads the symbol columns from a table header.
func TableAlphabet(text string) ([]string, error) {
	rows := splitRows(text)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty text", ErrNotApplicable)
	}
	cells := headerCells(rows[0])
	if len(cells) <= fixedColumns {
		return nil, fmt.Errorf("%w: header has no symbol columns", ErrNotApplicable)
	}
	return cells[fixedColumns:], nil
}

// ReadTable decodes a table using the alphabet named in its own header.
func ReadTable(text string) (*nfa.Registry, error) {
	alphabet, err := TableAlphabet(text)
	if err != nil {
		return nil, err
	}
	return DecodeTable(text, alphabet)
}

func splitRows(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	rows := strings.Split(text, "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, "\r")
	}
	return rows
}

// headerCells returns the non-empty trimmed cells of the header.
func headerCells(row string) []string {
	var cells []string
	for _, c := range strings.Split(row, "|") {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// rowCells returns the trimmed cells between the outer delimiters.
func rowCells(row string) []string {
	parts := strings.Split(row, "|")
	if len(parts) < 2 {
		return nil
	}
	parts = parts[1 : len(parts)-1]
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseIDs(cell string) ([]int, error) {
	ids := make([]int, 0)
	for _, tok := range strings.Split(cell, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("target %q is not a number", tok)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
