// Package codegen generates source code for converted automata.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// GenerateGo generates a self-contained Go state machine for a DFA.
// The DFA is partial: Step reports false when a state has no move for
// the input and leaves the state unchanged.
func GenerateGo(d *nfa.DFA, packageName, typeName string) string {
	typeName = toPascalCase(sanitizeName(typeName))
	if typeName == "" || typeName == "Unnamed" {
		typeName = "DFA"
	}
	if packageName == "" {
		packageName = "dfa"
	}
	lower := strings.ToLower(typeName[:1]) + typeName[1:]

	states := d.States()
	index := make(map[string]int, len(states))
	for i, s := range states {
		index[s.Name] = i
	}
	stateConst := func(name string) string {
		return fmt.Sprintf("%sState%d", typeName, index[name])
	}

	symbols := d.Alphabet()
	inputs := inputNames(symbols)
	inputConst := func(i int) string {
		return fmt.Sprintf("%sInput%s", typeName, inputs[i])
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf(`// Code generated by nfa2dfa. DO NOT EDIT.
// States: %d
// Initial: %s

package %s

`, len(states), d.Label(d.Initial()), packageName))

	// State type
	sb.WriteString(fmt.Sprintf("// %sState is a state of the automaton.\n", typeName))
	sb.WriteString(fmt.Sprintf("type %sState uint16\n\n", typeName))

	sb.WriteString("const (\n")
	for i, s := range states {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("\t%s %sState = iota // %s\n", stateConst(s.Name), typeName, d.Label(s.Name)))
		} else {
			sb.WriteString(fmt.Sprintf("\t%s // %s\n", stateConst(s.Name), d.Label(s.Name)))
		}
	}
	sb.WriteString(")\n\n")

	sb.WriteString(fmt.Sprintf("var %sStateNames = [...]string{\n", lower))
	for _, s := range states {
		sb.WriteString(fmt.Sprintf("\t%q,\n", d.Label(s.Name)))
	}
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("func (s %sState) String() string {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tif int(s) < len(%sStateNames) {\n", lower))
	sb.WriteString(fmt.Sprintf("\t\treturn %sStateNames[s]\n", lower))
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn \"unknown\"\n")
	sb.WriteString("}\n\n")

	// Input type
	sb.WriteString(fmt.Sprintf("// %sInput is an input symbol.\n", typeName))
	sb.WriteString(fmt.Sprintf("type %sInput uint16\n\n", typeName))

	if len(symbols) > 0 {
		sb.WriteString("const (\n")
		for i := range symbols {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("\t%s %sInput = iota\n", inputConst(i), typeName))
			} else {
				sb.WriteString(fmt.Sprintf("\t%s\n", inputConst(i)))
			}
		}
		sb.WriteString(")\n\n")
	}

	sb.WriteString(fmt.Sprintf("var %sInputNames = [...]string{\n", lower))
	for _, sym := range symbols {
		sb.WriteString(fmt.Sprintf("\t%q,\n", sym))
	}
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("func (i %sInput) String() string {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tif int(i) < len(%sInputNames) {\n", lower))
	sb.WriteString(fmt.Sprintf("\t\treturn %sInputNames[i]\n", lower))
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn \"unknown\"\n")
	sb.WriteString("}\n\n")

	// Parse helper for string inputs
	sb.WriteString(fmt.Sprintf("// Parse%sInput returns the input for a symbol.\n", typeName))
	sb.WriteString(fmt.Sprintf("func Parse%sInput(sym string) (%sInput, bool) {\n", typeName, typeName))
	sb.WriteString(fmt.Sprintf("\tfor i, name := range %sInputNames {\n", lower))
	sb.WriteString("\t\tif name == sym {\n")
	sb.WriteString(fmt.Sprintf("\t\t\treturn %sInput(i), true\n", typeName))
	sb.WriteString("\t\t}\n")
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn 0, false\n")
	sb.WriteString("}\n\n")

	// Machine
	sb.WriteString(fmt.Sprintf("// %s is the deterministic automaton.\n", typeName))
	sb.WriteString(fmt.Sprintf("type %s struct {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tstate %sState\n", typeName))
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("// New%s returns an automaton in its initial state.\n", typeName))
	sb.WriteString(fmt.Sprintf("func New%s() *%s {\n", typeName, typeName))
	sb.WriteString(fmt.Sprintf("\treturn &%s{state: %s}\n", typeName, stateConst(d.Initial())))
	sb.WriteString("}\n\n")

	sb.WriteString("// State returns the current state.\n")
	sb.WriteString(fmt.Sprintf("func (m *%s) State() %sState {\n", typeName, typeName))
	sb.WriteString("\treturn m.state\n")
	sb.WriteString("}\n\n")

	// next is shared by Step and CanStep.
	sb.WriteString(fmt.Sprintf("func (m *%s) next(input %sInput) (%sState, bool) {\n", typeName, typeName, typeName))
	sb.WriteString("\tswitch m.state {\n")
	for _, s := range states {
		var cases []string
		for i, sym := range symbols {
			if to, ok := s.Transitions[sym]; ok {
				cases = append(cases, fmt.Sprintf("\t\tcase %s:\n\t\t\treturn %s, true\n", inputConst(i), stateConst(to)))
			}
		}
		if len(cases) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\tcase %s:\n", stateConst(s.Name)))
		sb.WriteString("\t\tswitch input {\n")
		for _, c := range cases {
			sb.WriteString(c)
		}
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn m.state, false\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Step consumes an input. It returns false, leaving the state\n")
	sb.WriteString("// unchanged, when there is no transition.\n")
	sb.WriteString(fmt.Sprintf("func (m *%s) Step(input %sInput) bool {\n", typeName, typeName))
	sb.WriteString("\tnext, ok := m.next(input)\n")
	sb.WriteString("\tif ok {\n")
	sb.WriteString("\t\tm.state = next\n")
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn ok\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// CanStep reports whether input has a transition from the current state.\n")
	sb.WriteString(fmt.Sprintf("func (m *%s) CanStep(input %sInput) bool {\n", typeName, typeName))
	sb.WriteString("\t_, ok := m.next(input)\n")
	sb.WriteString("\treturn ok\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// IsAccepting reports whether the current state is final.\n")
	sb.WriteString(fmt.Sprintf("func (m *%s) IsAccepting() bool {\n", typeName))
	if finals := d.FinalNames(); len(finals) > 0 {
		consts := make([]string, len(finals))
		for i, name := range finals {
			consts[i] = stateConst(name)
		}
		sb.WriteString("\tswitch m.state {\n")
		sb.WriteString(fmt.Sprintf("\tcase %s:\n", strings.Join(consts, ", ")))
		sb.WriteString("\t\treturn true\n")
		sb.WriteString("\t}\n")
	}
	sb.WriteString("\treturn false\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Reset returns to the initial state.\n")
	sb.WriteString(fmt.Sprintf("func (m *%s) Reset() {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tm.state = %s\n", stateConst(d.Initial())))
	sb.WriteString("}\n")

	return sb.String()
}
