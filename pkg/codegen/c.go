package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// GenerateC generates a single C header for a DFA. Transitions are a
// table indexed by state and input; -1 marks a missing move.
func GenerateC(d *nfa.DFA, name string) string {
	name = strings.ToLower(sanitizeName(name))
	if name == "unnamed" {
		name = "dfa"
	}
	NAME := strings.ToUpper(name)

	states := d.States()
	index := make(map[string]int, len(states))
	for i, s := range states {
		index[s.Name] = i
	}
	symbols := d.Alphabet()
	inputs := inputNames(symbols)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`// Code generated by nfa2dfa. DO NOT EDIT.
// States: %d
// Initial: %s

#ifndef %s_H
#define %s_H

#include <stdint.h>
#include <stdbool.h>

`, len(states), d.Label(d.Initial()), NAME, NAME))

	sb.WriteString(fmt.Sprintf("typedef int16_t %s_state_t;\n", name))
	sb.WriteString(fmt.Sprintf("typedef uint16_t %s_input_t;\n\n", name))

	sb.WriteString(fmt.Sprintf("#define %s_STATE_COUNT %d\n", NAME, len(states)))
	sb.WriteString(fmt.Sprintf("#define %s_INPUT_COUNT %d\n", NAME, len(symbols)))
	sb.WriteString(fmt.Sprintf("#define %s_INITIAL %d\n\n", NAME, index[d.Initial()]))

	sb.WriteString("// Inputs\n")
	for i := range symbols {
		sb.WriteString(fmt.Sprintf("#define %s_INPUT_%s %d\n", NAME, strings.ToUpper(inputs[i]), i))
	}
	sb.WriteString("\n")

	sb.WriteString("typedef struct {\n")
	sb.WriteString(fmt.Sprintf("    %s_state_t state;\n", name))
	sb.WriteString(fmt.Sprintf("} %s_t;\n\n", name))

	// Transition table. Zero inputs would be an empty array, so pad to one.
	cols := len(symbols)
	if cols == 0 {
		cols = 1
	}
	sb.WriteString(fmt.Sprintf("static const %s_state_t %s_next[%s_STATE_COUNT][%d] = {\n", name, name, NAME, cols))
	for _, s := range states {
		row := make([]string, cols)
		for i := range row {
			row[i] = "-1"
		}
		for i, sym := range symbols {
			if to, ok := s.Transitions[sym]; ok {
				row[i] = fmt.Sprint(index[to])
			}
		}
		sb.WriteString(fmt.Sprintf("    {%s}, // %s\n", strings.Join(row, ", "), d.Label(s.Name)))
	}
	sb.WriteString("};\n\n")

	sb.WriteString(fmt.Sprintf("static const bool %s_final[%s_STATE_COUNT] = {", name, NAME))
	finals := make([]string, len(states))
	for i, s := range states {
		finals[i] = fmt.Sprint(s.Final)
	}
	sb.WriteString(strings.Join(finals, ", "))
	sb.WriteString("};\n\n")

	sb.WriteString(fmt.Sprintf("static const char *%s_state_names[%s_STATE_COUNT] = {\n", name, NAME))
	for _, s := range states {
		sb.WriteString(fmt.Sprintf("    %q,\n", d.Label(s.Name)))
	}
	sb.WriteString("};\n\n")

	sb.WriteString(fmt.Sprintf(`static inline void %[1]s_reset(%[1]s_t *m) {
    m->state = %[2]s_INITIAL;
}

static inline bool %[1]s_can_step(const %[1]s_t *m, %[1]s_input_t input) {
    return input < %[2]s_INPUT_COUNT && %[1]s_next[m->state][input] >= 0;
}

// Returns false and keeps the state when there is no transition.
static inline bool %[1]s_step(%[1]s_t *m, %[1]s_input_t input) {
    if (!%[1]s_can_step(m, input)) {
        return false;
    }
    m->state = %[1]s_next[m->state][input];
    return true;
}

static inline bool %[1]s_is_accepting(const %[1]s_t *m) {
    return %[1]s_final[m->state];
}

static inline const char *%[1]s_state_name(%[1]s_state_t state) {
    if (state < 0 || state >= %[2]s_STATE_COUNT) {
        return "unknown";
    }
    return %[1]s_state_names[state];
}

#endif // %[2]s_H
`, name, NAME))

	return sb.String()
}
