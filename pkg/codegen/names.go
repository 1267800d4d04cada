package codegen

import (
	"strconv"
	"strings"
	"unicode"
)

// inputNames returns a Go identifier suffix per symbol. Symbols that do
// not sanitize to a unique name fall back to their position.
func inputNames(symbols []string) []string {
	out := make([]string, len(symbols))
	used := make(map[string]bool, len(symbols))
	for i, sym := range symbols {
		name := toPascalCase(sanitizeName(sym))
		if name == "Unnamed" || used[name] {
			name = strconv.Itoa(i)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func sanitizeName(s string) string {
	if s == "" {
		return "unnamed"
	}
	var result strings.Builder
	for i, r := range s {
		if unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' {
			result.WriteRune('_')
		}
	}
	name := result.String()
	if name == "" {
		return "unnamed"
	}
	return name
}

// toPascalCase upper-cases the first rune of each word and keeps the
// rest, so "ends in ab" and "EndsInAB" both stay readable.
func toPascalCase(s string) string {
	if s == "" {
		return "Unknown"
	}
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		runes := []rune(word)
		result.WriteString(strings.ToUpper(string(runes[0])))
		result.WriteString(string(runes[1:]))
	}
	name := result.String()
	if name == "" {
		return "Unknown"
	}
	return name
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
}
