package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
)

// loadNFA reads an automaton, choosing the format by extension.
func loadNFA(path string) (*nfa.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r *nfa.Registry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		r, err = nfafile.ParseJSON(data)
	case ".hcl":
		r, err = nfafile.ParseHCL(data, path)
	case ".md", ".txt", ".table":
		r, err = nfafile.ReadTable(string(data))
	default:
		return nil, fmt.Errorf("unknown file format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return r, nil
}

// loadDFA loads an automaton and converts it.
func loadDFA(path string) (*nfa.Registry, *nfa.DFA, error) {
	r, err := loadNFA(path)
	if err != nil {
		return nil, nil, err
	}
	d, err := nfa.Convert(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, d, nil
}

// graphFor builds the graph of the automaton or of its DFA.
func graphFor(path string, dfa bool) (*nfafile.Graph, error) {
	if dfa {
		_, d, err := loadDFA(path)
		if err != nil {
			return nil, err
		}
		return nfafile.DFAGraph(d), nil
	}
	r, err := loadNFA(path)
	if err != nil {
		return nil, err
	}
	return nfafile.NFAGraph(r), nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "Written: %s\n", path)
	return nil
}

// formatOf picks an output format from an explicit flag or the output
// file extension.
func formatOf(flag, output, fallback string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."); ext != "" {
		return ext
	}
	return fallback
}

// baseName returns the file name without directory or extension.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
