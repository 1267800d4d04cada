package main

import (
	"errors"
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

var errInvalid = errors.New("validation failed")

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input>...",
		Short: "Check that automata can be converted",
		Long: `Reports, for each file, the first reason the automaton cannot be
converted: a missing or duplicate name, the wrong number of initial
states, no final state, or a transition to a missing state.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := termenv.NewOutput(cmd.OutOrStdout())
			ok := out.String("valid").Foreground(out.Color("2")).Bold()
			failed := false

			for _, path := range args {
				r, err := loadNFA(path)
				if err == nil {
					err = r.Check()
				}
				if err != nil {
					failed = true
					bad := out.String("invalid").Foreground(out.Color("1")).Bold()
					fmt.Fprintf(out, "%s: %s: %v\n", path, bad, err)
					continue
				}
				fmt.Fprintf(out, "%s: %s, %d states, %d symbols, %d transitions\n",
					path, ok, r.Len(), len(r.Symbols()), countTransitions(r))
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
}

func countTransitions(r *nfa.Registry) int {
	n := 0
	for _, s := range r.States() {
		for _, to := range s.Transitions {
			n += len(to)
		}
	}
	return n
}
