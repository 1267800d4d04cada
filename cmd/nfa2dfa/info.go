package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input>",
		Short: "Show automaton information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadNFA(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "States:      %d\n", r.Len())
			fmt.Fprintf(w, "Alphabet:    %s\n", strings.Join(r.Alphabet(), " "))
			fmt.Fprintf(w, "Transitions: %d\n", countTransitions(r))
			if id, ok := r.InitialID(); ok {
				s, _ := r.State(id)
				fmt.Fprintf(w, "Initial:     %s\n", displayName(s))
			}
			var finals []string
			for _, id := range r.FinalIDs() {
				s, _ := r.State(id)
				finals = append(finals, displayName(s))
			}
			if len(finals) > 0 {
				fmt.Fprintf(w, "Final:       %s\n", strings.Join(finals, " "))
			}

			if err := r.Check(); err != nil {
				fmt.Fprintf(w, "Convertible: no (%v)\n", err)
				return nil
			}
			d, err := nfa.Convert(r)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Convertible: yes\n")
			fmt.Fprintf(w, "DFA states:  %d\n", d.Len())
			return nil
		},
	}
}

// displayName returns a state's name, or its id when unnamed.
func displayName(s nfa.State) string {
	if s.Name == "" {
		return fmt.Sprintf("#%d", s.ID)
	}
	return s.Name
}
