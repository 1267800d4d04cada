package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <input> [symbol...]",
		Short: "Simulate the NFA",
		Long: `Feeds symbols to the NFA and reports whether it accepts them. With no
symbols it reads commands interactively.`,
		Example: `  nfa2dfa run ends-in-ab.json a b a b
  nfa2dfa run ends-in-ab.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadNFA(args[0])
			if err != nil {
				return err
			}
			runner, err := nfa.NewRunner(r)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) > 1 {
				if err := runner.Run(args[1:]); err != nil {
					printHistory(w, r, runner)
					fmt.Fprintf(w, "rejected: %v\n", err)
					return nil
				}
				printHistory(w, r, runner)
				if runner.Accepting() {
					fmt.Fprintln(w, "accepted")
				} else {
					fmt.Fprintln(w, "rejected")
				}
				return nil
			}
			interactive(cmd.InOrStdin(), w, r, runner)
			return nil
		},
	}
}

func interactive(in io.Reader, w io.Writer, r *nfa.Registry, runner *nfa.Runner) {
	fmt.Fprintf(w, "Commands: <symbol>, reset, status, history, inputs, quit\n\n")
	fmt.Fprintln(w, runner.Status())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return
		case "reset":
			runner.Reset()
			fmt.Fprintln(w, "Reset to initial states")
			fmt.Fprintln(w, runner.Status())
		case "status":
			fmt.Fprintln(w, runner.Status())
		case "history":
			printHistory(w, r, runner)
		case "inputs":
			fmt.Fprintf(w, "Inputs: %s\n", strings.Join(r.Symbols(), " "))
		default:
			if err := runner.Step(line); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(w, runner.Status())
		}
	}
}

func printHistory(w io.Writer, r *nfa.Registry, runner *nfa.Runner) {
	history := runner.History()
	if len(history) == 0 {
		fmt.Fprintln(w, "No history yet")
		return
	}
	for i, step := range history {
		fmt.Fprintf(w, "  %d: %s --%s--> %s\n",
			i+1, setLabel(r, step.From), step.Input, setLabel(r, step.To))
	}
}

// setLabel formats a set of state ids with their names.
func setLabel(r *nfa.Registry, ids []int) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		s, _ := r.State(id)
		names[i] = displayName(s)
	}
	return "{" + strings.Join(names, ",") + "}"
}
