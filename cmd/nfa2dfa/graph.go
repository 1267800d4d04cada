package main

import (
	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
)

func (a *app) dotCmd() *cobra.Command {
	var output, title string
	var dfa bool

	cmd := &cobra.Command{
		Use:     "dot <input>",
		Short:   "Generate Graphviz DOT output",
		Example: `  nfa2dfa dot ends-in-ab.json --dfa | dot -Tpng -o dfa.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graphFor(args[0], dfa)
			if err != nil {
				return err
			}
			if title == "" {
				title = baseName(args[0])
			}
			return writeOutput(cmd.OutOrStdout(), output, []byte(nfafile.GenerateDOT(g, title)))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Graph title")
	cmd.Flags().BoolVar(&dfa, "dfa", false, "Draw the converted DFA")
	return cmd
}

func (a *app) mermaidCmd() *cobra.Command {
	var output string
	var dfa bool

	cmd := &cobra.Command{
		Use:   "mermaid <input>",
		Short: "Generate a Mermaid flowchart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graphFor(args[0], dfa)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, []byte(nfafile.GenerateMermaid(g)))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&dfa, "dfa", false, "Draw the converted DFA")
	return cmd
}
