package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
)

func (a *app) tableCmd() *cobra.Command {
	var raw, dfa bool

	cmd := &cobra.Command{
		Use:   "table <input>",
		Short: "Print the state table",
		Long: `Prints the automaton as a markdown state table, rendered for the
terminal unless --raw is given. The raw form can be edited and loaded
back as a .md file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if dfa {
				_, d, err := loadDFA(args[0])
				if err != nil {
					return err
				}
				text = nfafile.EncodeDFATable(d)
			} else {
				r, err := loadNFA(args[0])
				if err != nil {
					return err
				}
				text = nfafile.EncodeTable(r)
			}

			if raw {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			rendered, err := renderMarkdown(text)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the table text without rendering")
	cmd.Flags().BoolVar(&dfa, "dfa", false, "Print the converted DFA")
	return cmd
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
