package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/codegen"
)

func (a *app) genCmd() *cobra.Command {
	var output, lang, pkg, typeName string

	cmd := &cobra.Command{
		Use:   "gen <input>",
		Short: "Generate code for the converted DFA",
		Long: `Converts the NFA and writes a self-contained state machine for the DFA,
as a Go file or a C header.`,
		Example: `  nfa2dfa gen ends-in-ab.json --package lexer --type EndsInAB -o machine.go
  nfa2dfa gen ends-in-ab.json --lang c -o ends_in_ab.h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, err := loadDFA(args[0])
			if err != nil {
				return err
			}

			var code string
			switch lang {
			case "go":
				code = codegen.GenerateGo(d, pkg, typeName)
			case "c":
				name := typeName
				if name == "" {
					name = baseName(args[0])
				}
				code = codegen.GenerateC(d, name)
			default:
				return fmt.Errorf("unknown language: %s", lang)
			}
			return writeOutput(cmd.OutOrStdout(), output, []byte(code))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&lang, "lang", "l", "go", "Target language (go, c)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "dfa", "Go package name")
	cmd.Flags().StringVar(&typeName, "type", "", "Machine type name")
	return cmd
}
