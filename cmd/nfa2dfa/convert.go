package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/pkg/codegen"
	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
)

func (a *app) convertCmd() *cobra.Command {
	var output, format string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert an NFA to a DFA",
		Long: `Runs the subset construction and writes the DFA. The output format is
taken from --format or the output extension: json, dot, mermaid (mmd),
table (md), go or h. JSON is the default.`,
		Example: `  nfa2dfa convert ends-in-ab.json --pretty
  nfa2dfa convert ends-in-ab.hcl -o ends-in-ab.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, err := loadDFA(args[0])
			if err != nil {
				return err
			}
			a.logger.Info("converted", "input", args[0], "dfa_states", d.Len())

			data, err := encodeDFA(d, formatOf(format, output, "json"), baseName(args[0]), pretty)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	return cmd
}

func encodeDFA(d *nfa.DFA, format, name string, pretty bool) ([]byte, error) {
	switch format {
	case "json":
		return nfafile.DFAToJSON(d, pretty)
	case "dot", "gv":
		return []byte(nfafile.GenerateDOT(nfafile.DFAGraph(d), name)), nil
	case "mermaid", "mmd":
		return []byte(nfafile.GenerateMermaid(nfafile.DFAGraph(d))), nil
	case "table", "md", "txt":
		return []byte(nfafile.EncodeDFATable(d)), nil
	case "go":
		return []byte(codegen.GenerateGo(d, "", "")), nil
	case "h", "c":
		return []byte(codegen.GenerateC(d, name)), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

func (a *app) exportCmd() *cobra.Command {
	var output, format string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "export <input>",
		Short: "Rewrite an NFA in another file format",
		Long: `Writes the NFA unchanged in json, hcl or table (md) form. The format is
taken from --format or the output extension.`,
		Example: `  nfa2dfa export ends-in-ab.json -o ends-in-ab.hcl`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadNFA(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch f := formatOf(format, output, "json"); f {
			case "json":
				data, err = nfafile.ToJSON(r, pretty)
			case "hcl":
				data = nfafile.ToHCL(r)
			case "table", "md", "txt":
				data = []byte(nfafile.EncodeTable(r))
			default:
				err = fmt.Errorf("unknown output format: %s", f)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	return cmd
}
