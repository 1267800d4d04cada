package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/internal/config"
	"github.com/ha1tch/nfa2dfa/internal/logging"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: logging.NewNop()}

	root := &cobra.Command{
		Use:   "nfa2dfa",
		Short: "Build NFAs and convert them to DFAs",
		Long: `nfa2dfa works with nondeterministic finite automata stored as JSON, HCL
or markdown state tables. It validates them, converts them to DFAs with
the subset construction, renders both as graphs and serves an editing API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().String("config", config.DefaultPath(), "Config file")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.convertCmd(),
		a.exportCmd(),
		a.validateCmd(),
		a.infoCmd(),
		a.tableCmd(),
		a.dotCmd(),
		a.mermaidCmd(),
		a.renderCmd(),
		a.runCmd(),
		a.genCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	level, ok := logging.ParseLevel(cfg.Log.Level)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	a.cfg = cfg
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), level, cfg.Log.Format)
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
