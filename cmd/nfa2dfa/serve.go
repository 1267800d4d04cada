package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ha1tch/nfa2dfa/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP editing API",
		Long: `Serves editing sessions over HTTP until interrupted. Each session holds
one NFA with undo history; see /sessions. Prometheus metrics are served
at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.cfg, a.logger)
			err := srv.ListenAndServe(ctx, addr, a.cfg.Server.ShutdownTimeout)
			if err == nil {
				a.logger.Info("server stopped")
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	return cmd
}
