// ABOUTME: CLI command for the HTTP JSON API.
// ABOUTME: Serves the store over chi routes until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP JSON API used by the web front-end.

ENDPOINTS:

  GET    /healthz
  GET    /v1/exercises?q=            GET /v1/exercises/{id}
  GET    /v1/workouts                GET|PUT|DELETE /v1/workouts/{id}
  GET    /v1/sessions?active=true    GET|PUT|DELETE /v1/sessions/{id}
  POST   /v1/sessions/{id}/finish
  GET    /v1/custom-exercises        GET|PUT|DELETE /v1/custom-exercises/{id}
  GET    /v1/orphans
  GET    /v1/analytics/series?exercise=&metric=
  GET    /v1/analytics/bests

The listen address defaults to 127.0.0.1:8740 (listen_addr in config or
LIFTLOG_LISTEN_ADDR).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetListenAddr()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("listening", "addr", addr, "backend", cfg.GetBackend())
		return api.NewServer(store, logger).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
