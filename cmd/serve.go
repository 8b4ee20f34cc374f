package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rent-dashboard/charts"
	"rent-dashboard/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.ListenAddr
	if flagListen != "" {
		addr = flagListen
	}

	srv, err := newServer(ctx)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr)
}

// newServer builds the HTTP server from the configured dataset.
func newServer(ctx context.Context) (*server.Server, error) {
	dash, err := newDashboard(ctx)
	if err != nil {
		return nil, err
	}
	return server.New(dash, serverOptions(), logger)
}

func serverOptions() server.Options {
	return server.Options{
		ChartSize:     chartSize(),
		ChartCacheTTL: cfg.ChartCacheTTL,
	}
}

func chartSize() charts.Size {
	return charts.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
}
