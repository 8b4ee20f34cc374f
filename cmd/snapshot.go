package cmd

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rent-dashboard/services"
	"rent-dashboard/snapshot"
)

var (
	snapshotCriteria criteriaFlags
	snapshotOut      string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save a full-page screenshot of the dashboard",
	Long: `snapshot starts the dashboard on a loopback port, opens it in headless
Chrome with the given filters applied and saves a PNG of the whole page.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCriteria.register(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "dashboard.png", "output PNG path")
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	c, err := snapshotCriteria.criteria(cmd)
	if err != nil {
		return err
	}

	capturer, err := snapshot.New(cfg.ChromeBin, cfg.MaxRetries, logger)
	if err != nil {
		return err
	}

	srv, err := newServer(cmd.Context())
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("snapshot: listen: %w", err)
	}

	serveCtx, stopServer := context.WithCancel(cmd.Context())
	defer stopServer()

	g, ctx := errgroup.WithContext(serveCtx)
	g.Go(func() error {
		return srv.Serve(ctx, ln)
	})
	g.Go(func() error {
		defer stopServer()
		url := fmt.Sprintf("http://%s/?%s", ln.Addr(), services.Values(c).Encode())
		return capturer.CaptureToFile(ctx, url, snapshotOut)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("[main] Dashboard snapshot saved to %s", snapshotOut)
	return nil
}
