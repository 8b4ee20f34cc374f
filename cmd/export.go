package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rent-dashboard/charts"
	"rent-dashboard/models"
	"rent-dashboard/server"
	"rent-dashboard/services"
	"rent-dashboard/storage"
)

var (
	exportCriteria criteriaFlags
	exportDir      string
	exportFormat   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every dashboard chart and the filtered listings to a directory",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCriteria.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "export", "output directory")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(charts.SVG), "chart format: svg or png")
}

func runExport(cmd *cobra.Command, _ []string) error {
	c, err := exportCriteria.criteria(cmd)
	if err != nil {
		return err
	}
	format, err := charts.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	dash, err := newDashboard(cmd.Context())
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, name := range server.Charts {
		name := name
		g.Go(func() error {
			return exportChart(dash, name, c, format)
		})
	}
	g.Go(func() error {
		path := filepath.Join(exportDir, "listings.csv")
		w, err := storage.CreateCSVFile(path)
		if err != nil {
			return err
		}
		if err := w.Write(ctx, services.Filter(dash.Dataset(), c)); err != nil {
			w.Close()
			return err
		}
		logger.Info("[export] Wrote %s", path)
		return w.Close()
	})

	return g.Wait()
}

func exportChart(dash *services.Dashboard, name string, c models.FilterCriteria, format charts.Format) error {
	chart, err := server.BuildChart(dash, name, c, chartSize())
	if errors.Is(err, charts.ErrNoData) {
		logger.Warn("[export] %s: nothing to plot, skipped", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("export: %s: %w", name, err)
	}

	path := filepath.Join(exportDir, name+"."+string(format))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := charts.Render(chart, format, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}

	logger.Info("[export] Wrote %s", path)
	return nil
}
