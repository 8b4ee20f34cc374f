// Package cmd implements the rentdash command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rent-dashboard/config"
	"rent-dashboard/models"
	"rent-dashboard/services"
	"rent-dashboard/storage"
	"rent-dashboard/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	flagDataSource string
	flagCSVPath    string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "rentdash",
	Short: "Rental listings dashboard",
	Long: `rentdash loads the houses-to-rent dataset from CSV or PostgreSQL and
serves an interactive dashboard with filters, mean rent and total by city,
an area x rent scatter and a rent histogram.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg = config.Load()
		flags := cmd.Flags()
		if flags.Changed("source") {
			cfg.DataSource = flagDataSource
		}
		if flags.Changed("csv") {
			cfg.CSVPath = flagCSVPath
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = flagLogLevel
		}
		logger = utils.NewLoggerWithLevel(cfg.LogLevel)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDataSource, "source", config.SourceCSV, "data source: csv or postgres (overrides DATA_SOURCE)")
	pf.StringVar(&flagCSVPath, "csv", "", "path of the dataset CSV (overrides CSV_PATH)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, summaryCmd, exportCmd, importCmd, snapshotCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadDataset reads the dataset from the configured source.
func loadDataset(ctx context.Context) (*models.Dataset, error) {
	var src storage.ListingSource

	switch cfg.DataSource {
	case config.SourceCSV:
		src = storage.NewCSVSource(cfg.CSVPath, logger)
	case config.SourcePostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		src = store
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}

	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("[main] Loaded %d listings from %s", ds.Len(), cfg.DataSource)
	return ds, nil
}

// newDashboard loads the dataset and builds the dashboard around it.
func newDashboard(ctx context.Context) (*services.Dashboard, error) {
	ds, err := loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewDashboard(ds, cfg.HistogramBins, logger), nil
}
