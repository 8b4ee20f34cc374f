package cmd

import (
	"github.com/spf13/cobra"

	"rent-dashboard/storage"
)

var importCmd = &cobra.Command{
	Use:   "import [csv]",
	Short: "Load the dataset CSV into PostgreSQL, replacing its contents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := cfg.CSVPath
	if len(args) == 1 {
		path = args[0]
	}

	ds, err := storage.NewCSVSource(path, logger).Load(ctx)
	if err != nil {
		return err
	}

	store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.MaxRetries, logger)
	if err != nil {
		logger.Error("[main] Make sure PostgreSQL is running: docker compose up -d")
		return err
	}
	defer store.Close()

	var w storage.ListingWriter = store
	if err := w.Write(ctx, ds.Listings()); err != nil {
		return err
	}

	logger.Info("[main] Imported %d listings from %s into PostgreSQL", ds.Len(), path)
	return nil
}
