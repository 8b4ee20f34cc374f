package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"rent-dashboard/services"
)

var (
	summaryCriteria criteriaFlags
	summaryAll      bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a terminal report of the filtered listings",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCriteria.register(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryAll, "all", false, "report on the whole dataset, ignoring filters")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	c, err := summaryCriteria.criteria(cmd)
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	listings := ds.Listings()
	if !summaryAll {
		listings = services.Filter(ds, c)
		logger.Info("[main] %d of %d listings match %s", len(listings), ds.Len(), c.Key())
	}

	insights := services.NewInsightService(logger)
	insights.Print(os.Stdout, insights.Generate(listings))
	return nil
}
