package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxsweep/fluxsweep/influxdb"
)

var labelOrgID string

// labelsCmd represents the labels command
var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List labels defined on the InfluxDB instance",
	Long: `List the labels defined on your InfluxDB instance, optionally scoped
to a single organization.`,
	RunE: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)

	labelsCmd.Flags().StringVar(&labelOrgID, "org-id", "", "only show labels belonging to this organization ID")
}

func runLabels(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var (
		labels []influxdb.Label
		err    error
	)
	if labelOrgID != "" {
		labels, err = client.LabelsByOrg(ctx, labelOrgID)
	} else {
		labels, err = client.Labels(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list labels: %w", err)
	}

	formatter := influxdb.NewConsoleFormatter()
	fmt.Print(formatter.FormatLabelList(labels, influxdb.FormatOptions{
		ShowDetails: cfg.Safety.ShowDetails,
	}))

	return nil
}
