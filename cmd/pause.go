package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxsweep/fluxsweep/filter"
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause tasks matching the filter criteria",
	Long: `Set matching tasks to inactive instead of deleting them.

Pausing is reversible from the InfluxDB UI or API, which makes it a safer
first step before deleting tasks you are not sure about.`,
	RunE: runPause,
}

func init() {
	rootCmd.AddCommand(pauseCmd)

	pauseCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	pauseCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runPause(cmd *cobra.Command, args []string) error {
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	logger.Info().Str("filter", expr).Msg("Searching tasks to pause")

	filterFunc, err := filter.ParseAndCreateFilter(expr)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	ctx := context.Background()
	tasks, err := operations.SearchTasks(ctx, filterFunc)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found matching the filter criteria.")
		return nil
	}

	paused, err := operations.PauseTasks(ctx, tasks, cfg.Safety.DryRun)
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would pause %d task", paused)
	} else {
		fmt.Printf("✓ Paused %d task", paused)
	}
	if paused != 1 {
		fmt.Printf("s")
	}
	fmt.Println()

	skipped := len(tasks) - paused
	if skipped > 0 {
		fmt.Printf("Skipped %d already inactive task", skipped)
		if skipped != 1 {
			fmt.Printf("s")
		}
		fmt.Println()
	}

	return nil
}
