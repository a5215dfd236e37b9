package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fluxsweep/fluxsweep/filter"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Evaluate all configured presets and show match counts",
	Long: `Compile every filter preset from the config, evaluate them against the
tasks on the server, and report how many tasks each preset matches.

Useful for tuning preset expressions before running delete with one of them.`,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	if len(cfg.Filter.Presets) == 0 {
		fmt.Println("No filter presets configured.")
		return nil
	}

	manager := filter.NewManager()

	expressions := make(map[string]string, len(cfg.Filter.Presets))
	for name, p := range cfg.Filter.Presets {
		expressions[name] = p.Expression
	}

	if err := manager.RegisterFilters(expressions); err != nil {
		return fmt.Errorf("invalid preset: %w", err)
	}

	ctx := context.Background()
	tasks, err := operations.GetAllTasks(ctx)
	if err != nil {
		return err
	}

	results, err := manager.EvaluateAll(ctx, tasks)
	if err != nil {
		return err
	}

	names := manager.ListFilters()
	sort.Strings(names)

	fmt.Printf("\nPresets evaluated against %d tasks:\n\n", len(tasks))
	for _, name := range names {
		matches := results[name]
		fmt.Printf("  %-20s %d match", name, len(matches))
		if len(matches) != 1 {
			fmt.Printf("es")
		}
		if desc := cfg.Filter.Presets[name].Description; desc != "" {
			fmt.Printf("  (%s)", desc)
		}
		fmt.Println()
	}
	fmt.Println()

	return nil
}
