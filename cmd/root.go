package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fluxsweep/fluxsweep/config"
	"github.com/fluxsweep/fluxsweep/filter"
	"github.com/fluxsweep/fluxsweep/influxdb"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	client     *influxdb.Client
	operations *influxdb.Operations

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr   string
	preset       string
	dryRun       bool
	noConfirm    bool
	ignoreActive bool
	showFlux     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fluxsweep",
	Short: "A tool to manage and clean up InfluxDB tasks based on filters",
	Long: `fluxsweep is a CLI tool that allows you to search, pause, and delete tasks
from your InfluxDB instance based on various filter criteria including status,
schedule, organization, and the Flux source itself.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records the build metadata reported by the version flag
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	// Create InfluxDB client
	client, err = influxdb.NewClient(cfg.Influx.URL, cfg.Influx.Token, logger,
		influxdb.WithUserAgent("fluxsweep/"+version))
	if err != nil {
		return fmt.Errorf("failed to create InfluxDB client: %w", err)
	}

	// Verify the server is reachable before running any command
	if err := client.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	operations = influxdb.NewOperations(client, logger)
	if cfg.Influx.Org != "" {
		operations.SetOrg(cfg.Influx.Org)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; colors only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks matching the filter criteria",
	Long:  `List all tasks in your InfluxDB instance that match the specified filter criteria.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().BoolVar(&showFlux, "show-flux", false, "include the Flux source of each task")
}

func runList(cmd *cobra.Command, args []string) error {
	// Determine filter expression
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	logger.Info().Str("filter", expr).Msg("Searching tasks")

	// Parse filter
	filterFunc, err := filter.ParseAndCreateFilter(expr)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	// Search tasks
	ctx := context.Background()
	tasks, err := operations.SearchTasks(ctx, filterFunc)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found matching the filter criteria.")
		return nil
	}

	formatter := influxdb.NewConsoleFormatter()
	fmt.Print(formatter.FormatTaskList(tasks, influxdb.FormatOptions{
		ShowDetails: cfg.Safety.ShowDetails,
		ShowFlux:    showFlux,
	}))

	return nil
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete tasks matching the filter criteria",
	Long:  `Delete tasks from your InfluxDB instance that match the specified filter criteria.`,
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	deleteCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	deleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&ignoreActive, "ignore-active", false, "delete tasks even if they are active")
}

func runDelete(cmd *cobra.Command, args []string) error {
	// Determine filter expression
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	logger.Info().Str("filter", expr).Msg("Searching tasks to delete")

	// Parse filter
	filterFunc, err := filter.ParseAndCreateFilter(expr)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	// Search tasks
	ctx := context.Background()
	tasks, err := operations.SearchTasks(ctx, filterFunc)
	if err != nil {
		return err
	}

	// Check for active tasks if not ignoring
	if !ignoreActive {
		var activeCount int
		for _, task := range tasks {
			if task.Active() {
				activeCount++
			}
		}
		if activeCount > 0 && cfg.Safety.ConfirmDelete && !noConfirm {
			fmt.Printf("\n⚠️  WARNING: %d of %d tasks are still active!\n", activeCount, len(tasks))
			fmt.Printf("Are you sure you want to continue? Use --ignore-active to bypass this check. [y/N]: ")
			var response string
			fmt.Scanln(&response)
			if strings.ToLower(strings.TrimSpace(response)) != "y" {
				logger.Info().Msg("Deletion cancelled due to active tasks")
				return nil
			}
		}
	}

	// Delete tasks
	deleteOpts := influxdb.DeleteOptions{
		DryRun:        cfg.Safety.DryRun,
		ConfirmDelete: cfg.Safety.ConfirmDelete && !noConfirm,
	}

	return operations.DeleteTasks(ctx, tasks, deleteOpts)
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to InfluxDB",
	Long:  `Test the connection to your InfluxDB instance and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to InfluxDB at %s...\n", cfg.Influx.URL)

	// Connection is already verified during initialization
	fmt.Println("✓ Connection successful!")

	ctx := context.Background()

	// Report server health
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to check health: %w", err)
	}
	fmt.Printf("- Health: %s", health.Status)
	if health.Version != "" {
		fmt.Printf(" (version %s)", health.Version)
	}
	fmt.Println()
	if !health.Pass() && health.Message != "" {
		fmt.Printf("  %s\n", health.Message)
	}

	// Get some basic stats
	counts, err := operations.CountResources(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to count resources: %w", err)
	}

	fmt.Printf("\nInfluxDB Statistics:\n")
	fmt.Printf("- Total tasks: %d\n", counts.Tasks)
	fmt.Printf("- Total labels: %d\n", counts.Labels)

	// Validate configured filter presets
	if len(cfg.Filter.Presets) > 0 {
		fmt.Printf("\nFilter presets:\n")
		for name, p := range cfg.Filter.Presets {
			if _, err := filter.CompileFilter(p.Expression); err != nil {
				fmt.Printf("  ✗ %s: %v\n", name, err)
			} else {
				fmt.Printf("  ✓ %s\n", name)
			}
		}
	}

	return nil
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := cfg.Filter.Presets[preset]; ok {
			return presetFilter.Expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	if cfg.Filter.DefaultExpression != "" {
		return cfg.Filter.DefaultExpression, nil
	}

	return "", fmt.Errorf("no filter expression specified")
}
