package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kmuigai/gitstalker/internal/activity"
	"github.com/kmuigai/gitstalker/internal/config"
	"github.com/kmuigai/gitstalker/internal/githubapi"
	"github.com/kmuigai/gitstalker/internal/logging"
	"github.com/spf13/cobra"
)

var (
	organization string
	startDate    string
	endDate      string
	outputFormat string
	logFile      string
	xlsxPath     string
	githubToken  string
)

var rootCmd = &cobra.Command{
	Use:   "gitstalker <username>",
	Short: "Track a user's activity across configured sources",
	Long:  `GitStalker fetches a user's public activity feed, normalizes each event and prints a chronological summary.`,
	Args:  cobra.ExactArgs(1),
	RunE:  trackActivity,

	SilenceUsage: true,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&organization, "org", "", "Filter by organization")
	rootCmd.Flags().StringVarP(&startDate, "start-date", "s", "", "Start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&endDate, "end-date", "e", "", "End date (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&outputFormat, "output-format", "o", "pretty", "Output format (pretty/json)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file (JSON lines)")
	rootCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export activities to an Excel workbook")
	rootCmd.Flags().StringVar(&githubToken, "token", "", "GitHub API token (overrides GITHUB_TOKEN)")
}

func trackActivity(cmd *cobra.Command, args []string) error {
	username := args[0]

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if githubToken != "" {
		cfg.GitHub.Token = githubToken
	}
	cfg.GitHub.Organization = organization

	logger, closeLog, err := logging.Setup(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	var start, end time.Time
	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}
	if outputFormat != "pretty" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (expected pretty or json)", outputFormat)
	}

	client := githubapi.NewClient(cfg.GitHub.Token, cfg.GitHub.RetryTotal, cfg.GitHub.RetryBackoff, logger)
	source := githubapi.NewSource(client, cfg.GitHub.Organization, logger)

	tracker := activity.NewTracker(logger)
	if err := tracker.AddSource(source); err != nil {
		logger.Error("failed to register source", "error", err)
		return err
	}

	bar := newSpinner("Fetching activities")
	activities, err := tracker.GetAllActivities(cmd.Context(), username, start, end)
	finishBar(bar)
	if err != nil {
		logger.Error("failed to fetch activities", "error", err)
		return err
	}

	switch outputFormat {
	case "json":
		if err := activity.RenderJSON(os.Stdout, activities); err != nil {
			return fmt.Errorf("render json: %w", err)
		}
	default:
		if err := activity.RenderPretty(os.Stdout, activities); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	if xlsxPath != "" {
		if err := activity.ExportXLSX(activities, xlsxPath); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Workbook saved to %s\n", xlsxPath)
	}

	return nil
}
