package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/coursedesk/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, any project-local
overlay and COURSEDESK_* environment overrides.

This checks:
- the API base URL is an absolute http(s) URL and the timeout is positive
- view.page_size is between 1 and 1000
- view.debounce is between 0s and 1m
- output and logging settings name known formats and levels`,
		Example: `  # Validate current configuration
  coursedesk config validate

  # Validate and show detailed information
  coursedesk config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  API base URL: %s (timeout %s)\n", cfg.API.BaseURL, cfg.API.Timeout)
	cmd.Printf("  Page size: %d\n", cfg.View.PageSize)
	cmd.Printf("  Filter debounce: %s\n", cfg.View.Debounce)
	cmd.Printf("  Reset page on filter: %t\n", cfg.View.ResetPageOnFilter)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
