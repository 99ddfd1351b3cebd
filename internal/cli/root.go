package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/coursedesk/internal/config"
	"github.com/rshade/coursedesk/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	debug      bool
	configPath string
	projectDir string
	apiURL     string
}

// NewRootCmd creates the root Cobra command for the coursedesk CLI.
// It loads configuration, wires up logging and tracing, and registers the
// browse, list, count, config and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		flags     rootFlags
		logResult *logging.LogPathResult
	)

	cmd := &cobra.Command{
		Use:           "coursedesk",
		Short:         "Browse and query the course catalogue",
		Long:          "coursedesk: a filtered, paginated client for the course administration API",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, flags); err != nil {
				return err
			}
			result := setupLogging(cmd, flags.debug)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging to stderr")
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.coursedesk/config.yaml)")
	pf.StringVar(&flags.projectDir, "project-dir", "", "directory holding a project-local .coursedesk/config.yaml")
	pf.StringVar(&flags.apiURL, "api-url", "", "course API base URL (overrides config and COURSEDESK_API_URL)")

	cmd.AddCommand(
		NewBrowseCmd(), NewListCmd(), NewCountCmd(),
		newConfigCmd(), NewVersionCmd(),
	)

	return cmd
}

// loadConfig resolves configuration (file, project overlay, env, flags) and
// installs it as the global config.
func loadConfig(cmd *cobra.Command, flags rootFlags) error {
	ctx := cmd.Context()

	cwd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(ctx, flags.projectDir, cwd)

	cfg, err := config.LoadWithProjectDir(ctx, flags.configPath, projectDir)
	if err != nil {
		return err
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Browse courses interactively
  coursedesk browse

  # Print the second page of published courses in category 4
  coursedesk list --page 2 --status published --category 4

  # Count courses whose name mentions "go"
  coursedesk count --query go

  # Initialize configuration
  coursedesk config init

  # Set configuration values
  coursedesk config set view.page_size 10`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
