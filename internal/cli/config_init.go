package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/coursedesk/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project it writes ./.coursedesk/config.yaml; otherwise it writes the
// user config file.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

By default the file is ~/.coursedesk/config.yaml (or $COURSEDESK_HOME/config.yaml).
Use --project to create .coursedesk/config.yaml in the current directory instead;
its sections override the user configuration when coursedesk runs there.`,
		Example: `  # Create user configuration
  coursedesk config init

  # Create project-local configuration
  coursedesk config init --project

  # Create configuration, overwriting existing
  coursedesk config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := initTargetPath(cmd, project)
			if err != nil {
				return err
			}
			return writeDefaultConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create project-local configuration in the current directory")

	return cmd
}

func initTargetPath(cmd *cobra.Command, project bool) (string, error) {
	if !project {
		if p := cmd.Flag("config"); p != nil && p.Value.String() != "" {
			return p.Value.String(), nil
		}
		return config.GetConfigPath()
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving current directory: %w", err)
	}
	return filepath.Join(cwd, config.ProjectDirName, "config.yaml"), nil
}

// writeDefaultConfig saves a default configuration to path.
func writeDefaultConfig(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.New()
	cfg.SetPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
