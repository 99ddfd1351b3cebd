package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/coursedesk/internal/logging"
)

// ProjectDirName is the project-local configuration directory.
const ProjectDirName = ".coursedesk"

// EnvProjectDir points at a project directory explicitly.
const EnvProjectDir = "COURSEDESK_PROJECT_DIR"

// ResolveProjectDir determines the project-local .coursedesk directory path.
// It checks (in order):
//  1. flagValue
//  2. COURSEDESK_PROJECT_DIR env var
//  3. walking up from startDir to the first directory containing .coursedesk/config.yaml
//
// Returns an absolute path or "" when no project is found. Nothing is created.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	home, _ := GetConfigDir()
	for {
		candidate := filepath.Join(dir, ProjectDirName)
		// The user config directory is not a project overlay.
		if candidate != home {
			if _, statErr := os.Stat(filepath.Join(candidate, configFileName)); statErr == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadWithProjectDir loads the user config from path, then shallow-merges the
// project-local config.yaml on top. Environment overrides are applied last.
// A broken overlay is logged and skipped.
func LoadWithProjectDir(ctx context.Context, path, projectDir string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if projectDir == "" {
		return cfg, nil
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, statErr := os.Stat(overlayPath); statErr != nil {
		return cfg, nil
	}

	merged := *cfg
	if mergeErr := ShallowMergeYAML(&merged, overlayPath); mergeErr != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Ctx(ctx).
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(mergeErr).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using user config")
		return cfg, nil
	}

	if envErr := merged.ApplyEnv(); envErr != nil {
		return nil, envErr
	}
	return &merged, nil
}

// toAbsProjectDir converts dir to an absolute path ending in .coursedesk.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Ctx(ctx).
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == ProjectDirName {
		return abs
	}

	return filepath.Join(abs, ProjectDirName)
}
