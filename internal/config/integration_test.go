package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)

	cfg2 := GetGlobalConfig()
	assert.Same(t, cfg, cfg2)

	ResetGlobalConfigForTest()
	cfg3 := GetGlobalConfig()
	assert.NotSame(t, cfg, cfg3)
}

func TestSetGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Cleanup(ResetGlobalConfigForTest)

	custom := New()
	custom.Output.DefaultFormat = "json"
	custom.Logging.Level = "debug"
	custom.Logging.File = "/tmp/coursedesk-test.log"
	SetGlobalConfig(custom)

	assert.Same(t, custom, GetGlobalConfig())
	assert.Equal(t, "json", GetDefaultOutputFormat())
	assert.Equal(t, "debug", GetLogLevel())
	assert.Equal(t, "/tmp/coursedesk-test.log", GetLogFile())
	assert.Equal(t, "debug", GetLoggingConfig().Level)
}

func TestConfigDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, filepath.Join(home, "cd"))
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cd"), dir)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cd", "config.yaml"), path)

	require.NoError(t, EnsureConfigDir())
	require.NoError(t, EnsureLogDir())

	_, err = os.Stat(filepath.Join(home, "cd", "logs"))
	assert.NoError(t, err)
}

func TestEnsureLogDir_NoFile(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := New()
	cfg.Logging.File = ""
	SetGlobalConfig(cfg)

	assert.NoError(t, EnsureLogDir())
}
