package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/coursedesk/internal/cli"
	"github.com/rshade/coursedesk/internal/config"
	"github.com/rshade/coursedesk/internal/fakeapi"
	"github.com/rshade/coursedesk/internal/query"
)

// setupCLITest isolates config and logging from the real home directory and
// registers cleanup for global state. It returns the config directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvProjectDir, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvPageSize, "")
	t.Setenv(config.EnvDebounce, "")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type listOutput struct {
	Courses    []map[string]any `json:"courses"`
	Pagination struct {
		CurrentPage int  `json:"current_page"`
		PageSize    int  `json:"page_size"`
		TotalPages  int  `json:"total_pages"`
		TotalItems  int  `json:"total_items"`
		HasPrevious bool `json:"has_previous"`
		HasNext     bool `json:"has_next"`
	} `json:"pagination"`
}

func TestList_JSON(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(12))
	defer api.Close()

	out, err := runCLI(t, "--api-url", api.BaseURL(), "list", "--page", "2", "--page-size", "5", "--output", "json")
	require.NoError(t, err)

	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Courses, 5)
	assert.InDelta(t, 6, got.Courses[0]["id"], 0)
	assert.InDelta(t, 10, got.Courses[4]["id"], 0)
	assert.Equal(t, 2, got.Pagination.CurrentPage)
	assert.Equal(t, 3, got.Pagination.TotalPages)
	assert.Equal(t, 12, got.Pagination.TotalItems)
	assert.True(t, got.Pagination.HasPrevious)
	assert.True(t, got.Pagination.HasNext)

	assert.Len(t, api.CallsTo(query.OpCount), 1)
	assert.Len(t, api.CallsTo(query.OpPagination), 1)
}

func TestList_UsesConfiguredPageSize(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvPageSize, "4")
	api := fakeapi.New(fakeapi.Catalogue(12))
	defer api.Close()

	out, err := runCLI(t, "--api-url", api.BaseURL(), "list", "-o", "json")
	require.NoError(t, err)

	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Courses, 4)
	assert.Equal(t, 3, got.Pagination.TotalPages)
}

func TestList_FiltersReachServer(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(12))
	defer api.Close()

	out, err := runCLI(t, "--api-url", api.BaseURL(), "list",
		"--status", "published", "--category", "2", "--query", "course 1", "-o", "yaml")
	require.NoError(t, err)

	calls := api.CallsTo(query.OpPagination)
	require.Len(t, calls, 1)
	where := calls[0].Pagination.Where
	require.NotNil(t, where.Status)
	assert.EqualValues(t, "PUBLISHED", *where.Status)
	require.NotNil(t, where.CategoryID)
	assert.Equal(t, int64(2), *where.CategoryID)
	require.NotNil(t, where.Query)
	assert.Equal(t, "course 1", *where.Query)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "pagination")
}

func TestList_Table(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(12))
	defer api.Close()

	out, err := runCLI(t, "--api-url", api.BaseURL(), "list")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Course 1")
	assert.Contains(t, out, "Page 1 of 3 (12 courses)")
}

func TestList_EmptyHidesPageSummary(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(3))
	defer api.Close()

	out, err := runCLI(t, "--api-url", api.BaseURL(), "list", "--query", "nothing like this")
	require.NoError(t, err)

	assert.Contains(t, out, "No courses match the filter.")
	assert.NotContains(t, out, "Page")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		fail    string
		wantErr string
	}{
		{name: "server failure", args: []string{"list"}, fail: query.OpCount, wantErr: "listing courses"},
		{name: "bad status", args: []string{"list", "--status", "retired"}, wantErr: "unknown course status"},
		{name: "negative page", args: []string{"list", "--page=-1"}, wantErr: "page cannot be negative"},
		{name: "page size too big", args: []string{"list", "--page-size", "5000"}, wantErr: "page-size must be between"},
		{name: "bad output", args: []string{"list", "-o", "csv"}, wantErr: "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			api := fakeapi.New(fakeapi.Catalogue(3))
			defer api.Close()
			if tt.fail != "" {
				api.Fail(tt.fail, http.StatusInternalServerError)
			}

			_, err := runCLI(t, append([]string{"--api-url", api.BaseURL()}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestList_InvalidAPIURL(t *testing.T) {
	setupCLITest(t)

	_, err := runCLI(t, "--api-url", "not a url", "list")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestCount(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(12))
	defer api.Close()

	out, err := runCLI(t, "--api-url", api.BaseURL(), "count")
	require.NoError(t, err)
	assert.Equal(t, "12 courses\n", out)

	out, err = runCLI(t, "--api-url", api.BaseURL(), "count", "--query", "course 12", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"filter":{"categoryId":null,"status":null,"query":"course 12"},"count":1}`, out)
}

func TestCount_ServerFailure(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(3))
	defer api.Close()
	api.Fail(query.OpCount, http.StatusBadGateway)

	_, err := runCLI(t, "--api-url", api.BaseURL(), "count")
	require.ErrorIs(t, err, query.ErrNetwork)
}

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	path := filepath.Join(home, "config.yaml")
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	_, err = runCLI(t, "config", "init")
	require.Error(t, err, "existing file is not overwritten without --force")

	_, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := runCLI(t, "config", "init", "--project")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, ".coursedesk", "config.yaml"))
	require.NoError(t, statErr)
}

func TestConfigSetGet(t *testing.T) {
	home := setupCLITest(t)

	out, err := runCLI(t, "config", "set", "view.page_size", "9")
	require.NoError(t, err)
	assert.Equal(t, "view.page_size = 9\n", out)

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "page_size: 9")

	out, err = runCLI(t, "config", "get", "view.page_size")
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)

	_, err = runCLI(t, "config", "set", "view.page_size", "0")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = runCLI(t, "config", "get", "view.colour")
	require.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestConfigSet_DoesNotPersistEnv(t *testing.T) {
	home := setupCLITest(t)
	t.Setenv(config.EnvAPIURL, "http://from-env:1/api/")

	_, err := runCLI(t, "config", "set", "view.page_size", "7")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
}

func TestConfigList(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "list")
	require.NoError(t, err)
	for _, key := range config.Keys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "1s")
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Page size: 5")

	t.Setenv(config.EnvDebounce, "5m")
	_, err = runCLI(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view.debounce")
}

func TestVersion(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "coursedesk ")
	assert.Contains(t, out, "commit:")
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	setupCLITest(t)
	api := fakeapi.New(fakeapi.Catalogue(3))
	defer api.Close()

	_, err := runCLI(t, "--api-url", api.BaseURL(), "browse")
	require.ErrorIs(t, err, cli.ErrNotInteractive)
}

func TestMalformedConfigFile(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("view: ["), 0600))

	_, err := runCLI(t, "count")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
