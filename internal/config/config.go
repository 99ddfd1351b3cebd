// Package config loads and validates coursedesk configuration.
//
// Values are resolved in order: built-in defaults, the user config file
// (~/.coursedesk/config.yaml), an optional project-local overlay, environment
// variables, and finally CLI flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/coursedesk/internal/pagination"
)

// Defaults.
const (
	DefaultBaseURL       = "http://localhost:8080/api/"
	DefaultTimeout       = 10 * time.Second
	DefaultDebounce      = time.Second
	DefaultOutputFormat  = "table"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	configFileName       = "config.yaml"
	maxDebounce          = time.Minute
	configFilePermission = 0600
)

// Environment variables that override the config file.
const (
	EnvHome      = "COURSEDESK_HOME"
	EnvAPIURL    = "COURSEDESK_API_URL"
	EnvPageSize  = "COURSEDESK_PAGE_SIZE"
	EnvDebounce  = "COURSEDESK_DEBOUNCE"
	EnvLogLevel  = "COURSEDESK_LOG_LEVEL"
	EnvLogFormat = "COURSEDESK_LOG_FORMAT"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrUnknownKey is returned by Get and Set for keys outside the schema.
var ErrUnknownKey = errors.New("unknown configuration key")

// validOutputFormats lists the formats accepted by output.default_format.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var validOutputFormats = map[string]bool{"table": true, "json": true, "yaml": true}

// Config is the full coursedesk configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	View    ViewConfig    `yaml:"view"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// path is where the config was loaded from and where Save writes.
	path string
}

// APIConfig locates the course administration API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ViewConfig tunes the interactive course view.
type ViewConfig struct {
	PageSize          int           `yaml:"page_size"`
	Debounce          time.Duration `yaml:"debounce"`
	ResetPageOnFilter bool          `yaml:"reset_page_on_filter"`
}

// OutputConfig controls non-interactive output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls the root logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// New returns a Config populated with defaults. The log file and save path
// point into the user config directory when it can be determined.
func New() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		View: ViewConfig{
			PageSize: pagination.DefaultPageSize,
			Debounce: DefaultDebounce,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}

	if dir, err := GetConfigDir(); err == nil {
		cfg.path = filepath.Join(dir, configFileName)
		cfg.Logging.File = filepath.Join(dir, "logs", "coursedesk.log")
	}
	return cfg
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error. An empty path means the default location.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile is Load without the environment overrides. It is what `config set`
// edits, so values from the environment are never written back to disk.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		cfg.path = path
	}

	if cfg.path != "" {
		data, err := os.ReadFile(cfg.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", cfg.path, err)
		default:
			if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", cfg.path, unmarshalErr)
			}
		}
	}

	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.path, data, configFilePermission); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.path, err)
	}
	return nil
}

// ApplyEnv overrides values from COURSEDESK_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvPageSize, v)
		}
		c.View.PageSize = n
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, EnvDebounce, v)
		}
		c.View.Debounce = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks every section and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q must be an absolute http(s) URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}

	if c.View.PageSize < pagination.MinPageSize || c.View.PageSize > pagination.MaxPageSize {
		errs = append(errs, fmt.Errorf("view.page_size must be between %d and %d, got %d",
			pagination.MinPageSize, pagination.MaxPageSize, c.View.PageSize))
	}
	if c.View.Debounce < 0 || c.View.Debounce > maxDebounce {
		errs = append(errs, fmt.Errorf("view.debounce must be between 0s and %s, got %s", maxDebounce, c.View.Debounce))
	}

	if !validOutputFormats[c.Output.DefaultFormat] {
		errs = append(errs, fmt.Errorf("output.default_format must be table, json or yaml, got %q", c.Output.DefaultFormat))
	}

	if err := c.Logging.validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Keys returns every settable key in dotted form, sorted.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a dotted key such as "view.page_size".
func (c *Config) Get(key string) (string, error) {
	acc, ok := accessors[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.get(c), nil
}

// Set parses value for a dotted key and stores it. The result is not
// validated; call Validate before saving.
func (c *Config) Set(key, value string) error {
	acc, ok := accessors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := acc.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

type accessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(field func(*Config) *string) accessor {
	return accessor{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func durationField(field func(*Config) *time.Duration) accessor {
	return accessor{
		get: func(c *Config) string { return field(c).String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			*field(c) = d
			return nil
		},
	}
}

//nolint:gochecknoglobals // Compile-time constant lookup table.
var accessors = map[string]accessor{
	"api.base_url": stringField(func(c *Config) *string { return &c.API.BaseURL }),
	"api.timeout":  durationField(func(c *Config) *time.Duration { return &c.API.Timeout }),
	"view.page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.View.PageSize) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			c.View.PageSize = n
			return nil
		},
	},
	"view.debounce": durationField(func(c *Config) *time.Duration { return &c.View.Debounce }),
	"view.reset_page_on_filter": {
		get: func(c *Config) string { return strconv.FormatBool(c.View.ResetPageOnFilter) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.View.ResetPageOnFilter = b
			return nil
		},
	},
	"output.default_format": stringField(func(c *Config) *string { return &c.Output.DefaultFormat }),
	"logging.level":         stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":        stringField(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":          stringField(func(c *Config) *string { return &c.Logging.File }),
}
