// Package config loads and validates the spaforge project configuration.
// The application options (mife vs root) drive both bundler configuration
// resolution and the HTML injection pipeline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
)

// Config represents the project configuration loaded from spaforge.yaml.
type Config struct {
	App     AppOptions    `yaml:"app"`
	Serve   ServeConfig   `yaml:"serve,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServeConfig configures the root-application dev server.
type ServeConfig struct {
	Host     string `yaml:"host,omitempty"`      // defaults to localhost
	Port     int    `yaml:"port,omitempty"`      // defaults to 4100
	HTMLPath string `yaml:"html_path,omitempty"` // page served with injections applied

	Metrics        bool   `yaml:"metrics,omitempty"`
	EventStorePath string `yaml:"event_store,omitempty"` // ":memory:" or a file path

	WatchDebounceMS int `yaml:"watch_debounce_ms,omitempty"`
}

// LoggingConfig configures process logging.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel canonicalizes a log level string, returning "" for unknown values.
func NormalizeLogLevel(s string) LogLevel {
	switch LogLevel(s) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return LogLevel(s)
	default:
		return ""
	}
}

// LogFormat enumerates supported logging output formats.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// NormalizeLogFormat canonicalizes a log format string, returning "" for unknown values.
func NormalizeLogFormat(s string) LogFormat {
	switch LogFormat(s) {
	case LogFormatText, LogFormatJSON:
		return LogFormat(s)
	default:
		return ""
	}
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "failed to unmarshal config").
			WithContext("path", configPath)
	}

	if _, err := NormalizeConfig(&config); err != nil {
		return nil, err
	}
	if err := ApplyDefaults(&config); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := `# spaforge project configuration
app:
  # "mife" for a standalone micro-frontend, "root" for the container application
  type: mife
  mife:
    serverPort: 4101
    # deployedBase: https://cdn.example.com/navbar/
    # indexEntry: index.html
    # spaEntry: src/spa.ts

  # Root application example:
  # type: root
  # root:
  #   importMaps:
  #     type: overridable-importmap
  #     dev: src/importMap.dev.json
  #     build: src/importMap.json
  #   imo: true
  #   imoUi:
  #     buttonPos: bottom-right
  #     localStorageKey: imo-ui

serve:
  host: localhost
  port: 4100
  html_path: index.html
  metrics: false

logging:
  level: info
  format: text
`

	if err := os.WriteFile(configPath, []byte(example), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
