// Package config loads trajview settings from YAML, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/trajview/internal/details"
	"github.com/rshade/trajview/internal/logging"
	"github.com/rshade/trajview/internal/window"
)

// Schema versions.
const (
	// SchemaVersion is written by `config init` and assumed when a file omits it.
	SchemaVersion = "1.0.0"

	// supportedSchema is the range of config schema versions this build reads.
	supportedSchema = "^1.0.0"
)

// Environment variables.
const (
	EnvConfigPath   = "TRAJVIEW_CONFIG"
	EnvLogLevel     = "TRAJVIEW_LOG_LEVEL"
	EnvLogFormat    = "TRAJVIEW_LOG_FORMAT"
	EnvOutputFormat = "TRAJVIEW_OUTPUT_FORMAT"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// defaultItemRows is the terminal height of one windowed tool result.
const defaultItemRows = 4

// Validation errors.
var (
	ErrUnsupportedSchema = errors.New("unsupported config schema version")
	ErrInvalidFormat     = errors.New("unsupported output format")
	ErrInvalidDelay      = errors.New("invalid reveal delay")
	ErrInvalidItemRows   = errors.New("view item_rows must be positive")
)

// Config is the full trajview configuration.
type Config struct {
	Version string        `yaml:"version"`
	Window  WindowConfig  `yaml:"window"`
	View    ViewConfig    `yaml:"view"`
	Details DetailsConfig `yaml:"details"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds windowed rendering parameters.
type WindowConfig struct {
	ItemHeight     int `yaml:"item_height"`
	ViewportHeight int `yaml:"viewport_height"`
	Buffer         int `yaml:"buffer"`
	Threshold      int `yaml:"threshold"`
}

// ViewConfig holds terminal view settings.
type ViewConfig struct {
	// ItemRows is the fixed height, in terminal rows, of a windowed tool result.
	ItemRows int `yaml:"item_rows"`

	// Highlight enables syntax highlighting in detail panels.
	Highlight bool `yaml:"highlight"`

	// Theme is the chroma style name used for highlighting.
	Theme string `yaml:"theme"`
}

// DetailsConfig holds detail toggle settings.
type DetailsConfig struct {
	// RevealDelay is a Go duration string, e.g. "300ms".
	RevealDelay string `yaml:"reveal_delay"`
}

// OutputConfig holds non-interactive output settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	def := window.DefaultConfig()
	return &Config{
		Version: SchemaVersion,
		Window: WindowConfig{
			ItemHeight:     def.ItemHeight,
			ViewportHeight: def.ViewportHeight,
			Buffer:         def.Buffer,
			Threshold:      def.Threshold,
		},
		View: ViewConfig{
			ItemRows:  defaultItemRows,
			Highlight: true,
			Theme:     "monokai",
		},
		Details: DetailsConfig{RevealDelay: details.RevealDelay.String()},
		Output:  OutputConfig{DefaultFormat: FormatTable},
		Logging: LoggingConfig{Level: "info", Format: logging.FormatConsole},
	}
}

// DefaultPath returns ~/.trajview/config.yaml, or an empty string if the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trajview", "config.yaml")
}

// ResolvePath picks the config file path: flag, then TRAJVIEW_CONFIG, then DefaultPath.
func ResolvePath(flagValue string, lookupEnv func(string) (string, bool)) string {
	if flagValue != "" {
		return flagValue
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv(EnvConfigPath); ok && v != "" {
			return v
		}
	}
	return DefaultPath()
}

// Load builds a Config from defaults, the file at path (if it exists) and the
// environment, then validates it. A missing file is not an error.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := New()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
				return nil, mergeErr
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(lookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if lookupEnv == nil {
		return
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvOutputFormat); ok && v != "" {
		c.Output.DefaultFormat = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := CheckSchemaVersion(c.Version); err != nil {
		return err
	}
	if err := c.Window.ToWindowConfig().Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	if c.View.ItemRows <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidItemRows, c.View.ItemRows)
	}
	if _, err := c.Details.Delay(); err != nil {
		return err
	}
	if !IsValidFormat(c.Output.DefaultFormat) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.DefaultFormat)
	}
	return nil
}

// CheckSchemaVersion verifies that version falls in the supported range.
// An empty version is treated as SchemaVersion.
func CheckSchemaVersion(version string) error {
	if version == "" {
		version = SchemaVersion
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, version, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedSchema, v, supportedSchema)
	}
	return nil
}

// IsValidFormat reports whether format is a supported output format.
func IsValidFormat(format string) bool {
	return slices.Contains([]string{FormatTable, FormatJSON, FormatNDJSON}, format)
}

// ToWindowConfig converts to the window package's parameters.
func (w WindowConfig) ToWindowConfig() window.Config {
	return window.Config{
		ItemHeight:     w.ItemHeight,
		ViewportHeight: w.ViewportHeight,
		Buffer:         w.Buffer,
		Threshold:      w.Threshold,
	}
}

// Delay parses RevealDelay. An empty value means details.RevealDelay.
func (d DetailsConfig) Delay() (time.Duration, error) {
	if d.RevealDelay == "" {
		return details.RevealDelay, nil
	}
	delay, err := time.ParseDuration(d.RevealDelay)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDelay, err)
	}
	if delay < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidDelay, d.RevealDelay)
	}
	return delay, nil
}

// ToLoggingConfig converts to the logging package's parameters.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  l.Level,
		Format: l.Format,
		File:   l.File,
	}
}
