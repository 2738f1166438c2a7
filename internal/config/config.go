// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/theme"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`  // [logger] table
	Format  FormatConfig  `toml:"format"`  // reformatting settings
	GObject GObjectConfig `toml:"gobject"` // property generator settings

	// Theme overrides prompt styles by name, e.g. [theme."Prompt.Label"].
	Theme map[string]theme.StyleDef `toml:"theme"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
	// Undecoded lists keys in the file that matched no setting. They are
	// reported once the logger is up.
	Undecoded []string `toml:"-"`
}

// FormatConfig holds reformatting settings.
type FormatConfig struct {
	SpaceBeforeParen bool `toml:"space_before_paren"`
	SystemClipboard  bool `toml:"system_clipboard"`
}

// GObjectConfig holds settings for gobj.add-prop.
type GObjectConfig struct {
	DefaultFlags string `toml:"default_flags"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Format: FormatConfig{
			SpaceBeforeParen: DefaultSpaceBeforeParen,
			SystemClipboard:  SystemClipboard,
		},
		GObject: GObjectConfig{
			DefaultFlags: DefaultPropertyFlags,
		},
	}
}

// DefaultPath returns the per-user config file location, or "" when the
// user config directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error
// unless required is set.
func loadFromFile(cfg *Config, filePath string, required bool) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	for _, key := range metadata.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}
	cfg.Path = filePath
	return nil
}

// validate resets unusable values to their defaults.
func (c *Config) validate() error {
	defaults := NewDefaultConfig()

	switch strings.ToLower(strings.TrimSpace(c.Logger.LogLevel)) {
	case "":
		c.Logger.LogLevel = defaults.Logger.LogLevel
	case "debug", "info", "warn", "warning", "error", "err":
	default:
		return fmt.Errorf("invalid log level '%s' (debug, info, warn, error)", c.Logger.LogLevel)
	}

	c.GObject.DefaultFlags = strings.TrimSpace(c.GObject.DefaultFlags)
	if c.GObject.DefaultFlags == "" {
		c.GObject.DefaultFlags = defaults.GObject.DefaultFlags
	}

	if _, err := theme.FromDefs(c.Theme); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}
	return nil
}

// PromptTheme returns the builtin prompt theme with the configured
// overrides applied.
func (c *Config) PromptTheme() *theme.Theme {
	th, err := theme.FromDefs(c.Theme)
	if err != nil {
		logger.Warnf("Config: %v, using builtin theme", err)
		return theme.Builtin()
	}
	return th
}

// Load builds the configuration: defaults, then the file at path (or the
// default location when path is empty), then overrides, then validation.
// An explicit path must exist.
func Load(path string, overrides *Overrides) (*Config, error) {
	cfg := NewDefaultConfig()

	required := path != ""
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path, required); err != nil {
			return nil, err
		}
	}

	overrides.Apply(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
