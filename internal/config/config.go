// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/undomark/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger   logger.Config  `toml:"logger"`   // Logger settings under [logger]
	Editor   EditorConfig   `toml:"editor"`   // Editor-specific settings
	Annotate AnnotateConfig `toml:"annotate"` // Annotation engine settings
}

// EditorConfig holds editor-specific settings for the host.
type EditorConfig struct {
	TabWidth        int `toml:"tab_width"`
	StatusBarHeight int `toml:"status_bar_height"`
}

// AnnotateConfig is the static configuration surface of the annotation
// engine: the undo-like allow-list, the visible hold, and the per-cycle
// character budget.
type AnnotateConfig struct {
	Commands   []string `toml:"commands"`     // undo-like command allow-list
	HoldMillis int      `toml:"hold_ms"`      // visible retraction hold
	Limit      int      `toml:"budget_limit"` // characters per cycle
	MinSize    int      `toml:"min_size"`     // legacy minimum edit size (0 = off)
}

// Hold returns the configured hold as a duration.
func (a AnnotateConfig) Hold() time.Duration {
	return time.Duration(a.HoldMillis) * time.Millisecond
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			TabWidth:        DefaultTabWidth,
			StatusBarHeight: StatusBarHeight,
		},
		Annotate: AnnotateConfig{
			Commands:   append([]string(nil), DefaultUndoCommands...),
			HoldMillis: DefaultHoldMillis,
			Limit:      DefaultBudgetLimit,
			MinSize:    DefaultMinSize,
		},
	}
}

// loadFromFile attempts to load configuration from a TOML file. A missing
// file is not an error.
func loadFromFile(filePath string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	return cfg, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if len(c.Annotate.Commands) == 0 {
		c.Annotate.Commands = defaults.Annotate.Commands
	}
	if c.Annotate.Limit <= 0 {
		c.Annotate.Limit = defaults.Annotate.Limit
	}
	if c.Annotate.MinSize < 0 {
		c.Annotate.MinSize = defaults.Annotate.MinSize
	}
	if c.Annotate.HoldMillis < 0 {
		c.Annotate.HoldMillis = defaults.Annotate.HoldMillis
	}
	if c.Annotate.HoldMillis > 0 && c.Annotate.Hold() < LeastHold {
		c.Annotate.HoldMillis = int(LeastHold / time.Millisecond)
	}
}

// LoadConfig orchestrates loading defaults, file, applying flags, and
// validation. It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		cfg := NewDefaultConfig()

		effectivePath := configFilePath
		if effectivePath == "" {
			if configDir, err := os.UserConfigDir(); err == nil {
				effectivePath = filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
			}
		}

		if effectivePath != "" {
			fileCfg, err := loadFromFile(effectivePath)
			if err != nil {
				loadErr = err
			} else if fileCfg != nil {
				cfg.merge(fileCfg)
			}
		}

		if flags != nil {
			flags.ApplyOverrides(cfg)
		}

		cfg.validate()
		loadedConfig = cfg
	})

	return loadedConfig, loadErr
}

// merge applies settings from a file config that were actually set.
func (c *Config) merge(fileCfg *Config) {
	if fileCfg.Logger.LogLevel != "" {
		c.Logger = fileCfg.Logger
	}
	if fileCfg.Editor.TabWidth > 0 {
		c.Editor.TabWidth = fileCfg.Editor.TabWidth
	}
	if fileCfg.Editor.StatusBarHeight > 0 {
		c.Editor.StatusBarHeight = fileCfg.Editor.StatusBarHeight
	}
	if len(fileCfg.Annotate.Commands) > 0 {
		c.Annotate.Commands = fileCfg.Annotate.Commands
	}
	if fileCfg.Annotate.HoldMillis != 0 {
		c.Annotate.HoldMillis = fileCfg.Annotate.HoldMillis
	}
	if fileCfg.Annotate.Limit > 0 {
		c.Annotate.Limit = fileCfg.Annotate.Limit
	}
	if fileCfg.Annotate.MinSize > 0 {
		c.Annotate.MinSize = fileCfg.Annotate.MinSize
	}
}

// Get returns the loaded application configuration. Panics if LoadConfig
// wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
