// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	TabWidth       *int
	HoldMillis     *int
	BudgetLimit    *int
	MinSize        *int
	Commands       *string
	EnableTags     *string
	DisableTags    *string
	EnablePkgs     *string
	DisablePkgs    *string
}

// DefineFlags sets up the command-line flags.
func (f *Flags) DefineFlags() {
	f.ConfigFilePath = flag.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = flag.Bool("version", false, "Show version information and exit")
	f.LogLevel = flag.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = flag.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.TabWidth = flag.Int("tabwidth", 0, "Number of spaces per tab - Overrides config file")
	f.HoldMillis = flag.Int("hold-ms", -1, "Milliseconds annotations stay visible at cycle end - Overrides config file")
	f.BudgetLimit = flag.Int("budget-limit", 0, "Characters touched per cycle before annotations are suppressed - Overrides config file")
	f.MinSize = flag.Int("min-size", -1, "Legacy minimum edit size in bytes (0 disables) - Overrides config file")
	f.Commands = flag.String("undo-commands", "", "Comma-separated allow-list of undo-like command IDs - Overrides config file")
	f.EnableTags = flag.String("log-tags", "", "Comma-separated list of log tags to enable - Overrides config file")
	f.DisableTags = flag.String("log-disable-tags", "", "Comma-separated list of log tags to disable - Overrides config file")
	f.EnablePkgs = flag.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = flag.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
}

// ParseFlags parses the defined command-line flags into the Flags struct.
// It returns the remaining non-flag arguments (e.g., the file path).
func (f *Flags) ParseFlags() []string {
	f.DefineFlags()
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates the Config struct with values from flags *if*
// they were set. flag.Visit only walks flags the user actually passed.
func (f *Flags) ApplyOverrides(cfg *Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			if f.LogLevel != nil && *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			if f.LogFilePath != nil { // Empty string is valid ("-")
				cfg.Logger.LogFilePath = *f.LogFilePath
			}
		case "tabwidth":
			if f.TabWidth != nil && *f.TabWidth > 0 {
				cfg.Editor.TabWidth = *f.TabWidth
			}
		case "hold-ms":
			if f.HoldMillis != nil && *f.HoldMillis >= 0 {
				cfg.Annotate.HoldMillis = *f.HoldMillis
			}
		case "budget-limit":
			if f.BudgetLimit != nil && *f.BudgetLimit > 0 {
				cfg.Annotate.Limit = *f.BudgetLimit
			}
		case "min-size":
			if f.MinSize != nil && *f.MinSize >= 0 {
				cfg.Annotate.MinSize = *f.MinSize
			}
		case "undo-commands":
			if f.Commands != nil && *f.Commands != "" {
				cfg.Annotate.Commands = splitList(*f.Commands)
			}
		case "log-tags":
			cfg.Logger.EnabledTags = splitList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitList(*f.DisablePkgs)
		}
	})
}

// splitList parses a comma-separated flag value, trimming blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
