// cmd/undomark/main.go
package main

import (
	"fmt"
	stlog "log" // Standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/undomark/internal/app"
	"github.com/bethropolis/undomark/internal/config"
	"github.com/bethropolis/undomark/internal/logger"
)

var version = "dev" // Overridden at build time via -ldflags

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	args := flags.ParseFlags()

	if flags.Version != nil && *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		os.Exit(0)
	}

	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration ---
	cfgPath := ""
	if flags.ConfigFilePath != nil {
		cfgPath = *flags.ConfigFilePath
	}
	cfg, err := config.LoadConfig(cfgPath, flags)
	if err != nil {
		stlog.Printf("Warning: config load problem: %v", err)
	}
	if cfg == nil {
		stlog.Fatalf("Failed to load configuration")
	}

	// --- Logger Initialization ---
	closeLog, err := logger.InitWithConfig(cfg.Logger)
	if err != nil {
		stlog.Printf("Warning: %v", err)
	}
	defer closeLog()

	logger.Infof("Starting %s...", config.AppName)
	logger.Debugf("Log level set to: %s", cfg.Logger.LogLevel)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}
	logger.Debugf("Annotation hold: %v, budget limit: %d, commands: %v",
		cfg.Annotate.Hold(), cfg.Annotate.Limit, cfg.Annotate.Commands)

	// --- Create and Run App ---
	application, err := app.New(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
