// internal/config/constants.go
package config

import "time"

// Base application details
const AppName = "undomark"
const ConfigDirName = "undomark"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "undomark.log"

// UI Layout
const StatusBarHeight = 1
const DefaultTabWidth = 4

// Annotation engine defaults
const DefaultHoldMillis = 2000   // visible retraction hold before clearing
const DefaultBudgetLimit = 10000 // characters touched per operation cycle
const DefaultMinSize = 0         // legacy minimum edit size, disabled

// LeastHold guards against accidental sub-frame holds from config typos.
const LeastHold = 10 * time.Millisecond

// DefaultUndoCommands is the allow-list of undo-like command IDs: the
// built-in traversal commands plus the IDs a few known embedding hosts
// use for the same thing.
var DefaultUndoCommands = []string{
	"undo",
	"redo",
	"undo-all",
	"redo-all",
	"history.undo",
	"history.redo",
}
