// internal/types/command.go
package types

// CommandID identifies a host command (e.g. "undo", "redo", "save").
// The annotation engine compares IDs against its configured allow-list
// to separate user-driven undo/redo traversal from incidental edits.
type CommandID string

// None is the zero CommandID, meaning no command is currently executing.
const None CommandID = ""
