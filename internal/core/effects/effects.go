// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// File operations understood by the executor.
const (
	FileMkdir  = "mkdir"
	FileWrite  = "write"
	FileRemove = "remove" // a file or an empty directory, never a tree
)

// FileEffect represents a file system operation.
type FileEffect struct {
	Operation string // one of the File* constants
	Path      string
	Content   []byte // for write operations
}

func (e FileEffect) EffectType() string { return "file" }
