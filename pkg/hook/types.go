// Package hook runs user-supplied Tengo scripts around repository update
// cycles. Scripts live in the repository's hooks directory and are named
// after the hook type they implement.
package hook

// Type identifies when a hook script runs.
type Type string

// Supported hook types.
const (
	PreUpdate  Type = "pre-update"
	PostUpdate Type = "post-update"
)

// Hook is a script with its type and content.
type Hook struct {
	Type    Type
	Content string
}

// Context carries repository state into a hook script. The change counters
// are zero for pre-update hooks.
type Context struct {
	RepoPath        string
	AppsAdded       int
	AppsUpdated     int
	AppsRemoved     int
	ReleasesAdded   int
	ReleasesRemoved int
	Vars            map[string]interface{}
}

// Manager defines the interface for managing hook scripts.
type Manager interface {
	// Execute runs the script for the given hook type, if one is loaded.
	Execute(hookType Type, ctx Context) error

	// AddHook adds or replaces a hook script.
	AddHook(hook Hook) error

	// HasHook checks if a script of the specified type is loaded.
	HasHook(hookType Type) bool
}
