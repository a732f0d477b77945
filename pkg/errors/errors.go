// Package errors defines the sentinel errors shared across droidrepo and
// small helpers for wrapping them with context. Per-file failures
// (extraction, conflicts) are recoverable and end up in the change report;
// the remaining sentinels abort a repository cycle.
package errors

import "fmt"

// Common error types.
var (
	// Per-file errors, collected into the change report.
	ErrExtraction = fmt.Errorf("failed to extract package metadata")
	ErrConflict   = fmt.Errorf("package conflicts with existing release")

	// Cycle errors, fatal for the running cycle.
	ErrToolUnavailable = fmt.Errorf("external tool not available")
	ErrPersistence     = fmt.Errorf("failed to load persisted index")
	ErrToolInvocation  = fmt.Errorf("repository tool invocation failed")

	// Path and validation errors.
	ErrInvalidPath    = fmt.Errorf("invalid path")
	ErrNotADirectory  = fmt.Errorf("path is not a directory")
	ErrNotAFile       = fmt.Errorf("path is not a file")
	ErrAlreadyExists  = fmt.Errorf("already exists")
	ErrValidation     = fmt.Errorf("validation failed")
	ErrRepositoryLock = fmt.Errorf("repository is locked by another cycle")

	// Config errors.
	ErrConfigParse    = fmt.Errorf("failed to parse config")
	ErrConfigEncode   = fmt.Errorf("failed to encode config")
	ErrConfigNotFound = fmt.Errorf("config file not found")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
