//go:generate mockgen -destination=./mocks/tool.go -package=mocks . Tool
package fdroid

import "context"

// Tool is the capability interface for the external repository management
// tool. It consumes a repository directory prepared by the controller and
// produces or refreshes the signed index artifacts on disk. Signing is
// owned entirely by the tool.
type Tool interface {
	// Init bootstraps a new repository in repoDir.
	Init(ctx context.Context, repoDir string) error

	// Update regenerates the signed index from the directory contents.
	Update(ctx context.Context, repoDir string) error

	// Publish signs staged unsigned packages.
	Publish(ctx context.Context, repoDir string) error

	// RewriteMeta normalizes the tool's metadata files without changing data.
	RewriteMeta(ctx context.Context, repoDir string) error
}
