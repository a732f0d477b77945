package cli

import (
	"context"
	"os"

	"github.com/glorpus-work/droidrepo/pkg/repository"
)

// These variables will be set by the main package
var (
	RepoPath *string
	Verbose  *bool
)

// openManager opens the repository named by the global --repo flag, falling
// back to the current working directory.
func openManager(ctx context.Context) (*repository.Manager, error) {
	root := ""
	if RepoPath != nil {
		root = *RepoPath
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = cwd
	}
	return repository.New(ctx, root, repository.Options{})
}
