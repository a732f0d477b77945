// Package fdroid invokes the fdroidserver command line tool. The tool is a
// black box to the rest of the system: it gets a repository directory and a
// config.yml and leaves a signed index behind. A non-zero exit is a hard
// failure for the running cycle.
package fdroid

import (
	"context"
	"os/exec"
	"strings"

	"github.com/glorpus-work/droidrepo/internal/logger"
	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// DefaultBinary is the fdroidserver entry point, resolved via PATH.
const DefaultBinary = "fdroid"

// Runner is the Tool implementation shelling out to the fdroid binary.
// Instances hold no mutable state and are safe for concurrent use, though
// cycles against one repository directory must be serialized by the caller.
type Runner struct {
	Binary string
}

// NewRunner creates a Runner using the default binary name.
func NewRunner() *Runner {
	return &Runner{Binary: DefaultBinary}
}

// Init bootstraps a new repository by running `fdroid init`.
func (r *Runner) Init(ctx context.Context, repoDir string) error {
	return r.run(ctx, repoDir, "init")
}

// Update regenerates the signed index. Runs `fdroid update -c` to create
// metadata stubs for new packages, then `fdroid update`.
func (r *Runner) Update(ctx context.Context, repoDir string) error {
	if err := r.run(ctx, repoDir, "update", "-c"); err != nil {
		return err
	}
	return r.run(ctx, repoDir, "update")
}

// Publish runs `fdroid publish`.
func (r *Runner) Publish(ctx context.Context, repoDir string) error {
	return r.run(ctx, repoDir, "publish")
}

// RewriteMeta runs `fdroid rewritemeta`.
func (r *Runner) RewriteMeta(ctx context.Context, repoDir string) error {
	return r.run(ctx, repoDir, "rewritemeta")
}

func (r *Runner) run(ctx context.Context, repoDir, command string, args ...string) error {
	bin, err := exec.LookPath(r.Binary)
	if err != nil {
		return errors.Wrapf(errors.ErrToolUnavailable, "%s not found in PATH", r.Binary)
	}

	logger.Info("running repository tool", logger.Fields{
		"command": command,
		"args":    strings.Join(args, " "),
		"dir":     repoDir,
	})

	cmd := exec.CommandContext(ctx, bin, append([]string{command}, args...)...)
	cmd.Dir = repoDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(errors.ErrToolInvocation, "%s %s in %s: %v: %s",
			r.Binary, command, repoDir, err, strings.TrimSpace(string(output)))
	}
	logger.Debug("repository tool finished", logger.Fields{"command": command})
	return nil
}
