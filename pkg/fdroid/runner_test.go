package fdroid

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool writes a shell script acting as the external binary.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "fdroid")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestRunnerToolUnavailable(t *testing.T) {
	r := &Runner{Binary: "definitely-not-a-real-binary-droidrepo"}
	err := r.Update(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrToolUnavailable)
}

func TestRunnerUpdateSuccess(t *testing.T) {
	r := &Runner{Binary: fakeTool(t, "exit 0")}
	assert.NoError(t, r.Update(context.Background(), t.TempDir()))
}

func TestRunnerInvocationFailure(t *testing.T) {
	r := &Runner{Binary: fakeTool(t, "echo boom >&2\nexit 1")}
	err := r.Update(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrToolInvocation)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunnerRunsInRepoDir(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran-here")
	r := &Runner{Binary: fakeTool(t, "touch ran-here")}
	require.NoError(t, r.Init(context.Background(), dir))
	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRunnerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Binary: fakeTool(t, "sleep 5")}
	err := r.Publish(ctx, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrToolInvocation)
}
