package hook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteNoScriptIsNoop(t *testing.T) {
	e := NewTengoExecutor()
	assert.NoError(t, e.Execute(PreUpdate, Context{RepoPath: "/tmp/repo"}))
}

func TestExecuteContextVariables(t *testing.T) {
	e := NewTengoExecutor()
	require.NoError(t, e.AddHook(Hook{
		Type: PostUpdate,
		Content: `
err := ""
if repoPath != "/srv/fdroid" {
	err = "unexpected repo path: " + repoPath
}
if appsAdded != 2 {
	err = "unexpected appsAdded"
}
`,
	}))

	err := e.Execute(PostUpdate, Context{RepoPath: "/srv/fdroid", AppsAdded: 2})
	assert.NoError(t, err)
}

func TestExecuteScriptError(t *testing.T) {
	e := NewTengoExecutor()
	require.NoError(t, e.AddHook(Hook{Type: PreUpdate, Content: `err := "refusing to update"`}))

	err := e.Execute(PreUpdate, Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHookScript)
	assert.Contains(t, err.Error(), "refusing to update")
}

func TestExecuteCompileFailure(t *testing.T) {
	e := NewTengoExecutor()
	require.NoError(t, e.AddHook(Hook{Type: PreUpdate, Content: `if {`}))

	err := e.Execute(PreUpdate, Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHookExecution)
}

func TestExecuteCustomVars(t *testing.T) {
	e := NewTengoExecutor()
	require.NoError(t, e.AddHook(Hook{
		Type: PostUpdate,
		Content: `
err := ""
if mode != "dry-run" {
	err = "expected dry-run mode"
}
`,
	}))

	err := e.Execute(PostUpdate, Context{Vars: map[string]interface{}{"mode": "dry-run"}})
	assert.NoError(t, err)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-update.tengo"), []byte(`err := ""`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unknown-type.tengo"), []byte(`err := ""`), 0o644))

	e := NewTengoExecutor()
	require.NoError(t, LoadFromDir(e, dir))

	assert.True(t, e.HasHook(PreUpdate))
	assert.False(t, e.HasHook(PostUpdate))
}

func TestLoadFromDirMissingDir(t *testing.T) {
	e := NewTengoExecutor()
	assert.NoError(t, LoadFromDir(e, filepath.Join(t.TempDir(), "does-not-exist")))
	assert.False(t, e.HasHook(PreUpdate))
}
