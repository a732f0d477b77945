//go:build integration

package main

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoBadging = `package: name='org.example.demo' versionCode='3' versionName='1.2.0'
sdkVersion:'21'
targetSdkVersion:'34'
uses-permission: name='android.permission.INTERNET'
application-label:'Demo App'
application: label='Demo App' icon='res/icon.png'
application-icon-160:'res/icon.png'
native-code: 'arm64-v8a'
`

const demoCerts = `Signer #1 certificate DN: CN=demo
Signer #1 certificate SHA-256 digest: 3f81c9ba4a9e4b10a0c5a2b7f4ab98a6f2d0e1c3b5a79c8d6e4f20139a8b7c6d
`

// installFakeTools puts shell scripts named aapt, apksigner and fdroid on
// PATH so a full cycle can run without the real toolchain.
func installFakeTools(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures need a unix shell")
	}

	bin := t.TempDir()
	write := func(name, script string) {
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\n"+script), 0o755))
	}
	write("aapt", "cat <<'EOF'\n"+demoBadging+"EOF\n")
	write("apksigner", "cat <<'EOF'\n"+demoCerts+"EOF\n")
	write("fdroid", "exit 0")

	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// newRepoRoot creates a configured repository with one apk in it.
func newRepoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	config := `sdk_path: /opt/android-sdk
repo_keyalias: repokey
keystore: keystore.p12
keystorepass: integration
keypass: integration
keydname: CN=integration
repo_name: Integration Repo
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yml"), []byte(config), 0o640))
	require.NoError(t, os.Mkdir(filepath.Join(root, "repo"), 0o755))

	apkPath := filepath.Join(root, "repo", "demo.apk")
	file, err := os.Create(apkPath)
	require.NoError(t, err)
	zw := zip.NewWriter(file)
	w, err := zw.Create("res/icon.png")
	require.NoError(t, err)
	_, err = w.Write([]byte("fake-png"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	return root
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestUpdate_FullCycle(t *testing.T) {
	installFakeTools(t)
	root := newRepoRoot(t)

	require.NoError(t, runCLI(t, "update", "--repo", root))

	data, err := os.ReadFile(filepath.Join(root, "droidrepo-index.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "org.example.demo")
	assert.Contains(t, string(data), `"version_code": 3`)
	assert.Contains(t, string(data), "3f81c9ba4a9e4b10a0c5a2b7f4ab98a6f2d0e1c3b5a79c8d6e4f20139a8b7c6d")

	icon, err := os.ReadFile(filepath.Join(root, "repo", "icons", "org.example.demo.3.png"))
	require.NoError(t, err)
	assert.Equal(t, "fake-png", string(icon))
}

func TestUpdate_SecondCycleIsIdempotent(t *testing.T) {
	installFakeTools(t)
	root := newRepoRoot(t)

	require.NoError(t, runCLI(t, "update", "--repo", root))
	data, err := os.ReadFile(filepath.Join(root, "droidrepo-index.json"))
	require.NoError(t, err)
	first, err := index.ParseIndex(data)
	require.NoError(t, err)

	require.NoError(t, runCLI(t, "update", "--repo", root))
	data, err = os.ReadFile(filepath.Join(root, "droidrepo-index.json"))
	require.NoError(t, err)
	second, err := index.ParseIndex(data)
	require.NoError(t, err)

	assert.Equal(t, first.Apps, second.Apps)
}

func TestRemove_DropsApplication(t *testing.T) {
	installFakeTools(t)
	root := newRepoRoot(t)

	require.NoError(t, runCLI(t, "update", "--repo", root))
	require.NoError(t, runCLI(t, "remove", "--repo", root, "demo.apk"))

	data, err := os.ReadFile(filepath.Join(root, "droidrepo-index.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "org.example.demo")

	_, err = os.Stat(filepath.Join(root, "repo", "demo.apk"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdate_FailingToolAborts(t *testing.T) {
	installFakeTools(t)
	root := newRepoRoot(t)

	// Replace fdroid with a failing one, later on PATH lookup order.
	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "fdroid"), []byte("#!/bin/sh\necho broken >&2\nexit 1\n"), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	err := runCLI(t, "update", "--repo", root)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "broken") || strings.Contains(err.Error(), "fdroid"))
}
