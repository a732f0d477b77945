package apk

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestApk writes a minimal zip container with the given inner files.
func createTestApk(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestExtractIcon(t *testing.T) {
	dir := t.TempDir()
	apkPath := filepath.Join(dir, "app.apk")
	iconContent := []byte{0x89, 'P', 'N', 'G'}
	createTestApk(t, apkPath, map[string][]byte{
		"res/mipmap-xxxhdpi/ic_launcher.png": iconContent,
		"AndroidManifest.xml":                []byte("binary xml"),
	})

	destPath := filepath.Join(dir, "icons", "org.example.app.42.png")
	err := ExtractIcon(context.Background(), apkPath, "res/mipmap-xxxhdpi/ic_launcher.png", destPath)
	require.NoError(t, err)

	got, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, iconContent, got)
}

func TestExtractIconMissingEntry(t *testing.T) {
	dir := t.TempDir()
	apkPath := filepath.Join(dir, "app.apk")
	createTestApk(t, apkPath, map[string][]byte{"AndroidManifest.xml": []byte("x")})

	err := ExtractIcon(context.Background(), apkPath, "res/icon.png", filepath.Join(dir, "out.png"))
	assert.Error(t, err)
}

func TestExtractIconEmptyPath(t *testing.T) {
	err := ExtractIcon(context.Background(), "app.apk", "", "out.png")
	assert.Error(t, err)
}
