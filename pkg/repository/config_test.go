package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fdroid/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

const testConfigYAML = `sdk_path: /opt/android-sdk
repo_keyalias: repokey
keystore: keystore.p12
keystorepass: s3cret
keypass: s3cret
keydname: CN=test, OU=test
repo_name: Test Repo
repo_description: A repository for testing
`

// newConfiguredManager creates a Manager over a temp dir that already has a
// config.yml, so New never triggers initialization.
func newConfiguredManager(t *testing.T, ctrl *gomock.Controller) (*Manager, *mocks.MockTool) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte(testConfigYAML), 0o640))

	tool := mocks.NewMockTool(ctrl)
	m, err := New(context.Background(), root, Options{Tool: tool})
	require.NoError(t, err)
	return m, tool
}

func TestConfigReturnsPublicFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := newConfiguredManager(t, ctrl)

	cfg, err := m.Config()
	require.NoError(t, err)

	assert.Equal(t, "Test Repo", cfg.RepoName)
	assert.Equal(t, "A repository for testing", cfg.RepoDescription)
	assert.Empty(t, cfg.RepoURL)
}

func TestSetConfigPreservesSigningMaterial(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, tool := newConfiguredManager(t, ctrl)
	tool.EXPECT().Update(gomock.Any(), m.Root()).Return(nil)

	cfg, err := m.Config()
	require.NoError(t, err)
	cfg.RepoURL = "https://repo.example.org/fdroid/repo"
	cfg.RepoName = "Renamed Repo"

	require.NoError(t, m.SetConfig(context.Background(), cfg))

	data, err := os.ReadFile(m.ConfigPath())
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))

	assert.Equal(t, "s3cret", raw["keystorepass"])
	assert.Equal(t, "repokey", raw["repo_keyalias"])
	assert.Equal(t, "Renamed Repo", raw["repo_name"])
	assert.Equal(t, "https://repo.example.org/fdroid/repo", raw["repo_url"])
}

func TestKeystorePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := newConfiguredManager(t, ctrl)

	pass, err := m.KeystorePassword()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pass)
}

func TestConfigMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := newConfiguredManager(t, ctrl)
	require.NoError(t, os.Remove(m.ConfigPath()))

	_, err := m.Config()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)
}

func TestConfigParseFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := newConfiguredManager(t, ctrl)
	require.NoError(t, os.WriteFile(m.ConfigPath(), []byte("repo_name: [unterminated"), 0o640))

	_, err := m.Config()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigParse)
}

func TestImagePathDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := newConfiguredManager(t, ctrl)

	path, err := m.ImagePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.RepoPath(), iconsDirName, "icon.png"), path)
}

func TestSetImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, tool := newConfiguredManager(t, ctrl)
	tool.EXPECT().Update(gomock.Any(), m.Root()).Return(nil)

	newImage := filepath.Join(t.TempDir(), "banner.png")
	require.NoError(t, os.WriteFile(newImage, []byte("png-bytes"), 0o644))

	require.NoError(t, m.SetImage(context.Background(), newImage))

	imagePath, err := m.ImagePath()
	require.NoError(t, err)
	data, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSetImageTypeMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _ := newConfiguredManager(t, ctrl)

	newImage := filepath.Join(t.TempDir(), "banner.jpg")
	require.NoError(t, os.WriteFile(newImage, []byte("jpg-bytes"), 0o644))

	err := m.SetImage(context.Background(), newImage)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}
