package repository

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

// File and directory names inside a repository root. The layout follows the
// fdroidserver convention: config.yml next to the keystore, packages under
// repo/, tool metadata under metadata/.
const (
	configFileName   = "config.yml"
	keystoreFileName = "keystore.p12"
	indexFileName    = "droidrepo-index.json"
	lockFileName     = ".droidrepo.lock"
	repoDirName      = "repo"
	metadataDirName  = "metadata"
	unsignedDirName  = "unsigned"
	iconsDirName     = "icons"
	hooksDirName     = "hooks"
)

// ConfigPath returns the path to the config.yml file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.root, configFileName)
}

// KeystorePath returns the path to the signing keystore.
func (m *Manager) KeystorePath() string {
	return filepath.Join(m.root, keystoreFileName)
}

// RepoPath returns the directory containing the package files and the
// signed index artifacts.
func (m *Manager) RepoPath() string {
	return filepath.Join(m.root, repoDirName)
}

// MetadataPath returns the directory holding the tool's metadata files.
func (m *Manager) MetadataPath() string {
	return filepath.Join(m.root, metadataDirName)
}

// IconsPath returns the directory holding repository and launcher icons.
func (m *Manager) IconsPath() string {
	return filepath.Join(m.RepoPath(), iconsDirName)
}

// HooksPath returns the directory holding update hook scripts.
func (m *Manager) HooksPath() string {
	return filepath.Join(m.root, hooksDirName)
}

// UnsignedPath returns the staging directory for unsigned packages,
// creating it when absent.
func (m *Manager) UnsignedPath() (string, error) {
	path := filepath.Join(m.root, unsignedDirName)

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", errors.Wrapf(errors.ErrNotADirectory, "%s", path)
		}
		return path, nil
	case os.IsNotExist(err):
		if err := os.Mkdir(path, fsutil.DirModeDefault); err != nil {
			return "", errors.Wrapf(err, "failed to create %s", path)
		}
		return path, nil
	default:
		return "", errors.Wrapf(err, "failed to stat %s", path)
	}
}

// indexStatePath is where the manager persists its own index between cycles.
func (m *Manager) indexStatePath() string {
	return filepath.Join(m.root, indexFileName)
}

// lockPath is the lock file guarding concurrent cycles on one repository.
func (m *Manager) lockPath() string {
	return filepath.Join(m.root, lockFileName)
}
