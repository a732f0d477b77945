package repository

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/droidrepo/internal/logger"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/glorpus-work/droidrepo/pkg/reconcile"
)

// packageExtension marks the files a scan picks up.
const packageExtension = ".apk"

// Scan walks the package directory and checksums every package file found.
// The result is sorted by path. A missing package directory yields an empty
// scan, not an error.
func (m *Manager) Scan() ([]reconcile.ScannedPackage, error) {
	root := m.RepoPath()
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var scanned []reconcile.ScannedPackage
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), packageExtension) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hash, err := fsutil.Sha256File(path)
		if err != nil {
			return err
		}
		scanned = append(scanned, reconcile.ScannedPackage{
			Path: path,
			Hash: hash,
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", root)
	}

	logger.Debug("scanned package directory", logger.Fields{"dir": root, "packages": len(scanned)})
	return scanned, nil
}
