// Package apk reads individual assets out of Android package containers.
// Metadata extraction is delegated to external tools (see pkg/aapt); this
// package only copies files the extraction step already located, such as
// the launcher icon published alongside the repository index.
package apk

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/mholt/archives"
)

// ExtractIcon copies the icon stored at iconPath inside the package file at
// apkPath to destPath, creating parent directories as needed.
func ExtractIcon(ctx context.Context, apkPath, iconPath, destPath string) error {
	if iconPath == "" {
		return errors.Wrapf(errors.ErrInvalidPath, "no icon path for %s", apkPath)
	}

	fsys, err := archives.FileSystem(ctx, apkPath, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to open package container %s", apkPath)
	}
	// Close the underlying archive filesystem when done (important on Windows)
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	src, err := fsys.Open(filepath.ToSlash(iconPath))
	if err != nil {
		return errors.Wrapf(err, "icon %s not found in %s", iconPath, apkPath)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create icon directory for %s", destPath)
	}

	dst, err := fsutil.CreateFilePerm(destPath, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrapf(err, "failed to create icon file %s", destPath)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrapf(err, "failed to copy icon to %s", destPath)
	}
	return nil
}
