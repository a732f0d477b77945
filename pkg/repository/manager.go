// Package repository is the controller tying the pieces together: it owns a
// repository directory, scans it for package files, reconciles the index,
// persists it and drives the external tool that produces the signed,
// client-facing artifacts.
package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/droidrepo/internal/logger"
	"github.com/glorpus-work/droidrepo/pkg/aapt"
	"github.com/glorpus-work/droidrepo/pkg/apk"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fdroid"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/glorpus-work/droidrepo/pkg/hook"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/model"
	"github.com/glorpus-work/droidrepo/pkg/reconcile"
)

// Options configure a Manager. Zero values select the real implementations.
type Options struct {
	// Extractor reads metadata out of package files. Defaults to the
	// aapt command line adapter.
	Extractor aapt.Extractor
	// Tool drives the external repository tool. Defaults to the fdroid
	// command line runner.
	Tool fdroid.Tool
	// Hooks runs update hook scripts. Defaults to a Tengo executor
	// loaded from the repository's hooks directory.
	Hooks hook.Manager
	// Reconcile tunes the reconciliation pass.
	Reconcile reconcile.Options
}

// Manager owns one repository directory. Methods that change repository
// state serialize through a lock file; a Manager itself holds no mutable
// state and may be shared.
type Manager struct {
	root       string
	extractor  aapt.Extractor
	tool       fdroid.Tool
	hooks      hook.Manager
	reconciler *reconcile.Reconciler
}

// New opens the repository at root, initializing a fresh one when no
// config.yml exists yet. root must be an existing directory.
func New(ctx context.Context, root string, opts Options) (*Manager, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrNotADirectory, "%s", root)
	}

	if opts.Extractor == nil {
		opts.Extractor = aapt.NewCLI()
	}
	if opts.Tool == nil {
		opts.Tool = fdroid.NewRunner()
	}

	m := &Manager{
		root:       root,
		extractor:  opts.Extractor,
		tool:       opts.Tool,
		hooks:      opts.Hooks,
		reconciler: reconcile.New(opts.Extractor, opts.Reconcile),
	}

	if m.hooks == nil {
		executor := hook.NewTengoExecutor()
		if err := hook.LoadFromDir(executor, m.HooksPath()); err != nil {
			return nil, err
		}
		m.hooks = executor
	}

	if !m.hasConfig() {
		logger.Info("initializing new repository", logger.Fields{"root": root})
		if err := m.tool.Init(ctx, root); err != nil {
			return nil, err
		}
		if err := m.tool.Update(ctx, root); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Root returns the repository root directory.
func (m *Manager) Root() string {
	return m.root
}

// Apps returns the application records from the last persisted index.
func (m *Manager) Apps() ([]*model.AppMetadata, error) {
	idx, err := index.Load(m.indexStatePath())
	if err != nil {
		return nil, err
	}
	return idx.Apps, nil
}

// RunCycle runs one full update cycle: scan the package directory,
// reconcile against the persisted index, save the result and let the
// external tool regenerate the signed index. Only one cycle may run per
// repository at a time.
func (m *Manager) RunCycle(ctx context.Context) (*reconcile.ChangeReport, error) {
	unlock, err := m.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := m.hooks.Execute(hook.PreUpdate, hook.Context{RepoPath: m.root}); err != nil {
		return nil, err
	}

	prev, err := index.Load(m.indexStatePath())
	if err != nil {
		return nil, err
	}
	scanned, err := m.Scan()
	if err != nil {
		return nil, err
	}

	next, report, err := m.reconciler.Reconcile(ctx, prev, scanned)
	if err != nil {
		return nil, err
	}

	m.extractIcons(ctx, report)

	if err := next.Save(m.indexStatePath()); err != nil {
		return nil, err
	}

	if err := m.tool.Update(ctx, m.root); err != nil {
		// The saved index already reflects the new state; the published
		// one does not. The next successful cycle converges them.
		logger.Error("published index regeneration failed, saved state is ahead", logger.Fields{
			"repo":  m.root,
			"error": err.Error(),
		})
		return report, err
	}

	if err := m.hooks.Execute(hook.PostUpdate, hook.Context{
		RepoPath:        m.root,
		AppsAdded:       report.AppsAdded,
		AppsUpdated:     report.AppsUpdated,
		AppsRemoved:     report.AppsRemoved,
		ReleasesAdded:   report.ReleasesAdded,
		ReleasesRemoved: report.ReleasesRemoved,
	}); err != nil {
		return report, err
	}

	logger.Info("update cycle finished", logger.Fields{"repo": m.root, "changes": report.Summary()})
	return report, nil
}

// AddApp copies a package file into the repository and runs an update
// cycle. The copy is removed again when the cycle fails.
func (m *Manager) AddApp(ctx context.Context, filePath string) (*reconcile.ChangeReport, error) {
	logger.Info("adding package", logger.Fields{"file": filePath})

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", filePath)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(errors.ErrNotAFile, "%s", filePath)
	}

	if err := os.MkdirAll(m.RepoPath(), fsutil.DirModeDefault); err != nil {
		return nil, errors.Wrap(err, "failed to create package directory")
	}

	dest := filepath.Join(m.RepoPath(), filepath.Base(filePath))
	if _, err := os.Stat(dest); err == nil {
		logger.Warn("file already exists, overriding", logger.Fields{"file": dest})
	}
	if err := fsutil.Copy(filePath, dest); err != nil {
		return nil, err
	}

	report, err := m.RunCycle(ctx)
	if err != nil {
		_ = os.Remove(dest)
		return nil, err
	}
	return report, nil
}

// RemoveApp deletes a package file by name and runs an update cycle.
// Removing a file that does not exist is not an error.
func (m *Manager) RemoveApp(ctx context.Context, apkName string) (*reconcile.ChangeReport, error) {
	if apkName == "" || filepath.Base(apkName) != apkName {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "invalid package name %q", apkName)
	}

	path := filepath.Join(m.RepoPath(), apkName)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logger.Warn("package to delete does not exist", logger.Fields{"file": apkName})
		return &reconcile.ChangeReport{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(errors.ErrNotAFile, "%s", path)
	}

	logger.Info("deleting package", logger.Fields{"file": apkName})
	if err := os.Remove(path); err != nil {
		return nil, errors.Wrapf(err, "failed to delete %s", path)
	}

	return m.RunCycle(ctx)
}

// SignApp stages a package in the unsigned directory under its canonical
// name, lets the tool sign it and runs an update cycle.
func (m *Manager) SignApp(ctx context.Context, filePath string) (*reconcile.ChangeReport, error) {
	logger.Info("signing package", logger.Fields{"file": filePath})

	res, err := m.extractor.Extract(ctx, filePath)
	if err != nil {
		return nil, err
	}

	unsigned, err := m.UnsignedPath()
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(unsigned, fmt.Sprintf("%s_%d%s", res.AppID, res.Release.VersionCode, packageExtension))
	if err := fsutil.Copy(filePath, dest); err != nil {
		return nil, err
	}

	return m.Publish(ctx)
}

// Publish signs all staged unsigned packages and runs an update cycle so
// the freshly signed packages enter the index.
func (m *Manager) Publish(ctx context.Context) (*reconcile.ChangeReport, error) {
	if err := m.tool.Publish(ctx, m.root); err != nil {
		return nil, err
	}
	return m.RunCycle(ctx)
}

// Clear deletes all packages and tool metadata, keeping configuration and
// signing material, then runs an update cycle.
func (m *Manager) Clear(ctx context.Context) (*reconcile.ChangeReport, error) {
	logger.Warn("clearing the repository", logger.Fields{"repo": m.root})

	for _, dir := range []string{m.RepoPath(), m.MetadataPath()} {
		if err := os.RemoveAll(dir); err != nil {
			return nil, errors.Wrapf(err, "failed to remove %s", dir)
		}
		if err := os.Mkdir(dir, fsutil.DirModeDefault); err != nil {
			return nil, errors.Wrapf(err, "failed to recreate %s", dir)
		}
	}

	return m.RunCycle(ctx)
}

// RewriteMeta normalizes the tool's metadata files without changing data.
func (m *Manager) RewriteMeta(ctx context.Context) error {
	return m.tool.RewriteMeta(ctx, m.root)
}

// extractIcons pulls the launcher icon of every newly accepted release out
// of its package file. Failures are logged, never fatal: icons are cosmetic.
func (m *Manager) extractIcons(ctx context.Context, report *reconcile.ChangeReport) {
	for _, rel := range report.NewReleases {
		if rel.Icon == "" {
			continue
		}
		ext := filepath.Ext(rel.Icon)
		if ext == ".xml" {
			// Adaptive icon resources are not usable as standalone images.
			logger.Debug("skipping non-bitmap icon", logger.Fields{"app": rel.AppID, "icon": rel.Icon})
			continue
		}
		dest := filepath.Join(m.IconsPath(), fmt.Sprintf("%s.%d%s", rel.AppID, rel.VersionCode, ext))
		if err := apk.ExtractIcon(ctx, rel.Path, rel.Icon, dest); err != nil {
			logger.Warn("failed to extract launcher icon", logger.Fields{
				"app":   rel.AppID,
				"file":  rel.Path,
				"error": err.Error(),
			})
		}
	}
}

// acquireLock takes the repository lock, failing when another cycle holds
// it. The returned function releases the lock.
func (m *Manager) acquireLock() (func(), error) {
	file, err := os.OpenFile(m.lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, fsutil.FileModeDefault)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Wrapf(errors.ErrRepositoryLock, "lock file %s exists", m.lockPath())
		}
		return nil, errors.Wrap(err, "failed to create lock file")
	}
	_, _ = fmt.Fprintf(file, "%d\n", os.Getpid())
	_ = file.Close()

	return func() {
		if err := os.Remove(m.lockPath()); err != nil {
			logger.Warn("failed to remove lock file", logger.Fields{"path": m.lockPath()})
		}
	}, nil
}
