// Package reconcile computes the next repository index from the previously
// persisted one and a fresh directory scan. Extraction of independent
// package files runs on a bounded worker pool; results are merged in a
// deterministic order so repeated runs over the same input produce an
// identical index regardless of completion order.
package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/glorpus-work/droidrepo/internal/logger"
	"github.com/glorpus-work/droidrepo/pkg/aapt"
	pkgerrors "github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/model"
)

// Options tune a Reconciler.
type Options struct {
	// Concurrency bounds the extraction worker pool. Zero or negative
	// selects a default based on the CPU count.
	Concurrency int
	// Now supplies release timestamps; defaults to time.Now.
	Now func() time.Time
}

// Reconciler merges extraction results into repository indexes.
type Reconciler struct {
	extractor aapt.Extractor
	opts      Options
}

// New creates a Reconciler backed by the given extractor.
func New(extractor aapt.Extractor, opts Options) *Reconciler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reconciler{extractor: extractor, opts: opts}
}

// extraction pairs a scanned package with its extraction outcome.
type extraction struct {
	pkg ScannedPackage
	res *aapt.Result
	err error
}

// Reconcile computes the next index from prev and the scanned package set.
// prev is not modified and must not be used afterwards: retained records and
// releases are carried over into the result.
//
// Per-file extraction failures and conflicts are collected into the change
// report; the only fatal errors are a missing external tool and context
// cancellation.
func (r *Reconciler) Reconcile(ctx context.Context, prev *index.Index, scanned []ScannedPackage) (*index.Index, *ChangeReport, error) {
	report := &ChangeReport{}

	// Partition into unchanged files (checksum and size already backing a
	// release in prev) and files needing extraction.
	retained := make(map[string]map[uint64]bool)
	toExtract := make([]ScannedPackage, 0, len(scanned))
	for _, pkg := range scanned {
		if app, rel := prev.FindReleaseByContent(pkg.Hash, pkg.Size); rel != nil {
			if retained[app.ID] == nil {
				retained[app.ID] = make(map[uint64]bool)
			}
			retained[app.ID][rel.VersionCode] = true
			logger.Debug("package unchanged, skipping extraction", logger.Fields{"path": pkg.Path})
			continue
		}
		toExtract = append(toExtract, pkg)
	}

	extractions := r.extractAll(ctx, toExtract)
	if err := ctx.Err(); err != nil {
		return nil, nil, pkgerrors.Wrap(err, "reconcile aborted")
	}

	succeeded := make([]extraction, 0, len(extractions))
	for _, ex := range extractions {
		if ex.err != nil {
			if errors.Is(ex.err, pkgerrors.ErrToolUnavailable) {
				return nil, nil, ex.err
			}
			logger.Warn("package skipped", logger.Fields{"path": ex.pkg.Path, "reason": ex.err.Error()})
			report.Skipped = append(report.Skipped, SkippedFile{Path: ex.pkg.Path, Reason: ex.err.Error()})
			continue
		}
		succeeded = append(succeeded, ex)
	}

	// Deterministic merge order: version code, then path.
	sort.Slice(succeeded, func(i, j int) bool {
		a, b := succeeded[i], succeeded[j]
		if a.res.Release.VersionCode != b.res.Release.VersionCode {
			return a.res.Release.VersionCode < b.res.Release.VersionCode
		}
		return a.pkg.Path < b.pkg.Path
	})

	next := index.NewIndex()

	// Carry retained records forward, curated fields untouched. Records
	// left without any backed release are only added back if extraction
	// contributes a release below.
	for _, prevApp := range prev.Apps {
		kept := prevApp.CopyCurated()
		for _, rel := range prevApp.Releases {
			if retained[prevApp.ID][rel.VersionCode] {
				kept.AddRelease(rel)
			}
		}
		if len(kept.Releases) > 0 {
			next.AddApp(kept)
		}
	}

	st := &mergeState{next: next, prev: prev, now: r.opts.Now(), report: report}
	for _, ex := range succeeded {
		st.merge(ex)
	}

	diffIndexes(prev, next, report)
	return next, report, nil
}

// mergeState carries the shared state of one merge pass.
type mergeState struct {
	next   *index.Index
	prev   *index.Index
	now    time.Time
	report *ChangeReport
}

// merge applies one successful extraction, enforcing the version-code and
// signer invariants.
func (st *mergeState) merge(ex extraction) {
	res := ex.res
	rel := res.Release
	prevApp := st.prev.FindApp(res.AppID)

	app := st.next.FindApp(res.AppID)
	if app == nil {
		if prevApp != nil {
			app = prevApp.CopyCurated()
		} else {
			app = &model.AppMetadata{ID: res.AppID, Added: st.now}
		}
	}

	// Signer invariant: all releases of one identifier share one fingerprint
	// set. Releases listed in the previous index count, even when their
	// files vanished in this same scan.
	expected := app.Signers()
	if expected == nil && prevApp != nil {
		expected = prevApp.Signers()
	}
	if expected != nil && !model.SameSigners(expected, rel.Signers) {
		st.conflict(prevApp, app, Conflict{
			AppID:       res.AppID,
			VersionCode: rel.VersionCode,
			Path:        ex.pkg.Path,
			Reason:      "signer fingerprint differs from existing releases",
		})
		return
	}

	if existing := app.FindRelease(rel.VersionCode); existing != nil {
		if existing.SameContent(ex.pkg.Hash, ex.pkg.Size) {
			// Same release observed through another file. Nothing to do.
			return
		}
		st.conflict(prevApp, app, Conflict{
			AppID:       res.AppID,
			VersionCode: rel.VersionCode,
			Path:        ex.pkg.Path,
			Reason:      "content changed under an existing version code",
		})
		return
	}
	if prevApp != nil && prevApp.FindRelease(rel.VersionCode) != nil {
		// The old file is gone but its version code is taken: keep the
		// previous release rather than silently replacing it.
		st.conflict(prevApp, app, Conflict{
			AppID:       res.AppID,
			VersionCode: rel.VersionCode,
			Path:        ex.pkg.Path,
			Reason:      "content changed under an existing version code",
		})
		return
	}

	rel.Hash = ex.pkg.Hash
	rel.Size = ex.pkg.Size
	rel.ApkName = filepath.Base(ex.pkg.Path)
	rel.Added = st.now
	app.AddRelease(rel)
	app.LastUpdated = st.now
	app.FillCurated(res.Label, "", "", "")
	st.next.AddApp(app)
	st.report.NewReleases = append(st.report.NewReleases, NewRelease{
		AppID:       res.AppID,
		VersionCode: rel.VersionCode,
		Path:        ex.pkg.Path,
		Icon:        res.Icon,
	})

	logger.Info("release added", logger.Fields{
		"app":         res.AppID,
		"versionCode": rel.VersionCode,
		"apk":         rel.ApkName,
	})
}

// conflict records a rejected package, restoring the previous release for
// its version code when the rejection would otherwise drop it.
func (st *mergeState) conflict(prevApp, app *model.AppMetadata, c Conflict) {
	logger.Warn("package conflicts with existing release", logger.Fields{
		"app":         c.AppID,
		"versionCode": c.VersionCode,
		"path":        c.Path,
		"reason":      c.Reason,
	})
	st.report.Conflicts = append(st.report.Conflicts, c)

	if prevApp == nil {
		return
	}
	if prevRel := prevApp.FindRelease(c.VersionCode); prevRel != nil && app.FindRelease(c.VersionCode) == nil {
		app.AddRelease(prevRel)
		st.next.AddApp(app)
	}
}

// diffIndexes fills the add/update/remove counters of the report by
// comparing the previous and next indexes.
func diffIndexes(prev, next *index.Index, report *ChangeReport) {
	for _, nextApp := range next.Apps {
		prevApp := prev.FindApp(nextApp.ID)
		if prevApp == nil {
			report.AppsAdded++
			report.ReleasesAdded += len(nextApp.Releases)
			continue
		}
		changed := nextApp.Name != prevApp.Name
		for _, rel := range nextApp.Releases {
			if prevApp.FindRelease(rel.VersionCode) == nil {
				report.ReleasesAdded++
				changed = true
			}
		}
		for _, rel := range prevApp.Releases {
			if nextApp.FindRelease(rel.VersionCode) == nil {
				report.ReleasesRemoved++
				changed = true
			}
		}
		if changed {
			report.AppsUpdated++
		}
	}
	for _, prevApp := range prev.Apps {
		if next.FindApp(prevApp.ID) == nil {
			report.AppsRemoved++
			report.ReleasesRemoved += len(prevApp.Releases)
			logger.Info("application removed", logger.Fields{"app": prevApp.ID})
		}
	}
}

// extractAll runs the extractor over pkgs on a bounded worker pool. Result
// order matches the input order; merging applies its own ordering.
func (r *Reconciler) extractAll(ctx context.Context, pkgs []ScannedPackage) []extraction {
	if len(pkgs) == 0 {
		return nil
	}
	concurrency := r.opts.Concurrency
	if concurrency <= 0 {
		concurrency = max(2, runtime.NumCPU()/2)
	}
	if concurrency > len(pkgs) {
		concurrency = len(pkgs)
	}

	results := make([]extraction, len(pkgs))
	tasks := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				res, err := r.extractor.Extract(ctx, pkgs[i].Path)
				results[i] = extraction{pkg: pkgs[i], res: res, err: err}
			}
		}()
	}

	for i := range pkgs {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	return results
}
