package reconcile

import "fmt"

// ScannedPackage is one package file found in the repository directory,
// identified by its path, sha256 checksum and byte size.
type ScannedPackage struct {
	Path string
	Hash string
	Size int64
}

// SkippedFile records a package that could not be extracted. Skips never
// abort a cycle; they are surfaced through the change report.
type SkippedFile struct {
	Path   string
	Reason string
}

// Conflict records a package that was rejected because it contradicts
// existing repository state: a changed payload under an existing version
// code, or a signer fingerprint differing from the application's releases.
type Conflict struct {
	AppID       string
	VersionCode uint64
	Path        string
	Reason      string
}

// NewRelease records a release accepted from a freshly extracted package
// file. Icon is the resource path inside the package, empty when the
// package declares none.
type NewRelease struct {
	AppID       string
	VersionCode uint64
	Path        string
	Icon        string
}

// ChangeReport summarizes what a reconcile pass did. It is what callers
// surface to the user after a cycle.
type ChangeReport struct {
	AppsAdded   int
	AppsUpdated int
	AppsRemoved int

	ReleasesAdded   int
	ReleasesRemoved int

	// NewReleases lists the releases contributed by extracted files, in
	// merge order. The counters above are computed against the previous
	// index and may differ when carried-over records change shape.
	NewReleases []NewRelease

	Skipped   []SkippedFile
	Conflicts []Conflict
}

// HasChanges reports whether the pass changed the index at all.
func (r *ChangeReport) HasChanges() bool {
	return r.AppsAdded > 0 || r.AppsUpdated > 0 || r.AppsRemoved > 0 ||
		r.ReleasesAdded > 0 || r.ReleasesRemoved > 0
}

// Summary returns a one-line human readable summary.
func (r *ChangeReport) Summary() string {
	return fmt.Sprintf("apps: %d added, %d updated, %d removed; releases: %d added, %d removed; %d skipped, %d conflicts",
		r.AppsAdded, r.AppsUpdated, r.AppsRemoved,
		r.ReleasesAdded, r.ReleasesRemoved,
		len(r.Skipped), len(r.Conflicts))
}
