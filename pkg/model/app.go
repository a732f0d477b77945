package model

import (
	"sort"
	"time"
)

// AppMetadata is the repository-facing metadata of one application: the
// immutable identifier, the curated fields maintained by a human, and the
// ordered set of releases derived from package extraction.
//
// Curated fields are never overwritten once present; extraction may only
// fill them when absent (see FillCurated).
type AppMetadata struct {
	ID string `json:"id"`

	// Curated fields.
	Name         string   `json:"name,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Description  string   `json:"description,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	License      string   `json:"license,omitempty"`
	WebSite      string   `json:"web_site,omitempty"`
	SourceCode   string   `json:"source_code,omitempty"`
	IssueTracker string   `json:"issue_tracker,omitempty"`

	Added       time.Time `json:"added"`
	LastUpdated time.Time `json:"last_updated"`

	// Releases are kept sorted by version code, newest first.
	Releases []*ReleaseEntry `json:"releases"`
}

// FindRelease returns the release with the given version code, or nil.
func (a *AppMetadata) FindRelease(versionCode uint64) *ReleaseEntry {
	for _, r := range a.Releases {
		if r.VersionCode == versionCode {
			return r
		}
	}
	return nil
}

// LatestRelease returns the release with the highest version code, or nil
// when the app has no releases.
func (a *AppMetadata) LatestRelease() *ReleaseEntry {
	var latest *ReleaseEntry
	for _, r := range a.Releases {
		if latest == nil || r.VersionCode > latest.VersionCode {
			latest = r
		}
	}
	return latest
}

// Signers returns the signer fingerprint set shared by this app's releases.
// All releases of one app carry an identical set; the reconciler rejects
// packages that would violate that.
func (a *AppMetadata) Signers() []string {
	if len(a.Releases) == 0 {
		return nil
	}
	return a.Releases[0].Signers
}

// AddRelease inserts a release, keeping the set sorted by version code
// descending. The caller is responsible for version-code uniqueness.
func (a *AppMetadata) AddRelease(r *ReleaseEntry) {
	a.Releases = append(a.Releases, r)
	a.SortReleases()
}

// RemoveRelease removes the release with the given version code and reports
// whether one was removed.
func (a *AppMetadata) RemoveRelease(versionCode uint64) bool {
	for i, r := range a.Releases {
		if r.VersionCode == versionCode {
			a.Releases = append(a.Releases[:i], a.Releases[i+1:]...)
			return true
		}
	}
	return false
}

// SortReleases orders releases by version code descending (newest first).
func (a *AppMetadata) SortReleases() {
	sort.Slice(a.Releases, func(i, j int) bool {
		return a.Releases[i].VersionCode > a.Releases[j].VersionCode
	})
}

// FillCurated fills curated fields that are still empty from the given
// values. Present values are left untouched.
func (a *AppMetadata) FillCurated(name, summary, description, license string) bool {
	changed := false
	if a.Name == "" && name != "" {
		a.Name = name
		changed = true
	}
	if a.Summary == "" && summary != "" {
		a.Summary = summary
		changed = true
	}
	if a.Description == "" && description != "" {
		a.Description = description
		changed = true
	}
	if a.License == "" && license != "" {
		a.License = license
		changed = true
	}
	return changed
}

// CopyCurated copies the curated fields of src into a fresh record with the
// same identifier and timestamps but no releases. The reconciler uses this
// to carry human-authored data forward untouched.
func (a *AppMetadata) CopyCurated() *AppMetadata {
	return &AppMetadata{
		ID:           a.ID,
		Name:         a.Name,
		Summary:      a.Summary,
		Description:  a.Description,
		Categories:   append([]string(nil), a.Categories...),
		License:      a.License,
		WebSite:      a.WebSite,
		SourceCode:   a.SourceCode,
		IssueTracker: a.IssueTracker,
		Added:        a.Added,
		LastUpdated:  a.LastUpdated,
	}
}
