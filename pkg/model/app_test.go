package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp() *AppMetadata {
	return &AppMetadata{
		ID:   "org.example.app",
		Name: "Example",
		Releases: []*ReleaseEntry{
			{VersionCode: 1, VersionName: "1.0", Signers: []string{"sig-x"}},
			{VersionCode: 3, VersionName: "1.2", Signers: []string{"sig-x"}},
			{VersionCode: 2, VersionName: "1.1", Signers: []string{"sig-x"}},
		},
	}
}

func TestFindRelease(t *testing.T) {
	app := testApp()
	require.NotNil(t, app.FindRelease(2))
	assert.Equal(t, "1.1", app.FindRelease(2).VersionName)
	assert.Nil(t, app.FindRelease(99))
}

func TestLatestRelease(t *testing.T) {
	app := testApp()
	latest := app.LatestRelease()
	require.NotNil(t, latest)
	assert.Equal(t, uint64(3), latest.VersionCode)

	empty := &AppMetadata{ID: "org.example.empty"}
	assert.Nil(t, empty.LatestRelease())
}

func TestSortReleases(t *testing.T) {
	app := testApp()
	app.SortReleases()
	codes := make([]uint64, 0, len(app.Releases))
	for _, r := range app.Releases {
		codes = append(codes, r.VersionCode)
	}
	assert.Equal(t, []uint64{3, 2, 1}, codes)
}

func TestAddAndRemoveRelease(t *testing.T) {
	app := testApp()
	app.AddRelease(&ReleaseEntry{VersionCode: 5, Signers: []string{"sig-x"}})
	assert.Equal(t, uint64(5), app.Releases[0].VersionCode)

	assert.True(t, app.RemoveRelease(5))
	assert.False(t, app.RemoveRelease(5))
	assert.Len(t, app.Releases, 3)
}

func TestFillCurated(t *testing.T) {
	app := &AppMetadata{ID: "org.example.app", Name: "Curated Name"}

	changed := app.FillCurated("Extracted Name", "A summary", "", "MIT")
	assert.True(t, changed)
	// Present curated value must never be overwritten.
	assert.Equal(t, "Curated Name", app.Name)
	assert.Equal(t, "A summary", app.Summary)
	assert.Equal(t, "MIT", app.License)

	// Second fill with identical data is a no-op.
	assert.False(t, app.FillCurated("Other", "Other", "", "GPL-3.0"))
	assert.Equal(t, "A summary", app.Summary)
}

func TestCopyCurated(t *testing.T) {
	added := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	app := testApp()
	app.Summary = "short"
	app.Categories = []string{"Internet"}
	app.Added = added

	cp := app.CopyCurated()
	assert.Equal(t, app.ID, cp.ID)
	assert.Equal(t, "short", cp.Summary)
	assert.Equal(t, []string{"Internet"}, cp.Categories)
	assert.Equal(t, added, cp.Added)
	assert.Empty(t, cp.Releases)

	// The copy must not alias the original's slices.
	cp.Categories[0] = "Games"
	assert.Equal(t, "Internet", app.Categories[0])
}

func TestSigners(t *testing.T) {
	app := testApp()
	assert.Equal(t, []string{"sig-x"}, app.Signers())
	assert.Nil(t, (&AppMetadata{}).Signers())
}
