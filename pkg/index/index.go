// Package index implements the persisted repository index: the ordered
// collection of application metadata records the reconciler reads and
// rewrites each cycle. Apps are kept sorted by identifier so serialization
// is deterministic.
package index

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/model"
)

const (
	// CurrentFormatVersion is the current version of the index format.
	CurrentFormatVersion = "1"

	// InitialAppCapacity is the initial capacity for the apps slice.
	InitialAppCapacity = 64
)

// Index is the authoritative listing of applications and their releases.
type Index struct {
	FormatVersion string               `json:"format_version"`
	LastUpdate    time.Time            `json:"last_update"`
	Apps          []*model.AppMetadata `json:"apps"`
}

// NewIndex creates a new empty index with the current timestamp.
func NewIndex() *Index {
	return &Index{
		FormatVersion: CurrentFormatVersion,
		LastUpdate:    time.Now(),
		Apps:          make([]*model.AppMetadata, 0, InitialAppCapacity),
	}
}

// FindApp returns the metadata record with the given identifier, or nil.
func (idx *Index) FindApp(id string) *model.AppMetadata {
	for _, app := range idx.Apps {
		if app.ID == id {
			return app
		}
	}
	return nil
}

// AddApp adds a metadata record to the index, replacing any record with the
// same identifier. Iteration order stays sorted by identifier.
func (idx *Index) AddApp(app *model.AppMetadata) {
	for i := range idx.Apps {
		if idx.Apps[i].ID == app.ID {
			idx.Apps[i] = app
			idx.LastUpdate = time.Now()
			return
		}
	}
	idx.Apps = append(idx.Apps, app)
	idx.sortApps()
	idx.LastUpdate = time.Now()
}

// RemoveApp removes the record with the given identifier and reports whether
// one was removed.
func (idx *Index) RemoveApp(id string) bool {
	for i := range idx.Apps {
		if idx.Apps[i].ID == id {
			idx.Apps = append(idx.Apps[:i], idx.Apps[i+1:]...)
			idx.LastUpdate = time.Now()
			return true
		}
	}
	return false
}

// FindReleaseByContent returns the app and release whose backing package
// file has the given checksum and size, or nil when no release matches.
// The reconciler uses this to skip re-extraction of unchanged files.
func (idx *Index) FindReleaseByContent(hash string, size int64) (*model.AppMetadata, *model.ReleaseEntry) {
	for _, app := range idx.Apps {
		for _, rel := range app.Releases {
			if rel.SameContent(hash, size) {
				return app, rel
			}
		}
	}
	return nil, nil
}

func (idx *Index) sortApps() {
	sort.Slice(idx.Apps, func(i, j int) bool {
		return idx.Apps[i].ID < idx.Apps[j].ID
	})
}

// ParseIndex parses an index from JSON data.
func ParseIndex(data []byte) (*Index, error) {
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrap(err, "failed to parse index")
	}
	if index.FormatVersion == "" {
		return nil, errors.Wrap(errors.ErrValidation, "missing format version in index")
	}
	index.sortApps()
	for _, app := range index.Apps {
		app.SortReleases()
	}
	return &index, nil
}

// ParseIndexFromReader parses an index from an io.Reader.
func ParseIndexFromReader(reader io.Reader) (*Index, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read index data")
	}
	return ParseIndex(data)
}

// ToJSON converts the index to indented JSON bytes. Apps are serialized in
// identifier order so repeated runs over the same state produce identical
// bytes.
func (idx *Index) ToJSON() ([]byte, error) {
	idx.sortApps()
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal index to JSON")
	}
	return data, nil
}
