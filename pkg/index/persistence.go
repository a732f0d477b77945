package index

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// Load reads the persisted index from path. A missing file is not an error
// and yields a fresh empty index; an unreadable or corrupt file maps to
// errors.ErrPersistence, which aborts the cycle so an operator can resolve
// it manually.
func Load(path string) (*Index, error) {
	cleanPath := filepath.Clean(path)

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return NewIndex(), nil
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "cannot open index file %s: %v", cleanPath, err)
	}
	defer func() { _ = file.Close() }()

	idx, err := ParseIndexFromReader(file)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "cannot parse index file %s: %v", cleanPath, err)
	}
	return idx, nil
}

// Save writes the index to path atomically: the JSON is written to a
// temporary file in the same directory, synced, and renamed over the target.
// A partially written index is never left on disk.
func (idx *Index) Save(path string) (err error) {
	cleanPath := filepath.Clean(path)
	dir := filepath.Dir(cleanPath)

	tmpFile, err := os.CreateTemp(dir, "droidrepo-index-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			// Clean up the temporary file if there was an error
			_ = os.Remove(tmpPath)
		}
	}()

	data, err := idx.ToJSON()
	if err != nil {
		_ = tmpFile.Close()
		return err
	}

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return errors.Wrap(err, "failed to write to temporary file")
	}

	if err = tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return errors.Wrap(err, "failed to sync temporary file to disk")
	}

	if err = tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary file")
	}

	if err = os.Rename(tmpPath, cleanPath); err != nil {
		return errors.Wrapf(err, "failed to rename temporary file to %s", cleanPath)
	}

	return nil
}
