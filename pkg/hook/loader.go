package hook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// ScriptExtension is the file extension of hook scripts.
const ScriptExtension = ".tengo"

// LoadFromDir loads all hook scripts from dir into the manager. Files are
// matched by name: <hook-type>.tengo. A missing directory loads nothing.
func LoadFromDir(manager Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExtension {
			continue
		}

		hookType := Type(strings.TrimSuffix(entry.Name(), ScriptExtension))
		switch hookType {
		case PreUpdate, PostUpdate:
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "error reading hook file %s", path)
		}
		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}
