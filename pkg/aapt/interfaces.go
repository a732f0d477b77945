//go:generate mockgen -destination=./mocks/extractor.go -package=mocks . Extractor
package aapt

import (
	"context"

	"github.com/glorpus-work/droidrepo/pkg/model"
)

// Result is the outcome of extracting one package file: the application
// identifier the release belongs to, the display label and launcher icon
// path offered for curated-field filling, and the release itself.
// Hash, size and added timestamp of the release are owned by the caller.
type Result struct {
	AppID   string
	Label   string
	Icon    string
	Release *model.ReleaseEntry
}

// Extractor is the capability interface for package metadata extraction.
// Implementations must be safe for concurrent calls on independent files.
type Extractor interface {
	Extract(ctx context.Context, apkPath string) (*Result, error)
}
