// Package model provides the data structures representing applications and
// their releases in a droidrepo repository: the typed counterpart of the
// on-disk index.
package model

import (
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
)

// ReleaseEntry represents one installable build of an application.
// VersionCode is the primary ordering key (descending = newest) and is
// unique within an application's release set.
type ReleaseEntry struct {
	VersionCode uint64    `json:"version_code"`
	VersionName string    `json:"version_name"`
	ApkName     string    `json:"apk_name"`
	Hash        string    `json:"hash"`
	Size        int64     `json:"size"`
	MinSDK      int       `json:"min_sdk,omitempty"`
	TargetSDK   int       `json:"target_sdk,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	NativeCode  []string  `json:"native_code,omitempty"`
	Signers     []string  `json:"signers,omitempty"`
	Added       time.Time `json:"added"`
}

// GetVersion returns the parsed display version of this release, or nil when
// the version name is not parseable.
func (r *ReleaseEntry) GetVersion() *version.Version {
	v, err := version.NewVersion(r.VersionName)
	if err != nil {
		return nil
	}
	return v
}

// SameContent reports whether the backing package file is unchanged:
// identical checksum and byte size.
func (r *ReleaseEntry) SameContent(hash string, size int64) bool {
	return r.Hash == hash && r.Size == size
}

// NormalizeStringSet deduplicates values case-insensitively (first occurrence
// wins) and returns them sorted. Used for permission and ABI lists coming
// out of extraction.
func NormalizeStringSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// SameSigners reports whether two signer fingerprint sets are equal. Both
// sides are compared as case-insensitive sets; order does not matter.
func SameSigners(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[strings.ToLower(s)]; !ok {
			return false
		}
	}
	return true
}
