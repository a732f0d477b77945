// Package aapt extracts repository metadata from Android package files by
// shelling out to the Android build tools: `aapt dump badging` for the
// manifest-derived fields and `apksigner verify --print-certs` for the
// signing certificate digests. The package never opens the APK container
// itself.
package aapt

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/model"
)

// Default binary names, resolved via PATH.
const (
	DefaultAaptBinary      = "aapt"
	DefaultApksignerBinary = "apksigner"
)

// CLI is the Extractor implementation backed by the aapt and apksigner
// command line tools. The zero value is not usable; create instances with
// NewCLI. Instances hold no mutable state and are safe for concurrent use.
type CLI struct {
	AaptPath      string
	ApksignerPath string
}

// NewCLI creates an extractor using the default binary names.
func NewCLI() *CLI {
	return &CLI{
		AaptPath:      DefaultAaptBinary,
		ApksignerPath: DefaultApksignerBinary,
	}
}

// Extract runs the external tools against the package file at apkPath and
// maps their output into a Result. It returns an error wrapping
// errors.ErrToolUnavailable when a binary cannot be located and an error
// wrapping errors.ErrExtraction when the file cannot be parsed.
func (c *CLI) Extract(ctx context.Context, apkPath string) (*Result, error) {
	aaptBin, err := exec.LookPath(c.AaptPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrToolUnavailable, "%s not found in PATH", c.AaptPath)
	}
	apksignerBin, err := exec.LookPath(c.ApksignerPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrToolUnavailable, "%s not found in PATH", c.ApksignerPath)
	}

	if fi, err := os.Stat(apkPath); err != nil || fi.IsDir() {
		return nil, errors.Wrapf(errors.ErrExtraction, "not a readable file: %s", apkPath)
	}

	badgingOut, err := exec.CommandContext(ctx, aaptBin, "dump", "badging", apkPath).Output()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExtraction, "aapt dump badging %s: %v", apkPath, err)
	}
	b, err := parseBadging(string(badgingOut))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExtraction, "parsing badging for %s: %v", apkPath, err)
	}

	signerOut, err := exec.CommandContext(ctx, apksignerBin, "verify", "--print-certs", apkPath).Output()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExtraction, "apksigner verify %s: %v", apkPath, err)
	}
	signers, err := parseSigners(string(signerOut))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExtraction, "parsing signers for %s: %v", apkPath, err)
	}

	return &Result{
		AppID: b.AppID,
		Label: b.Label,
		Icon:  b.Icon,
		Release: &model.ReleaseEntry{
			VersionCode: b.VersionCode,
			VersionName: b.VersionName,
			ApkName:     filepath.Base(apkPath),
			MinSDK:      b.MinSDK,
			TargetSDK:   b.TargetSDK,
			Permissions: model.NormalizeStringSet(b.Permissions),
			NativeCode:  model.NormalizeStringSet(b.NativeCode),
			Signers:     model.NormalizeStringSet(signers),
		},
	}, nil
}
