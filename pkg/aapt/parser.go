package aapt

import (
	"regexp"
	"strconv"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// badging holds the fields parsed out of `aapt dump badging` output.
type badging struct {
	AppID       string
	VersionCode uint64
	VersionName string
	Label       string
	Icon        string
	MinSDK      int
	TargetSDK   int
	Permissions []string
	NativeCode  []string
}

var (
	packageRe     = regexp.MustCompile(`package: name='([^']+)' versionCode='([^']*)' versionName='([^']*)'`)
	sdkVersionRe  = regexp.MustCompile(`(?m)^sdkVersion:'(\d+)'`)
	targetSdkRe   = regexp.MustCompile(`(?m)^targetSdkVersion:'(\d+)'`)
	permissionRe  = regexp.MustCompile(`(?m)^uses-permission: name='([^']+)'`)
	labelRe       = regexp.MustCompile(`(?m)^application-label:'([^']*)'`)
	iconDensityRe = regexp.MustCompile(`(?m)^application-icon-(\d+):'([^']+)'`)
	appLineIconRe = regexp.MustCompile(`(?m)^application: label='[^']*' icon='([^']+)'`)
	nativeCodeRe  = regexp.MustCompile(`(?m)^native-code: (.+)$`)
	quotedRe      = regexp.MustCompile(`'([^']+)'`)
	signerRe      = regexp.MustCompile(`(?m)^Signer #\d+ certificate SHA-256 digest: ([0-9a-fA-F]+)`)
)

// parseBadging maps raw badging output to the typed badging struct. Only the
// package line is mandatory; everything else is optional in real output.
func parseBadging(output string) (*badging, error) {
	pkg := packageRe.FindStringSubmatch(output)
	if pkg == nil {
		return nil, ErrNoPackageLine
	}

	code, err := strconv.ParseUint(pkg[2], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrBadVersionCode, "versionCode=%q", pkg[2])
	}

	b := &badging{
		AppID:       pkg[1],
		VersionCode: code,
		VersionName: pkg[3],
	}

	if m := sdkVersionRe.FindStringSubmatch(output); m != nil {
		b.MinSDK, _ = strconv.Atoi(m[1])
	}
	if m := targetSdkRe.FindStringSubmatch(output); m != nil {
		b.TargetSDK, _ = strconv.Atoi(m[1])
	}
	if m := labelRe.FindStringSubmatch(output); m != nil {
		b.Label = m[1]
	}

	for _, m := range permissionRe.FindAllStringSubmatch(output, -1) {
		b.Permissions = append(b.Permissions, m[1])
	}

	b.Icon = pickIcon(output)

	if m := nativeCodeRe.FindStringSubmatch(output); m != nil {
		for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
			b.NativeCode = append(b.NativeCode, q[1])
		}
	}

	return b, nil
}

// pickIcon selects the densest application icon reported by badging, falling
// back to the icon on the application line.
func pickIcon(output string) string {
	best := ""
	bestDensity := -1
	for _, m := range iconDensityRe.FindAllStringSubmatch(output, -1) {
		density, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if density > bestDensity {
			bestDensity = density
			best = m[2]
		}
	}
	if best != "" {
		return best
	}
	if m := appLineIconRe.FindStringSubmatch(output); m != nil {
		return m[1]
	}
	return ""
}

// parseSigners extracts the SHA-256 certificate digests from
// `apksigner verify --print-certs` output.
func parseSigners(output string) ([]string, error) {
	matches := signerRe.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return nil, ErrNoSigners
	}
	signers := make([]string, 0, len(matches))
	for _, m := range matches {
		signers = append(signers, m[1])
	}
	return signers, nil
}
