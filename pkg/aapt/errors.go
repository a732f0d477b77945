package aapt

import "fmt"

// Common badging parse errors.
var (
	// ErrNoPackageLine is returned when badging output lacks the package line.
	ErrNoPackageLine = fmt.Errorf("badging output has no package line")

	// ErrBadVersionCode is returned when the version code is not a number.
	ErrBadVersionCode = fmt.Errorf("badging output has an invalid version code")

	// ErrNoSigners is returned when apksigner reported no certificate digests.
	ErrNoSigners = fmt.Errorf("no signer certificate digests found")
)
