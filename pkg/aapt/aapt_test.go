package aapt

import (
	"context"
	"testing"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExtractToolUnavailable(t *testing.T) {
	cli := &CLI{
		AaptPath:      "droidrepo-test-missing-aapt",
		ApksignerPath: "droidrepo-test-missing-apksigner",
	}

	_, err := cli.Extract(context.Background(), "whatever.apk")
	assert.ErrorIs(t, err, errors.ErrToolUnavailable)
}

func TestNewCLIDefaults(t *testing.T) {
	cli := NewCLI()
	assert.Equal(t, DefaultAaptBinary, cli.AaptPath)
	assert.Equal(t, DefaultApksignerBinary, cli.ApksignerPath)
}
