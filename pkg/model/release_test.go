package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStringSet(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		expect []string
	}{
		{
			name:   "nil input",
			input:  nil,
			expect: nil,
		},
		{
			name:   "case insensitive dedupe keeps first occurrence",
			input:  []string{"android.permission.INTERNET", "android.permission.internet"},
			expect: []string{"android.permission.INTERNET"},
		},
		{
			name:   "sorted output",
			input:  []string{"x86_64", "arm64-v8a", "armeabi-v7a"},
			expect: []string{"arm64-v8a", "armeabi-v7a", "x86_64"},
		},
		{
			name:   "blank entries dropped",
			input:  []string{" ", "", "android.permission.CAMERA"},
			expect: []string{"android.permission.CAMERA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, NormalizeStringSet(tt.input))
		})
	}
}

func TestSameSigners(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"both empty", nil, nil, true},
		{"equal single", []string{"ab12"}, []string{"ab12"}, true},
		{"case insensitive", []string{"AB12"}, []string{"ab12"}, true},
		{"order insensitive", []string{"a", "b"}, []string{"b", "a"}, true},
		{"different fingerprints", []string{"a"}, []string{"b"}, false},
		{"different cardinality", []string{"a"}, []string{"a", "b"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameSigners(tt.a, tt.b))
		})
	}
}

func TestReleaseSameContent(t *testing.T) {
	r := &ReleaseEntry{Hash: "abc", Size: 42}
	assert.True(t, r.SameContent("abc", 42))
	assert.False(t, r.SameContent("abc", 43))
	assert.False(t, r.SameContent("def", 42))
}

func TestReleaseGetVersion(t *testing.T) {
	r := &ReleaseEntry{VersionName: "1.2.3"}
	v := r.GetVersion()
	assert.NotNil(t, v)
	assert.Equal(t, "1.2.3", v.String())

	bad := &ReleaseEntry{VersionName: "not a version"}
	assert.Nil(t, bad.GetVersion())
}
