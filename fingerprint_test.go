// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tftest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFingerprintDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.tf", `resource "null_resource" "a" {}`)

	config := []string{"binary=terraform", "tfdir=" + dir}
	argv := []string{"-no-color", "-input=false"}

	first := Fingerprint(config, "plan", argv, dir)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fingerprint(config, "plan", argv, dir))
	}
}

func TestFingerprintContentSensitive(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.tf", `resource "null_resource" "a" {}`)

	config := []string{"binary=terraform"}
	before := Fingerprint(config, "plan", nil, dir)

	// Modify
	writeFixture(t, dir, "main.tf", `resource "null_resource" "b" {}`)
	modified := Fingerprint(config, "plan", nil, dir)
	assert.NotEqual(t, before, modified)

	// Add
	writeFixture(t, dir, "vars.tf", `variable "x" {}`)
	added := Fingerprint(config, "plan", nil, dir)
	assert.NotEqual(t, modified, added)

	// Remove
	require.NoError(t, os.Remove(filepath.Join(dir, "vars.tf")))
	removed := Fingerprint(config, "plan", nil, dir)
	assert.Equal(t, modified, removed)
}

func TestFingerprintSkipsDotDirs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.tf", `resource "null_resource" "a" {}`)

	before := Fingerprint(nil, "plan", nil, dir)

	// Writes under the cache's own directory must not invalidate.
	writeFixture(t, dir, ".tftest-cache/abc123", "cached result")
	assert.Equal(t, before, Fingerprint(nil, "plan", nil, dir))

	writeFixture(t, dir, ".terraform/providers/lock", "x")
	assert.Equal(t, before, Fingerprint(nil, "plan", nil, dir))

	// Hidden files are skipped too.
	writeFixture(t, dir, ".hidden", "x")
	assert.Equal(t, before, Fingerprint(nil, "plan", nil, dir))
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	dir := t.TempDir()

	base := Fingerprint([]string{"binary=terraform"}, "plan", []string{"-no-color"}, dir)

	assert.NotEqual(t, base,
		Fingerprint([]string{"binary=terragrunt"}, "plan", []string{"-no-color"}, dir))
	assert.NotEqual(t, base,
		Fingerprint([]string{"binary=terraform"}, "apply", []string{"-no-color"}, dir))
	assert.NotEqual(t, base,
		Fingerprint([]string{"binary=terraform"}, "plan", []string{"-no-color", "-input=false"}, dir))

	// Adjacent fields must not merge ("ab"+"c" vs "a"+"bc").
	assert.NotEqual(t,
		Fingerprint([]string{"ab"}, "c", nil, dir),
		Fingerprint([]string{"a"}, "bc", nil, dir))
}

func TestFingerprintMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	first := Fingerprint(nil, "plan", nil, missing)
	assert.Equal(t, first, Fingerprint(nil, "plan", nil, missing))
	assert.NotEmpty(t, first)

	// An empty directory and a missing one have the same content hash.
	empty := t.TempDir()
	assert.Equal(t, first, Fingerprint(nil, "plan", nil, empty))
}
