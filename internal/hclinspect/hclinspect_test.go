// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package hclinspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTF(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	writeTF(t, dir, "main.tf", `
resource "google_service_account" "sa" {
  account_id = var.name
}

resource "null_resource" "wait" {}

data "google_project" "current" {}

module "vpc" {
  source = "./modules/vpc"
}
`)
	writeTF(t, dir, "variables.tf", `
variable "name" {
  type    = string
  default = "test-sa"
}

variable "labels" {
  type    = map(string)
  default = { team = "qa" }
}

variable "required" {
  type = string
}
`)
	writeTF(t, dir, "outputs.tf", `
output "email" {
  value = google_service_account.sa.email
}
`)

	mod, err := Inspect(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"google_service_account.sa", "null_resource.wait"}, mod.Resources)
	assert.Equal(t, []string{"data.google_project.current"}, mod.DataSources)
	assert.Equal(t, []string{"module.vpc"}, mod.Modules)
	assert.Equal(t, []string{"email"}, mod.Outputs)

	require.Len(t, mod.Variables, 3)
	assert.Equal(t, `"test-sa"`, mod.Variables["name"])
	assert.JSONEq(t, `{"team": "qa"}`, mod.Variables["labels"])
	assert.Empty(t, mod.Variables["required"])
}

func TestInspectAddresses(t *testing.T) {
	dir := t.TempDir()
	writeTF(t, dir, "main.tf", `
resource "foo" "a" {}
data "bar" "b" {}
module "c" {
  source = "./c"
}
`)
	mod, err := Inspect(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"data.bar.b", "foo.a", "module.c"}, mod.Addresses())
}

func TestInspectUnevaluableDefault(t *testing.T) {
	dir := t.TempDir()
	writeTF(t, dir, "variables.tf", `
variable "derived" {
  default = var.other
}
`)
	mod, err := Inspect(dir)
	require.NoError(t, err)
	assert.Empty(t, mod.Variables["derived"])
}

func TestInspectEmptyDir(t *testing.T) {
	mod, err := Inspect(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, mod.Resources)
	assert.Empty(t, mod.Addresses())
}

func TestInspectParseError(t *testing.T) {
	dir := t.TempDir()
	writeTF(t, dir, "broken.tf", `resource "foo" {`)
	_, err := Inspect(dir)
	assert.Error(t, err)
}
