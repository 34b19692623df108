// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tftest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerragruntCommandLines(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	tg := NewTerragruntTest(dir, WithRunner(runner))

	_, err := tg.Init(&Args{Terragrunt: &TerragruntArgs{NonInteractive: true}})
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"terragrunt", "init",
		"--terragrunt-non-interactive",
		"-no-color", "-input=false",
	}, runner.calls[0])
}

func TestTerragruntRunAll(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	tg := NewTerragruntTest(dir, WithRunner(runner), WithRunAll())

	_, err := tg.Apply(nil)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"terragrunt", "run-all", "apply",
		"-auto-approve", "-no-color", "-input=false",
	}, runner.calls[0])
}

func TestPlanJSONAll(t *testing.T) {
	showOut := `{"planned_values": {"root_module": {"resources": [
		{"address": "null_resource.one"}]}}}
	{"planned_values": {"root_module": {"resources": [
		{"address": "null_resource.two"}]}}}`
	dir := t.TempDir()
	runner := &fakeRunner{outputs: map[string]CommandOutput{
		"show": {Out: showOut},
	}}
	tg := NewTerragruntTest(dir, WithRunner(runner), WithRunAll())

	plans, err := tg.PlanJSONAll(nil)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Contains(t, plans[0].Resources(), "null_resource.one")
	assert.Contains(t, plans[1].Resources(), "null_resource.two")

	// run-all keeps the plan file name relative so each module writes its
	// own copy under its .terragrunt-cache.
	planCall := runner.calls[0]
	out := planCall[len(planCall)-1]
	require.True(t, strings.HasPrefix(out, "-out="))
	assert.False(t, strings.Contains(strings.TrimPrefix(out, "-out="), "/"))
}

func TestOutputAll(t *testing.T) {
	outStream := `{"first": {"value": "one"}}
	{"second": {"value": "two", "sensitive": true}}`
	dir := t.TempDir()
	runner := &fakeRunner{outputs: map[string]CommandOutput{
		"output": {Out: outStream},
	}}
	tg := NewTerragruntTest(dir, WithRunner(runner), WithRunAll())

	all, err := tg.OutputAll(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "one", all[0].Value("first"))
	assert.Equal(t, []string{"second"}, all[1].Sensitive())
}

func TestSplitJSONDocs(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		count int
		err   bool
	}{
		{"empty", "", 0, false},
		{"single", `{"a": 1}`, 1, false},
		{"back to back", `{"a": 1}{"b": 2}`, 2, false},
		{"newline separated", "{\"a\": 1}\n{\"b\": 2}\n{\"c\": 3}", 3, false},
		{"truncated", `{"a": 1}{"b":`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := splitJSONDocs(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, docs, tt.count)
		})
	}
}
