// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tftest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args *Args
		want []string
	}{
		{name: "nil args", args: nil, want: []string{}},
		{name: "empty args", args: &Args{}, want: []string{}},
		{name: "auto approve true", args: &Args{AutoApprove: Bool(true)}, want: []string{"-auto-approve"}},
		{name: "auto approve false", args: &Args{AutoApprove: Bool(false)}, want: []string{}},
		{name: "backend true", args: &Args{Backend: Bool(true)}, want: []string{}},
		{name: "backend unset", args: &Args{Backend: nil}, want: []string{}},
		{name: "backend false", args: &Args{Backend: Bool(false)}, want: []string{"-backend=false"}},
		{name: "color true", args: &Args{Color: Bool(true)}, want: []string{}},
		{name: "color false", args: &Args{Color: Bool(false)}, want: []string{"-no-color"}},
		{
			name: "color false input false",
			args: &Args{Color: Bool(false), Input: Bool(false)},
			want: []string{"-no-color", "-input=false"},
		},
		{name: "force copy true", args: &Args{ForceCopy: Bool(true)}, want: []string{"-force-copy"}},
		{name: "force copy unset", args: &Args{ForceCopy: nil}, want: []string{}},
		{name: "force copy false", args: &Args{ForceCopy: Bool(false)}, want: []string{}},
		{name: "input true", args: &Args{Input: Bool(true)}, want: []string{}},
		{name: "input false", args: &Args{Input: Bool(false)}, want: []string{"-input=false"}},
		{name: "json format true", args: &Args{JSONFormat: Bool(true)}, want: []string{"-json"}},
		{name: "json format false", args: &Args{JSONFormat: Bool(false)}, want: []string{}},
		{name: "lock true", args: &Args{Lock: Bool(true)}, want: []string{}},
		{name: "lock false", args: &Args{Lock: Bool(false)}, want: []string{"-lock=false"}},
		{name: "plugin dir empty", args: &Args{PluginDir: ""}, want: []string{}},
		{name: "plugin dir set", args: &Args{PluginDir: "abc"}, want: []string{"-plugin-dir", "abc"}},
		{name: "refresh true", args: &Args{Refresh: Bool(true)}, want: []string{}},
		{name: "refresh unset", args: &Args{Refresh: nil}, want: []string{}},
		{name: "refresh false", args: &Args{Refresh: Bool(false)}, want: []string{"-refresh=false"}},
		{name: "var file empty", args: &Args{VarFile: ""}, want: []string{}},
		{name: "var file set", args: &Args{VarFile: "foo.tfvar"}, want: []string{"-var-file=foo.tfvar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseArgs(tt.args))
		})
	}
}

func TestParseArgsVars(t *testing.T) {
	got := ParseArgs(&Args{BackendConfig: map[string]string{"a": "1", "b": `["2"]`}})
	assert.Equal(t, []string{"-backend-config=a=1", `-backend-config=b=["2"]`}, got)

	got = ParseArgs(&Args{BackendConfigFile: "backend.hcl"})
	assert.Equal(t, []string{"-backend-config", "backend.hcl"}, got)

	got = ParseArgs(&Args{Vars: map[string]string{"b": `["2"]`, "a": "1"}})
	assert.Equal(t, []string{"-var", "a=1", "-var", `b=["2"]`}, got)
}

func TestParseArgsTargets(t *testing.T) {
	got := ParseArgs(&Args{Targets: []string{"one", "two"}})
	assert.Equal(t, []string{"-target=one", "-target=two"}, got)
}

func TestParseArgsTerragrunt(t *testing.T) {
	got := ParseArgs(&Args{Terragrunt: &TerragruntArgs{
		NonInteractive: true,
		SourceUpdate:   true,
		IAMRole:        "arn:aws:iam::123:role/test",
		WorkingDir:     "/tmp/wd",
		Parallelism:    4,
		OverrideAttr:   map[string]string{"region": "us-east-1"},
	}})
	assert.Equal(t, []string{
		"--terragrunt-source-update",
		"--terragrunt-non-interactive",
		"--terragrunt-iam-role", "arn:aws:iam::123:role/test",
		"--terragrunt-working-dir", "/tmp/wd",
		"--terragrunt-parallelism 4",
		"--terragrunt-override-attr=region=us-east-1",
	}, got)
}

func TestArgsDeterministicOrder(t *testing.T) {
	args := &Args{Vars: map[string]string{"z": "1", "m": "2", "a": "3"}}
	first := ParseArgs(args)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ParseArgs(args))
	}
}

func TestWithDefaults(t *testing.T) {
	// Method defaults only fill unset fields.
	a := (&Args{Color: Bool(true)}).withDefaults(map[string]bool{
		"input": false, "color": false,
	})
	assert.True(t, *a.Color)
	assert.False(t, *a.Input)

	// The caller's Args value is not mutated.
	orig := &Args{}
	_ = orig.withDefaults(map[string]bool{"input": false})
	assert.Nil(t, orig.Input)
}
