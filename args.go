// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"fmt"
	"sort"
	"strconv"
)

// Args holds the recognized flags that can be mapped onto a terraform or
// terragrunt command line. Pointer fields are tri-state: nil means "not
// specified" and emits nothing, matching terraform defaults.
type Args struct {
	AutoApprove *bool
	Backend     *bool
	Color       *bool
	ForceCopy   *bool
	Input       *bool
	JSONFormat  *bool
	Lock        *bool
	Refresh     *bool

	PluginDir string

	// BackendConfig maps to repeated -backend-config=k=v flags;
	// BackendConfigFile to a single -backend-config FILE argument.
	BackendConfig     map[string]string
	BackendConfigFile string

	Vars    map[string]string
	Targets []string
	VarFile string

	Terragrunt *TerragruntArgs

	// UseCache asks the wrapper to serve this invocation from the result
	// cache when the instance has caching enabled. It does not map to a
	// command-line flag.
	UseCache bool
}

// TerragruntArgs holds the --terragrunt-* flags recognized by terragrunt.
type TerragruntArgs struct {
	NoAutoInit                  bool
	NoAutoRetry                 bool
	SourceUpdate                bool
	IgnoreDependencyErrors      bool
	IgnoreDependencyOrder       bool
	IncludeExternalDependencies bool
	IgnoreExternalDependencies  bool
	Check                       bool
	Debug                       bool
	NonInteractive              bool

	IAMRole     string
	Config      string
	TFPath      string
	WorkingDir  string
	DownloadDir string
	Source      string
	ExcludeDir  string
	IncludeDir  string
	HclfmtFile  string

	Parallelism  int
	OverrideAttr map[string]string
}

// Bool returns a pointer to v, for populating tri-state Args fields inline.
func Bool(v bool) *bool { return &v }

// tgBoolFlags orders the terragrunt boolean flags deterministically.
var tgBoolFlags = []struct {
	flag string
	get  func(*TerragruntArgs) bool
}{
	{"--terragrunt-no-auto-init", func(a *TerragruntArgs) bool { return a.NoAutoInit }},
	{"--terragrunt-no-auto-retry", func(a *TerragruntArgs) bool { return a.NoAutoRetry }},
	{"--terragrunt-source-update", func(a *TerragruntArgs) bool { return a.SourceUpdate }},
	{"--terragrunt-ignore-dependency-errors", func(a *TerragruntArgs) bool { return a.IgnoreDependencyErrors }},
	{"--terragrunt-ignore-dependency-order", func(a *TerragruntArgs) bool { return a.IgnoreDependencyOrder }},
	{"--terragrunt-include-external-dependencies", func(a *TerragruntArgs) bool { return a.IncludeExternalDependencies }},
	{"--terragrunt-check", func(a *TerragruntArgs) bool { return a.Check }},
	{"--terragrunt-debug", func(a *TerragruntArgs) bool { return a.Debug }},
	{"--terragrunt-non-interactive", func(a *TerragruntArgs) bool { return a.NonInteractive }},
	{"--terragrunt-ignore-external-dependencies", func(a *TerragruntArgs) bool { return a.IgnoreExternalDependencies }},
}

// tgKVFlags orders the terragrunt key/value flags deterministically.
var tgKVFlags = []struct {
	flag string
	get  func(*TerragruntArgs) string
}{
	{"--terragrunt-iam-role", func(a *TerragruntArgs) string { return a.IAMRole }},
	{"--terragrunt-config", func(a *TerragruntArgs) string { return a.Config }},
	{"--terragrunt-tfpath", func(a *TerragruntArgs) string { return a.TFPath }},
	{"--terragrunt-working-dir", func(a *TerragruntArgs) string { return a.WorkingDir }},
	{"--terragrunt-download-dir", func(a *TerragruntArgs) string { return a.DownloadDir }},
	{"--terragrunt-source", func(a *TerragruntArgs) string { return a.Source }},
	{"--terragrunt-exclude-dir", func(a *TerragruntArgs) string { return a.ExcludeDir }},
	{"--terragrunt-include-dir", func(a *TerragruntArgs) string { return a.IncludeDir }},
	{"--terragrunt-hclfmt-file", func(a *TerragruntArgs) string { return a.HclfmtFile }},
}

// ParseArgs converts a set of recognized flags into command-line arguments.
// Map-backed flags are emitted in sorted key order so the resulting argv is
// deterministic for a given Args value.
func ParseArgs(a *Args) []string {
	cmdArgs := []string{}
	if a == nil {
		return cmdArgs
	}

	if tg := a.Terragrunt; tg != nil {
		for _, f := range tgBoolFlags {
			if f.get(tg) {
				cmdArgs = append(cmdArgs, f.flag)
			}
		}
		for _, f := range tgKVFlags {
			if v := f.get(tg); v != "" {
				cmdArgs = append(cmdArgs, f.flag, v)
			}
		}
		if tg.Parallelism > 0 {
			cmdArgs = append(cmdArgs, "--terragrunt-parallelism "+strconv.Itoa(tg.Parallelism))
		}
		for _, k := range sortedKeys(tg.OverrideAttr) {
			cmdArgs = append(cmdArgs, fmt.Sprintf("--terragrunt-override-attr=%s=%s", k, tg.OverrideAttr[k]))
		}
	}

	if a.AutoApprove != nil && *a.AutoApprove {
		cmdArgs = append(cmdArgs, "-auto-approve")
	}
	if a.Backend != nil && !*a.Backend {
		cmdArgs = append(cmdArgs, "-backend=false")
	}
	if a.Color != nil && !*a.Color {
		cmdArgs = append(cmdArgs, "-no-color")
	}
	if a.ForceCopy != nil && *a.ForceCopy {
		cmdArgs = append(cmdArgs, "-force-copy")
	}
	if a.Input != nil && !*a.Input {
		cmdArgs = append(cmdArgs, "-input=false")
	}
	if a.JSONFormat != nil && *a.JSONFormat {
		cmdArgs = append(cmdArgs, "-json")
	}
	if a.Lock != nil && !*a.Lock {
		cmdArgs = append(cmdArgs, "-lock=false")
	}
	if a.PluginDir != "" {
		cmdArgs = append(cmdArgs, "-plugin-dir", a.PluginDir)
	}
	if a.Refresh != nil && !*a.Refresh {
		cmdArgs = append(cmdArgs, "-refresh=false")
	}
	for _, k := range sortedKeys(a.BackendConfig) {
		cmdArgs = append(cmdArgs, fmt.Sprintf("-backend-config=%s=%s", k, a.BackendConfig[k]))
	}
	if a.BackendConfigFile != "" {
		cmdArgs = append(cmdArgs, "-backend-config", a.BackendConfigFile)
	}
	for _, k := range sortedKeys(a.Vars) {
		cmdArgs = append(cmdArgs, "-var", fmt.Sprintf("%s=%s", k, a.Vars[k]))
	}
	for _, t := range a.Targets {
		cmdArgs = append(cmdArgs, "-target="+t)
	}
	if a.VarFile != "" {
		cmdArgs = append(cmdArgs, "-var-file="+a.VarFile)
	}

	return cmdArgs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clone returns a shallow copy of a so methods can apply their defaults
// without mutating the caller's value. A nil receiver clones to a zero Args.
func (a *Args) clone() *Args {
	if a == nil {
		return &Args{}
	}
	c := *a
	return &c
}

// withDefaults fills any nil tri-state field named in the defaults map.
func (a *Args) withDefaults(defaults map[string]bool) *Args {
	c := a.clone()
	set := func(f **bool, name string) {
		if *f == nil {
			if v, ok := defaults[name]; ok {
				*f = Bool(v)
			}
		}
	}
	set(&c.AutoApprove, "auto_approve")
	set(&c.Backend, "backend")
	set(&c.Color, "color")
	set(&c.Input, "input")
	set(&c.JSONFormat, "json_format")
	set(&c.Lock, "lock")
	set(&c.Refresh, "refresh")
	return c
}
