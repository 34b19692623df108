// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/tftestgo/internal/cacheutil"
)

// TerraformTest drives terraform commands against one fixture module.
//
// Configuration happens at construction (fixture directory, binary,
// environment, caching); Setup then links extra files into the fixture and
// runs init, and the usual commands can be run and their output checked.
// Teardown removes linked files and, unless disabled, the local .terraform
// directory, state file and any .terragrunt-cache trees.
type TerraformTest struct {
	binary  string
	basedir string
	tfdir   string

	env          []string
	envOverrides map[string]string

	runAll bool

	cacheEnabled bool
	cacheDir     string
	store        *cacheutil.Store
	runner       Runner

	linked        []string
	cleanupOnExit bool
}

// Option configures a TerraformTest at construction.
type Option func(*TerraformTest)

// WithBasedir sets the base directory that relative fixture and extra-file
// paths resolve against. Defaults to the current working directory.
func WithBasedir(dir string) Option {
	return func(t *TerraformTest) { t.basedir = dir }
}

// WithBinary sets the executable to invoke. Defaults to "terraform".
func WithBinary(binary string) Option {
	return func(t *TerraformTest) { t.binary = binary }
}

// WithEnv adds environment variables to the inherited environment for every
// spawned process.
func WithEnv(env map[string]string) Option {
	return func(t *TerraformTest) {
		for k, v := range env {
			t.envOverrides[k] = v
		}
	}
}

// WithCache enables the result cache, persisting invocation results under
// dir. An empty dir places the cache at .tftest-cache inside the fixture
// directory; being dot-prefixed it is excluded from fingerprints either way.
func WithCache(dir string) Option {
	return func(t *TerraformTest) {
		t.cacheEnabled = true
		t.cacheDir = dir
	}
}

// WithRunner swaps the process runner. Tests use this to count or fake
// spawns.
func WithRunner(r Runner) Option {
	return func(t *TerraformTest) { t.runner = r }
}

// NewTerraformTest binds a wrapper to the fixture module at tfdir, either an
// absolute path or relative to the base directory.
func NewTerraformTest(tfdir string, opts ...Option) *TerraformTest {
	cwd, _ := os.Getwd()
	t := &TerraformTest{
		binary:        "terraform",
		basedir:       cwd,
		envOverrides:  map[string]string{},
		runner:        execRunner{},
		cleanupOnExit: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.tfdir = t.abspath(tfdir)
	if t.cacheEnabled {
		dir := t.cacheDir
		if dir == "" {
			dir = filepath.Join(t.tfdir, ".tftest-cache")
		}
		t.store = cacheutil.NewStore(dir)
	}
	t.env = append(os.Environ(), envList(t.envOverrides)...)
	return t
}

// abspath makes a relative path absolute from the base dir.
func (t *TerraformTest) abspath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(t.basedir, path)
}

// TFDir returns the resolved fixture directory.
func (t *TerraformTest) TFDir() string { return t.tfdir }

// CacheDir returns the cache directory, or "" when caching is disabled.
func (t *TerraformTest) CacheDir() string {
	if t.store == nil {
		return ""
	}
	return t.store.Base
}

// SetupArgs configures Setup: the recognized command flags plus the files to
// link into the fixture and the teardown depth.
type SetupArgs struct {
	Args

	// ExtraFiles are absolute or basedir-relative paths linked (copied on
	// Windows) into the fixture directory and removed on Teardown.
	ExtraFiles []string

	// CleanupOnExit controls whether Teardown also removes .terraform,
	// terraform.tfstate and .terragrunt-cache trees. Defaults to true.
	CleanupOnExit *bool
}

// Setup prepares a new terraform environment for the fixture and returns
// init output.
func (t *TerraformTest) Setup(args *SetupArgs) (string, error) {
	if args == nil {
		args = &SetupArgs{}
	}
	if args.CleanupOnExit != nil {
		t.cleanupOnExit = *args.CleanupOnExit
	}
	for _, src := range args.ExtraFiles {
		src = t.abspath(src)
		if _, err := os.Stat(src); err != nil {
			log.Warnf("no such file %s", src)
			continue
		}
		filename := filepath.Base(src)
		dst := filepath.Join(t.tfdir, filename)
		if err := linkOrCopy(src, dst); err != nil {
			log.WithError(err).Warnf("linking %s", src)
			continue
		}
		log.Debugf("linked %s", src)
		t.linked = append(t.linked, filename)
	}
	return t.Init(&args.Args)
}

// Teardown removes any files Setup linked into the fixture and, when
// cleanup on exit is enabled, the .terraform directory, the local state
// file, and any .terragrunt-cache trees. Destroy is never run implicitly.
func (t *TerraformTest) Teardown() error {
	log.Debugf("cleaning up %s %v", t.tfdir, t.linked)
	for _, filename := range t.linked {
		if err := os.Remove(filepath.Join(t.tfdir, filename)); err != nil {
			return fmt.Errorf("failed to remove linked file %s: %w", filename, err)
		}
	}
	t.linked = nil
	if !t.cleanupOnExit {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(t.tfdir, ".terraform")); err != nil {
		return fmt.Errorf("failed to remove .terraform: %w", err)
	}
	statePath := filepath.Join(t.tfdir, "terraform.tfstate")
	if err := os.Remove(statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return removeTerragruntCaches(t.tfdir)
}

// Init runs terraform init.
func (t *TerraformTest) Init(args *Args) (string, error) {
	a := args.withDefaults(map[string]bool{"input": false, "color": false})
	out, err := t.cached("init", a, func(argv []string) (CommandOutput, error) {
		return t.ExecuteCommand("init", argv...)
	})
	return out.Out, err
}

// Plan runs terraform plan and returns its raw output. Use PlanJSON for the
// parsed plan document.
func (t *TerraformTest) Plan(args *Args) (string, error) {
	a := args.withDefaults(map[string]bool{"input": false, "color": false})
	out, err := t.cached("plan", a, func(argv []string) (CommandOutput, error) {
		return t.ExecuteCommand("plan", argv...)
	})
	return out.Out, err
}

// PlanJSON runs terraform plan against a temporary plan file, then
// `show -no-color -json`, and returns the parsed plan document.
func (t *TerraformTest) PlanJSON(args *Args) (*Plan, error) {
	out, err := t.planShow(args)
	if err != nil {
		return nil, err
	}
	plan, err := NewPlan([]byte(out.Out))
	if err != nil {
		return nil, fmt.Errorf("error decoding plan output: %w", err)
	}
	return plan, nil
}

// planShow is the spawn sequence behind PlanJSON, shared with the run-all
// variant. The plan file name is excluded from the cache fingerprint.
func (t *TerraformTest) planShow(args *Args) (CommandOutput, error) {
	a := args.withDefaults(map[string]bool{"input": false, "color": false})
	return t.cached("plan-json", a, func(argv []string) (CommandOutput, error) {
		planFile, cleanup, err := t.planFile()
		if err != nil {
			return CommandOutput{}, err
		}
		defer cleanup()
		if _, err := t.ExecuteCommand("plan", append(argv, "-out="+planFile)...); err != nil {
			return CommandOutput{}, err
		}
		return t.ExecuteCommand("show", "-no-color", "-json", planFile)
	})
}

// planFile reserves a temporary plan file name. For terragrunt run-all the
// name must stay relative so each .terragrunt-cache writes its own file
// instead of every module overwriting one shared path.
func (t *TerraformTest) planFile() (string, func(), error) {
	f, err := os.CreateTemp("", "tftest-plan-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create plan file: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	if t.isTerragrunt() && t.runAll {
		base := filepath.Base(name)
		return base, func() {}, nil
	}
	return name, func() { _ = os.Remove(name) }, nil
}

// Apply runs terraform apply, auto-approving unless told otherwise.
func (t *TerraformTest) Apply(args *Args) (string, error) {
	a := args.withDefaults(map[string]bool{
		"input": false, "color": false, "auto_approve": true,
	})
	out, err := t.cached("apply", a, func(argv []string) (CommandOutput, error) {
		return t.ExecuteCommand("apply", argv...)
	})
	return out.Out, err
}

// Output runs terraform output -json and returns the parsed outputs.
func (t *TerraformTest) Output(args *Args) (*Values, error) {
	out, err := t.outputRaw(args)
	if err != nil {
		return nil, err
	}
	values, err := NewValues([]byte(out.Out))
	if err != nil {
		return nil, fmt.Errorf("error decoding output: %w", err)
	}
	return values, nil
}

func (t *TerraformTest) outputRaw(args *Args) (CommandOutput, error) {
	a := args.withDefaults(map[string]bool{"color": false, "json_format": true})
	out, err := t.cached("output", a, func(argv []string) (CommandOutput, error) {
		return t.ExecuteCommand("output", argv...)
	})
	if err == nil {
		log.Debugf("output %s", out.Out)
	}
	return out, err
}

// Destroy runs terraform destroy, auto-approving unless told otherwise.
func (t *TerraformTest) Destroy(args *Args) (string, error) {
	a := args.withDefaults(map[string]bool{"color": false, "auto_approve": true})
	out, err := t.cached("destroy", a, func(argv []string) (CommandOutput, error) {
		return t.ExecuteCommand("destroy", argv...)
	})
	return out.Out, err
}

// Refresh runs terraform refresh.
func (t *TerraformTest) Refresh(args *Args) (string, error) {
	a := args.withDefaults(map[string]bool{"color": false, "lock": false})
	out, err := t.ExecuteCommand("refresh", ParseArgs(a)...)
	return out.Out, err
}

// StatePull pulls and parses the current state.
func (t *TerraformTest) StatePull() (*State, error) {
	out, err := t.ExecuteCommand("state", "pull")
	if err != nil {
		return nil, err
	}
	state, err := NewState([]byte(out.Out))
	if err != nil {
		return nil, fmt.Errorf("error decoding state: %w", err)
	}
	return state, nil
}

// ExecuteCommand runs an arbitrary subcommand of the wrapped binary with
// the fixture directory as working directory. Exit code 1 returns a
// CommandError with captured stderr attached; other non-zero codes (such as
// the -detailed-exitcode "changes present" code) are reported in the result
// only.
func (t *TerraformTest) ExecuteCommand(cmd string, cmdArgs ...string) (CommandOutput, error) {
	cmdline := []string{}
	if t.isTerragrunt() && t.runAll {
		cmdline = append(cmdline, "run-all")
	}
	cmdline = append(cmdline, cmd)
	cmdline = append(cmdline, cmdArgs...)
	log.Infof("%s %s", t.binary, strings.Join(cmdline, " "))

	out, err := t.runner.Run(t.tfdir, t.env, t.binary, cmdline...)
	if err != nil {
		return out, err
	}
	if out.Retcode == 1 {
		cmdErr := &CommandError{
			Cmdline:    append([]string{t.binary}, cmdline...),
			ExitStatus: out.Retcode,
			Stdout:     out.Out,
			Stderr:     out.Err,
		}
		log.Errorf("%v", cmdErr)
		return out, cmdErr
	}
	return out, nil
}

// cached wraps one operation's spawn sequence with the result cache. With
// caching disabled on the instance or not requested for the call, fn runs
// directly. Cache I/O failures surface as CacheError; they are never folded
// into a silent miss.
func (t *TerraformTest) cached(op string, a *Args, fn func(argv []string) (CommandOutput, error)) (CommandOutput, error) {
	argv := ParseArgs(a)
	if t.store == nil || !a.UseCache {
		return fn(argv)
	}

	key := Fingerprint(t.configKey(), op, argv, t.tfdir)
	entry, ok, err := t.store.Read(key)
	if err != nil {
		return CommandOutput{}, &CacheError{Op: "read", Path: t.store.Base, Err: err}
	}
	if ok {
		var out CommandOutput
		if err := json.Unmarshal(entry.Data, &out); err != nil {
			return CommandOutput{}, &CacheError{Op: "read", Path: entry.Path, Err: err}
		}
		log.Infof("cache hit for %s", op)
		return out, nil
	}

	out, err := fn(argv)
	if err != nil {
		return out, err
	}
	data, err := json.Marshal(out)
	if err != nil {
		return out, &CacheError{Op: "write", Path: t.store.Base, Err: err}
	}
	if err := t.store.Write(key, data); err != nil {
		return out, &CacheError{Op: "write", Path: t.store.Base, Err: err}
	}
	return out, nil
}

// configKey canonically encodes the bound configuration for fingerprinting.
func (t *TerraformTest) configKey() []string {
	key := []string{
		"binary=" + t.binary,
		"tfdir=" + t.tfdir,
		"run_all=" + strconv.FormatBool(t.runAll),
	}
	keys := make([]string, 0, len(t.envOverrides))
	for k := range t.envOverrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key = append(key, "env="+k+"="+t.envOverrides[k])
	}
	return key
}

func (t *TerraformTest) isTerragrunt() bool {
	return strings.HasSuffix(t.binary, "terragrunt")
}

func envList(overrides map[string]string) []string {
	list := make([]string, 0, len(overrides))
	for k, v := range overrides {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}

func linkOrCopy(src, dst string) error {
	if runtime.GOOS == "windows" {
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644) //nolint:mnd
	}
	return os.Symlink(src, dst)
}

// removeTerragruntCaches removes any .terragrunt-cache* directory below dir.
func removeTerragruntCaches(dir string) error {
	var caches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".terragrunt-cache") {
			caches = append(caches, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, c := range caches {
		if err := os.RemoveAll(c); err != nil {
			return fmt.Errorf("failed to remove %s: %w", c, err)
		}
	}
	return nil
}
