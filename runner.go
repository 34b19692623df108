// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// CommandOutput is the captured result of one invocation of the wrapped
// binary.
type CommandOutput struct {
	Retcode int    `json:"retcode"`
	Out     string `json:"out"`
	Err     string `json:"err"`
}

// Runner executes a command in a working directory with an explicit
// environment and returns its captured output. It exists so tests can count
// or fake process spawns.
type Runner interface {
	Run(dir string, env []string, name string, args ...string) (CommandOutput, error)
}

// execRunner is the default Runner, backed by os/exec.
type execRunner struct{}

func (execRunner) Run(dir string, env []string, name string, args ...string) (CommandOutput, error) {
	log.Debugf("running %s %s in %s", name, strings.Join(args, " "), dir)

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := CommandOutput{Out: stdout.String(), Err: stderr.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.Retcode = exitErr.ExitCode()
			return out, nil
		}
		// bad path, binary not executable, &c
		return out, &MissingBinaryError{Binary: name, Err: err}
	}

	out.Retcode = cmd.ProcessState.ExitCode()
	return out, nil
}
