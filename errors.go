// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"fmt"
	"strings"
)

// CommandError is returned when the wrapped binary exits with an error
// status. It carries the full command line, the exit status, and the
// captured stderr for diagnostics.
type CommandError struct {
	Cmdline    []string
	ExitStatus int
	Stdout     string
	Stderr     string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("error running command %s: %d %s %s",
		strings.Join(e.Cmdline, " "), e.ExitStatus, e.Stdout, e.Stderr)
}

// MissingBinaryError is returned when the configured executable cannot be
// found or started.
type MissingBinaryError struct {
	Binary string
	Err    error
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("terraform executable not found: %s: %v", e.Binary, e.Err)
}

func (e *MissingBinaryError) Unwrap() error { return e.Err }

// CacheError is returned when the result cache cannot be read or written.
// Cache I/O failures are surfaced, never silently bypassed; a simple cache
// miss is not an error.
type CacheError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
