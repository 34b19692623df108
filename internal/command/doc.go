// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for tftest. It wires flags,
// actions, and shared metadata for subcommands.
package command
