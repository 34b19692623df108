// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// tftest is the command line companion to the tftestgo library. It wires
// the CLI, delegates to internal packages, and serves as the entry point.
package main
