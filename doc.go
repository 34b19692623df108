// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package tftest wraps the terraform and terragrunt executables so test code
// can drive init/plan/apply/output/destroy cycles against fixture modules and
// navigate their JSON output through read-only accessor types.
//
// A TerraformTest is bound to one fixture directory. Setup links any extra
// files into the fixture and runs init; Plan, Apply, Output, Destroy and
// StatePull shell out to the binary with the fixture as working directory and
// parse JSON results into Plan, State and Values views.
//
// Results of cacheable operations can be persisted to a local directory keyed
// by a fingerprint of the instance configuration, the operation, its
// arguments, and a content hash of the fixture directory. A repeated
// invocation with an identical fingerprint is served from disk without
// spawning a process. The cache directory is shared mutable state with no
// locking; concurrent test runs sharing one cache directory are not safe.
package tftest
