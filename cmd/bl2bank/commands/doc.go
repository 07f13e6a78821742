// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the bl2bank command tree.
//
// [Root] assembles the "bank", "code" and "save" command groups plus
// "keygen" and "version". Commands share one [Env] holding the process
// streams and clock, so tests drive the whole tree against buffers and
// a fake clock. Each invocation resolves its configuration, logger and
// UniqueID generator from the global --config flag (or BL2BANK_CONFIG)
// before touching a save.
//
// Commands that change a bank follow one sequence under the save's
// lock: read the container, open it if sealed, decode it, load the bank
// slots through the round-trip check, apply the change, save the bank,
// encode the container, seal it again if it was sealed, and replace the
// file atomically. A slot that fails the round-trip check aborts the
// command before anything is written.
package commands
