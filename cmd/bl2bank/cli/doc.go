// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for bl2bank.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in
// cmd/bl2bank/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// A command with both Flags and Subcommands parses its own flags up to
// the first positional argument before dispatching, so global flags
// like --config can precede the subcommand name.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Parameter structs declare their flags with struct tags and are bound
// with [FlagsFromParams]. Embedding [JSONOutput] adds the --json flag;
// [NewCommandLogger] builds the slog logger every command logs through.
package cli
