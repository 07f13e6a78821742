// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/version"
)

// Root builds the complete bl2bank command tree around env.
func Root(env *Env) *cli.Command {
	s := &session{env: env}

	return &cli.Command{
		Name: "bl2bank",
		Description: `bl2bank: Borderlands 2 bank editor.

Edit the bank slots of a save container: list, create, duplicate,
delete and reorder items and weapons, and move them between saves and
players as BL2(...) codes.

Configuration is read from --config, or from the file named by
BL2BANK_CONFIG. Without either, built-in defaults apply.`,
		Usage: "bl2bank [--config <file>] <command> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("bl2bank", &s.global)
		},
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			bankCommand(s),
			codeCommand(s),
			saveCommand(s),
			keygenCommand(s),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(env.Stdout, "bl2bank %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
