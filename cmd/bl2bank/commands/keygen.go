// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/savefile"
	"github.com/bureau-foundation/bl2bank/lib/sealed"
)

type keygenParams struct {
	Output string `flag:"output,o" desc:"write the identity to this file instead of stdout"`
}

func keygenCommand(s *session) *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity for sealed saves",
		Description: `Generate an age X25519 keypair in the age-keygen file layout.

Point paths.identity at the file to seal and open saves. The public
key can be shared and added to another installation's
container.recipients so it can read the same sealed saves.`,
		Usage: "bl2bank keygen [--output <file>]",
		Examples: []cli.Example{
			{
				Description: "Create the identity used for sealing",
				Command:     "bl2bank keygen -o ~/.local/share/bl2bank/identity.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keygen", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 0, 0, "bl2bank keygen [--output <file>]"); err != nil {
				return err
			}
			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			contents := sealed.FormatIdentityFile(keypair)

			if params.Output == "" {
				_, err := fmt.Fprint(s.env.Stdout, contents)
				return err
			}
			if err := savefile.WriteFile(params.Output, []byte(contents)); err != nil {
				return err
			}
			fmt.Fprintf(s.env.Stderr, "Public key: %s\n", keypair.PublicKey)
			return nil
		},
	}
}
