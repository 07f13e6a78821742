// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bl2bank edits the bank of a Borderlands 2 save container and moves
// items and weapons between saves as BL2(...) codes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that already printed their outcome (paste with
		// rejected codes, verify with failing slots) return an error
		// carrying the exit code. Don't print a redundant "error:" line.
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root(commands.ProcessEnv()).Execute(os.Args[1:])
}
