// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/savefile"
)

func saveCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "save",
		Summary: "Create, inspect, seal and unseal save containers",
		Description: `Manage save containers as a whole.

A container holds the bank slots plus the rest of the save, which is
carried through every edit unchanged. Sealed containers are encrypted
with age to the identity in paths.identity and any keys listed in
container.recipients.`,
		Subcommands: []*cli.Command{
			saveInitCommand(s),
			saveInfoCommand(s),
			saveSealCommand(s, true),
			saveSealCommand(s, false),
		},
	}
}

type saveInitParams struct {
	Player string `flag:"player" desc:"player name recorded in the save"`
	Seal   bool   `flag:"seal" desc:"encrypt the new save to the configured identity"`
	Force  bool   `flag:"force,f" desc:"replace an existing file"`
}

func saveInitCommand(s *session) *cli.Command {
	var params saveInitParams

	return &cli.Command{
		Name:    "init",
		Summary: "Create a save with an empty bank",
		Usage:   "bl2bank save init <save> [--player <name>] [--seal] [--force]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("init", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 1, "bl2bank save init <save>"); err != nil {
				return err
			}
			r, err := s.start("save/init")
			if err != nil {
				return err
			}
			path := r.config.ResolveSave(args[0])

			if !params.Force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to replace it)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return fmt.Errorf("creating save directory: %w", err)
			}

			ctx, cancel := s.lockContext()
			defer cancel()
			lock, err := savefile.Lock(ctx, path)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			save := &openSave{
				path:   path,
				game:   &savefile.SaveGame{PlayerName: params.Player},
				sealed: params.Seal,
			}
			if err := r.writeSave(save); err != nil {
				return err
			}
			fmt.Fprintf(s.env.Stdout, "Created %s\n", path)
			return nil
		},
	}
}

// saveInfo is the output of "save info".
type saveInfo struct {
	Path             string    `json:"path"`
	Sealed           bool      `json:"sealed"`
	FormatVersion    uint8     `json:"format_version"`
	Compression      string    `json:"compression"`
	UncompressedSize uint32    `json:"uncompressed_size"`
	StoredSize       int       `json:"stored_size"`
	Hash             string    `json:"hash"`
	PlayerName       string    `json:"player_name,omitempty"`
	SavedAt          time.Time `json:"saved_at"`
	Writer           string    `json:"writer,omitempty"`
	Slots            int       `json:"slots"`
	ExtraSize        int       `json:"extra_size"`
}

type saveInfoParams struct {
	cli.JSONOutput
}

func saveInfoCommand(s *session) *cli.Command {
	var params saveInfoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show a save's container header and contents",
		Description: `Show the container header (format, compression, sizes, payload hash)
and a summary of the save. The bank slots are counted but not decoded,
so this works on saves that "bank verify" rejects.`,
		Usage: "bl2bank save info <save> [--json]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("info", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 1, "bl2bank save info <save>"); err != nil {
				return err
			}
			r, err := s.start("save/info")
			if err != nil {
				return err
			}
			save, err := r.readSave(r.config.ResolveSave(args[0]))
			if err != nil {
				return err
			}

			info := saveInfo{
				Path:             save.path,
				Sealed:           save.sealed,
				FormatVersion:    save.header.Version,
				Compression:      save.header.Compression.String(),
				UncompressedSize: save.header.UncompressedSize,
				StoredSize:       save.header.StoredSize,
				Hash:             save.header.Hash.String(),
				PlayerName:       save.game.PlayerName,
				SavedAt:          save.game.SavedAt,
				Writer:           save.game.Writer,
				Slots:            len(save.game.BankSlots()),
				ExtraSize:        len(save.game.Extra),
			}
			if done, err := params.EmitJSON(s.env.Stdout, info); done {
				return err
			}

			rows := [][]string{
				{"path", info.Path},
				{"sealed", fmt.Sprint(info.Sealed)},
				{"format", fmt.Sprintf("v%d", info.FormatVersion)},
				{"compression", info.Compression},
				{"payload", fmt.Sprintf("%d bytes (%d stored)", info.UncompressedSize, info.StoredSize)},
				{"hash", info.Hash},
				{"player", info.PlayerName},
				{"saved at", info.SavedAt.UTC().Format(time.RFC3339)},
				{"writer", info.Writer},
				{"slots", fmt.Sprint(info.Slots)},
				{"other state", fmt.Sprintf("%d bytes", info.ExtraSize)},
			}
			return writeTable(s.env.Stdout, []string{"FIELD", "VALUE"}, rows)
		},
	}
}

func saveSealCommand(s *session, seal bool) *cli.Command {
	name, summary := "seal", "Encrypt a save to the configured identity"
	if !seal {
		name, summary = "unseal", "Decrypt a sealed save in place"
	}
	usage := "bl2bank save " + name + " <save>"

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 1, usage); err != nil {
				return err
			}
			r, err := s.start("save/" + name)
			if err != nil {
				return err
			}
			path := r.config.ResolveSave(args[0])

			ctx, cancel := s.lockContext()
			defer cancel()
			err = r.updateSave(ctx, path, func(save *openSave) error {
				if save.sealed == seal {
					if seal {
						return fmt.Errorf("%s is already sealed", path)
					}
					return fmt.Errorf("%s is not sealed", path)
				}
				save.sealed = seal
				return nil
			})
			if err != nil {
				return err
			}
			if seal {
				fmt.Fprintf(s.env.Stdout, "Sealed %s\n", path)
			} else {
				fmt.Fprintf(s.env.Stdout, "Unsealed %s\n", path)
			}
			return nil
		},
	}
}
