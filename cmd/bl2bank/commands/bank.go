// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/bank"
	"github.com/bureau-foundation/bl2bank/lib/itemcode"
	"github.com/bureau-foundation/bl2bank/lib/record"
	"github.com/bureau-foundation/bl2bank/lib/serial"
)

func bankCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "bank",
		Summary: "List and edit the bank slots of a save",
		Description: `List and edit the bank slots of a save container.

<save> is a path, or a bare file name looked up in paths.saves. Every
slot is checked when the save is loaded: a slot that does not decode,
or would not be written back byte for byte, stops the command before
anything is changed.

Slot indexes are zero-based, in bank order.`,
		Subcommands: []*cli.Command{
			bankListCommand(s),
			bankNewCommand(s),
			bankDuplicateCommand(s),
			bankDeleteCommand(s),
			bankMoveCommand(s),
			bankCopyCommand(s),
			bankPasteCommand(s),
			bankFindCommand(s),
			bankVerifyCommand(s),
		},
	}
}

// slotSummary is one row of "bank list".
type slotSummary struct {
	Index                  int             `json:"index"`
	Kind                   string          `json:"kind"`
	UniqueID               int32           `json:"unique_id"`
	Balance                string          `json:"balance"`
	ManufacturerGradeIndex int             `json:"manufacturer_grade_index"`
	GameStage              int             `json:"game_stage"`
	Record                 json.RawMessage `json:"record,omitempty"`
}

type bankListParams struct {
	cli.JSONOutput
	Full bool `flag:"full" desc:"include every record attribute in --json output"`
}

func bankListCommand(s *session) *cli.Command {
	var params bankListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the bank slots",
		Usage:   "bl2bank bank list <save> [--json [--full]]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 1, "bl2bank bank list <save>"); err != nil {
				return err
			}
			r, err := s.start("bank/list")
			if err != nil {
				return err
			}
			b, _, err := r.viewBank(r.config.ResolveSave(args[0]))
			if err != nil {
				return err
			}

			summaries := make([]slotSummary, 0, b.Len())
			for index, slot := range b.Records() {
				summary, err := summarize(index, slot, params.Full)
				if err != nil {
					return err
				}
				summaries = append(summaries, summary)
			}

			if done, err := params.EmitJSON(s.env.Stdout, summaries); done {
				return err
			}

			stdout := s.env.Stdout
			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, []string{
					strconv.Itoa(summary.Index),
					styleKind(stdout, summary.Kind),
					strconv.FormatInt(int64(summary.UniqueID), 10),
					strconv.Itoa(summary.GameStage),
					summary.Balance,
				})
			}
			if err := writeTable(stdout, []string{"SLOT", "KIND", "UNIQUE ID", "LEVEL", "BALANCE"}, rows); err != nil {
				return err
			}

			stats := b.Stats()
			fmt.Fprintf(stdout, "%d slots: %d items, %d weapons\n", stats.Slots, stats.Items, stats.Weapons)
			if len(stats.DuplicateIDs) > 0 {
				r.logger.Warn("bank holds duplicate unique ids", "ids", stats.DuplicateIDs)
			}
			return nil
		},
	}
}

func summarize(index int, slot record.Record, full bool) (slotSummary, error) {
	stats, err := record.StatsOf(slot)
	if err != nil {
		return slotSummary{}, err
	}
	summary := slotSummary{
		Index:                  index,
		Kind:                   slot.Kind().String(),
		UniqueID:               slot.UniqueID(),
		Balance:                record.Balance(slot),
		ManufacturerGradeIndex: stats.ManufacturerGradeIndex,
		GameStage:              stats.GameStage,
	}
	if full {
		encoded, err := record.MarshalJSON(slot)
		if err != nil {
			return slotSummary{}, err
		}
		summary.Record = encoded
	}
	return summary, nil
}

type bankNewParams struct {
	Kind string `flag:"kind,k" default:"item" desc:"record kind: item or weapon"`
}

func bankNewCommand(s *session) *cli.Command {
	var params bankNewParams

	return &cli.Command{
		Name:    "new",
		Summary: "Append an empty item or weapon",
		Usage:   "bl2bank bank new <save> [--kind item|weapon]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("new", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 1, "bl2bank bank new <save> [--kind item|weapon]"); err != nil {
				return err
			}
			kind, err := record.ParseKind(params.Kind)
			if err != nil {
				return err
			}
			r, err := s.start("bank/new")
			if err != nil {
				return err
			}

			var created record.Record
			var index int
			ctx, cancel := s.lockContext()
			defer cancel()
			err = r.updateBank(ctx, r.config.ResolveSave(args[0]), func(b *bank.Bank) error {
				var newErr error
				index, newErr = b.NewRecord(kind)
				if newErr != nil {
					return newErr
				}
				created, newErr = b.At(index)
				return newErr
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(s.env.Stdout, "Created %s in slot %d (unique id %d)\n", kind, index, created.UniqueID())
			return nil
		},
	}
}

func bankDuplicateCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "duplicate",
		Summary: "Append a copy of a slot under a new unique id",
		Usage:   "bl2bank bank duplicate <save> <index>",
		Run: func(args []string) error {
			if err := requireArgs(args, 2, 2, "bl2bank bank duplicate <save> <index>"); err != nil {
				return err
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			r, err := s.start("bank/duplicate")
			if err != nil {
				return err
			}

			var duplicate int
			ctx, cancel := s.lockContext()
			defer cancel()
			err = r.updateBank(ctx, r.config.ResolveSave(args[0]), func(b *bank.Bank) error {
				var duplicateErr error
				duplicate, duplicateErr = b.Duplicate(index)
				return duplicateErr
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(s.env.Stdout, "Duplicated slot %d to slot %d\n", index, duplicate)
			return nil
		},
	}
}

func bankDeleteCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Summary: "Remove a slot",
		Usage:   "bl2bank bank delete <save> <index>",
		Run: func(args []string) error {
			if err := requireArgs(args, 2, 2, "bl2bank bank delete <save> <index>"); err != nil {
				return err
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			r, err := s.start("bank/delete")
			if err != nil {
				return err
			}

			ctx, cancel := s.lockContext()
			defer cancel()
			err = r.updateBank(ctx, r.config.ResolveSave(args[0]), func(b *bank.Bank) error {
				return b.Delete(index)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(s.env.Stdout, "Deleted slot %d\n", index)
			return nil
		},
	}
}

func bankMoveCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "move",
		Summary: "Move a slot to another position",
		Usage:   "bl2bank bank move <save> <from> <to>",
		Run: func(args []string) error {
			if err := requireArgs(args, 3, 3, "bl2bank bank move <save> <from> <to>"); err != nil {
				return err
			}
			from, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			to, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			r, err := s.start("bank/move")
			if err != nil {
				return err
			}

			ctx, cancel := s.lockContext()
			defer cancel()
			err = r.updateBank(ctx, r.config.ResolveSave(args[0]), func(b *bank.Bank) error {
				return b.Move(from, to)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(s.env.Stdout, "Moved slot %d to slot %d\n", from, to)
			return nil
		},
	}
}

type bankCopyParams struct {
	All bool `flag:"all,a" desc:"print a code for every slot, one per line"`
}

func bankCopyCommand(s *session) *cli.Command {
	var params bankCopyParams

	return &cli.Command{
		Name:    "copy",
		Summary: "Print the BL2(...) code of a slot",
		Description: `Print the BL2(...) code of one slot, or of every slot with --all.

Each code carries a newly drawn unique id, so pasting it back creates a
separate record. The save is not modified.`,
		Usage: "bl2bank bank copy <save> (<index> | --all)",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("copy", &params)
		},
		Run: func(args []string) error {
			usage := "bl2bank bank copy <save> (<index> | --all)"
			if params.All {
				if err := requireArgs(args, 1, 1, usage); err != nil {
					return err
				}
			} else if err := requireArgs(args, 2, 2, usage); err != nil {
				return err
			}
			r, err := s.start("bank/copy")
			if err != nil {
				return err
			}
			b, _, err := r.viewBank(r.config.ResolveSave(args[0]))
			if err != nil {
				return err
			}

			var text string
			if params.All {
				text, err = b.CopyAll()
			} else {
				index, parseErr := parseIndex(args[1])
				if parseErr != nil {
					return parseErr
				}
				if err := b.Select(index); err != nil {
					return err
				}
				text, err = b.CopySelected()
			}
			if err != nil {
				return err
			}
			if text != "" {
				fmt.Fprintln(s.env.Stdout, text)
			}
			return nil
		},
	}
}

type bankPasteParams struct {
	DryRun bool `flag:"dry-run,n" desc:"decode and report without writing the save"`
}

func bankPasteCommand(s *session) *cli.Command {
	var params bankPasteParams

	return &cli.Command{
		Name:    "paste",
		Summary: "Append every BL2(...) code found in text",
		Description: `Scan text for BL2(...) codes and append each one to the bank.

Text is read from [file], or from stdin when it is omitted or "-".
Whitespace is ignored, so codes wrapped across lines or pasted from a
forum post are still found. Each pasted record gets a new unique id.

Codes that do not decode are skipped and reported. The save is still
written with every code that did decode, and the command then exits
with status 2.`,
		Usage: "bl2bank bank paste <save> [file] [--dry-run]",
		Examples: []cli.Example{
			{
				Description: "Paste codes copied from another player",
				Command:     "bl2bank bank paste main.sav codes.txt",
			},
			{
				Description: "Move a slot between saves",
				Command:     "bl2bank bank copy old.sav 3 | bl2bank bank paste new.sav",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("paste", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 2, "bl2bank bank paste <save> [file]"); err != nil {
				return err
			}
			text, err := s.readText(optionalArg(args, 1))
			if err != nil {
				return err
			}
			r, err := s.start("bank/paste")
			if err != nil {
				return err
			}
			path := r.config.ResolveSave(args[0])

			var result bank.PasteResult
			switch {
			case itemcode.Count(text) == 0:
				// Nothing to add; the save is left untouched.
			case params.DryRun:
				b, _, err := r.viewBank(path)
				if err != nil {
					return err
				}
				result = b.Paste(text)
			default:
				ctx, cancel := s.lockContext()
				defer cancel()
				err = r.updateBank(ctx, path, func(b *bank.Bank) error {
					result = b.Paste(text)
					return nil
				})
				if err != nil {
					return err
				}
			}

			for _, failure := range result.Failures {
				fmt.Fprintf(s.env.Stderr, "skipped code at offset %d: %v\n", failure.Offset, failure.Err)
			}
			fmt.Fprintf(s.env.Stdout, "added %d, failed %d\n", result.Added, result.Errors)
			if result.Errors > 0 {
				return &cli.ExitError{Code: 2}
			}
			return nil
		},
	}
}

// searchResult is one row of "bank find".
type searchResult struct {
	Index     int    `json:"index"`
	Kind      string `json:"kind"`
	UniqueID  int32  `json:"unique_id"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Score     int    `json:"score"`
	Positions []int  `json:"positions"`
}

type bankFindParams struct {
	cli.JSONOutput
}

func bankFindCommand(s *session) *cli.Command {
	var params bankFindParams

	return &cli.Command{
		Name:    "find",
		Summary: "Fuzzy search slot attributes",
		Description: `Fuzzy search the attributes of every slot (balance, parts, prefix,
title, ...) with fzf's matching algorithm. Each slot is listed once,
under its best-matching attribute, best matches first.

Matching ignores case unless the pattern contains an upper-case letter.
Exits with status 1 when nothing matches.`,
		Usage: "bl2bank bank find <save> <pattern>...",
		Examples: []cli.Example{
			{
				Description: "Find every Jakobs pistol",
				Command:     "bl2bank bank find main.sav jakobs pistol",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("find", &params)
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: bl2bank bank find <save> <pattern>...")
			}
			r, err := s.start("bank/find")
			if err != nil {
				return err
			}
			b, _, err := r.viewBank(r.config.ResolveSave(args[0]))
			if err != nil {
				return err
			}

			hits := b.Search(strings.Join(args[1:], " "))
			results := make([]searchResult, 0, len(hits))
			for _, hit := range hits {
				slot, err := b.At(hit.Index)
				if err != nil {
					return err
				}
				results = append(results, searchResult{
					Index:     hit.Index,
					Kind:      slot.Kind().String(),
					UniqueID:  slot.UniqueID(),
					Attribute: hit.Part.Name,
					Value:     hit.Part.Value,
					Score:     hit.Score,
					Positions: hit.Positions,
				})
			}

			if done, err := params.EmitJSON(s.env.Stdout, results); done || err != nil {
				if err == nil && len(results) == 0 {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(s.env.Stderr, "no matching slots")
				return &cli.ExitError{Code: 1}
			}

			stdout := s.env.Stdout
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{
					strconv.Itoa(result.Index),
					styleKind(stdout, result.Kind),
					result.Attribute,
					highlightMatch(stdout, result.Value, result.Positions),
					strconv.Itoa(result.Score),
				})
			}
			return writeTable(stdout, []string{"SLOT", "KIND", "ATTRIBUTE", "VALUE", "SCORE"}, rows)
		},
	}
}

// verifyReport is the result of "bank verify".
type verifyReport struct {
	Slots    int             `json:"slots"`
	Failures []verifyFailure `json:"failures"`
	Stats    *bank.Stats     `json:"stats,omitempty"`
}

type verifyFailure struct {
	Slot  int    `json:"slot"`
	Error string `json:"error"`
}

type bankVerifyParams struct {
	cli.JSONOutput
}

func bankVerifyCommand(s *session) *cli.Command {
	var params bankVerifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Check that every slot round-trips byte for byte",
		Description: `Decode every slot and encode it again, reporting each slot whose
bytes would change. A save that passes can be edited by every other
bank command. Exits with status 1 when any slot fails.`,
		Usage: "bl2bank bank verify <save> [--json]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("verify", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, 1, "bl2bank bank verify <save>"); err != nil {
				return err
			}
			r, err := s.start("bank/verify")
			if err != nil {
				return err
			}
			save, err := r.readSave(r.config.ResolveSave(args[0]))
			if err != nil {
				return err
			}

			slots := save.game.BankSlots()
			report := verifyReport{Slots: len(slots), Failures: []verifyFailure{}}
			for index, slot := range slots {
				if _, err := serial.RoundTrip(slot); err != nil {
					report.Failures = append(report.Failures, verifyFailure{Slot: index, Error: err.Error()})
				}
			}
			if len(report.Failures) == 0 {
				b, err := r.loadBank(save)
				if err != nil {
					return err
				}
				stats := b.Stats()
				report.Stats = &stats
			}

			if done, err := params.EmitJSON(s.env.Stdout, report); done {
				if err != nil {
					return err
				}
			} else {
				for _, failure := range report.Failures {
					fmt.Fprintf(s.env.Stdout, "slot %d: %s\n", failure.Slot, failure.Error)
				}
				fmt.Fprintf(s.env.Stdout, "%d slots, %d failed\n", report.Slots, len(report.Failures))
				if report.Stats != nil && len(report.Stats.DuplicateIDs) > 0 {
					fmt.Fprintf(s.env.Stdout, "duplicate unique ids: %v\n", report.Stats.DuplicateIDs)
				}
			}
			if len(report.Failures) > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
