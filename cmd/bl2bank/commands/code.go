// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/codec"
	"github.com/bureau-foundation/bl2bank/lib/itemcode"
	"github.com/bureau-foundation/bl2bank/lib/record"
	"github.com/bureau-foundation/bl2bank/lib/serial"
)

func codeCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "code",
		Summary: "Convert between BL2(...) codes and JSON records",
		Description: `Convert between BL2(...) codes and JSON records without touching a save.

All subcommands read from [file], or from stdin when it is omitted or
"-". Codes may be surrounded by arbitrary text and broken across lines.`,
		Subcommands: []*cli.Command{
			codeDecodeCommand(s),
			codeEncodeCommand(s),
			codeInspectCommand(s),
		},
	}
}

func codeDecodeCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:    "decode",
		Summary: "Decode codes to a JSON array of records",
		Description: `Decode every BL2(...) code in the input and print the records as a
JSON array. Unique ids are shown as stored in each code. Codes that do
not decode are reported on stderr and the command exits with status 2.`,
		Usage: "bl2bank code decode [file]",
		Run: func(args []string) error {
			if err := requireArgs(args, 0, 1, "bl2bank code decode [file]"); err != nil {
				return err
			}
			text, err := s.readText(optionalArg(args, 0))
			if err != nil {
				return err
			}
			r, err := s.start("code/decode")
			if err != nil {
				return err
			}

			decoded := make([]json.RawMessage, 0)
			failed := 0
			for index, code := range itemcode.Find(text) {
				encoded, err := decodeCode(code)
				if err != nil {
					failed++
					r.logger.Debug("code rejected", "code", index, "error", err)
					fmt.Fprintf(s.env.Stderr, "code %d: %v\n", index, err)
					continue
				}
				decoded = append(decoded, encoded)
			}

			if err := cli.WriteJSON(s.env.Stdout, decoded); err != nil {
				return err
			}
			if failed > 0 {
				return &cli.ExitError{Code: 2}
			}
			return nil
		},
	}
}

// decodeCode returns the JSON form of the record in code, keeping its
// stored UniqueID.
func decodeCode(code string) (json.RawMessage, error) {
	data, err := itemcode.Unwrap(code)
	if err != nil {
		return nil, err
	}
	slot, err := serial.Decode(data)
	if err != nil {
		return nil, err
	}
	return record.MarshalJSON(slot)
}

type codeEncodeParams struct {
	FreshIDs bool `flag:"fresh-ids" desc:"replace each record's unique id with a newly drawn one"`
}

func codeEncodeCommand(s *session) *cli.Command {
	var params codeEncodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Encode JSON records as codes",
		Description: `Encode a JSON record, or a JSON array of records, as BL2(...) codes,
one per line. The input is the format "code decode" produces, the
same as the "record" field of "bank list --json --full". Comments and
trailing commas are allowed.`,
		Usage: "bl2bank code encode [file] [--fresh-ids]",
		Examples: []cli.Example{
			{
				Description: "Edit a record by hand and paste it back",
				Command:     "bl2bank code decode code.txt > gun.jsonc && $EDITOR gun.jsonc && bl2bank code encode gun.jsonc | bl2bank bank paste main.sav",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 0, 1, "bl2bank code encode [file]"); err != nil {
				return err
			}
			text, err := s.readText(optionalArg(args, 0))
			if err != nil {
				return err
			}
			r, err := s.start("code/encode")
			if err != nil {
				return err
			}

			documents, err := splitRecords(jsonc.ToJSON([]byte(text)))
			if err != nil {
				return err
			}
			for index, document := range documents {
				slot, err := record.UnmarshalJSON(document)
				if err != nil {
					return fmt.Errorf("record %d: %w", index, err)
				}
				var code string
				if params.FreshIDs {
					code, err = itemcode.Pack(slot, r.ids)
				} else {
					var data []byte
					data, err = serial.Encode(slot)
					code = itemcode.Wrap(data)
				}
				if err != nil {
					return fmt.Errorf("record %d: %w", index, err)
				}
				fmt.Fprintln(s.env.Stdout, code)
			}
			return nil
		},
	}
}

// splitRecords returns the elements of a JSON array, or the document
// itself when it is a single object.
func splitRecords(document []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(document)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no records in input")
	}
	if trimmed[0] != '[' {
		return []json.RawMessage{trimmed}, nil
	}
	var documents []json.RawMessage
	if err := json.Unmarshal(trimmed, &documents); err != nil {
		return nil, fmt.Errorf("parsing record array: %w", err)
	}
	return documents, nil
}

// codeInspection describes one code for "code inspect".
type codeInspection struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind,omitempty"`
	Version    uint8  `json:"version"`
	UniqueID   int32  `json:"unique_id"`
	Size       int    `json:"size"`
	Diagnostic string `json:"diagnostic,omitempty"`
	Canonical  bool   `json:"canonical"`
	Error      string `json:"error,omitempty"`
}

type codeInspectParams struct {
	cli.JSONOutput
}

func codeInspectCommand(s *session) *cli.Command {
	var params codeInspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show the header and CBOR body of each code",
		Description: `Show the unscrambled header and the CBOR body, in diagnostic
notation, of every BL2(...) code in the input. Each code is also put
through the round-trip check the bank applies on load; a code that
fails it is shown with the reason.`,
		Usage: "bl2bank code inspect [file] [--json]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 0, 1, "bl2bank code inspect [file]"); err != nil {
				return err
			}
			text, err := s.readText(optionalArg(args, 0))
			if err != nil {
				return err
			}
			if _, err := s.start("code/inspect"); err != nil {
				return err
			}

			var inspections []codeInspection
			for index, code := range itemcode.Find(text) {
				inspections = append(inspections, inspect(index, code))
			}

			if done, err := params.EmitJSON(s.env.Stdout, inspections); done {
				return err
			}
			for _, inspection := range inspections {
				fmt.Fprintf(s.env.Stdout, "code %d: %s, version %d, unique id %d, %d bytes\n",
					inspection.Index, inspection.Kind, inspection.Version, inspection.UniqueID, inspection.Size)
				if inspection.Diagnostic != "" {
					fmt.Fprintf(s.env.Stdout, "  body: %s\n", inspection.Diagnostic)
					fmt.Fprintf(s.env.Stdout, "  canonical: %t\n", inspection.Canonical)
				}
				if inspection.Error != "" {
					fmt.Fprintf(s.env.Stdout, "  error: %s\n", inspection.Error)
				} else {
					fmt.Fprintf(s.env.Stdout, "  round trip: ok\n")
				}
			}
			return nil
		},
	}
}

func inspect(index int, code string) codeInspection {
	inspection := codeInspection{Index: index}
	data, err := itemcode.Unwrap(code)
	if err != nil {
		inspection.Error = err.Error()
		return inspection
	}
	inspection.Size = len(data)

	header, body, err := serial.Body(data)
	inspection.Version = header.Version
	inspection.UniqueID = header.UniqueID
	if header.Kind != 0 {
		inspection.Kind = header.Kind.String()
	}
	if err != nil {
		inspection.Error = err.Error()
		return inspection
	}

	if diagnostic, err := codec.Diagnose(body); err == nil {
		inspection.Diagnostic = diagnostic
	}
	if canonical, err := codec.IsCanonical(body); err == nil {
		inspection.Canonical = canonical
	}
	if _, err := serial.RoundTrip(data); err != nil {
		inspection.Error = err.Error()
	}
	return inspection
}
