// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemcode

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bureau-foundation/bl2bank/lib/record"
	"github.com/bureau-foundation/bl2bank/lib/serial"
	"github.com/bureau-foundation/bl2bank/lib/uid"
)

// Tag is the code prefix.
const Tag = "BL2"

// codePattern matches a tag followed by a parenthesized, well-formed
// standard Base64 string. It runs on whitespace-stripped text.
var codePattern = regexp.MustCompile(`BL2\((?<data>(?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=)?)\)`)

var dataGroup = codePattern.SubexpIndex("data")

// Wrap frames serial bytes as a code.
func Wrap(data []byte) string {
	return Tag + "(" + base64.StdEncoding.EncodeToString(data) + ")"
}

// Unwrap returns the serial bytes of a single code. Surrounding and
// embedded whitespace is ignored; anything else around the code is an
// error.
func Unwrap(code string) ([]byte, error) {
	stripped := stripSpace(code)
	location := codePattern.FindStringSubmatchIndex(stripped)
	if location == nil || location[0] != 0 || location[1] != len(stripped) {
		return nil, fmt.Errorf("not a %s(...) code", Tag)
	}
	data, err := base64.StdEncoding.DecodeString(stripped[location[2*dataGroup]:location[2*dataGroup+1]])
	if err != nil {
		return nil, fmt.Errorf("decoding code payload: %w", err)
	}
	return data, nil
}

// Pack encodes a copy of r under a fresh UniqueID from ids and wraps
// it. r itself is not modified.
func Pack(r record.Record, ids uid.Generator) (string, error) {
	if _, err := record.Classify(r); err != nil {
		return "", fmt.Errorf("packing record: %w", err)
	}
	outgoing := r.Clone()
	outgoing.SetUniqueID(ids.Next())
	data, err := serial.Encode(outgoing)
	if err != nil {
		return "", fmt.Errorf("packing record: %w", err)
	}
	return Wrap(data), nil
}

// Failure describes one code [Scan] found but could not use.
type Failure struct {
	// Offset is the position of the code in the text after whitespace
	// removal.
	Offset int

	// Code is the matched text.
	Code string

	// Err is the Base64 or serial decoding error.
	Err error
}

// Result is the outcome of [Scan].
type Result struct {
	// Records holds the decoded records in text order, each with a
	// fresh UniqueID.
	Records []record.Record

	// Errors counts the codes that matched but did not decode.
	Errors int

	// Failures holds one entry per counted error.
	Failures []Failure
}

// Scan extracts every code from text. All whitespace is removed first,
// so codes broken across lines or indented still match. Matches do not
// overlap and are processed left to right; a code that fails to decode
// is counted and skipped. Scan never fails as a whole.
func Scan(text string, ids uid.Generator) Result {
	stripped := stripSpace(text)
	var result Result
	for _, location := range codePattern.FindAllStringSubmatchIndex(stripped, -1) {
		payload := stripped[location[2*dataGroup]:location[2*dataGroup+1]]
		decoded, err := unpack(payload)
		if err != nil {
			result.Errors++
			result.Failures = append(result.Failures, Failure{
				Offset: location[0],
				Code:   stripped[location[0]:location[1]],
				Err:    err,
			})
			continue
		}
		decoded.SetUniqueID(ids.Next())
		result.Records = append(result.Records, decoded)
	}
	return result
}

func unpack(payload string) (record.Record, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding code payload: %w", err)
	}
	return serial.Decode(data)
}

// Count returns the number of codes in text without decoding them.
func Count(text string) int {
	return len(codePattern.FindAllStringIndex(stripSpace(text), -1))
}

// Find returns every code in text, in order, with whitespace removed.
// Each result is accepted by [Unwrap]. Find does not decode the
// payloads, so the UniqueIDs inside them are left as they are.
func Find(text string) []string {
	return codePattern.FindAllString(stripSpace(text), -1)
}

func stripSpace(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}
