// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidRecord is wrapped by every error [Validate] returns.
var ErrInvalidRecord = errors.New("invalid record")

// Validate checks the constraints the serial format cannot represent
// or that would not survive a text round trip: part names must be
// valid UTF-8 without control characters, and the grade and game
// stage must be non-negative. All violations are reported together.
func Validate(r Record) error {
	if _, err := Classify(r); err != nil {
		return err
	}

	var errs []error
	for _, part := range Parts(r) {
		if !utf8.ValidString(part.Value) {
			errs = append(errs, fmt.Errorf("%s is not valid UTF-8", part.Name))
			continue
		}
		for _, character := range part.Value {
			if unicode.IsControl(character) {
				errs = append(errs, fmt.Errorf("%s contains control character %U", part.Name, character))
				break
			}
		}
	}

	stats, err := StatsOf(r)
	if err != nil {
		return err
	}
	if stats.ManufacturerGradeIndex < 0 {
		errs = append(errs, fmt.Errorf("manufacturer grade index %d is negative", stats.ManufacturerGradeIndex))
	}
	if stats.GameStage < 0 {
		errs = append(errs, fmt.Errorf("game stage %d is negative", stats.GameStage))
	}
	if r.AssetLibrarySetID() < 0 {
		errs = append(errs, fmt.Errorf("asset library set %d is negative", r.AssetLibrarySetID()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, errors.Join(errs...))
	}
	return nil
}
