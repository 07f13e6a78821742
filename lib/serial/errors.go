// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package serial

import (
	"errors"
	"fmt"
)

// ErrFormat matches every [*FormatError].
var ErrFormat = errors.New("malformed serial")

// FormatError describes why a buffer is not a serial this package can
// read.
type FormatError struct {
	// Offset is the byte offset in the serial the problem was found
	// at, or -1 when the problem is not tied to a position (checksum,
	// re-encode mismatch).
	Offset int

	// Reason is a short lower-case description.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *FormatError) Error() string {
	message := "malformed serial: " + e.Reason
	if e.Offset >= 0 {
		message = fmt.Sprintf("%s at offset %d", message, e.Offset)
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func formatError(offset int, reason string, cause error) *FormatError {
	return &FormatError{Offset: offset, Reason: reason, Err: cause}
}
