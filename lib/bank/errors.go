// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bank

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a slot index does not name a
// slot.
var ErrIndexOutOfRange = errors.New("slot index out of range")

// LoadError reports the slot that stopped [Bank.Load].
type LoadError struct {
	// Slot is the zero-based position of the rejected slot in the
	// container.
	Slot int

	// Err is the decode or round-trip failure. It matches
	// serial.ErrFormat.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading bank slot %d: %v", e.Slot, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func indexError(index, length int) error {
	return fmt.Errorf("%w: %d (bank has %d slots)", ErrIndexOutOfRange, index, length)
}
