// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bank

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/bl2bank/lib/itemcode"
	"github.com/bureau-foundation/bl2bank/lib/record"
	"github.com/bureau-foundation/bl2bank/lib/serial"
	"github.com/bureau-foundation/bl2bank/lib/uid"
)

// Options configures a [Bank].
type Options struct {
	// IDs supplies UniqueIDs for created, duplicated, copied and
	// pasted records. If nil, [uid.Random] is used.
	IDs uid.Generator

	// Logger receives load, save and paste summaries. If nil, a no-op
	// logger is used.
	Logger *slog.Logger
}

// Bank is an ordered list of records plus an optional selection.
type Bank struct {
	records  []record.Record
	selected int
	ids      uid.Generator
	logger   *slog.Logger
	slab     *util.Slab
}

const noSelection = -1

// New returns an empty bank with nothing selected.
func New(options Options) *Bank {
	ids := options.IDs
	if ids == nil {
		ids = uid.Random()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bank{
		selected: noSelection,
		ids:      ids,
		logger:   logger,
	}
}

// Load replaces the bank's contents with the records in slots. Each
// slot must pass serial.RoundTrip. On failure the bank is unchanged and
// the error is a [*LoadError] naming the first bad slot.
func (b *Bank) Load(slots [][]byte) error {
	loaded := make([]record.Record, 0, len(slots))
	for index, slot := range slots {
		decoded, err := serial.RoundTrip(slot)
		if err != nil {
			b.logger.Warn("bank load rejected",
				"slot", index,
				"slots", len(slots),
				"error", err,
			)
			return &LoadError{Slot: index, Err: err}
		}
		loaded = append(loaded, decoded)
	}

	b.records = loaded
	b.selected = noSelection
	b.logger.Debug("bank loaded", "slots", len(loaded))
	return nil
}

// Save encodes every record in order. The result is meant to replace
// the container's slot list wholesale.
func (b *Bank) Save() ([][]byte, error) {
	slots := make([][]byte, 0, len(b.records))
	for index, slot := range b.records {
		encoded, err := serial.Encode(slot)
		if err != nil {
			return nil, fmt.Errorf("saving bank slot %d: %w", index, err)
		}
		slots = append(slots, encoded)
	}
	b.logger.Debug("bank saved", "slots", len(slots))
	return slots, nil
}

// NewItem appends an empty item with a fresh UniqueID, selects it and
// returns its index.
func (b *Bank) NewItem() int {
	index, _ := b.NewRecord(record.KindItem)
	return index
}

// NewWeapon appends an empty weapon with a fresh UniqueID, selects it
// and returns its index.
func (b *Bank) NewWeapon() int {
	index, _ := b.NewRecord(record.KindWeapon)
	return index
}

// NewRecord appends an empty record of the given kind. See [Bank.NewItem].
func (b *Bank) NewRecord(kind record.Kind) (int, error) {
	fresh, err := record.New(kind, b.ids.Next())
	if err != nil {
		return 0, err
	}
	return b.appendAndSelect(fresh), nil
}

// Duplicate appends a copy of the slot at index under a fresh UniqueID
// and selects it.
func (b *Bank) Duplicate(index int) (int, error) {
	source, err := b.At(index)
	if err != nil {
		return 0, fmt.Errorf("duplicating slot: %w", err)
	}
	if _, err := record.Classify(source); err != nil {
		return 0, fmt.Errorf("duplicating slot %d: %w", index, err)
	}
	duplicate := source.Clone()
	duplicate.SetUniqueID(b.ids.Next())
	return b.appendAndSelect(duplicate), nil
}

// Delete removes the slot at index. The first remaining slot becomes
// selected, or nothing if the bank is now empty.
func (b *Bank) Delete(index int) error {
	if err := b.checkIndex(index); err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	b.records = slices.Delete(b.records, index, index+1)
	if len(b.records) > 0 {
		b.selected = 0
	} else {
		b.selected = noSelection
	}
	return nil
}

// Insert places r at index, shifting later slots back. index may equal
// [Bank.Len] to append. r is stored as given, including its UniqueID.
func (b *Bank) Insert(index int, r record.Record) error {
	if _, err := record.Classify(r); err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}
	if index < 0 || index > len(b.records) {
		return fmt.Errorf("inserting slot: %w", indexError(index, len(b.records)))
	}
	b.records = slices.Insert(b.records, index, r)
	if b.selected >= index {
		b.selected++
	}
	return nil
}

// Move relocates the slot at from so that it ends up at index to. The
// selection follows the slot it pointed at.
func (b *Bank) Move(from, to int) error {
	if err := b.checkIndex(from); err != nil {
		return fmt.Errorf("moving slot: %w", err)
	}
	if err := b.checkIndex(to); err != nil {
		return fmt.Errorf("moving slot: %w", err)
	}
	moving := b.records[from]
	b.records = slices.Delete(b.records, from, from+1)
	b.records = slices.Insert(b.records, to, moving)

	switch {
	case b.selected == noSelection:
	case b.selected == from:
		b.selected = to
	case from < b.selected && b.selected <= to:
		b.selected--
	case to <= b.selected && b.selected < from:
		b.selected++
	}
	return nil
}

// PasteResult reports what [Bank.Paste] did.
type PasteResult struct {
	// Added is the number of records appended.
	Added int

	// Errors is the number of codes found in the text that could not
	// be decoded.
	Errors int

	// Failures describes each of the Errors.
	Failures []itemcode.Failure
}

// Paste appends every record encoded in text, each under a fresh
// UniqueID, and selects the first one added. Codes that fail to decode
// are counted in the result; they never prevent the others from being
// added.
func (b *Bank) Paste(text string) PasteResult {
	scanned := itemcode.Scan(text, b.ids)
	result := PasteResult{Errors: scanned.Errors, Failures: scanned.Failures}

	first := len(b.records)
	for _, pasted := range scanned.Records {
		if _, err := record.Classify(pasted); err != nil {
			result.Errors++
			continue
		}
		b.records = append(b.records, pasted)
		result.Added++
	}
	if result.Added > 0 {
		b.selected = first
	}

	if result.Errors > 0 {
		b.logger.Warn("failed to load pasted codes",
			"errors", result.Errors,
			"added", result.Added,
		)
		for _, failure := range scanned.Failures {
			b.logger.Debug("pasted code rejected", "offset", failure.Offset, "error", failure.Err)
		}
	}
	return result
}

// Copy returns the code for the slot at index. The code carries a
// fresh UniqueID; the slot is not modified.
func (b *Bank) Copy(index int) (string, error) {
	slot, err := b.At(index)
	if err != nil {
		return "", fmt.Errorf("copying slot: %w", err)
	}
	return itemcode.Pack(slot, b.ids)
}

// CopySelected returns the code for the selected slot, or the empty
// string when nothing is selected.
func (b *Bank) CopySelected() (string, error) {
	if b.selected == noSelection {
		return "", nil
	}
	return b.Copy(b.selected)
}

// CopyAll returns the codes for every slot, one per line.
func (b *Bank) CopyAll() (string, error) {
	codes := make([]string, 0, len(b.records))
	for index := range b.records {
		code, err := b.Copy(index)
		if err != nil {
			return "", err
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, "\n"), nil
}

// Records returns the slots in order. The slice is a copy; the records
// are shared with the bank.
func (b *Bank) Records() []record.Record {
	return slices.Clone(b.records)
}

// Len returns the number of slots.
func (b *Bank) Len() int { return len(b.records) }

// At returns the record at index.
func (b *Bank) At(index int) (record.Record, error) {
	if err := b.checkIndex(index); err != nil {
		return nil, err
	}
	return b.records[index], nil
}

// Select marks the slot at index as selected.
func (b *Bank) Select(index int) error {
	if err := b.checkIndex(index); err != nil {
		return fmt.Errorf("selecting slot: %w", err)
	}
	b.selected = index
	return nil
}

// ClearSelection deselects the selected slot, if any.
func (b *Bank) ClearSelection() { b.selected = noSelection }

// Selected returns the selected index and true, or 0 and false when
// nothing is selected.
func (b *Bank) Selected() (int, bool) {
	if b.selected == noSelection {
		return 0, false
	}
	return b.selected, true
}

func (b *Bank) appendAndSelect(r record.Record) int {
	b.records = append(b.records, r)
	b.selected = len(b.records) - 1
	return b.selected
}

func (b *Bank) checkIndex(index int) error {
	if index < 0 || index >= len(b.records) {
		return indexError(index, len(b.records))
	}
	return nil
}
