// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bank

import (
	"slices"

	"github.com/bureau-foundation/bl2bank/lib/record"
)

// Stats summarizes a bank's contents.
type Stats struct {
	Slots   int `json:"slots"`
	Items   int `json:"items"`
	Weapons int `json:"weapons"`

	// DuplicateIDs lists, in ascending order, every UniqueID held by
	// more than one slot. The game tolerates duplicates and nothing in
	// this module prevents them; this is for display only.
	DuplicateIDs []int32 `json:"duplicate_ids"`
}

// Stats counts the slots per kind and reports shared UniqueIDs.
func (b *Bank) Stats() Stats {
	stats := Stats{Slots: len(b.records)}
	seen := make(map[int32]int, len(b.records))
	for _, slot := range b.records {
		switch slot.Kind() {
		case record.KindItem:
			stats.Items++
		case record.KindWeapon:
			stats.Weapons++
		}
		seen[slot.UniqueID()]++
	}
	for id, count := range seen {
		if count > 1 {
			stats.DuplicateIDs = append(stats.DuplicateIDs, id)
		}
	}
	slices.Sort(stats.DuplicateIDs)
	return stats
}
