// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bank

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/bl2bank/lib/record"
)

// SearchHit is one slot matching a [Bank.Search] pattern.
type SearchHit struct {
	// Index is the slot position.
	Index int

	// Part is the attribute that scored highest for this slot.
	Part record.Part

	// Score is the fzf match score of Part. Higher is better.
	Score int

	// Positions holds the rune offsets in Part.Value that matched the
	// pattern, in ascending order.
	Positions []int
}

// Search fuzzy-matches pattern against every attribute of every slot
// using the fzf v2 algorithm. Each slot is scored by its best-matching
// attribute; slots with no match are omitted. Hits are ordered by score,
// highest first, and then by slot index. Matching is case-insensitive
// unless pattern contains an upper-case letter.
func (b *Bank) Search(pattern string) []SearchHit {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	caseSensitive := strings.IndexFunc(pattern, unicode.IsUpper) >= 0
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}
	runes := []rune(pattern)

	if b.slab == nil {
		b.slab = util.MakeSlab(16*1024, 2048)
	}

	var hits []SearchHit
	for index, slot := range b.records {
		best := SearchHit{Index: index, Score: -1}
		for _, part := range record.Parts(slot) {
			if part.Value == "" {
				continue
			}
			chars := util.ToChars([]byte(part.Value))
			result, positions := algo.FuzzyMatchV2(caseSensitive, false, true, &chars, runes, true, b.slab)
			if result.Start < 0 || result.Score <= best.Score {
				continue
			}
			best.Part = part
			best.Score = result.Score
			best.Positions = nil
			if positions != nil {
				best.Positions = slices.Clone(*positions)
				slices.Sort(best.Positions)
			}
		}
		if best.Score >= 0 {
			hits = append(hits, best)
		}
	}

	slices.SortStableFunc(hits, func(a, b SearchHit) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return hits
}
