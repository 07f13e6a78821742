// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package record defines the in-memory form of a bank slot: an item or
// a weapon.
//
// [Record] is a closed sum type. Its marker method is unexported, so
// [*Item] and [*Weapon] are the only implementations that can exist.
// Code that needs to branch on the variant uses one of three helpers
// rather than ad-hoc type switches:
//
//   - [Classify] returns the [Kind] of a record.
//   - [Match] calls one of two functions and returns its result.
//   - [Visit] dispatches to a [Visitor], whose interface grows a method
//     whenever a variant is added, so every visitor in the tree stops
//     compiling until it handles the new case.
//
// All three fail with [ErrUnsupportedVariant] for a nil interface or a
// nil variant pointer. That error is an invariant violation, not a user
// error: callers propagate it and abort the operation in progress
// rather than skipping the slot.
//
// Records carry two identifiers. UniqueID is a signed 32-bit value that
// disambiguates slots within a bank; it is not guaranteed unique (see
// lib/uid). AssetLibrarySetID selects the asset library the part names
// resolve against. Everything else is an opaque attribute owned by the
// serial format: type and balance definitions, the manufacturer, grade
// and game stage, and the ordered part list returned by [Parts].
//
// Both variants are comparable structs, so field-wise equality is a
// plain == on the dereferenced values. [EqualIgnoringID] compares
// modulo UniqueID, which is what transport and duplication preserve.
package record
