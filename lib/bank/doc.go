// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bank holds the ordered collection of records stored in a
// save container's bank and the operations the bank view offers on it:
// create, duplicate, delete, reorder, copy and paste.
//
// # Loading
//
// [Bank.Load] is all-or-nothing. Every slot must decode and re-encode
// to exactly its original bytes (see serial.RoundTrip); the first slot
// that does not aborts the load with a [*LoadError] and leaves the bank
// as it was. A container the bank accepts is therefore one it can write
// back without silently rewriting slots it never touched.
//
// # Selection
//
// A Bank tracks at most one selected slot. Creating or duplicating a
// slot selects it, pasting selects the first pasted record, and
// deleting selects the first remaining slot. Loading clears the
// selection.
//
// A Bank is not safe for concurrent use.
package bank
