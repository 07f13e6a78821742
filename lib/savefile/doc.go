// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package savefile reads and writes bank save containers.
//
// A container is a fixed 48-byte header followed by the payload. All
// integers are little-endian:
//
//	0..7    magic "BL2BANK" followed by the format version (1)
//	8       compression (see [Compression])
//	9..11   reserved, zero
//	12..15  uncompressed payload size
//	16..47  BLAKE3 keyed hash of the uncompressed payload
//	48..    payload, compressed as the header says
//
// The payload is a CBOR-encoded [SaveGame]. Slots are opaque serials;
// this package never decodes them. The bank package owns that, and
// hands back a replacement slot list through [SaveGame.SetBankSlots].
//
// [WriteFile] replaces a container atomically and [Lock] serializes
// read-modify-write cycles between processes. Containers may also be
// sealed with age; see the sealed package.
package savefile
