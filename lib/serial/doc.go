// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package serial is the binary codec for bank slot records.
//
// A serial is a fixed five-byte header followed by a scrambled payload.
// All multi-byte integers are big-endian:
//
//	offset 0      header: bit 7 set for weapons, bits 0-6 the format version
//	offset 1..4   UniqueID (int32), also the scramble seed
//	offset 5..    scrambled payload
//
// The unscrambled payload starts with a 16-bit checksum: CRC-32 (IEEE)
// over the whole serial with the two checksum bytes set to 0xFFFF,
// folded as crc ^ crc>>16. The rest of the payload is the record body,
// a CBOR array in Core Deterministic Encoding holding the asset library
// set, the type definition, balance, manufacturer, grade, game stage
// and the variant's part slots, in the field order of [record.Item] and
// [record.Weapon].
//
// [Encode] and [Decode] are inverses for every serial Encode produces.
// The reverse does not hold for foreign buffers: the body decoder
// accepts non-minimal CBOR heads and indefinite-length arrays, which
// decode to a record that re-encodes to different bytes. [RoundTrip]
// detects exactly that case, and the bank loader uses it to refuse
// containers it could not write back unchanged.
//
// Every decode failure is a [*FormatError] and matches [ErrFormat]
// with errors.Is.
package serial
