// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides bl2bank's standard CBOR encoding configuration.
//
// Two binary formats in this module carry CBOR:
//
//   - Record serials (lib/serial): the body of every item and weapon
//     serial is a CBOR array following the fixed header.
//   - Save containers (lib/savefile): the container payload is a CBOR
//     map holding the ordered bank slots and any unrelated game state.
//
// Both rely on the same property: the encoder uses Core Deterministic
// Encoding (RFC 8949 §4.2), so the same logical value always produces
// identical bytes. The decoder is deliberately more permissive than the
// encoder. It accepts non-minimal integer heads and indefinite-length
// items, which means a buffer can decode successfully and still fail to
// reproduce itself on re-encode. The bank's round-trip gate depends on
// exactly that asymmetry to detect serials this module did not write.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// [IsCanonical] reports whether a buffer already is the deterministic
// encoding of its own contents, and [Diagnose] renders RFC 8949
// diagnostic notation for inspection tools.
//
// # Struct Tag Rules
//
// Types serialized only as CBOR use `cbor` tags, with `toarray` for
// positional layouts (serial bodies) and `keyasint` for compact maps
// (container payloads). Types that also appear in CLI --json output use
// `json` tags; fxamacker/cbor falls back to them when `cbor` tags are
// absent. Never put both tags on one field.
package codec
