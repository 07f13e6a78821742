// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package itemcode moves single records through plain text.
//
// A code is the serial bytes in standard padded Base64, wrapped in the
// tag: BL2(<base64>). [Pack] produces one code per record and [Scan]
// recovers every code embedded in arbitrary text, such as a forum post
// or a chat message that a client has reflowed.
//
// Codes never carry identity. Both directions replace the record's
// UniqueID with one from the caller's [uid.Generator], so pasting the
// same code twice yields two distinct slots.
package itemcode
