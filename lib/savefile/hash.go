// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package savefile

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash is the BLAKE3 digest stored in a container header.
type Hash [32]byte

// String returns the lower-case hex form.
func (hash Hash) String() string { return hex.EncodeToString(hash[:]) }

// payloadDomainKey keys the payload hash so that container digests
// never collide with BLAKE3 digests of the same bytes computed for
// another purpose. ASCII, zero-padded.
var payloadDomainKey = [32]byte{
	'b', 'l', '2', 'b', 'a', 'n', 'k', '.', 's', 'a', 'v', 'e', 'f', 'i', 'l', 'e',
	'.', 'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashPayload returns the keyed hash of an uncompressed payload.
func HashPayload(payload []byte) Hash {
	hasher, err := blake3.NewKeyed(payloadDomainKey[:])
	if err != nil {
		// NewKeyed fails only for keys that are not 32 bytes.
		panic("savefile: " + err.Error())
	}
	hasher.Write(payload)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
