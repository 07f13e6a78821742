// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package serial

import "hash/crc32"

const (
	keystreamMultiplier = 0x10A860C1
	keystreamModulus    = 0xFFFFFFFB
)

// scramble XORs payload with the keystream derived from seed and then
// rotates it left. A zero seed leaves payload unchanged. Operates in
// place and returns payload.
func scramble(payload []byte, seed int32) []byte {
	if seed == 0 || len(payload) == 0 {
		return payload
	}
	applyKeystream(payload, seed)
	rotateLeft(payload, rotation(seed, len(payload)))
	return payload
}

// descramble inverts scramble in place.
func descramble(payload []byte, seed int32) []byte {
	if seed == 0 || len(payload) == 0 {
		return payload
	}
	rotateLeft(payload, len(payload)-rotation(seed, len(payload)))
	applyKeystream(payload, seed)
	return payload
}

func applyKeystream(payload []byte, seed int32) {
	key := uint64(uint32(seed) >> 5)
	for index := range payload {
		key = key * keystreamMultiplier % keystreamModulus
		payload[index] ^= byte(key)
	}
}

func rotation(seed int32, length int) int {
	return int(uint32(seed)%32) % length
}

func rotateLeft(payload []byte, count int) {
	if count == 0 || count == len(payload) {
		return
	}
	rotated := make([]byte, len(payload))
	copy(rotated, payload[count:])
	copy(rotated[len(payload)-count:], payload[:count])
	copy(payload, rotated)
}

// checksum computes the folded CRC over an unscrambled serial. The two
// checksum bytes are treated as 0xFFFF regardless of their contents.
func checksum(unscrambled []byte) uint16 {
	crc := crc32.NewIEEE()
	crc.Write(unscrambled[:checksumOffset])
	crc.Write([]byte{0xFF, 0xFF})
	crc.Write(unscrambled[checksumOffset+checksumSize:])
	sum := crc.Sum32()
	return uint16(sum ^ sum>>16)
}
