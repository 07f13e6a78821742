// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package savefile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/bl2bank/lib/codec"
)

// ErrCorrupt is wrapped by every error [Unmarshal] returns for data
// that is not an intact container.
var ErrCorrupt = errors.New("corrupt save container")

const (
	formatVersion = 1

	// HeaderSize is the fixed container header length.
	HeaderSize = 48

	// maxPayloadSize bounds the uncompressed payload a header may
	// declare before any allocation happens.
	maxPayloadSize = 64 << 20
)

var magic = [8]byte{'B', 'L', '2', 'B', 'A', 'N', 'K', formatVersion}

// SaveGame is the container payload.
type SaveGame struct {
	// PlayerName labels the save in listings.
	PlayerName string `cbor:"1,keyasint,omitempty"`

	// SavedAt is when the container was last written.
	SavedAt time.Time `cbor:"2,keyasint"`

	// Writer names the tool and version that wrote the container.
	Writer string `cbor:"3,keyasint,omitempty"`

	// Slots holds the bank slot serials in order.
	Slots [][]byte `cbor:"4,keyasint"`

	// Extra is game state this module does not interpret. It is
	// carried through load and save byte for byte.
	Extra codec.RawMessage `cbor:"5,keyasint,omitempty"`
}

// BankSlots returns the slot serials in order.
func (game *SaveGame) BankSlots() [][]byte { return game.Slots }

// SetBankSlots replaces the whole slot list.
func (game *SaveGame) SetBankSlots(slots [][]byte) { game.Slots = slots }

// Options controls [Marshal].
type Options struct {
	// Compression selects the payload compression. A payload that
	// does not shrink is stored with CompressionNone instead.
	Compression Compression
}

// Header is the parsed fixed header of a container.
type Header struct {
	Version          uint8
	Compression      Compression
	UncompressedSize uint32
	StoredSize       int
	Hash             Hash
}

// Marshal encodes game as a container.
func Marshal(game *SaveGame, options Options) ([]byte, error) {
	if game.Slots == nil {
		// An empty bank is an empty array, not CBOR null.
		game = &SaveGame{
			PlayerName: game.PlayerName,
			SavedAt:    game.SavedAt,
			Writer:     game.Writer,
			Slots:      [][]byte{},
			Extra:      game.Extra,
		}
	}
	payload, err := codec.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("encoding save payload: %w", err)
	}
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("save payload is %d bytes, limit is %d", len(payload), maxPayloadSize)
	}

	compression := options.Compression
	stored, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compression, stored = CompressionNone, payload
	} else if err != nil {
		return nil, err
	}

	hash := HashPayload(payload)
	container := make([]byte, HeaderSize, HeaderSize+len(stored))
	copy(container[0:8], magic[:])
	container[8] = byte(compression)
	binary.LittleEndian.PutUint32(container[12:16], uint32(len(payload)))
	copy(container[16:48], hash[:])
	return append(container, stored...), nil
}

// ReadHeader parses and checks the fixed header without touching the
// payload.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d-byte header", ErrCorrupt, len(data), HeaderSize)
	}
	if !bytes.Equal(data[0:7], magic[0:7]) {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:7])
	}
	header := Header{
		Version:          data[7],
		Compression:      Compression(data[8]),
		UncompressedSize: binary.LittleEndian.Uint32(data[12:16]),
		StoredSize:       len(data) - HeaderSize,
	}
	copy(header.Hash[:], data[16:48])

	if header.Version != formatVersion {
		return header, fmt.Errorf("%w: unsupported format version %d", ErrCorrupt, header.Version)
	}
	if header.Compression > CompressionZstd {
		return header, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(header.Compression))
	}
	if data[9] != 0 || data[10] != 0 || data[11] != 0 {
		return header, fmt.Errorf("%w: reserved header bytes are not zero", ErrCorrupt)
	}
	if header.UncompressedSize > maxPayloadSize {
		return header, fmt.Errorf("%w: declared payload size %d exceeds limit %d", ErrCorrupt, header.UncompressedSize, maxPayloadSize)
	}
	return header, nil
}

// Unmarshal decodes a container, verifying its header and payload hash.
func Unmarshal(data []byte) (*SaveGame, error) {
	header, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	payload, err := decompress(data[HeaderSize:], header.Compression, int(header.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if HashPayload(payload) != header.Hash {
		return nil, fmt.Errorf("%w: payload hash mismatch", ErrCorrupt)
	}

	var game SaveGame
	if err := codec.Unmarshal(payload, &game); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %w", ErrCorrupt, err)
	}
	return &game, nil
}
