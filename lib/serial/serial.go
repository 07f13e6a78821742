// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package serial

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bureau-foundation/bl2bank/lib/codec"
	"github.com/bureau-foundation/bl2bank/lib/record"
)

// Version is the only serial format version this package reads and
// writes.
const Version = 7

const (
	weaponFlag  = 0x80
	versionMask = 0x7F

	// HeaderSize is the unscrambled prefix: header byte and UniqueID.
	HeaderSize = 5

	checksumOffset = HeaderSize
	checksumSize   = 2
	bodyOffset     = checksumOffset + checksumSize
)

// Header is the unscrambled prefix of a serial.
type Header struct {
	Kind     record.Kind
	Version  uint8
	UniqueID int32
}

// ReadHeader parses the first [HeaderSize] bytes of data without
// touching the payload. An unknown version is reported as an error,
// with the parsed header still returned so callers can show it.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, formatError(len(data), fmt.Sprintf("serial is %d bytes, header needs %d", len(data), HeaderSize), nil)
	}
	header := Header{
		Kind:     record.KindItem,
		Version:  data[0] & versionMask,
		UniqueID: int32(binary.BigEndian.Uint32(data[1:HeaderSize])),
	}
	if data[0]&weaponFlag != 0 {
		header.Kind = record.KindWeapon
	}
	if header.Version != Version {
		return header, formatError(0, fmt.Sprintf("unknown version %d (want %d)", header.Version, Version), nil)
	}
	return header, nil
}

// itemBody and weaponBody are the CBOR arrays stored after the
// checksum. Field order is the wire order.

type itemBody struct {
	_                      struct{} `cbor:",toarray"`
	AssetLibrarySet        int
	ItemType               string
	Balance                string
	Manufacturer           string
	ManufacturerGradeIndex int
	GameStage              int
	AlphaPart              string
	BetaPart               string
	GammaPart              string
	DeltaPart              string
	EpsilonPart            string
	ZetaPart               string
	EtaPart                string
	ThetaPart              string
	MaterialPart           string
	PrefixPart             string
	TitlePart              string
}

type weaponBody struct {
	_                      struct{} `cbor:",toarray"`
	AssetLibrarySet        int
	WeaponType             string
	Balance                string
	Manufacturer           string
	ManufacturerGradeIndex int
	GameStage              int
	BodyPart               string
	GripPart               string
	BarrelPart             string
	SightPart              string
	StockPart              string
	ElementalPart          string
	Accessory1Part         string
	Accessory2Part         string
	MaterialPart           string
	PrefixPart             string
	TitlePart              string
}

// Encode serializes r. It fails only when r is not a valid record
// (see [record.Validate]). The result is freshly allocated.
func Encode(r record.Record) ([]byte, error) {
	if err := record.Validate(r); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	header, err := record.Match(r,
		func(*record.Item) (byte, error) { return Version, nil },
		func(*record.Weapon) (byte, error) { return Version | weaponFlag, nil },
	)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	body, err := record.Match(r, encodeItem, encodeWeapon)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", r.Kind(), err)
	}

	serial := make([]byte, bodyOffset+len(body))
	serial[0] = header
	binary.BigEndian.PutUint32(serial[1:HeaderSize], uint32(r.UniqueID()))
	copy(serial[bodyOffset:], body)
	binary.BigEndian.PutUint16(serial[checksumOffset:bodyOffset], checksum(serial))

	scramble(serial[HeaderSize:], r.UniqueID())
	return serial, nil
}

func encodeItem(item *record.Item) ([]byte, error) {
	return codec.Marshal(itemBody{
		AssetLibrarySet:        item.AssetLibrarySet,
		ItemType:               item.ItemType,
		Balance:                item.Balance,
		Manufacturer:           item.Manufacturer,
		ManufacturerGradeIndex: item.ManufacturerGradeIndex,
		GameStage:              item.GameStage,
		AlphaPart:              item.AlphaPart,
		BetaPart:               item.BetaPart,
		GammaPart:              item.GammaPart,
		DeltaPart:              item.DeltaPart,
		EpsilonPart:            item.EpsilonPart,
		ZetaPart:               item.ZetaPart,
		EtaPart:                item.EtaPart,
		ThetaPart:              item.ThetaPart,
		MaterialPart:           item.MaterialPart,
		PrefixPart:             item.PrefixPart,
		TitlePart:              item.TitlePart,
	})
}

func encodeWeapon(weapon *record.Weapon) ([]byte, error) {
	return codec.Marshal(weaponBody{
		AssetLibrarySet:        weapon.AssetLibrarySet,
		WeaponType:             weapon.WeaponType,
		Balance:                weapon.Balance,
		Manufacturer:           weapon.Manufacturer,
		ManufacturerGradeIndex: weapon.ManufacturerGradeIndex,
		GameStage:              weapon.GameStage,
		BodyPart:               weapon.BodyPart,
		GripPart:               weapon.GripPart,
		BarrelPart:             weapon.BarrelPart,
		SightPart:              weapon.SightPart,
		StockPart:              weapon.StockPart,
		ElementalPart:          weapon.ElementalPart,
		Accessory1Part:         weapon.Accessory1Part,
		Accessory2Part:         weapon.Accessory2Part,
		MaterialPart:           weapon.MaterialPart,
		PrefixPart:             weapon.PrefixPart,
		TitlePart:              weapon.TitlePart,
	})
}

// Body returns the header of data and its CBOR body, unscrambled and
// with the checksum verified. The body is a fresh slice.
func Body(data []byte) (Header, []byte, error) {
	header, err := ReadHeader(data)
	if err != nil {
		return header, nil, err
	}
	if len(data) <= bodyOffset {
		return header, nil, formatError(len(data), fmt.Sprintf("serial is %d bytes, need more than %d", len(data), bodyOffset), nil)
	}

	unscrambled := bytes.Clone(data)
	descramble(unscrambled[HeaderSize:], header.UniqueID)

	stored := binary.BigEndian.Uint16(unscrambled[checksumOffset:bodyOffset])
	if computed := checksum(unscrambled); stored != computed {
		return header, nil, formatError(-1, fmt.Sprintf("checksum mismatch (stored %04x, computed %04x)", stored, computed), nil)
	}
	return header, unscrambled[bodyOffset:], nil
}

// Decode parses a serial. data is not modified or retained.
func Decode(data []byte) (record.Record, error) {
	header, body, err := Body(data)
	if err != nil {
		return nil, err
	}

	var decoded record.Record
	switch header.Kind {
	case record.KindItem:
		decoded, err = decodeItem(body, header.UniqueID)
	case record.KindWeapon:
		decoded, err = decodeWeapon(body, header.UniqueID)
	}
	if err != nil {
		return nil, formatError(bodyOffset, fmt.Sprintf("%s body", header.Kind), err)
	}

	if err := record.Validate(decoded); err != nil {
		return nil, formatError(-1, "decoded record is invalid", err)
	}
	return decoded, nil
}

func decodeItem(body []byte, uniqueID int32) (*record.Item, error) {
	var fields itemBody
	if err := codec.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return &record.Item{
		ID:                     uniqueID,
		AssetLibrarySet:        fields.AssetLibrarySet,
		ItemType:               fields.ItemType,
		Balance:                fields.Balance,
		Manufacturer:           fields.Manufacturer,
		ManufacturerGradeIndex: fields.ManufacturerGradeIndex,
		GameStage:              fields.GameStage,
		AlphaPart:              fields.AlphaPart,
		BetaPart:               fields.BetaPart,
		GammaPart:              fields.GammaPart,
		DeltaPart:              fields.DeltaPart,
		EpsilonPart:            fields.EpsilonPart,
		ZetaPart:               fields.ZetaPart,
		EtaPart:                fields.EtaPart,
		ThetaPart:              fields.ThetaPart,
		MaterialPart:           fields.MaterialPart,
		PrefixPart:             fields.PrefixPart,
		TitlePart:              fields.TitlePart,
	}, nil
}

func decodeWeapon(body []byte, uniqueID int32) (*record.Weapon, error) {
	var fields weaponBody
	if err := codec.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return &record.Weapon{
		ID:                     uniqueID,
		AssetLibrarySet:        fields.AssetLibrarySet,
		WeaponType:             fields.WeaponType,
		Balance:                fields.Balance,
		Manufacturer:           fields.Manufacturer,
		ManufacturerGradeIndex: fields.ManufacturerGradeIndex,
		GameStage:              fields.GameStage,
		BodyPart:               fields.BodyPart,
		GripPart:               fields.GripPart,
		BarrelPart:             fields.BarrelPart,
		SightPart:              fields.SightPart,
		StockPart:              fields.StockPart,
		ElementalPart:          fields.ElementalPart,
		Accessory1Part:         fields.Accessory1Part,
		Accessory2Part:         fields.Accessory2Part,
		MaterialPart:           fields.MaterialPart,
		PrefixPart:             fields.PrefixPart,
		TitlePart:              fields.TitlePart,
	}, nil
}

// RoundTrip decodes data, re-encodes the result and requires the bytes
// to match. A serial that decodes but would be written back differently
// fails with a [*FormatError] whose Reason is "re-encode mismatch".
func RoundTrip(data []byte) (record.Record, error) {
	decoded, err := Decode(data)
	if err != nil {
		return nil, err
	}
	encoded, err := Encode(decoded)
	if err != nil {
		return nil, formatError(-1, "re-encode failed", err)
	}
	if !bytes.Equal(encoded, data) {
		return nil, formatError(-1, "re-encode mismatch", nil)
	}
	return decoded, nil
}
