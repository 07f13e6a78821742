// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// sampleBody mirrors the positional layout used by serial bodies.
type sampleBody struct {
	_            struct{} `cbor:",toarray"`
	AssetSet     int
	Balance      string
	GameStage    int
	MaterialPart string
}

// sampleContainer mirrors the integer-keyed layout used by containers.
type sampleContainer struct {
	Name    string    `cbor:"1,keyasint"`
	SavedAt time.Time `cbor:"2,keyasint"`
	Slots   [][]byte  `cbor:"3,keyasint"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleBody{
		AssetSet:     0,
		Balance:      "GD_Weap_SniperRifles.A_Weapons.Sniper_Jakobs",
		GameStage:    50,
		MaterialPart: "",
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if data[0] != 0x84 {
		t.Fatalf("toarray body should start with a 4-element array head, got %#x", data[0])
	}

	var decoded sampleBody
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	container := sampleContainer{
		Name:    "Axton",
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Slots:   [][]byte{{0x07, 0x01}, {0x87, 0x02}},
	}

	first, err := Marshal(container)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(container)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}

	var decoded sampleContainer
	if err := Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.SavedAt.Equal(container.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", decoded.SavedAt, container.SavedAt)
	}
	if len(decoded.Slots) != 2 || !bytes.Equal(decoded.Slots[1], container.Slots[1]) {
		t.Errorf("Slots = %x, want %x", decoded.Slots, container.Slots)
	}
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	data, err := Marshal(sampleBody{Balance: "b"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data = append(data, 0x00)

	var decoded sampleBody
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal should reject trailing bytes after the data item")
	}
}

func TestUnmarshalAcceptsNonMinimalHeads(t *testing.T) {
	// [5] with the integer written in the two-byte form (0x18 0x05)
	// instead of the single-byte form (0x05).
	var decoded []int
	if err := Unmarshal([]byte{0x81, 0x18, 0x05}, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != 5 {
		t.Fatalf("decoded = %v, want [5]", decoded)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var body sampleBody
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &body); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestUnmarshalTruncatedLength(t *testing.T) {
	// Text string head declares 10 bytes, only 2 follow.
	var value string
	if err := Unmarshal([]byte{0x6A, 'a', 'b'}, &value); err == nil {
		t.Error("Unmarshal should reject a length that exceeds the buffer")
	}
}

func TestIsCanonical(t *testing.T) {
	canonical, err := Marshal([]any{uint64(5), "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "deterministic", data: canonical, want: true},
		{name: "non-minimal integer", data: []byte{0x82, 0x18, 0x05, 0x61, 'x'}, want: false},
		{name: "indefinite array", data: []byte{0x9F, 0x05, 0x61, 'x', 0xFF}, want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := IsCanonical(test.data)
			if err != nil {
				t.Fatalf("IsCanonical: %v", err)
			}
			if got != test.want {
				t.Errorf("IsCanonical(%x) = %v, want %v", test.data, got, test.want)
			}
		})
	}

	if _, err := IsCanonical([]byte{0x82, 0x01}); err == nil {
		t.Error("IsCanonical should fail on malformed input")
	}
}

func BenchmarkMarshal(b *testing.B) {
	body := sampleBody{
		AssetSet:     0,
		Balance:      "GD_Weap_SniperRifles.A_Weapons.Sniper_Jakobs",
		GameStage:    50,
		MaterialPart: "GD_Weap_SniperRifles.ManufacturerMaterials.Mat_Jakobs_3_VeryRare",
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(body)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleBody{Balance: "b", GameStage: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.HasPrefix(notation, "[") || !strings.Contains(notation, `"b"`) {
		t.Errorf("unexpected diagnostic notation: %s", notation)
	}
}
