// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package savefile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/bl2bank/lib/codec"
)

func sampleGame(t *testing.T, slotCount int) *SaveGame {
	t.Helper()
	extra, err := codec.Marshal(map[string]any{"backpack": []int{1, 2, 3}, "level": 72})
	if err != nil {
		t.Fatalf("codec.Marshal() error: %v", err)
	}
	slots := make([][]byte, slotCount)
	for index := range slots {
		slots[index] = bytes.Repeat([]byte{byte(index), 0xAB, 0xCD}, 40)
	}
	return &SaveGame{
		PlayerName: "Axton",
		SavedAt:    time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC),
		Writer:     "bl2bank test",
		Slots:      slots,
		Extra:      extra,
	}
}

func requireSameGame(t *testing.T, got, want *SaveGame) {
	t.Helper()
	if got.PlayerName != want.PlayerName || got.Writer != want.Writer {
		t.Errorf("names = %q/%q, want %q/%q", got.PlayerName, got.Writer, want.PlayerName, want.Writer)
	}
	if !got.SavedAt.Equal(want.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, want.SavedAt)
	}
	if len(got.Slots) != len(want.Slots) {
		t.Fatalf("len(Slots) = %d, want %d", len(got.Slots), len(want.Slots))
	}
	for index := range want.Slots {
		if !bytes.Equal(got.Slots[index], want.Slots[index]) {
			t.Errorf("slot %d differs", index)
		}
	}
	if !bytes.Equal(got.Extra, want.Extra) {
		t.Errorf("Extra = % x, want % x", got.Extra, want.Extra)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			game := sampleGame(t, 20)
			data, err := Marshal(game, Options{Compression: compression})
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}

			header, err := ReadHeader(data)
			if err != nil {
				t.Fatalf("ReadHeader() error: %v", err)
			}
			if header.Compression != compression {
				t.Errorf("header compression = %s, want %s", header.Compression, compression)
			}
			if compression != CompressionNone && header.StoredSize >= int(header.UncompressedSize) {
				t.Errorf("%s stored %d bytes for a %d-byte payload", compression, header.StoredSize, header.UncompressedSize)
			}

			decoded, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			requireSameGame(t, decoded, game)
		})
	}
}

func TestMarshalEmptyBank(t *testing.T) {
	game := &SaveGame{PlayerName: "Maya"}
	data, err := Marshal(game, Options{Compression: CompressionLZ4})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	header, err := ReadHeader(data)
	if err != nil {
		t.Fatalf("ReadHeader() error: %v", err)
	}
	if header.Compression != CompressionNone {
		t.Errorf("tiny payload stored as %s, want none", header.Compression)
	}
	if game.Slots != nil {
		t.Error("Marshal modified the caller's SaveGame")
	}

	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(decoded.BankSlots()) != 0 {
		t.Errorf("BankSlots() = %d slots, want 0", len(decoded.BankSlots()))
	}
}

func TestSetBankSlots(t *testing.T) {
	game := sampleGame(t, 3)
	game.SetBankSlots([][]byte{{1}})
	if len(game.BankSlots()) != 1 {
		t.Errorf("BankSlots() after SetBankSlots = %d slots", len(game.BankSlots()))
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	valid, err := Marshal(sampleGame(t, 4), Options{Compression: CompressionLZ4})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	mutate := func(change func([]byte) []byte) []byte {
		return change(bytes.Clone(valid))
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "shorter than"},
		{"bad magic", mutate(func(d []byte) []byte { d[0] = 'X'; return d }), "bad magic"},
		{"future version", mutate(func(d []byte) []byte { d[7] = 9; return d }), "format version 9"},
		{"unknown compression", mutate(func(d []byte) []byte { d[8] = 7; return d }), "unknown compression"},
		{"reserved bytes", mutate(func(d []byte) []byte { d[10] = 1; return d }), "reserved"},
		{"huge size", mutate(func(d []byte) []byte { d[15] = 0xFF; return d }), "exceeds limit"},
		{"hash mismatch", mutate(func(d []byte) []byte { d[20] ^= 1; return d }), "hash mismatch"},
		{"truncated payload", valid[:len(valid)-5], "lz4"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Unmarshal(test.data)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Unmarshal() error = %v, want ErrCorrupt", err)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("Unmarshal() error %q does not mention %q", err, test.want)
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompression(compression.String())
		if err != nil || parsed != compression {
			t.Errorf("ParseCompression(%q) = %v, %v", compression.String(), parsed, err)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression(gzip) should fail")
	}

	var compression Compression
	if err := compression.UnmarshalText([]byte("zstd")); err != nil || compression != CompressionZstd {
		t.Errorf("UnmarshalText(zstd) = %v, %v", compression, err)
	}
}

func TestHashPayloadIsKeyed(t *testing.T) {
	first := HashPayload([]byte("bank"))
	if first != HashPayload([]byte("bank")) {
		t.Error("HashPayload is not deterministic")
	}
	if first == HashPayload([]byte("bank!")) {
		t.Error("different payloads hash equal")
	}
	if len(first.String()) != 64 {
		t.Errorf("String() length = %d, want 64", len(first.String()))
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "bank.sav")

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("ReadFile() = %q, want second", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the save", len(entries))
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.sav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestLockExcludes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.sav")

	held, err := Lock(context.Background(), path)
	if err != nil {
		t.Fatalf("Lock() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := Lock(ctx, path); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second Lock() error = %v, want DeadlineExceeded", err)
	}

	if err := held.Unlock(); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
	if err := held.Unlock(); err != nil {
		t.Errorf("second Unlock() error: %v", err)
	}

	again, err := Lock(context.Background(), path)
	if err != nil {
		t.Fatalf("Lock() after Unlock error: %v", err)
	}
	again.Unlock()
}
