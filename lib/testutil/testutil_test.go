// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestUniqueID(t *testing.T) {
	first, second := UniqueID("bank"), UniqueID("bank")
	if first == second {
		t.Errorf("UniqueID returned %q twice", first)
	}
	if !strings.HasPrefix(first, "bank-") {
		t.Errorf("UniqueID(bank) = %q", first)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), filepath.Join("nested", "codes.txt"), []byte("BL2(AAAA)"))
	if got := string(ReadFile(t, path)); got != "BL2(AAAA)" {
		t.Errorf("ReadFile() = %q", got)
	}
}
