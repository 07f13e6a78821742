// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/bank"
	"github.com/bureau-foundation/bl2bank/lib/clock"
	"github.com/bureau-foundation/bl2bank/lib/itemcode"
	"github.com/bureau-foundation/bl2bank/lib/record"
	"github.com/bureau-foundation/bl2bank/lib/record/recordtest"
	"github.com/bureau-foundation/bl2bank/lib/savefile"
	"github.com/bureau-foundation/bl2bank/lib/sealed"
	"github.com/bureau-foundation/bl2bank/lib/serial"
	"github.com/bureau-foundation/bl2bank/lib/testutil"
	"github.com/bureau-foundation/bl2bank/lib/uid"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// harness runs the command tree against a temporary directory with a
// config that draws UniqueIDs from a sequence starting at 100.
type harness struct {
	t          *testing.T
	dir        string
	configPath string
	identity   string
	clock      *clock.FakeClock
	stdin      string
	stdout     bytes.Buffer
	stderr     bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	identity := filepath.Join(dir, "identity.txt")
	configYAML := "paths:\n" +
		"  root: " + dir + "\n" +
		"  saves: " + filepath.Join(dir, "saves") + "\n" +
		"  identity: " + identity + "\n" +
		"container:\n" +
		"  compression: lz4\n" +
		"ids:\n" +
		"  mode: sequence\n" +
		"  start: 100\n" +
		"logging:\n" +
		"  level: debug\n" +
		"  format: json\n"
	return &harness{
		t:          t,
		dir:        dir,
		configPath: testutil.WriteFile(t, dir, "bl2bank.yaml", []byte(configYAML)),
		identity:   identity,
		clock:      clock.Fake(testTime),
	}
}

// run executes one command line. stdout and stderr hold its output
// until the next call.
func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	env := &Env{
		Stdin:  strings.NewReader(h.stdin),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Clock:  h.clock,
		Logger: slog.New(slog.DiscardHandler),
	}
	h.stdin = ""
	return Root(env).Execute(append([]string{"--config", h.configPath}, args...))
}

// mustRun runs a command line that must succeed.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	if err := h.run(args...); err != nil {
		h.t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, h.stderr.String())
	}
	return h.stdout.String()
}

// writeSave creates a container holding the serials of records.
func (h *harness) writeSave(name string, records ...record.Record) string {
	h.t.Helper()
	slots := make([][]byte, 0, len(records))
	for _, r := range records {
		encoded, err := serial.Encode(r)
		if err != nil {
			h.t.Fatalf("Encode: %v", err)
		}
		slots = append(slots, encoded)
	}
	return h.writeSlots(name, slots)
}

func (h *harness) writeSlots(name string, slots [][]byte) string {
	h.t.Helper()
	data, err := savefile.Marshal(&savefile.SaveGame{
		PlayerName: "Axton",
		SavedAt:    testTime.Add(-time.Hour),
		Slots:      slots,
		Extra:      []byte{0xa1, 0x01, 0x02},
	}, savefile.Options{Compression: savefile.CompressionLZ4})
	if err != nil {
		h.t.Fatalf("Marshal: %v", err)
	}
	return testutil.WriteFile(h.t, h.dir, name, data)
}

// list returns the slots of a save via "bank list --json --full".
func (h *harness) list(path string) []slotSummary {
	h.t.Helper()
	output := h.mustRun("bank", "list", path, "--json", "--full")
	var summaries []slotSummary
	if err := json.Unmarshal([]byte(output), &summaries); err != nil {
		h.t.Fatalf("list output is not JSON: %v\n%s", err, output)
	}
	return summaries
}

func exitCode(err error) int {
	var exit *cli.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return -1
}

func TestSaveInitThenNew(t *testing.T) {
	h := newHarness(t)

	output := h.mustRun("save", "init", "fresh.sav", "--player", "Maya")
	want := filepath.Join(h.dir, "saves", "fresh.sav")
	if !strings.Contains(output, want) {
		t.Errorf("init output = %q, want it to name %s", output, want)
	}
	if slots := h.list("fresh.sav"); len(slots) != 0 {
		t.Fatalf("new save has %d slots, want 0", len(slots))
	}

	if err := h.run("save", "init", "fresh.sav"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want 'already exists'", err)
	}

	output = h.mustRun("bank", "new", "fresh.sav", "--kind", "weapon")
	if output != "Created weapon in slot 0 (unique id 100)\n" {
		t.Errorf("new output = %q", output)
	}
	h.mustRun("bank", "new", "fresh.sav")

	slots := h.list("fresh.sav")
	if len(slots) != 2 || slots[0].Kind != "weapon" || slots[1].Kind != "item" {
		t.Fatalf("slots = %+v, want [weapon item]", slots)
	}
	if slots[0].UniqueID != 100 || slots[1].UniqueID != 100 {
		t.Errorf("unique ids = %d, %d; each run starts its sequence at 100", slots[0].UniqueID, slots[1].UniqueID)
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav")
	if err := h.run("bank", "new", path, "--kind", "relic"); err == nil {
		t.Fatal("bank new --kind relic succeeded")
	}
}

func TestListText(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Item(7), recordtest.Weapon(8))

	output := h.mustRun("bank", "list", path)
	for _, want := range []string{"SLOT", "BALANCE", recordtest.Weapon(8).Balance, "2 slots: 1 items, 1 weapons"} {
		if !strings.Contains(output, want) {
			t.Errorf("list output missing %q:\n%s", want, output)
		}
	}
}

func TestListFullRecordsDecode(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Item(7), recordtest.Weapon(8))

	slots := h.list(path)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	decoded, err := record.UnmarshalJSON(slots[1].Record)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !record.Equal(decoded, recordtest.Weapon(8)) {
		t.Errorf("slot 1 = %+v, want the fixture weapon", decoded)
	}
}

func TestDuplicateDeleteMove(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Mixed(3, 1)...)

	if output := h.mustRun("bank", "duplicate", path, "1"); output != "Duplicated slot 1 to slot 3\n" {
		t.Errorf("duplicate output = %q", output)
	}
	slots := h.list(path)
	if len(slots) != 4 || slots[3].Kind != "weapon" || slots[3].UniqueID != 100 {
		t.Fatalf("after duplicate: %+v", slots)
	}

	h.mustRun("bank", "move", path, "3", "0")
	slots = h.list(path)
	ids := []int32{slots[0].UniqueID, slots[1].UniqueID, slots[2].UniqueID, slots[3].UniqueID}
	if !slices.Equal(ids, []int32{100, 1, 2, 3}) {
		t.Fatalf("after move: ids = %v, want [100 1 2 3]", ids)
	}

	h.mustRun("bank", "delete", path, "2")
	slots = h.list(path)
	if len(slots) != 3 || slots[2].UniqueID != 3 {
		t.Fatalf("after delete: %+v", slots)
	}

	if err := h.run("bank", "delete", path, "9"); !errors.Is(err, bank.ErrIndexOutOfRange) {
		t.Errorf("delete 9 error = %v, want ErrIndexOutOfRange", err)
	}
	if err := h.run("bank", "delete", path, "minus-one"); err == nil {
		t.Error("delete with a non-numeric index succeeded")
	}
}

func TestCopyPasteBetweenSaves(t *testing.T) {
	h := newHarness(t)
	source := h.writeSave("source.sav", recordtest.Item(1), recordtest.Weapon(2))
	target := h.writeSave("target.sav", recordtest.Item(3))

	code := strings.TrimSpace(h.mustRun("bank", "copy", source, "1"))
	if !strings.HasPrefix(code, "BL2(") {
		t.Fatalf("copy output = %q, want a code", code)
	}

	h.stdin = "look at this gun:\n" + code[:20] + "\n" + code[20:] + "\n"
	if output := h.mustRun("bank", "paste", target); output != "added 1, failed 0\n" {
		t.Errorf("paste output = %q", output)
	}

	slots := h.list(target)
	if len(slots) != 2 {
		t.Fatalf("target has %d slots, want 2", len(slots))
	}
	pasted, err := record.UnmarshalJSON(slots[1].Record)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !record.EqualIgnoringID(pasted, recordtest.Weapon(2)) || pasted.UniqueID() != 100 {
		t.Errorf("pasted record = %+v, want the weapon under id 100", pasted)
	}

	all := strings.Split(strings.TrimSpace(h.mustRun("bank", "copy", source, "--all")), "\n")
	if len(all) != 2 {
		t.Errorf("copy --all printed %d codes, want 2", len(all))
	}
}

func TestPasteWithRejectedCodes(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav")
	good, err := itemcode.Pack(recordtest.Item(5), uid.NewSequence(5))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	input := testutil.WriteFile(t, h.dir, "codes.txt", []byte(good+"\nBL2(AAAA)\n"))

	err = h.run("bank", "paste", path, input)
	if exitCode(err) != 2 {
		t.Fatalf("paste error = %v, want exit code 2", err)
	}
	if h.stdout.String() != "added 1, failed 1\n" {
		t.Errorf("paste output = %q", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "skipped code at offset") {
		t.Errorf("stderr = %q, want the rejected code reported", h.stderr.String())
	}
	if slots := h.list(path); len(slots) != 1 {
		t.Errorf("save has %d slots after paste, want 1", len(slots))
	}
}

func TestPasteDryRunAndNoCodes(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Item(1))
	before := testutil.ReadFile(t, path)

	code, err := itemcode.Pack(recordtest.Weapon(0), uid.NewSequence(9))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	h.stdin = code
	if output := h.mustRun("bank", "paste", path, "--dry-run"); output != "added 1, failed 0\n" {
		t.Errorf("dry-run output = %q", output)
	}
	h.stdin = "no codes in here"
	if output := h.mustRun("bank", "paste", path); output != "added 0, failed 0\n" {
		t.Errorf("empty paste output = %q", output)
	}
	if !bytes.Equal(testutil.ReadFile(t, path), before) {
		t.Error("save changed without anything pasted")
	}
}

func TestGateFailureLeavesSaveUntouched(t *testing.T) {
	h := newHarness(t)
	good, err := serial.Encode(recordtest.Item(1))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := h.writeSlots("broken.sav", [][]byte{good, {0x07, 0, 0, 0, 0, 0xaa}})
	before := testutil.ReadFile(t, path)

	err = h.run("bank", "new", path)
	var loadErr *bank.LoadError
	if !errors.As(err, &loadErr) || loadErr.Slot != 1 {
		t.Fatalf("bank new error = %v, want LoadError for slot 1", err)
	}
	if !bytes.Equal(testutil.ReadFile(t, path), before) {
		t.Error("save was rewritten after a failed load")
	}

	err = h.run("bank", "verify", path)
	if exitCode(err) != 1 {
		t.Fatalf("verify error = %v, want exit code 1", err)
	}
	if !strings.Contains(h.stdout.String(), "slot 1: malformed serial") ||
		!strings.Contains(h.stdout.String(), "2 slots, 1 failed") {
		t.Errorf("verify output = %q", h.stdout.String())
	}

	info := h.mustRun("save", "info", path)
	if !strings.Contains(info, "Axton") {
		t.Errorf("save info should work on a save verify rejects:\n%s", info)
	}
}

func TestVerify(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Item(4), recordtest.Weapon(4))

	if output := h.mustRun("bank", "verify", path); !strings.Contains(output, "2 slots, 0 failed") ||
		!strings.Contains(output, "duplicate unique ids: [4]") {
		t.Errorf("verify output = %q", output)
	}

	var report verifyReport
	if err := json.Unmarshal([]byte(h.mustRun("bank", "verify", path, "--json")), &report); err != nil {
		t.Fatalf("verify --json: %v", err)
	}
	if report.Slots != 2 || len(report.Failures) != 0 || report.Stats == nil || report.Stats.Weapons != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestFind(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Item(1), recordtest.Weapon(2))

	var results []searchResult
	if err := json.Unmarshal([]byte(h.mustRun("bank", "find", path, "maggie", "--json")), &results); err != nil {
		t.Fatalf("find --json: %v", err)
	}
	if len(results) == 0 || results[0].Index != 1 || results[0].Kind != "weapon" {
		t.Fatalf("results = %+v, want the weapon first", results)
	}
	if len(results[0].Positions) != len("maggie") {
		t.Errorf("positions = %v, want one per pattern rune", results[0].Positions)
	}

	if output := h.mustRun("bank", "find", path, "maggie"); !strings.Contains(output, "ATTRIBUTE") {
		t.Errorf("find output = %q", output)
	}

	if err := h.run("bank", "find", path, "qxqxqxqx"); exitCode(err) != 1 {
		t.Errorf("find without matches error = %v, want exit code 1", err)
	}
}

func TestCodeEncodeDecode(t *testing.T) {
	h := newHarness(t)
	document, err := record.MarshalJSON(recordtest.Weapon(77))
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	h.stdin = "// edited by hand\n" + string(document) + "\n"
	code := strings.TrimSpace(h.mustRun("code", "encode"))
	encoded, err := serial.Encode(recordtest.Weapon(77))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if code != itemcode.Wrap(encoded) {
		t.Errorf("encode output = %q, want %q", code, itemcode.Wrap(encoded))
	}

	h.stdin = "first: " + code + "\nsecond: " + code
	var documents []json.RawMessage
	if err := json.Unmarshal([]byte(h.mustRun("code", "decode")), &documents); err != nil {
		t.Fatalf("decode output is not a JSON array: %v", err)
	}
	if len(documents) != 2 {
		t.Fatalf("decoded %d records, want 2", len(documents))
	}
	decoded, err := record.UnmarshalJSON(documents[1])
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !record.Equal(decoded, recordtest.Weapon(77)) {
		t.Errorf("decoded = %+v, want the fixture weapon with id 77", decoded)
	}

	h.stdin = "[" + string(document) + "]"
	fresh := strings.TrimSpace(h.mustRun("code", "encode", "--fresh-ids"))
	data, err := itemcode.Unwrap(fresh)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	header, err := serial.ReadHeader(data)
	if err != nil || header.UniqueID != 100 {
		t.Errorf("fresh id header = %+v (%v), want unique id 100", header, err)
	}
}

func TestCodeDecodeReportsFailures(t *testing.T) {
	h := newHarness(t)
	h.stdin = "BL2(AAAA)"
	err := h.run("code", "decode")
	if exitCode(err) != 2 {
		t.Fatalf("decode error = %v, want exit code 2", err)
	}
	if strings.TrimSpace(h.stdout.String()) != "[]" {
		t.Errorf("stdout = %q, want []", h.stdout.String())
	}
}

func TestCodeInspect(t *testing.T) {
	h := newHarness(t)
	code, err := itemcode.Pack(recordtest.Weapon(0), uid.NewSequence(0x1234))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	input := testutil.WriteFile(t, h.dir, "code.txt", []byte(code))

	output := h.mustRun("code", "inspect", input)
	for _, want := range []string{"code 0: weapon, version 7, unique id 4660", "canonical: true", "round trip: ok"} {
		if !strings.Contains(output, want) {
			t.Errorf("inspect output missing %q:\n%s", want, output)
		}
	}
}

func TestSealAndUnseal(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Item(1))

	h.mustRun("keygen", "--output", h.identity)
	if !strings.Contains(h.stderr.String(), "Public key: age1") {
		t.Errorf("keygen stderr = %q, want the public key", h.stderr.String())
	}

	h.mustRun("save", "seal", path)
	if !sealed.IsSealed(testutil.ReadFile(t, path)) {
		t.Fatal("save is not sealed after seal")
	}
	if err := h.run("save", "seal", path); err == nil || !strings.Contains(err.Error(), "already sealed") {
		t.Errorf("second seal error = %v", err)
	}

	h.mustRun("bank", "new", path, "--kind", "weapon")
	if !sealed.IsSealed(testutil.ReadFile(t, path)) {
		t.Fatal("editing a sealed save unsealed it")
	}
	if slots := h.list(path); len(slots) != 2 {
		t.Fatalf("sealed save has %d slots, want 2", len(slots))
	}

	h.mustRun("save", "unseal", path)
	if sealed.IsSealed(testutil.ReadFile(t, path)) {
		t.Fatal("save is still sealed after unseal")
	}
	if _, err := savefile.Unmarshal(testutil.ReadFile(t, path)); err != nil {
		t.Errorf("unsealed save does not decode: %v", err)
	}
}

func TestSealedSaveNeedsIdentity(t *testing.T) {
	h := newHarness(t)
	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	plain, err := savefile.Marshal(&savefile.SaveGame{}, savefile.Options{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	ciphertext, err := sealed.Seal(plain, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	path := testutil.WriteFile(t, h.dir, "sealed.sav", ciphertext)

	err = h.run("bank", "list", path)
	if err == nil || !strings.Contains(err.Error(), "is sealed") {
		t.Errorf("list error = %v, want the missing identity reported", err)
	}
}

func TestSaveInfo(t *testing.T) {
	h := newHarness(t)
	path := h.writeSave("main.sav", recordtest.Mixed(4, 10)...)
	h.mustRun("bank", "delete", path, "0")

	var info saveInfo
	if err := json.Unmarshal([]byte(h.mustRun("save", "info", path, "--json")), &info); err != nil {
		t.Fatalf("info --json: %v", err)
	}
	if info.Slots != 3 || info.PlayerName != "Axton" || info.Sealed || info.ExtraSize != 3 {
		t.Errorf("info = %+v", info)
	}
	if !info.SavedAt.Equal(testTime) {
		t.Errorf("saved_at = %v, want %v", info.SavedAt, testTime)
	}
	if !strings.HasPrefix(info.Writer, "bl2bank/") {
		t.Errorf("writer = %q", info.Writer)
	}
	if len(info.Hash) != 64 {
		t.Errorf("hash = %q, want 64 hex digits", info.Hash)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	if output := h.mustRun("version"); !strings.HasPrefix(output, "bl2bank ") {
		t.Errorf("version output = %q", output)
	}
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	h.configPath = testutil.WriteFile(t, h.dir, "bad.yaml", []byte("container:\n  compression: gzip\n"))

	err := h.run("bank", "list", "main.sav")
	if err == nil || !strings.Contains(err.Error(), "container.compression") {
		t.Errorf("error = %v, want the bad compression reported", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("BL2BANK_CONFIG", h.configPath)
	path := h.writeSave("main.sav", recordtest.Item(1))

	var stdout bytes.Buffer
	env := &Env{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &bytes.Buffer{},
		Clock:  h.clock,
		Logger: slog.New(slog.DiscardHandler),
	}
	if err := Root(env).Execute([]string{"bank", "new", path}); err != nil {
		t.Fatalf("bank new: %v", err)
	}
	if stdout.String() != "Created item in slot 1 (unique id 100)\n" {
		t.Errorf("output = %q, want the configured sequence to apply", stdout.String())
	}
}

func TestMissingSave(t *testing.T) {
	h := newHarness(t)
	err := h.run("bank", "list", filepath.Join(h.dir, "nope.sav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}
