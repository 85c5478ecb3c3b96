// File path: internal/archive/reader_test.go
package archive

import (
	"bytes"
	"compress/gzip"
	"testing"
)

// buildNewc assembles a minimal valid CPIO "newc" stream for the given
// (name, payload) pairs, terminated with the TRAILER!!! entry.
func buildNewc(t *testing.T, files [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writeEntry := func(name string, payload []byte) {
		nameBytes := append([]byte(name), 0)
		header := make([]byte, headerLen)
		copy(header[0:6], newcMagic)
		fields := []int64{0, 0o100644, 0, 0, 1, 0, int64(len(payload)), 0, 0, 0, 0, int64(len(nameBytes)), 0}
		for i, v := range fields {
			hexField := hexEncode(v)
			copy(header[6+i*8:6+i*8+8], hexField)
		}
		buf.Write(header)
		buf.Write(nameBytes)
		padTo4(&buf, headerLen+len(nameBytes))
		buf.Write(payload)
		padTo4(&buf, len(payload))
	}
	for _, f := range files {
		writeEntry(f[0], []byte(f[1]))
	}
	writeEntry(trailerName, nil)
	return buf.Bytes()
}

func hexEncode(v int64) []byte {
	const digits = "0123456789abcdef"
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = digits[v&0xF]
		v >>= 4
	}
	return out
}

func padTo4(buf *bytes.Buffer, n int) {
	if rem := n % 4; rem != 0 {
		buf.Write(make([]byte, 4-rem))
	}
}

func TestReadPlainNewc(t *testing.T) {
	raw := buildNewc(t, [][2]string{
		{"obj/geo1/pyro_solver1", "type = pyrosolver::2.0\n"},
		{"obj/geo1/merge", "type = merge\n"},
	})
	entries, err := Read(raw)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "obj/geo1/pyro_solver1" {
		t.Errorf("unexpected path: %s", entries[0].Path)
	}
	if string(entries[0].Data) != "type = pyrosolver::2.0\n" {
		t.Errorf("unexpected payload: %q", entries[0].Data)
	}
}

func TestReadGzipWrapped(t *testing.T) {
	raw := buildNewc(t, [][2]string{{"houdini.hip", "_HIP_SAVEVERSION = \"19.5\"\n"}})
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	if _, err := w.Write(raw); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	entries, err := Read(gz.Bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestReadHoudiniPrefixSkip(t *testing.T) {
	raw := buildNewc(t, nil)
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	if _, err := w.Write(raw); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	prefixed := append([]byte{0x01, 0x02, 0x03, 0x04}, gz.Bytes()...)
	entries, err := Read(prefixed)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected zero entries for trailer-only archive, got %d", len(entries))
	}
}

func TestReadNoMagicFails(t *testing.T) {
	_, err := Read([]byte("not an archive at all, just junk bytes padded out"))
	if err == nil {
		t.Fatal("expected error for missing magic")
	}
	fe, ok := err.(*FormatError)
	if !ok {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if fe.Reason != "no-magic" {
		t.Errorf("unexpected reason: %s", fe.Reason)
	}
}

func TestReadTruncatedArchiveReturnsPartial(t *testing.T) {
	raw := buildNewc(t, [][2]string{
		{"a", "one"},
		{"b", "two"},
	})
	truncated := raw[:headerLen+20]
	entries, err := Read(truncated)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only entry a, which ends before the cut, from truncated stream, got %d", len(entries))
	}
}
