// File path: internal/ingest/pipeline_test.go
package ingest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/houdini-kb/hipcore/internal/cache"
	"github.com/houdini-kb/hipcore/internal/store"
)

// buildNewc assembles a minimal valid CPIO "newc" stream for the given
// (name, payload) pairs, terminated with the TRAILER!!! entry. Mirrors the
// archive package's own test helper since that one is unexported.
func buildNewc(files [][2]string) []byte {
	const (
		newcMagic = "070701"
		headerLen = 110
		trailer   = "TRAILER!!!"
	)
	var buf bytes.Buffer
	hexEncode := func(v int64) []byte {
		const digits = "0123456789abcdef"
		out := make([]byte, 8)
		for i := 7; i >= 0; i-- {
			out[i] = digits[v&0xF]
			v >>= 4
		}
		return out
	}
	padTo4 := func(n int) {
		if rem := n % 4; rem != 0 {
			buf.Write(make([]byte, 4-rem))
		}
	}
	writeEntry := func(name string, payload []byte) {
		nameBytes := append([]byte(name), 0)
		header := make([]byte, headerLen)
		copy(header[0:6], newcMagic)
		fields := []int64{0, 0o100644, 0, 0, 1, 0, int64(len(payload)), 0, 0, 0, 0, int64(len(nameBytes)), 0}
		for i, v := range fields {
			copy(header[6+i*8:6+i*8+8], hexEncode(v))
		}
		buf.Write(header)
		buf.Write(nameBytes)
		padTo4(headerLen + len(nameBytes))
		buf.Write(payload)
		padTo4(len(payload))
	}
	for _, f := range files {
		writeEntry(f[0], []byte(f[1]))
	}
	writeEntry(trailer, nil)
	return buf.Bytes()
}

func validSceneBytes() []byte {
	return buildNewc([][2]string{
		{"obj/geo1/pyro_solver1", "type = pyrosolver::2.0\nparm {\n name dissipation\n value 0.2\n}\n"},
	})
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.OpenWithConfig(store.Config{Path: filepath.Join(dir, "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestManager(t *testing.T) *cache.Manager {
	t.Helper()
	mgr, err := cache.NewManager(cache.Config{CacheDir: t.TempDir(), MaxBytes: 1 << 20})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr
}

func TestRunBatchExtractsNewArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(validSceneBytes())
	}))
	defer srv.Close()

	st := openTestStore(t)
	mgr := newTestManager(t)

	summary, err := RunBatch(context.Background(), st, mgr, []cache.Source{{ID: srv.URL + "/shot010.hip", Class: cache.SourceContentLibrary}}, nil)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if summary.Extracted != 1 || summary.Failed != 0 || summary.Misses != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Results[0].Outcome != OutcomeExtracted {
		t.Errorf("expected extracted outcome, got %s", summary.Results[0].Outcome)
	}
	if summary.Results[0].Result.Nodes != 1 {
		t.Errorf("expected 1 node extracted, got %d", summary.Results[0].Result.Nodes)
	}
}

func TestRunBatchSkipsAlreadyExtractedArchive(t *testing.T) {
	scene := validSceneBytes()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(scene)
	}))
	defer srv.Close()

	st := openTestStore(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	source := cache.Source{ID: srv.URL + "/shot010.hip", Class: cache.SourceContentLibrary}

	first, err := RunBatch(ctx, st, mgr, []cache.Source{source}, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Extracted != 1 {
		t.Fatalf("expected first run to extract, got %+v", first)
	}

	second, err := RunBatch(ctx, st, mgr, []cache.Source{source}, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Skipped != 1 || second.Extracted != 0 {
		t.Fatalf("expected second run to skip via idempotence, got %+v", second)
	}
	if second.Results[0].Outcome != OutcomeSkipped {
		t.Errorf("expected skipped outcome, got %s", second.Results[0].Outcome)
	}
}

func TestRunBatchRecordsParseErrorWithoutAbortingBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a cpio archive at all, just junk text padded out"))
	}))
	defer srv.Close()

	st := openTestStore(t)
	mgr := newTestManager(t)
	sources := []cache.Source{
		{ID: srv.URL + "/broken.hip", Class: cache.SourceContentLibrary},
		{ID: srv.URL + "/broken.hip?second=1", Class: cache.SourceContentLibrary},
	}

	summary, err := RunBatch(context.Background(), st, mgr, sources, nil)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if summary.Failed != 2 {
		t.Fatalf("expected both archives to fail to parse, got %+v", summary)
	}
	for _, r := range summary.Results {
		if r.Outcome != OutcomeParseErr {
			t.Errorf("expected parse_error outcome, got %s", r.Outcome)
		}
		file, err := st.FileByHash(context.Background(), r.Hash)
		if err != nil || file == nil {
			t.Fatalf("expected failure record for hash %s, err=%v", r.Hash, err)
		}
		if file.ParseStatus != store.ParseStatusError {
			t.Errorf("expected error parse status, got %s", file.ParseStatus)
		}
	}
}

func TestRunBatchReportsCacheMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	st := openTestStore(t)
	mgr := newTestManager(t)

	summary, err := RunBatch(context.Background(), st, mgr, []cache.Source{{ID: srv.URL + "/missing.hip", Class: cache.SourceContentLibrary}}, nil)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if summary.Misses != 1 {
		t.Fatalf("expected a cache miss, got %+v", summary)
	}
	if summary.Results[0].Outcome != OutcomeMiss {
		t.Errorf("expected miss outcome, got %s", summary.Results[0].Outcome)
	}
}

func TestRunBatchProgressCallbackInvokedPerArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(validSceneBytes())
	}))
	defer srv.Close()

	st := openTestStore(t)
	mgr := newTestManager(t)

	var calls []int
	_, err := RunBatch(context.Background(), st, mgr, []cache.Source{{ID: srv.URL + "/a.hip", Class: cache.SourceContentLibrary}}, func(done, total int, source string) {
		calls = append(calls, done)
		if total != 1 {
			t.Errorf("expected total 1, got %d", total)
		}
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("expected exactly one progress call reporting done=1, got %v", calls)
	}
}

func TestRunLocalScanExtractsDiscoveredFiles(t *testing.T) {
	installDir := t.TempDir()
	hipPath := filepath.Join(installDir, "projects", "pyro_shot.hip")
	if err := os.MkdirAll(filepath.Dir(hipPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hipPath, validSceneBytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	st := openTestStore(t)
	mgr, err := cache.NewManager(cache.Config{CacheDir: t.TempDir(), MaxBytes: 1 << 20, InstallPath: installDir})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	summary, err := RunLocalScan(context.Background(), st, mgr, nil)
	if err != nil {
		t.Fatalf("run local scan: %v", err)
	}
	if summary.Extracted != 1 {
		t.Fatalf("expected 1 extracted local archive, got %+v", summary)
	}
	if summary.Results[0].Outcome != OutcomeExtracted {
		t.Errorf("expected extracted outcome, got %s", summary.Results[0].Outcome)
	}
}
