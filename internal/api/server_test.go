// File path: internal/api/server_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/houdini-kb/hipcore/internal/store"
)

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

func TestHandleHealthReturnsOK(t *testing.T) {
	srv := NewServer(openTestStore(t))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleStatsReturnsAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	file := store.HIPFile{FileName: "shot.hip", FileHash: "h1", Source: "local_install", NodeCount: 1}
	snapshots := []store.SnapshotInput{
		{NodeType: "pyrosolver::2.0", NodePath: "/obj/geo1/pyro1", ParamName: "dissipation", ParamValue: "0", IsDefault: true},
		{NodeType: "pyrosolver::2.0", NodePath: "/obj/geo1/pyro2", ParamName: "dissipation", ParamValue: "1.0", IsDefault: false},
	}
	if _, err := st.RecordSuccess(ctx, file, snapshots); err != nil {
		t.Fatalf("record success: %v", err)
	}

	srv := NewServer(st)
	req := httptest.NewRequest(http.MethodGet, "/stats/pyrosolver::2.0", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 aggregated parameter, got %d", len(resp.Results))
	}
	entry := resp.Results[0]
	if entry.SampleCount != 2 || entry.Min != 0 || entry.Max != 1 {
		t.Errorf("unexpected aggregate: %+v", entry)
	}
	if entry.UsageLow != 0.1 || entry.UsageHigh != 0.9 {
		t.Errorf("unexpected usage range: low=%v high=%v", entry.UsageLow, entry.UsageHigh)
	}
}

func TestHandleStatsExcludesSingleSampleParameters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	file := store.HIPFile{FileName: "shot.hip", FileHash: "h2", Source: "local_install", NodeCount: 1}
	snapshots := []store.SnapshotInput{
		{NodeType: "merge", NodePath: "/obj/geo1/merge1", ParamName: "pairs", ParamValue: "2", IsDefault: true},
	}
	if _, err := st.RecordSuccess(ctx, file, snapshots); err != nil {
		t.Fatalf("record success: %v", err)
	}

	srv := NewServer(st)
	req := httptest.NewRequest(http.MethodGet, "/stats/merge", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected a single-sample parameter to be excluded, got %+v", resp.Results)
	}
}

func TestHandleStatsUnknownNodeTypeReturnsEmptyResults(t *testing.T) {
	srv := NewServer(openTestStore(t))
	req := httptest.NewRequest(http.MethodGet, "/stats/unknown::1.0", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results for unknown node type, got %+v", resp.Results)
	}
}
