// File path: internal/cache/manager.go
package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/houdini-kb/hipcore/internal/common"
	"github.com/houdini-kb/hipcore/internal/common/telemetry"
)

const userAgent = "hipcore-cache/1.0 (+archive acquisition)"

const acquisitionSpacing = 2000 * time.Millisecond

// Manager owns the cache directory's manifest and enforces the acquisition,
// eviction, and rate-limit policy over it.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	dir    string
	man    *Manifest
	ages   *ageIndex
	client *http.Client

	lastFetch time.Time
}

// NewManager opens (or initializes) the cache directory described by cfg.
func NewManager(cfg Config) (*Manager, error) {
	if strings.TrimSpace(cfg.CacheDir) == "" {
		return nil, fmt.Errorf("cache dir required")
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	m, err := loadManifest(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	ages := newAgeIndex()
	type idEntry struct {
		id string
		Entry
	}
	ordered := make([]idEntry, 0, len(m.Entries))
	for id, e := range m.Entries {
		ordered = append(ordered, idEntry{id: id, Entry: e})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].DownloadedAt.Before(ordered[j].DownloadedAt) })
	for _, e := range ordered {
		ages.touch(e.id)
	}
	return &Manager{
		cfg:    cfg,
		dir:    cfg.CacheDir,
		man:    m,
		ages:   ages,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Acquire resolves src to a cached Entry, fetching over HTTP when no usable
// cached copy already exists. The manifest is keyed by src.ID (the source
// URL), so a repeat Acquire of the same source is a direct map lookup
// rather than a scan. ok is false on a cache miss (a non-2xx response, or a
// request or body read that fails); such misses are never cached.
func (m *Manager) Acquire(ctx context.Context, src Source) (entry Entry, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	if existing, found := m.man.Entries[src.ID]; found {
		if _, statErr := os.Stat(existing.LocalPath); statErr == nil {
			telemetry.RecordAcquire(true, false, time.Since(start))
			return existing, true, nil
		}
	}

	m.throttle()
	m.lastFetch = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.ID, nil)
	if err != nil {
		return Entry{}, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		common.Logger().Warn("cache: fetch failed", "source", src.ID, "error", err)
		return Entry{}, false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		telemetry.RecordAcquire(false, true, time.Since(start))
		return Entry{}, false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		common.Logger().Warn("cache: read response body failed", "source", src.ID, "error", err)
		return Entry{}, false, nil
	}

	hash := hashBytes(body)
	originalName := baseNameOf(src.ID)
	name := fileNameFor(hash, originalName)
	localPath := filepath.Join(m.dir, name)
	if err := writeAtomic(localPath, body); err != nil {
		return Entry{}, false, err
	}

	newEntry := Entry{
		Hash:             hash,
		LocalPath:        localPath,
		Source:           src.Class,
		SourceURL:        src.ID,
		OriginalFilename: originalName,
		Size:             int64(len(body)),
		DownloadedAt:     time.Now().UTC(),
	}
	m.man.Entries[src.ID] = newEntry
	m.ages.touch(src.ID)

	m.evict(src.ID)

	m.man.LastUpdated = time.Now().UTC()
	if err := saveManifest(m.dir, m.man); err != nil {
		return Entry{}, false, err
	}
	telemetry.RecordAcquire(false, false, time.Since(start))
	return newEntry, true, nil
}

// throttle enforces the fixed 2-second acquisition spacing within a batch.
func (m *Manager) throttle() {
	if m.lastFetch.IsZero() {
		return
	}
	elapsed := time.Since(m.lastFetch)
	if elapsed < acquisitionSpacing {
		time.Sleep(acquisitionSpacing - elapsed)
	}
}

// evict removes the oldest entries until the manifest's total size is
// within budget. protectedID (a manifest key, i.e. a source ID) is never
// evicted, even if it happens to be the oldest (it was just created by
// this call).
func (m *Manager) evict(protectedID string) {
	budget := m.cfg.MaxBytes
	if budget <= 0 {
		budget = defaultMaxBytes
	}
	for m.man.totalBytes() > budget {
		id, ok := m.ages.oldest()
		if !ok {
			return
		}
		if id == protectedID {
			// nothing else to evict without removing the protected entry
			if m.ages.len() <= 1 {
				return
			}
			// fall through to the next-oldest by temporarily removing and
			// restoring the protected entry's position.
			m.ages.remove(id)
			next, ok := m.ages.oldest()
			m.ages.touch(id)
			if !ok || next == "" {
				return
			}
			id = next
		}
		entry, exists := m.man.Entries[id]
		if !exists {
			m.ages.remove(id)
			continue
		}
		if entry.LocalPath != "" {
			os.Remove(entry.LocalPath)
		}
		delete(m.man.Entries, id)
		m.ages.remove(id)
		telemetry.RecordEviction()
	}
}

func writeAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".blob-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp blob: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp blob: %w", err)
	}
	return nil
}

func baseNameOf(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		return path.Base(parsed.Path)
	}
	return path.Base(rawURL)
}

// fileNameFor builds the on-disk blob name: the first 12 hex characters of
// the hash, a hyphen, and the sanitized original file name.
func fileNameFor(hash, originalName string) string {
	prefix := hash
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return prefix + "-" + sanitizeName(originalName)
}

// sanitizeName replaces every character outside [A-Za-z0-9._-] with an
// underscore and truncates the result to 100 bytes.
func sanitizeName(name string) string {
	if name == "" {
		name = "archive"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
