// File path: internal/cache/types.go
package cache

import "time"

// SourceClass is the closed set of provenance categories a Cache Entry or
// HIP File Record can carry.
type SourceClass string

const (
	SourceContentLibrary SourceClass = "content_library"
	SourceExamples       SourceClass = "examples"
	SourceLocalInstall   SourceClass = "local_install"
	SourceCommunity      SourceClass = "community"
)

// Source identifies one acquisition request: the network URL (or, for a
// local-scan-derived entry, the on-disk path) tagged with the provenance
// class the caller asserts for it. ID is also the manifest key.
type Source struct {
	ID    string
	Class SourceClass
}

// Entry describes one cached archive: where its bytes live on disk, where
// they came from, and enough bookkeeping to support eviction and reuse.
type Entry struct {
	Hash             string      `json:"hash"`
	LocalPath        string      `json:"localPath"`
	Source           SourceClass `json:"source"`
	SourceURL        string      `json:"sourceUrl,omitempty"`
	OriginalFilename string      `json:"originalFilename"`
	Description      string      `json:"description,omitempty"`
	Size             int64       `json:"size"`
	DownloadedAt     time.Time   `json:"downloadedAt"`
	Systems          []string    `json:"systems,omitempty"`
}

// Manifest is the on-disk index of everything currently held in the cache
// directory.
type Manifest struct {
	Version     int              `json:"version"`
	Entries     map[string]Entry `json:"entries"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

const manifestVersion = 1

func newManifest() *Manifest {
	return &Manifest{Version: manifestVersion, Entries: make(map[string]Entry)}
}

func (m *Manifest) totalBytes() int64 {
	var sum int64
	for _, e := range m.Entries {
		sum += e.Size
	}
	return sum
}
