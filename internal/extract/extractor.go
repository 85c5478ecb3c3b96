// File path: internal/extract/extractor.go
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/houdini-kb/hipcore/internal/cache"
	"github.com/houdini-kb/hipcore/internal/common/telemetry"
	"github.com/houdini-kb/hipcore/internal/hip"
	"github.com/houdini-kb/hipcore/internal/store"
)

// Result summarizes one Extract call for progress reporting and CLI
// output, per the core API's extract(scene, cacheEntry) contract.
type Result struct {
	Nodes       int
	Parameters  int
	NonDefault  int
	Expressions int
	Errors      []string
}

// AlreadyExtracted reports whether entry's hash already has a successful
// HIP File Record, satisfying the idempotence requirement: callers should
// check this before re-parsing an unchanged archive.
func AlreadyExtracted(ctx context.Context, st *store.Store, entry cache.Entry) (bool, error) {
	return st.IsExtracted(ctx, entry.Hash)
}

// Extract persists a parsed Scene into the catalog in a single write
// transaction: upsert the HIP File Record as successful, then replace all
// of its Parameter Snapshots.
func Extract(ctx context.Context, st *store.Store, scene hip.Scene, entry cache.Entry) (Result, error) {
	start := time.Now()
	var result Result

	systemsJSON, err := json.Marshal(entry.Systems)
	if err != nil {
		systemsJSON = []byte("[]")
	}

	description := entry.Description
	if description == "" {
		description = scene.Metadata["description"]
	}
	file := store.HIPFile{
		FileName:       fileNameOf(entry),
		FileHash:       entry.Hash,
		Source:         string(entry.Source),
		SourceURL:      entry.SourceURL,
		HoudiniVersion: scene.HoudiniVersion,
		Description:    description,
		Systems:        string(systemsJSON),
		NodeCount:      len(scene.Nodes),
	}

	snapshots := make([]store.SnapshotInput, 0, len(scene.Nodes)*4)
	for _, node := range scene.Nodes {
		result.Nodes++
		for _, param := range node.Parameters {
			result.Parameters++
			if !param.IsDefault {
				result.NonDefault++
			}
			if param.Expression != "" {
				result.Expressions++
			}
			snapshots = append(snapshots, store.SnapshotInput{
				NodeType:   node.Type,
				NodePath:   node.Path,
				ParamName:  param.Name,
				ParamValue: encodeValue(param.Value),
				IsDefault:  param.IsDefault,
				Expression: param.Expression,
			})
		}
	}

	if _, err := st.RecordSuccess(ctx, file, snapshots); err != nil {
		telemetry.RecordExtract(true, false, time.Since(start))
		return Result{}, fmt.Errorf("persist extraction: %w", err)
	}
	telemetry.RecordExtract(false, false, time.Since(start))
	return result, nil
}

// ExtractFailure records an archive that failed to parse. Parse errors are
// always an *archive.FormatError per the core API's contract; the message
// is persisted as-is and existing snapshots (if any, from a prior
// successful extraction of the same hash) are left untouched.
func ExtractFailure(ctx context.Context, st *store.Store, entry cache.Entry, parseErr error) error {
	start := time.Now()
	err := st.RecordFailure(ctx, fileNameOf(entry), entry.Hash, string(entry.Source), entry.SourceURL, parseErr)
	telemetry.RecordExtract(true, false, time.Since(start))
	return err
}

func fileNameOf(entry cache.Entry) string {
	if entry.OriginalFilename != "" {
		return entry.OriginalFilename
	}
	if entry.LocalPath == "" {
		return entry.Hash
	}
	return baseName(entry.LocalPath)
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
