// File path: internal/ingest/pipeline.go
package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/houdini-kb/hipcore/internal/archive"
	"github.com/houdini-kb/hipcore/internal/cache"
	"github.com/houdini-kb/hipcore/internal/common"
	"github.com/houdini-kb/hipcore/internal/common/telemetry"
	"github.com/houdini-kb/hipcore/internal/extract"
	"github.com/houdini-kb/hipcore/internal/hip"
	"github.com/houdini-kb/hipcore/internal/store"
)

// Outcome is the closed set of per-archive results reported in a batch
// Summary, mirroring the three failure classes the error-handling design
// distinguishes: cache miss, parse error, and store/extract error.
type Outcome string

const (
	OutcomeExtracted Outcome = "extracted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeMiss      Outcome = "miss"
	OutcomeParseErr  Outcome = "parse_error"
	OutcomeStoreErr  Outcome = "store_error"
)

// ArchiveResult records what happened acquiring, parsing, and extracting
// one archive.
type ArchiveResult struct {
	Source  string
	Hash    string
	Outcome Outcome
	Result  extract.Result
	Err     error
}

// Summary aggregates the per-archive results of one RunBatch call.
type Summary struct {
	Extracted int
	Skipped   int
	Misses    int
	Failed    int
	Results   []ArchiveResult
}

// ProgressFunc is invoked after each archive in the batch completes, in
// processing order.
type ProgressFunc func(done, total int, source string)

// RunBatch drives the full pipeline — acquire, read, filter, parse,
// extract — over a list of sources, one archive fully completed before the
// next begins. A single archive's failure is recorded and never aborts the
// remainder of the batch.
func RunBatch(ctx context.Context, st *store.Store, mgr *cache.Manager, sources []cache.Source, progress ProgressFunc) (Summary, error) {
	var summary Summary
	logger := common.Logger()

	for i, source := range sources {
		result := processOne(ctx, st, mgr, source)
		summary.Results = append(summary.Results, result)
		switch result.Outcome {
		case OutcomeExtracted:
			summary.Extracted++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeMiss:
			summary.Misses++
		default:
			summary.Failed++
		}
		if result.Err != nil {
			logger.Warn("ingest: archive failed", "source", source.ID, "outcome", string(result.Outcome), "error", result.Err)
		}
		if memErr := telemetry.CheckMemoryBudget("ingest.pipeline"); memErr != nil {
			logger.Warn("ingest: memory guard warning", "error", memErr)
		}
		if progress != nil {
			progress(i+1, len(sources), source.ID)
		}
	}
	return summary, nil
}

// RunLocalScan drives the same read/filter/parse/extract stages over
// archives discovered by a Houdini-installation local scan, bypassing the
// HTTP acquisition step entirely since the bytes already live on disk.
func RunLocalScan(ctx context.Context, st *store.Store, mgr *cache.Manager, progress ProgressFunc) (Summary, error) {
	entries, err := mgr.ScanLocalInstall()
	if err != nil {
		return Summary{}, fmt.Errorf("scan local install: %w", err)
	}
	var summary Summary
	logger := common.Logger()
	for i, entry := range entries {
		result := processEntry(ctx, st, entry, entry.LocalPath)
		summary.Results = append(summary.Results, result)
		switch result.Outcome {
		case OutcomeExtracted:
			summary.Extracted++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeMiss:
			summary.Misses++
		default:
			summary.Failed++
		}
		if result.Err != nil {
			logger.Warn("ingest: local archive failed", "path", entry.LocalPath, "outcome", string(result.Outcome), "error", result.Err)
		}
		if progress != nil {
			progress(i+1, len(entries), entry.LocalPath)
		}
	}
	return summary, nil
}

func processOne(ctx context.Context, st *store.Store, mgr *cache.Manager, source cache.Source) ArchiveResult {
	entry, ok, err := mgr.Acquire(ctx, source)
	if err != nil {
		return ArchiveResult{Source: source.ID, Outcome: OutcomeStoreErr, Err: fmt.Errorf("acquire: %w", err)}
	}
	if !ok {
		return ArchiveResult{Source: source.ID, Outcome: OutcomeMiss}
	}
	return processEntry(ctx, st, entry, source.ID)
}

func processEntry(ctx context.Context, st *store.Store, entry cache.Entry, source string) ArchiveResult {
	already, err := extract.AlreadyExtracted(ctx, st, entry)
	if err != nil {
		return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeStoreErr, Err: fmt.Errorf("check idempotence: %w", err)}
	}
	if already {
		telemetry.RecordExtract(false, true, 0)
		return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeSkipped}
	}

	raw, err := os.ReadFile(entry.LocalPath)
	if err != nil {
		return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeStoreErr, Err: fmt.Errorf("read cached blob: %w", err)}
	}

	parseStart := time.Now()
	scene, parseErr := hip.Parse(raw)
	if parseErr != nil {
		telemetry.RecordParse(0, 0, true, time.Since(parseStart))
		common.Logger().Warn("ingest: parse failed", "source", source, "hash", entry.Hash, "reason", archiveFormatErrorReason(parseErr))
		if recErr := extract.ExtractFailure(ctx, st, entry, parseErr); recErr != nil {
			return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeStoreErr, Err: recErr}
		}
		return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeParseErr, Err: parseErr}
	}
	telemetry.RecordParse(countNodes(scene), countParameters(scene), false, time.Since(parseStart))

	extractResult, err := extract.Extract(ctx, st, scene, entry)
	if err != nil {
		return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeStoreErr, Err: err}
	}
	return ArchiveResult{Source: source, Hash: entry.Hash, Outcome: OutcomeExtracted, Result: extractResult}
}

func countNodes(scene hip.Scene) int {
	return len(scene.Nodes)
}

func countParameters(scene hip.Scene) int {
	total := 0
	for _, n := range scene.Nodes {
		total += len(n.Parameters)
	}
	return total
}

// archiveFormatErrorReason extracts the machine-checkable reason tag from a
// parse error, when it is an *archive.FormatError, for structured logging.
func archiveFormatErrorReason(err error) string {
	if fe, ok := err.(*archive.FormatError); ok {
		return fe.Reason
	}
	return ""
}
