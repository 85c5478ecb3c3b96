// File path: internal/store/queries.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FileByHash looks up a HIP File Record by its content hash. It returns
// (nil, nil) when no record exists yet.
func (s *Store) FileByHash(ctx context.Context, hash string) (*HIPFile, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialised")
	}
	var file HIPFile
	err := s.db.GetContext(ctx, &file, `SELECT * FROM hip_files WHERE file_hash = ?`, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select hip file: %w", err)
	}
	return &file, nil
}

// IsExtracted reports whether a successfully parsed record already exists
// for the given hash, satisfying the extraction idempotence requirement.
func (s *Store) IsExtracted(ctx context.Context, hash string) (bool, error) {
	file, err := s.FileByHash(ctx, hash)
	if err != nil {
		return false, err
	}
	return file != nil && file.ParseStatus == ParseStatusSuccess, nil
}

// SnapshotInput is one Parameter Snapshot row awaiting insertion, prepared
// by the extractor from a parsed Scene.
type SnapshotInput struct {
	NodeType   string
	NodePath   string
	ParamName  string
	ParamValue string
	IsDefault  bool
	Expression string
}

// RecordSuccess upserts a HIP File Record in status success and replaces
// its parameter snapshots, all inside a single write transaction, as
// required for extraction to remain all-or-nothing per archive.
func (s *Store) RecordSuccess(ctx context.Context, file HIPFile, snapshots []SnapshotInput) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin extract transaction: %w", err)
	}
	defer tx.Rollback()

	if file.ParsedAt.IsZero() {
		file.ParsedAt = time.Now().UTC()
	}
	file.ParseStatus = ParseStatusSuccess
	file.ParseError = ""

	if _, err := tx.ExecContext(ctx, `
                INSERT INTO hip_files (file_name, file_hash, source, source_url, houdini_version, description, systems, node_count, parsed_at, parse_status, parse_error)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
                ON CONFLICT(file_hash) DO UPDATE SET
                        file_name = excluded.file_name,
                        source = excluded.source,
                        source_url = excluded.source_url,
                        houdini_version = excluded.houdini_version,
                        description = excluded.description,
                        systems = excluded.systems,
                        node_count = excluded.node_count,
                        parsed_at = excluded.parsed_at,
                        parse_status = excluded.parse_status,
                        parse_error = excluded.parse_error
        `, file.FileName, file.FileHash, file.Source, file.SourceURL, file.HoudiniVersion, file.Description, file.Systems, file.NodeCount, file.ParsedAt, file.ParseStatus, file.ParseError); err != nil {
		return 0, fmt.Errorf("upsert hip file: %w", err)
	}

	var fileID int64
	if err := tx.GetContext(ctx, &fileID, `SELECT id FROM hip_files WHERE file_hash = ?`, file.FileHash); err != nil {
		return 0, fmt.Errorf("resolve hip file id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM parameter_snapshots WHERE hip_file_id = ?`, fileID); err != nil {
		return 0, fmt.Errorf("clear parameter snapshots: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
                INSERT INTO parameter_snapshots (hip_file_id, node_type, node_path, param_name, param_value, is_default, expression)
                VALUES (?, ?, ?, ?, ?, ?, ?)
        `)
	if err != nil {
		return 0, fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		if _, err := stmt.ExecContext(ctx, fileID, snap.NodeType, snap.NodePath, snap.ParamName, snap.ParamValue, snap.IsDefault, snap.Expression); err != nil {
			return 0, fmt.Errorf("insert parameter snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit extract transaction: %w", err)
	}
	return fileID, nil
}

// RecordFailure upserts a HIP File Record in status error, leaving any
// existing snapshots untouched, per the extractor's error-path contract.
func (s *Store) RecordFailure(ctx context.Context, fileName, hash, source, sourceURL string, parseErr error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialised")
	}
	_, err := s.db.ExecContext(ctx, `
                INSERT INTO hip_files (file_name, file_hash, source, source_url, parsed_at, parse_status, parse_error)
                VALUES (?, ?, ?, ?, ?, ?, ?)
                ON CONFLICT(file_hash) DO UPDATE SET
                        file_name = excluded.file_name,
                        source = excluded.source,
                        source_url = excluded.source_url,
                        parsed_at = excluded.parsed_at,
                        parse_status = excluded.parse_status,
                        parse_error = excluded.parse_error
        `, fileName, hash, source, sourceURL, time.Now().UTC(), ParseStatusError, parseErr.Error())
	if err != nil {
		return fmt.Errorf("upsert failed hip file: %w", err)
	}
	return nil
}

// AggregateResult is the computed numeric summary for one (node_type,
// param_name) pair, as returned by the query-time aggregator.
type AggregateResult struct {
	NodeType      string
	ParamName     string
	SampleCount   int
	Min           float64
	Max           float64
	Mean          float64
	ModifiedCount int
}

// NumericSnapshots returns the raw param_value strings recorded for a node
// type, optionally narrowed to a single parameter name. Numeric filtering
// and aggregation are performed by the caller (internal/extract), which
// knows the canonical numeric-parseability rule.
func (s *Store) NumericSnapshots(ctx context.Context, nodeType, paramName string) ([]ParameterSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialised")
	}
	snapshots := []ParameterSnapshot{}
	if paramName == "" {
		if err := s.db.SelectContext(ctx, &snapshots, `SELECT * FROM parameter_snapshots WHERE node_type = ? ORDER BY param_name, id`, nodeType); err != nil {
			return nil, fmt.Errorf("select snapshots: %w", err)
		}
		return snapshots, nil
	}
	if err := s.db.SelectContext(ctx, &snapshots, `SELECT * FROM parameter_snapshots WHERE node_type = ? AND param_name = ? ORDER BY id`, nodeType, paramName); err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	return snapshots, nil
}
