// File path: internal/store/types.go
package store

import "time"

// ParseStatus is the closed set of outcomes recorded for a HIP File Record.
type ParseStatus string

const (
	ParseStatusPending ParseStatus = "pending"
	ParseStatusSuccess ParseStatus = "success"
	ParseStatusError   ParseStatus = "error"
)

// HIPFile is the persisted stable identity of a previously parsed archive,
// keyed by its content hash.
type HIPFile struct {
	ID             int64       `db:"id"`
	FileName       string      `db:"file_name"`
	FileHash       string      `db:"file_hash"`
	Source         string      `db:"source"`
	SourceURL      string      `db:"source_url"`
	HoudiniVersion string      `db:"houdini_version"`
	Description    string      `db:"description"`
	Systems        string      `db:"systems"`
	NodeCount      int         `db:"node_count"`
	ParsedAt       time.Time   `db:"parsed_at"`
	ParseStatus    ParseStatus `db:"parse_status"`
	ParseError     string      `db:"parse_error"`
}

// ParameterSnapshot is one observed (node_type, param_name, value) triple
// extracted from a specific HIP file.
type ParameterSnapshot struct {
	ID         int64  `db:"id"`
	HIPFileID  int64  `db:"hip_file_id"`
	NodeType   string `db:"node_type"`
	NodePath   string `db:"node_path"`
	ParamName  string `db:"param_name"`
	ParamValue string `db:"param_value"`
	IsDefault  bool   `db:"is_default"`
	Expression string `db:"expression"`
}
