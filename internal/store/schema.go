// File path: internal/store/schema.go
package store

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`PRAGMA foreign_keys = ON;`,
	`CREATE TABLE IF NOT EXISTS hip_files (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                file_name TEXT NOT NULL,
                file_hash TEXT NOT NULL UNIQUE,
                source TEXT NOT NULL DEFAULT '',
                source_url TEXT NOT NULL DEFAULT '',
                houdini_version TEXT NOT NULL DEFAULT '',
                description TEXT NOT NULL DEFAULT '',
                systems TEXT NOT NULL DEFAULT '[]',
                node_count INTEGER NOT NULL DEFAULT 0,
                parsed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                parse_status TEXT NOT NULL DEFAULT 'pending',
                parse_error TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS parameter_snapshots (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                hip_file_id INTEGER NOT NULL,
                node_type TEXT NOT NULL,
                node_path TEXT NOT NULL,
                param_name TEXT NOT NULL,
                param_value TEXT NOT NULL DEFAULT '',
                is_default INTEGER NOT NULL DEFAULT 1,
                expression TEXT NOT NULL DEFAULT '',
                FOREIGN KEY(hip_file_id) REFERENCES hip_files(id) ON DELETE CASCADE
        );`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_hip_file ON parameter_snapshots(hip_file_id);`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_node_type ON parameter_snapshots(node_type);`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_param_name ON parameter_snapshots(param_name);`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_node_type_param ON parameter_snapshots(node_type, param_name);`,
}
