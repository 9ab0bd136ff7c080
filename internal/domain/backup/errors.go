package backup

import "errors"

var (
	// ErrUnsupportedDatabase is returned when DATABASE_URL is not a SQLite
	// file; PostgreSQL deployments are snapshotted with pg_dump instead.
	ErrUnsupportedDatabase = errors.New("backups require a file-based sqlite database")
	ErrNoBackupDir         = errors.New("backup directory is not configured")
)
