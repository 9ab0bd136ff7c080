package database

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and SQLite (pure-Go modernc
// driver) for anything else, which is the normal single-operator setup.
func Connect(dsn string, zl *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormLogger(zl)}

	if IsPostgresDSN(dsn) {
		if zl != nil {
			zl.Info("connecting to PostgreSQL")
		}
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	if zl != nil {
		zl.Info("using SQLite database", zap.String("dsn", dsn))
	}
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// gormLogger sends gorm's slow-query and error lines through zap at Warn.
func gormLogger(zl *zap.Logger) logger.Interface {
	if zl == nil {
		zl = zap.NewNop()
	}
	w, err := zap.NewStdLogAt(zl.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		w = zap.NewStdLog(zl.Named("gorm"))
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// IsPostgresDSN reports whether dsn points at a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// SQLiteFilePath returns the on-disk database file behind a SQLite DSN, or ""
// when the DSN is PostgreSQL or an in-memory database.
func SQLiteFilePath(dsn string) string {
	if IsPostgresDSN(dsn) {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return ""
		}
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}
