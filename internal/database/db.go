package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the assessment history store.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the sqlite database under dataDir and runs
// migrations.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "drive_sentinel.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &DB{DB: db}
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Assessment history database initialized", "path", dbPath)
	return database, nil
}

func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			status TEXT NOT NULL,
			overall_risk REAL NOT NULL,
			highest_risk TEXT NOT NULL,
			wearout_risk REAL NOT NULL,
			thermal_risk REAL NOT NULL,
			power_risk REAL NOT NULL,
			controller_risk REAL NOT NULL,
			telemetry TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// GetPoolStats returns connection pool statistics.
func (db *DB) GetPoolStats() map[string]interface{} {
	stats := db.Stats()
	return map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration_ms": stats.WaitDuration.Milliseconds(),
	}
}
