// Package history records per-server usage snapshots in a local SQLite
// database so past fetches can be inspected offline.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/monit360/m360/internal/api"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
  server_id TEXT NOT NULL,
  name TEXT NOT NULL,
  cpu_usage REAL NOT NULL,
  mem_usage REAL NOT NULL,
  disk_usage REAL NOT NULL,
  recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_server ON snapshots(server_id, recorded_at)`

// Snapshot is one recorded usage measurement for a server.
type Snapshot struct {
	ServerID   string    `json:"server_id"`
	Name       string    `json:"name"`
	CPUUsage   float64   `json:"cpu_usage"`
	MemUsage   float64   `json:"mem_usage"`
	DiskUsage  float64   `json:"disk_usage"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store is the snapshot history database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one usage row per server, all stamped with fetchedAt.
func (s *Store) Record(fetchedAt time.Time, servers []api.Server) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting history transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO snapshots
		(server_id, name, cpu_usage, mem_usage, disk_usage, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	stamp := fetchedAt.UTC().Format(time.RFC3339)
	for _, srv := range servers {
		if _, err := stmt.Exec(srv.ID, srv.Name,
			srv.Summary.CPUUsagePercent,
			srv.Summary.MemUsagePercent,
			srv.Summary.DiskUsagePercent,
			stamp); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording snapshot for %s: %w", srv.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history transaction: %w", err)
	}
	return nil
}

// ByServer returns the most recent snapshots for one server, newest first.
// A limit of 0 returns all rows.
func (s *Store) ByServer(serverID string, limit int) ([]Snapshot, error) {
	return s.query(`WHERE server_id = ?`, serverID, limit)
}

// ByName returns the most recent snapshots whose server name contains the
// pattern, newest first. A limit of 0 returns all rows.
func (s *Store) ByName(pattern string, limit int) ([]Snapshot, error) {
	return s.query(`WHERE instr(name, ?) > 0`, pattern, limit)
}

func (s *Store) query(where string, arg any, limit int) ([]Snapshot, error) {
	query := `SELECT server_id, name, cpu_usage, mem_usage, disk_usage, recorded_at
		FROM snapshots ` + where + ` ORDER BY recorded_at DESC`
	args := []any{arg}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var stamp string
		if err := rows.Scan(&snap.ServerID, &snap.Name, &snap.CPUUsage,
			&snap.MemUsage, &snap.DiskUsage, &stamp); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			return nil, fmt.Errorf("parsing history timestamp: %w", err)
		}
		snap.RecordedAt = t
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}

	return snaps, nil
}
