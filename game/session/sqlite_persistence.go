package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/wricardo/sokoban-game/game/service"
)

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	catalog_id TEXT NOT NULL,
	level INTEGER NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	last_accessed_at DATETIME NOT NULL,
	snapshot TEXT NOT NULL
);`

// SQLitePersistence implements SessionPersistence with a single SQLite table.
// The snapshot is stored as JSON; level and status are copied into their own
// columns so the table can be inspected with plain SQL.
type SQLitePersistence struct {
	db       *sql.DB
	catalogs service.CatalogManager
	timeout  time.Duration
}

var _ SessionPersistence = (*SQLitePersistence)(nil)

// NewSQLitePersistence opens (or creates) the database at dbPath
func NewSQLitePersistence(dbPath string, catalogs service.CatalogManager) (*SQLitePersistence, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// All statements share one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec(sessionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLitePersistence{
		db:       db,
		catalogs: catalogs,
		timeout:  5 * time.Second,
	}, nil
}

// Close closes the database
func (p *SQLitePersistence) Close() error {
	return p.db.Close()
}

// Save upserts a session row
func (p *SQLitePersistence) Save(session *service.Session) error {
	data, err := newPersistedSessionData(session)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(data.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	ctx, cancel := p.context()
	defer cancel()

	query := `
		INSERT INTO sessions (id, catalog_id, level, status, created_at, last_accessed_at, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			catalog_id=excluded.catalog_id,
			level=excluded.level,
			status=excluded.status,
			last_accessed_at=excluded.last_accessed_at,
			snapshot=excluded.snapshot
	`
	_, err = p.db.ExecContext(ctx, query,
		storageKey(data.ID), data.CatalogID, data.Snapshot.Level, string(data.Snapshot.Status),
		data.CreatedAt.UTC(), data.LastAccessedAt.UTC(), string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads a session row and restores its game
func (p *SQLitePersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := p.context()
	defer cancel()

	query := `SELECT id, catalog_id, created_at, last_accessed_at, snapshot FROM sessions WHERE id = ?`

	var data PersistedSessionData
	var snapshot string
	err := p.db.QueryRowContext(ctx, query, storageKey(id)).Scan(
		&data.ID, &data.CatalogID, &data.CreatedAt, &data.LastAccessedAt, &snapshot,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal([]byte(snapshot), &data.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return data.restore(p.catalogs)
}

// Delete removes a session row
func (p *SQLitePersistence) Delete(id string) error {
	ctx, cancel := p.context()
	defer cancel()

	result, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, storageKey(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs, oldest first
func (p *SQLitePersistence) ListAll() ([]string, error) {
	ctx, cancel := p.context()
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a session row exists
func (p *SQLitePersistence) Exists(id string) bool {
	ctx, cancel := p.context()
	defer cancel()

	var one int
	err := p.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, storageKey(id)).Scan(&one)
	return err == nil
}

func (p *SQLitePersistence) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}
