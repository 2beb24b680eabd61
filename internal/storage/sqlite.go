// Package storage is the offline snapshot cache: the last successfully
// fetched events, so a failed load can fall back to stale data instead
// of an empty grid. The backend stays the source of truth; the cache is
// never written back to it.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gridcal/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			all_day INTEGER DEFAULT 0,
			location TEXT DEFAULT '',
			description TEXT DEFAULT '',
			color TEXT DEFAULT '',
			cached_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SaveRange replaces the cached events whose start falls in [from, to)
// with the given snapshot.
func (s *Storage) SaveRange(from, to time.Time, events []domain.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM events WHERE start_time >= ? AND start_time < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("clear range: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range events {
		_, err = tx.Exec(`INSERT OR REPLACE INTO events
			(id, title, start_time, end_time, all_day, location, description, color, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title,
			e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339),
			boolToInt(e.AllDay), e.Location, e.Description, e.Color, now)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// LoadRange returns the cached events whose start falls in [from, to).
func (s *Storage) LoadRange(from, to time.Time) ([]domain.Event, error) {
	rows, err := s.db.Query(`SELECT id, title, start_time, end_time, all_day, location, description, color
		FROM events WHERE start_time >= ? AND start_time < ? ORDER BY start_time`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var start, end string
		var allDay int
		if err := rows.Scan(&e.ID, &e.Title, &start, &end, &allDay,
			&e.Location, &e.Description, &e.Color); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parse cached start: %w", err)
		}
		if e.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("parse cached end: %w", err)
		}
		e.AllDay = allDay != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
