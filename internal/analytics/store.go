// Package analytics is the append-only sink for login and recommendation
// events. Single-row inserts only; the pipeline never reads records back.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go_tunes/internal/engine"
	_ "modernc.org/sqlite"
)

// Store persists events to SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database (and its directory) if needed and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("analytics: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("analytics: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("analytics: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS logins (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		service   TEXT NOT NULL,
		token     TEXT NOT NULL
	)`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS recommendations (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id     TEXT,
		timestamp      TEXT NOT NULL,
		service        TEXT NOT NULL,
		playlist_id    TEXT NOT NULL,
		recommendation TEXT,
		details        TEXT,
		language       TEXT,
		outcome        TEXT DEFAULT 'success',
		error_message  TEXT
	)`)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

var _ engine.EventRecorder = (*Store)(nil)

// RecordLogin stores one login event for a service.
func (s *Store) RecordLogin(ctx context.Context, service, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logins (timestamp, service, token) VALUES (?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), service, token,
	)
	if err != nil {
		return fmt.Errorf("analytics: record login: %w", err)
	}
	return nil
}

// RecordRecommendation stores one recommendation event. Details are
// serialized as JSON.
func (s *Store) RecordRecommendation(ctx context.Context, ev engine.Event) error {
	details, err := json.Marshal(ev.Details)
	if err != nil {
		return fmt.Errorf("analytics: marshal details: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recommendations
		 (session_id, timestamp, service, playlist_id, recommendation, details, language, outcome, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.SessionID,
		time.Now().UTC().Format(time.RFC3339),
		string(ev.Service),
		ev.PlaylistID,
		ev.Recommendation,
		string(details),
		ev.Language,
		string(ev.Outcome),
		ev.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("analytics: record recommendation: %w", err)
	}
	return nil
}
