// Package stats keeps an anonymous interaction log of browser sessions in
// SQLite: when a page connected, how big its container was and which pills
// its visitor dragged. Client addresses are only stored hashed.
package stats

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	width REAL NOT NULL,
	height REAL NOT NULL,
	started INTEGER NOT NULL,
	ended INTEGER
);
CREATE TABLE IF NOT EXISTS drags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	item TEXT NOT NULL,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS drags_item ON drags(item);
CREATE INDEX IF NOT EXISTS sessions_started ON sessions(started);
`

// Store times are unix seconds.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open creates or opens the database at path. salt is mixed into client
// address hashes.
func Open(path, salt string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("stats: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: create schema: %w", err)
	}
	return &Store{db: db, salt: salt, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// StartSession records a new connection and returns its id.
func (s *Store) StartSession(ctx context.Context, ip, userAgent string, width, height float64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (hashed_ip, user_agent, width, height, started)
		VALUES (?, ?, ?, ?, ?)
	`, s.hashIP(ip), userAgent, width, height, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("stats: start session: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) EndSession(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET ended = ? WHERE id = ?`, s.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("stats: end session: %w", err)
	}
	return nil
}

// RecordDrag logs one grab of item during session id.
func (s *Store) RecordDrag(ctx context.Context, id int64, item string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drags (session_id, item, timestamp) VALUES (?, ?, ?)
	`, id, item, s.now().Unix())
	if err != nil {
		return fmt.Errorf("stats: record drag: %w", err)
	}
	return nil
}

// ItemCount is how often one pill was dragged.
type ItemCount struct {
	Item  string `json:"item"`
	Drags int    `json:"drags"`
}

type Summary struct {
	Sessions       int         `json:"sessions"`
	UniqueVisitors int         `json:"unique_visitors"`
	Drags          int         `json:"drags"`
	SessionsToday  int         `json:"sessions_today"`
	TopItems       []ItemCount `json:"top_items"`
}

// Summarize aggregates the log. top bounds TopItems.
func (s *Store) Summarize(ctx context.Context, top int) (*Summary, error) {
	sum := &Summary{TopItems: []ItemCount{}}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT hashed_ip) FROM sessions`).
		Scan(&sum.Sessions, &sum.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("stats: count sessions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drags`).Scan(&sum.Drags); err != nil {
		return nil, fmt.Errorf("stats: count drags: %w", err)
	}
	since := s.now().UTC().Truncate(24 * time.Hour).Unix()
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE started >= ?`, since).Scan(&sum.SessionsToday); err != nil {
		return nil, fmt.Errorf("stats: count today: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item, COUNT(*) AS n FROM drags
		GROUP BY item
		ORDER BY n DESC, item ASC
		LIMIT ?
	`, top)
	if err != nil {
		return nil, fmt.Errorf("stats: top items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ic ItemCount
		if err := rows.Scan(&ic.Item, &ic.Drags); err != nil {
			return nil, err
		}
		sum.TopItems = append(sum.TopItems, ic)
	}
	return sum, rows.Err()
}

// Cleanup removes sessions, and their drags, started before now-age.
func (s *Store) Cleanup(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := s.now().Add(-age).Unix()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM drags WHERE session_id IN (SELECT id FROM sessions WHERE started < ?)
	`, cutoff); err != nil {
		return 0, fmt.Errorf("stats: cleanup drags: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE started < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("stats: cleanup sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}
