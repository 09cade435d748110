package decisionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"trade-advisor/internal/types"
)

// SQLite persists entries to a SQLite database.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLite opens (or creates) the database at dbPath and runs migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads during a write do not block.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			session     TEXT,
			confidence  INTEGER,
			action      TEXT,
			flags       TEXT,
			indicators  TEXT,
			idea_id     TEXT,
			message     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_symbol ON decisions(symbol, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Append inserts one decision row. Flags and indicators are stored as JSON
// so the schema survives vocabulary changes.
func (s *SQLite) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := json.Marshal(e.Flags)
	if err != nil {
		return err
	}
	indicators, err := json.Marshal(e.Indicators)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO decisions
		(timestamp, symbol, timeframe, session, confidence, action, flags, indicators, idea_id, message)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), e.Symbol, e.Timeframe, e.Session,
		e.Confidence, string(e.Action), string(flags), string(indicators),
		e.IdeaID, e.Message,
	)
	return err
}

// Recent returns the newest limit entries for a symbol, newest first.
func (s *SQLite) Recent(ctx context.Context, symbol string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT timestamp, symbol, timeframe, session,
		confidence, action, flags, indicators, idea_id, message
		FROM decisions WHERE symbol = ? ORDER BY timestamp DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e           Entry
			ts          int64
			action      string
			flags, inds string
		)
		if err := rows.Scan(&ts, &e.Symbol, &e.Timeframe, &e.Session,
			&e.Confidence, &action, &flags, &inds, &e.IdeaID, &e.Message); err != nil {
			return nil, err
		}
		e.Time = time.Unix(ts, 0).UTC().Format(time.RFC3339)
		e.Action = types.Action(action)
		_ = json.Unmarshal([]byte(flags), &e.Flags)
		_ = json.Unmarshal([]byte(inds), &e.Indicators)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
