package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS exchanges (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT NOT NULL,
    video_url   TEXT NOT NULL,
    question    TEXT NOT NULL,
    answer      TEXT NOT NULL,
    follow_up   INTEGER NOT NULL DEFAULT 0,
    asked_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS exchanges_session ON exchanges(session_id, id);

CREATE VIRTUAL TABLE IF NOT EXISTS exchanges_fts USING fts5(
    question,
    answer,
    content=exchanges,
    content_rowid=id,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS exchanges_ai AFTER INSERT ON exchanges BEGIN
    INSERT INTO exchanges_fts(rowid, question, answer) VALUES (new.id, new.question, new.answer);
END;

CREATE TRIGGER IF NOT EXISTS exchanges_ad AFTER DELETE ON exchanges BEGIN
    INSERT INTO exchanges_fts(exchanges_fts, rowid, question, answer) VALUES('delete', old.id, old.question, old.answer);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion is recorded in meta so later layouts can detect old files.
const schemaVersion = "1"

const timeLayout = "2006-01-02T15:04:05Z"

// Exchange is one answered question.
type Exchange struct {
	ID        int64
	SessionID string
	VideoURL  string
	Question  string
	Answer    string
	FollowUp  bool
	AskedAt   time.Time
}

// DB is the local history of answered exchanges.
type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// a single connection keeps WAL pragmas and in-memory databases coherent
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("init meta: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// SchemaVersion returns the layout version stored in the file.
func (d *DB) SchemaVersion(ctx context.Context) (string, error) {
	var v string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'schema_version'").Scan(&v)
	return v, err
}

// Record stores one exchange and returns its id.
func (d *DB) Record(ctx context.Context, ex Exchange) (int64, error) {
	if ex.AskedAt.IsZero() {
		ex.AskedAt = time.Now()
	}
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, video_url, question, answer, follow_up, asked_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ex.SessionID,
		ex.VideoURL,
		ex.Question,
		ex.Answer,
		boolToInt(ex.FollowUp),
		ex.AskedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert exchange: %w", err)
	}
	return res.LastInsertId()
}

// Get returns the exchange with the given id, or nil if there is none.
func (d *DB) Get(ctx context.Context, id int64) (*Exchange, error) {
	row := d.db.QueryRowContext(ctx,
		"SELECT id, session_id, video_url, question, answer, follow_up, asked_at FROM exchanges WHERE id = ?",
		id,
	)
	ex, err := scanExchange(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// Conversation returns every exchange of a session, oldest first.
func (d *DB) Conversation(ctx context.Context, sessionID string) ([]Exchange, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT id, session_id, video_url, question, answer, follow_up, asked_at FROM exchanges WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	return out, rows.Err()
}

func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exchanges").Scan(&n)
	return n, err
}

func (d *DB) SessionCount(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT session_id) FROM exchanges").Scan(&n)
	return n, err
}

// CheckFTS verifies the full-text index against the exchanges table.
func (d *DB) CheckFTS(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, "INSERT INTO exchanges_fts(exchanges_fts, rank) VALUES('integrity-check', 1)")
	if err != nil {
		return fmt.Errorf("fts integrity check: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExchange(s scanner) (*Exchange, error) {
	var ex Exchange
	var followUp int
	var askedAt string
	if err := s.Scan(&ex.ID, &ex.SessionID, &ex.VideoURL, &ex.Question, &ex.Answer, &followUp, &askedAt); err != nil {
		return nil, err
	}
	ex.FollowUp = followUp != 0
	ex.AskedAt = parseTime(askedAt)
	return &ex, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
