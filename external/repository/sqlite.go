package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_sessions (
	user_id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	locale TEXT NOT NULL,
	locale_set INTEGER NOT NULL DEFAULT 0,
	persona_id TEXT NOT NULL,
	nudge_counter INTEGER NOT NULL DEFAULT 0,
	total_messages INTEGER NOT NULL DEFAULT 0,
	text_messages INTEGER NOT NULL DEFAULT 0,
	voice_messages INTEGER NOT NULL DEFAULT 0,
	first_seen_at INTEGER NOT NULL,
	last_seen_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_usage (
	day TEXT PRIMARY KEY,
	messages INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS daily_users (
	day TEXT NOT NULL,
	user_id TEXT NOT NULL,
	PRIMARY KEY (day, user_id)
);
`

// sqlitePragmas is applied by the driver to every pooled connection.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// SQLiteRepository is the single-file store for small deployments.
type SQLiteRepository struct {
	db *sql.DB
	// writeMu serializes every write; WAL lets reads proceed alongside.
	writeMu sync.Mutex
}

func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) EnsureSession(ctx context.Context, input repository.EnsureSessionInput) (*repository.Session, error) {
	now := input.Now.UTC().Unix()
	r.writeMu.Lock()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_sessions (user_id, mode, locale, persona_id, first_seen_at, last_seen_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		input.UserID, string(input.Mode), string(input.Locale), input.PersonaID, now, now)
	r.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	s, err := r.GetSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("ensure session for %s: %w", input.UserID, repository.ErrSessionNotFound)
	}
	return s, nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, userID string) (*repository.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE user_id = ?`, userID)
	var s repository.Session
	var m, l string
	var localeSet int
	var firstSeen, lastSeen int64
	err := row.Scan(&s.UserID, &m, &l, &localeSet, &s.PersonaID, &s.NudgeCounter,
		&s.TotalMessages, &s.TextMessages, &s.VoiceMessages, &firstSeen, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	s.Mode = mode.Mode(m)
	s.Locale = locale.Locale(l)
	s.LocaleSet = localeSet != 0
	s.FirstSeenAt = time.Unix(firstSeen, 0).UTC()
	s.LastSeenAt = time.Unix(lastSeen, 0).UTC()
	return &s, nil
}

func (r *SQLiteRepository) UpdateMode(ctx context.Context, userID string, m mode.Mode) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	res, err := r.db.ExecContext(ctx, `UPDATE user_sessions SET mode = ? WHERE user_id = ?`, string(m), userID)
	if err != nil {
		return fmt.Errorf("update mode: %w", err)
	}
	return requireAffected(res, "update mode", userID)
}

func (r *SQLiteRepository) UpdateLocale(ctx context.Context, userID string, l locale.Locale) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_sessions SET locale = ?, locale_set = 1 WHERE user_id = ?`, string(l), userID)
	if err != nil {
		return fmt.Errorf("update locale: %w", err)
	}
	return requireAffected(res, "update locale", userID)
}

func (r *SQLiteRepository) RecordTurn(ctx context.Context, input repository.RecordTurnInput) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	textInc, voiceInc := kindIncrements(input.Kind)
	day := repository.DayKey(input.At)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var counter int64
	err = tx.QueryRowContext(ctx,
		`UPDATE user_sessions SET
			nudge_counter = nudge_counter + 1,
			total_messages = total_messages + 1,
			text_messages = text_messages + ?,
			voice_messages = voice_messages + ?,
			last_seen_at = ?
		 WHERE user_id = ?
		 RETURNING nudge_counter`,
		textInc, voiceInc, input.At.UTC().Unix(), input.UserID).Scan(&counter)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("record turn for %s: %w", input.UserID, repository.ErrSessionNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("bump session counters: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO daily_usage (day, messages) VALUES (?, 1)
		 ON CONFLICT(day) DO UPDATE SET messages = messages + 1`, day); err != nil {
		return 0, fmt.Errorf("bump daily usage: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO daily_users (day, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		day, input.UserID); err != nil {
		return 0, fmt.Errorf("mark daily user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit turn: %w", err)
	}
	return counter, nil
}

func (r *SQLiteRepository) ListDailyAggregates(ctx context.Context, since time.Time) ([]repository.DailyAggregate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.day, u.messages, COUNT(du.user_id)
		 FROM daily_usage u LEFT JOIN daily_users du ON du.day = u.day
		 WHERE u.day >= ?
		 GROUP BY u.day, u.messages
		 ORDER BY u.day ASC`,
		repository.DayKey(since))
	if err != nil {
		return nil, fmt.Errorf("query daily usage: %w", err)
	}
	defer rows.Close()
	var list []repository.DailyAggregate
	for rows.Next() {
		var key string
		var a repository.DailyAggregate
		if err := rows.Scan(&key, &a.Messages, &a.Users); err != nil {
			return nil, fmt.Errorf("scan daily usage: %w", err)
		}
		if a.Day, err = time.Parse(time.DateOnly, key); err != nil {
			return nil, fmt.Errorf("parse day %q: %w", key, err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) GetTotals(ctx context.Context) (*repository.Totals, error) {
	var t repository.Totals
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_messages), 0),
			COALESCE(SUM(text_messages), 0), COALESCE(SUM(voice_messages), 0)
		 FROM user_sessions`).Scan(&t.Users, &t.Messages, &t.TextMessages, &t.VoiceMessages)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	return &t, nil
}

func (r *SQLiteRepository) PruneDailyBefore(ctx context.Context, day time.Time) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cutoff := repository.DayKey(day)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_users WHERE day < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("prune daily users: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM daily_usage WHERE day < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune daily usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func requireAffected(res sql.Result, op, userID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s for %s: %w", op, userID, repository.ErrSessionNotFound)
	}
	return nil
}
