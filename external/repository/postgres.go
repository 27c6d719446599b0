package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `user_id, mode, locale, locale_set, persona_id, nudge_counter,
	total_messages, text_messages, voice_messages, first_seen_at, last_seen_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) EnsureSession(ctx context.Context, input repository.EnsureSessionInput) (*repository.Session, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_sessions (user_id, mode, locale, persona_id, first_seen_at, last_seen_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (user_id) DO NOTHING`,
		input.UserID, string(input.Mode), string(input.Locale), input.PersonaID, input.Now.UTC())
	if err != nil {
		return nil, err
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

func (r *PostgresRepository) GetSession(ctx context.Context, userID string) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE user_id = $1`, userID)
	var s repository.Session
	var m, l string
	err := row.Scan(&s.UserID, &m, &l, &s.LocaleSet, &s.PersonaID, &s.NudgeCounter,
		&s.TotalMessages, &s.TextMessages, &s.VoiceMessages, &s.FirstSeenAt, &s.LastSeenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Mode = mode.Mode(m)
	s.Locale = locale.Locale(l)
	return &s, nil
}

func (r *PostgresRepository) UpdateMode(ctx context.Context, userID string, m mode.Mode) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_sessions SET mode = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, string(m))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update mode for %s: %w", userID, repository.ErrSessionNotFound)
	}
	return nil
}

func (r *PostgresRepository) UpdateLocale(ctx context.Context, userID string, l locale.Locale) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_sessions SET locale = $2, locale_set = TRUE, updated_at = NOW() WHERE user_id = $1`,
		userID, string(l))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update locale for %s: %w", userID, repository.ErrSessionNotFound)
	}
	return nil
}

func (r *PostgresRepository) RecordTurn(ctx context.Context, input repository.RecordTurnInput) (int64, error) {
	textInc, voiceInc := kindIncrements(input.Kind)
	day := repository.Day(input.At)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var counter int64
	err = tx.QueryRow(ctx,
		`UPDATE user_sessions SET
			nudge_counter = nudge_counter + 1,
			total_messages = total_messages + 1,
			text_messages = text_messages + $2,
			voice_messages = voice_messages + $3,
			last_seen_at = $4,
			updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING nudge_counter`,
		input.UserID, textInc, voiceInc, input.At.UTC()).Scan(&counter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("record turn for %s: %w", input.UserID, repository.ErrSessionNotFound)
		}
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO daily_usage (day, messages) VALUES ($1, 1)
		 ON CONFLICT (day) DO UPDATE SET messages = daily_usage.messages + 1`,
		day); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO daily_users (day, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		day, input.UserID); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *PostgresRepository) ListDailyAggregates(ctx context.Context, since time.Time) ([]repository.DailyAggregate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.day, u.messages, COUNT(du.user_id)
		 FROM daily_usage u LEFT JOIN daily_users du ON du.day = u.day
		 WHERE u.day >= $1
		 GROUP BY u.day, u.messages
		 ORDER BY u.day ASC`,
		repository.Day(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.DailyAggregate
	for rows.Next() {
		var a repository.DailyAggregate
		if err := rows.Scan(&a.Day, &a.Messages, &a.Users); err != nil {
			return nil, err
		}
		a.Day = repository.Day(a.Day)
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) GetTotals(ctx context.Context) (*repository.Totals, error) {
	var t repository.Totals
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_messages), 0),
			COALESCE(SUM(text_messages), 0), COALESCE(SUM(voice_messages), 0)
		 FROM user_sessions`).Scan(&t.Users, &t.Messages, &t.TextMessages, &t.VoiceMessages)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) PruneDailyBefore(ctx context.Context, day time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM daily_usage WHERE day < $1`, repository.Day(day))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func kindIncrements(kind repository.MessageKind) (text, voice int64) {
	if kind == repository.MessageKindVoice {
		return 0, 1
	}
	return 1, 0
}
