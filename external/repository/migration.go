package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_sessions (
		user_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		locale TEXT NOT NULL,
		locale_set BOOLEAN NOT NULL DEFAULT FALSE,
		persona_id TEXT NOT NULL,
		nudge_counter BIGINT NOT NULL DEFAULT 0,
		total_messages BIGINT NOT NULL DEFAULT 0,
		text_messages BIGINT NOT NULL DEFAULT 0,
		voice_messages BIGINT NOT NULL DEFAULT 0,
		first_seen_at TIMESTAMPTZ NOT NULL,
		last_seen_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS daily_usage (
		day DATE PRIMARY KEY,
		messages BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS daily_users (
		day DATE NOT NULL REFERENCES daily_usage(day) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		PRIMARY KEY (day, user_id)
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
