package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
)

// ErrSessionNotFound is returned by writes addressed to a user without a session.
var ErrSessionNotFound = errors.New("session not found")

type EnsureSessionInput struct {
	UserID    string
	Mode      mode.Mode
	Locale    locale.Locale
	PersonaID string
	Now       time.Time
}

type RecordTurnInput struct {
	UserID string
	Kind   MessageKind
	At     time.Time
}

// SessionRepository reads and writes per-user state. Lookups of unknown users return nil, nil.
type SessionRepository interface {
	// EnsureSession creates the session when absent and returns the stored one otherwise.
	// Values in input are only used on creation.
	EnsureSession(ctx context.Context, input EnsureSessionInput) (*Session, error)
	GetSession(ctx context.Context, userID string) (*Session, error)
	UpdateMode(ctx context.Context, userID string, m mode.Mode) error
	UpdateLocale(ctx context.Context, userID string, l locale.Locale) error
}

// UsageRepository keeps per-user totals and per-day aggregates.
type UsageRepository interface {
	// RecordTurn commits one completed turn atomically and returns the new nudge counter.
	RecordTurn(ctx context.Context, input RecordTurnInput) (int64, error)
	// ListDailyAggregates returns aggregates for days on or after since, oldest first.
	// Days without messages are omitted.
	ListDailyAggregates(ctx context.Context, since time.Time) ([]DailyAggregate, error)
	GetTotals(ctx context.Context) (*Totals, error)
	// PruneDailyBefore drops aggregates of days strictly before day and reports how many went.
	PruneDailyBefore(ctx context.Context, day time.Time) (int64, error)
}

type Repository interface {
	SessionRepository
	UsageRepository
	Ping(ctx context.Context) error
	Close() error
}
