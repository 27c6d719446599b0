package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
)

type memoryDay struct {
	messages int64
	users    map[string]struct{}
}

// MemoryRepository keeps all state for the lifetime of the process.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*repository.Session
	days     map[string]*memoryDay
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*repository.Session),
		days:     make(map[string]*memoryDay),
	}
}

func (r *MemoryRepository) EnsureSession(_ context.Context, input repository.EnsureSessionInput) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[input.UserID]; ok {
		cp := *s
		return &cp, nil
	}
	now := input.Now.UTC()
	s := &repository.Session{
		UserID:      input.UserID,
		Mode:        input.Mode,
		Locale:      input.Locale,
		PersonaID:   input.PersonaID,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}
	r.sessions[input.UserID] = s
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) GetSession(_ context.Context, userID string) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) UpdateMode(_ context.Context, userID string, m mode.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return fmt.Errorf("update mode for %s: %w", userID, repository.ErrSessionNotFound)
	}
	s.Mode = m
	return nil
}

func (r *MemoryRepository) UpdateLocale(_ context.Context, userID string, l locale.Locale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return fmt.Errorf("update locale for %s: %w", userID, repository.ErrSessionNotFound)
	}
	s.Locale = l
	s.LocaleSet = true
	return nil
}

func (r *MemoryRepository) RecordTurn(_ context.Context, input repository.RecordTurnInput) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[input.UserID]
	if !ok {
		return 0, fmt.Errorf("record turn for %s: %w", input.UserID, repository.ErrSessionNotFound)
	}
	s.NudgeCounter++
	s.TotalMessages++
	switch input.Kind {
	case repository.MessageKindVoice:
		s.VoiceMessages++
	default:
		s.TextMessages++
	}
	s.LastSeenAt = input.At.UTC()

	key := repository.DayKey(input.At)
	d, ok := r.days[key]
	if !ok {
		d = &memoryDay{users: make(map[string]struct{})}
		r.days[key] = d
	}
	d.messages++
	d.users[input.UserID] = struct{}{}
	return s.NudgeCounter, nil
}

func (r *MemoryRepository) ListDailyAggregates(_ context.Context, since time.Time) ([]repository.DailyAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from := repository.DayKey(since)
	var list []repository.DailyAggregate
	for key, d := range r.days {
		if key < from {
			continue
		}
		day, err := time.Parse(time.DateOnly, key)
		if err != nil {
			return nil, err
		}
		list = append(list, repository.DailyAggregate{Day: day, Messages: d.messages, Users: int64(len(d.users))})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Day.Before(list[j].Day) })
	return list, nil
}

func (r *MemoryRepository) GetTotals(_ context.Context) (*repository.Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &repository.Totals{Users: int64(len(r.sessions))}
	for _, s := range r.sessions {
		t.Messages += s.TotalMessages
		t.TextMessages += s.TextMessages
		t.VoiceMessages += s.VoiceMessages
	}
	return t, nil
}

func (r *MemoryRepository) PruneDailyBefore(_ context.Context, day time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := repository.DayKey(day)
	var n int64
	for key := range r.days {
		if key < cutoff {
			delete(r.days, key)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func (r *MemoryRepository) Close() error { return nil }
