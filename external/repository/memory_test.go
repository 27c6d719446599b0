package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/google/go-cmp/cmp"
)

var day1 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func ensure(t *testing.T, r *MemoryRepository, userID string) *repository.Session {
	t.Helper()
	s, err := r.EnsureSession(context.Background(), repository.EnsureSessionInput{
		UserID:    userID,
		Mode:      mode.Teacher,
		Locale:    locale.English,
		PersonaID: "lukas",
		Now:       day1,
	})
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	return s
}

func TestMemoryEnsureSessionKeepsFirstValues(t *testing.T) {
	r := NewMemoryRepository()
	ensure(t, r, "tg:1")
	s, err := r.EnsureSession(context.Background(), repository.EnsureSessionInput{
		UserID: "tg:1", Mode: mode.Chat, Locale: locale.Arabic, PersonaID: "elsa", Now: day1.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if s.PersonaID != "lukas" || s.Mode != mode.Teacher || s.Locale != locale.English {
		t.Fatalf("existing session was overwritten: %+v", s)
	}
	if !s.FirstSeenAt.Equal(day1) {
		t.Fatalf("unexpected first seen: %v", s.FirstSeenAt)
	}
}

func TestMemoryGetSessionUnknown(t *testing.T) {
	s, err := NewMemoryRepository().GetSession(context.Background(), "tg:404")
	if err != nil || s != nil {
		t.Fatalf("expected nil, nil; got %v, %v", s, err)
	}
}

func TestMemoryUpdatesAreIndependent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	ensure(t, r, "tg:1")

	if err := r.UpdateMode(ctx, "tg:1", mode.Mix); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateLocale(ctx, "tg:1", locale.Turkish); err != nil {
		t.Fatal(err)
	}
	s, _ := r.GetSession(ctx, "tg:1")
	if s.Mode != mode.Mix || s.Locale != locale.Turkish || !s.LocaleSet || s.PersonaID != "lukas" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestMemoryWritesRequireSession(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	if err := r.UpdateMode(ctx, "tg:1", mode.Chat); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	_, err := r.RecordTurn(ctx, repository.RecordTurnInput{UserID: "tg:1", Kind: repository.MessageKindText, At: day1})
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemoryRecordTurnAggregates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	ensure(t, r, "tg:a")
	ensure(t, r, "tg:b")
	ensure(t, r, "tg:idle")

	day2 := day1.Add(24 * time.Hour)
	turns := []repository.RecordTurnInput{
		{UserID: "tg:a", Kind: repository.MessageKindText, At: day1},
		{UserID: "tg:a", Kind: repository.MessageKindVoice, At: day1.Add(time.Minute)},
		{UserID: "tg:b", Kind: repository.MessageKindText, At: day1.Add(2 * time.Minute)},
		{UserID: "tg:a", Kind: repository.MessageKindText, At: day2},
	}
	var last int64
	for _, in := range turns {
		n, err := r.RecordTurn(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		if in.UserID == "tg:a" {
			last = n
		}
	}
	if last != 3 {
		t.Fatalf("expected counter 3 for tg:a, got %d", last)
	}

	got, err := r.ListDailyAggregates(ctx, day1)
	if err != nil {
		t.Fatal(err)
	}
	want := []repository.DailyAggregate{
		{Day: repository.Day(day1), Messages: 3, Users: 2},
		{Day: repository.Day(day2), Messages: 1, Users: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("daily aggregates mismatch (-want +got):\n%s", diff)
	}

	totals, err := r.GetTotals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantTotals := &repository.Totals{Users: 3, Messages: 4, TextMessages: 3, VoiceMessages: 1}
	if diff := cmp.Diff(wantTotals, totals); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
	s, _ := r.GetSession(ctx, "tg:a")
	if !s.LastSeenAt.Equal(day2) {
		t.Fatalf("unexpected last seen: %v", s.LastSeenAt)
	}
}

func TestMemoryPruneDailyBefore(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	ensure(t, r, "tg:a")
	for i := 0; i < 5; i++ {
		if _, err := r.RecordTurn(ctx, repository.RecordTurnInput{
			UserID: "tg:a", Kind: repository.MessageKindText, At: day1.AddDate(0, 0, i),
		}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := r.PruneDailyBefore(ctx, day1.AddDate(0, 0, 3))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 pruned days, got %d", n)
	}
	got, _ := r.ListDailyAggregates(ctx, day1)
	if len(got) != 2 {
		t.Fatalf("expected 2 remaining days, got %d", len(got))
	}
}

func TestMemoryConcurrentTurns(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	ensure(t, r, "tg:a")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.RecordTurn(ctx, repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: day1})
		}()
	}
	wg.Wait()
	s, _ := r.GetSession(ctx, "tg:a")
	if s.NudgeCounter != 50 {
		t.Fatalf("expected counter 50, got %d", s.NudgeCounter)
	}
}
