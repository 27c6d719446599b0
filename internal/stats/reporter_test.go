package stats

import (
	"context"
	"strings"
	"testing"
	"time"

	repositoryimpl "github.com/foxseedlab/sprachpartner/external/repository"
	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
)

var (
	dayOne = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	dayTwo = time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC)
)

func seed(t *testing.T, turns ...repository.RecordTurnInput) *repositoryimpl.MemoryRepository {
	t.Helper()
	ctx := context.Background()
	repo := repositoryimpl.NewMemoryRepository()
	for _, in := range turns {
		if _, err := repo.EnsureSession(ctx, repository.EnsureSessionInput{
			UserID: in.UserID, Mode: mode.Teacher, Locale: locale.English, PersonaID: "lukas", Now: in.At,
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.RecordTurn(ctx, in); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestFormat_TwoUsersTwoDays(t *testing.T) {
	repo := seed(t,
		repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: dayOne},
		repository.RecordTurnInput{UserID: "tg:b", Kind: repository.MessageKindVoice, At: dayOne.Add(time.Hour)},
		repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: dayTwo},
	)
	r := NewReporter(repo, func() time.Time { return dayTwo })

	got, err := r.Format(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	want := "📈 Bot stats\n" +
		"• Users total: 2\n" +
		"• Messages total: 3 (text: 2, voice: 1)\n\n" +
		"🗓 Last 2 days:\n" +
		"2025-03-02: 1 msgs, 1 users\n" +
		"2025-03-01: 2 msgs, 2 users"
	if got != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestSnapshot_FillsQuietDays(t *testing.T) {
	repo := seed(t, repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: dayOne})
	r := NewReporter(repo, func() time.Time { return dayOne.AddDate(0, 0, 3) })

	s, err := r.Snapshot(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(s.Days))
	}
	if repository.DayKey(s.Days[0].Day) != "2025-03-04" || s.Days[0].Messages != 0 {
		t.Fatalf("unexpected newest day: %+v", s.Days[0])
	}
	if repository.DayKey(s.Days[3].Day) != "2025-03-01" || s.Days[3].Messages != 1 || s.Days[3].Users != 1 {
		t.Fatalf("unexpected traffic day: %+v", s.Days[3])
	}
}

func TestFormat_IsReadOnly(t *testing.T) {
	repo := seed(t, repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: dayOne})
	r := NewReporter(repo, func() time.Time { return dayOne })
	first, err := r.Format(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := r.Format(context.Background(), 1)
	if first != second || !strings.Contains(first, "1 msgs, 1 users") {
		t.Fatalf("report changed between calls:\n%s\n%s", first, second)
	}
}
