package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/webhook"
)

type mockSender struct {
	payloads []webhook.StatsReportPayload
	err      error
}

func (m *mockSender) SendStatsReport(_ context.Context, payload webhook.StatsReportPayload) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

func TestNextRun(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2025, 3, 1, 5, 59, 0, 0, time.UTC), time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC), time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC)},
		{time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := NextRun(c.now, 6); !got.Equal(c.want) {
			t.Fatalf("NextRun(%v) = %v, want %v", c.now, got, c.want)
		}
	}
}

func TestRunOnce_PrunesAndSends(t *testing.T) {
	ctx := context.Background()
	old := dayOne.AddDate(0, 0, -100)
	repo := seed(t,
		repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: old},
		repository.RecordTurnInput{UserID: "tg:a", Kind: repository.MessageKindText, At: dayOne},
	)
	now := func() time.Time { return dayOne }
	sender := &mockSender{}
	s := NewScheduler(NewReporter(repo, now), repo, sender, SchedulerConfig{Days: 2, RetentionDays: 90, HourUTC: 6}, now)

	if err := s.RunOnce(ctx); err != nil {
		t.Fatal(err)
	}
	remaining, _ := repo.ListDailyAggregates(ctx, old)
	if len(remaining) != 1 {
		t.Fatalf("expected old day to be pruned, got %+v", remaining)
	}
	if len(sender.payloads) != 1 {
		t.Fatalf("expected one payload, got %d", len(sender.payloads))
	}
	p := sender.payloads[0]
	if p.Content == "" || p.Content != p.Text {
		t.Fatalf("unexpected payload text: %+v", p)
	}
	if len(p.Days) != 2 || p.Days[0].Date != "2025-03-01" || p.Days[0].Messages != 1 {
		t.Fatalf("unexpected payload days: %+v", p.Days)
	}
	if p.MessagesTotal != 2 {
		t.Fatalf("totals must survive pruning, got %d", p.MessagesTotal)
	}
}

func TestRunOnce_ReportsSendFailure(t *testing.T) {
	repo := seed(t)
	now := func() time.Time { return dayOne }
	sender := &mockSender{err: errors.New("boom")}
	s := NewScheduler(NewReporter(repo, now), repo, sender, SchedulerConfig{Days: 1, RetentionDays: 90}, now)
	if err := s.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	repo := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(NewReporter(repo, nil), repo, &mockSender{}, SchedulerConfig{Days: 1, RetentionDays: 90, HourUTC: 6}, nil)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
