// Package stats aggregates usage counters into the admin report and pushes it on a schedule.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/repository"
)

// Snapshot is a read-only view of the usage counters.
type Snapshot struct {
	GeneratedAt time.Time
	Totals      repository.Totals
	// Days holds one entry per UTC day of the window, newest first, including days without traffic.
	Days []repository.DailyAggregate
}

type Reporter struct {
	repo repository.UsageRepository
	now  func() time.Time
}

func NewReporter(repo repository.UsageRepository, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{repo: repo, now: now}
}

// Snapshot collects totals and the last days UTC days ending today.
func (r *Reporter) Snapshot(ctx context.Context, days int) (*Snapshot, error) {
	if days < 1 {
		days = 1
	}
	now := r.now().UTC()
	today := repository.Day(now)
	since := today.AddDate(0, 0, -(days - 1))

	totals, err := r.repo.GetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load totals: %w", err)
	}
	aggregates, err := r.repo.ListDailyAggregates(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load daily aggregates: %w", err)
	}
	byDay := make(map[string]repository.DailyAggregate, len(aggregates))
	for _, a := range aggregates {
		byDay[repository.DayKey(a.Day)] = a
	}

	s := &Snapshot{GeneratedAt: now, Totals: *totals, Days: make([]repository.DailyAggregate, 0, days)}
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		a, ok := byDay[repository.DayKey(day)]
		if !ok {
			a = repository.DailyAggregate{Day: day}
		}
		s.Days = append(s.Days, a)
	}
	return s, nil
}

func (r *Reporter) Format(ctx context.Context, days int) (string, error) {
	s, err := r.Snapshot(ctx, days)
	if err != nil {
		return "", err
	}
	return Render(s), nil
}

// Render formats a snapshot as the admin chat message.
func Render(s *Snapshot) string {
	var b strings.Builder
	b.WriteString("📈 Bot stats\n")
	fmt.Fprintf(&b, "• Users total: %d\n", s.Totals.Users)
	fmt.Fprintf(&b, "• Messages total: %d (text: %d, voice: %d)\n\n",
		s.Totals.Messages, s.Totals.TextMessages, s.Totals.VoiceMessages)
	fmt.Fprintf(&b, "🗓 Last %d days:", len(s.Days))
	for _, d := range s.Days {
		fmt.Fprintf(&b, "\n%s: %d msgs, %d users", repository.DayKey(d.Day), d.Messages, d.Users)
	}
	return b.String()
}
