package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/webhook"
)

type SchedulerConfig struct {
	Days          int
	RetentionDays int
	HourUTC       int
}

// Scheduler pushes the report once a day and prunes old aggregates.
type Scheduler struct {
	reporter *Reporter
	repo     repository.UsageRepository
	sender   webhook.Sender
	cfg      SchedulerConfig
	now      func() time.Time
}

func NewScheduler(reporter *Reporter, repo repository.UsageRepository, sender webhook.Sender, cfg SchedulerConfig, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{reporter: reporter, repo: repo, sender: sender, cfg: cfg, now: now}
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := NextRun(s.now(), s.cfg.HourUTC)
		slog.Info("stats report scheduled", "next_run", next)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err := s.RunOnce(ctx); err != nil {
			slog.Warn("daily stats run failed", "error", err)
		}
	}
}

// RunOnce prunes expired aggregates and pushes the current report.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	cutoff := repository.Day(s.now()).AddDate(0, 0, -s.cfg.RetentionDays)
	pruned, err := s.repo.PruneDailyBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune daily aggregates: %w", err)
	}
	if pruned > 0 {
		slog.Info("pruned daily aggregates", "days", pruned, "before", repository.DayKey(cutoff))
	}

	snap, err := s.reporter.Snapshot(ctx, s.cfg.Days)
	if err != nil {
		return err
	}
	if err := s.sender.SendStatsReport(ctx, Payload(snap)); err != nil {
		return fmt.Errorf("send stats report: %w", err)
	}
	return nil
}

// NextRun returns the first instant at hour:00 UTC strictly after now.
func NextRun(now time.Time, hour int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Payload converts a snapshot into the webhook body.
func Payload(s *Snapshot) webhook.StatsReportPayload {
	report := Render(s)
	days := make([]webhook.DayPayload, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, webhook.DayPayload{Date: repository.DayKey(d.Day), Messages: d.Messages, Users: d.Users})
	}
	return webhook.StatsReportPayload{
		Content:       report,
		Text:          report,
		GeneratedAt:   s.GeneratedAt,
		UsersTotal:    s.Totals.Users,
		MessagesTotal: s.Totals.Messages,
		TextMessages:  s.Totals.TextMessages,
		VoiceMessages: s.Totals.VoiceMessages,
		Days:          days,
	}
}
