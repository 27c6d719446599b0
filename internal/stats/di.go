package stats

import (
	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Reporter, error) {
		repo := do.MustInvoke[repository.Repository](i)
		return NewReporter(repo, nil), nil
	})
	do.Provide(injector, func(i do.Injector) (*Scheduler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		return NewScheduler(
			do.MustInvoke[*Reporter](i),
			repo,
			do.MustInvoke[webhook.Sender](i),
			SchedulerConfig{Days: cfg.StatsDays, RetentionDays: cfg.StatsRetentionDays, HourUTC: cfg.ReportHourUTC},
			nil,
		), nil
	})
}
