package tutor

import (
	"math/rand/v2"

	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/generator"
	"github.com/foxseedlab/sprachpartner/internal/persona"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/stats"
	"github.com/samber/do/v2"
)

// globalRandom uses the goroutine-safe top-level source of math/rand/v2.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*persona.Registry, error) {
		return persona.NewRegistry(globalRandom{}), nil
	})
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewEngine(
			do.MustInvoke[repository.Repository](i),
			do.MustInvoke[generator.Generator](i),
			do.MustInvoke[*persona.Registry](i),
			globalRandom{},
			do.MustInvoke[*stats.Reporter](i),
			Options{
				DefaultMode:      cfg.Mode(),
				DefaultLocale:    cfg.Locale(),
				FollowUpChance:   cfg.FollowUpChance,
				FollowUpMaxChars: cfg.FollowUpMaxChars,
				NudgeInterval:    cfg.NudgeInterval,
				DonateURL:        cfg.DonateURL,
				AdminUserID:      cfg.AdminUserID,
				StatsDays:        cfg.StatsDays,
			},
		), nil
	})
}
