package api

import (
	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/stats"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHandler(
			do.MustInvoke[repository.Repository](i),
			do.MustInvoke[*stats.Reporter](i),
			cfg.AdminAPIToken,
			cfg.StatsDays,
		), nil
	})
}
