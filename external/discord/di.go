package discord

import (
	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/dialog"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.DiscordToken, c.DiscordGuildID, do.MustInvoke[*dialog.Handler](i)), nil
	})
}
