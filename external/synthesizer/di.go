package synthesizer

import (
	"context"

	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/synthesizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (synthesizer.Synthesizer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.TTSEnabled {
			return synthesizer.Disabled{}, nil
		}
		return NewGeminiTTS(context.Background(), GeminiTTSConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.TTSModel,
			Timeout: cfg.GenerationTimeout,
		})
	})
}
