package generator

import (
	"context"

	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/generator"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (generator.Generator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewGeminiGenerator(context.Background(), GeminiConfig{
			APIKey:       cfg.GeminiAPIKey,
			PrimaryModel: cfg.GenerationModel,
			LightModel:   cfg.ClassifierModel,
			Timeout:      cfg.GenerationTimeout,
			MaxRetries:   cfg.GenerationMaxRetries,
		})
	})
}
