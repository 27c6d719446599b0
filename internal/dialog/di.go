package dialog

import (
	"github.com/foxseedlab/sprachpartner/internal/synthesizer"
	"github.com/foxseedlab/sprachpartner/internal/transcriber"
	"github.com/foxseedlab/sprachpartner/internal/tutor"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		engine := do.MustInvoke[*tutor.Engine](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		tts := do.MustInvoke[synthesizer.Synthesizer](i)
		return NewHandler(engine, stt, tts), nil
	})
}
