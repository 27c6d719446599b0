package audio

import (
	"github.com/foxseedlab/sprachpartner/internal/audio"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Decoder, error) {
		return NewOggOpusDecoder(), nil
	})
}
