package transcriber

import (
	"log/slog"

	"github.com/foxseedlab/sprachpartner/internal/audio"
	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.TranscriptionEnabled() {
			slog.Info("voice transcription disabled: google cloud credentials are not set")
			return transcriber.Unavailable{}, nil
		}
		return NewCloudSpeechTranscriber(CloudSpeechConfig{
			ProjectID:       c.GoogleCloudProjectID,
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			Language:        c.TranscribeLanguage,
			Location:        c.GoogleCloudSpeechLocation,
			Model:           c.GoogleCloudSpeechModel,
		}, do.MustInvoke[audio.Decoder](i)), nil
	})
}
