package transcriber

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no speech-to-text backend is configured.
var ErrUnavailable = errors.New("transcription is not configured")

// ErrNoSpeech is returned when the recording contains no recognizable speech.
var ErrNoSpeech = errors.New("no speech recognized")

type Transcriber interface {
	// Transcribe recognizes a complete voice note. mimeType describes data, e.g. "audio/ogg".
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Unavailable is the Transcriber used without speech credentials.
type Unavailable struct{}

func (Unavailable) Transcribe(context.Context, []byte, string) (string, error) {
	return "", ErrUnavailable
}
