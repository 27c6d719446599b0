package synthesizer

import (
	"context"
	"errors"
)

// ErrDisabled is returned when voice replies are switched off.
var ErrDisabled = errors.New("speech synthesis is disabled")

type Audio struct {
	Data     []byte
	MIMEType string
	Filename string
}

type Synthesizer interface {
	// Synthesize renders text with the given prebuilt voice.
	Synthesize(ctx context.Context, text, voice string) (*Audio, error)
}

// Disabled is the Synthesizer used when TTS is turned off.
type Disabled struct{}

func (Disabled) Synthesize(context.Context, string, string) (*Audio, error) {
	return nil, ErrDisabled
}
