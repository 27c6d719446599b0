package audio

import "errors"

// ErrDecoderUnavailable is returned by builds without native Opus support.
var ErrDecoderUnavailable = errors.New("opus decoder is not available in this build")

// PCM is signed 16-bit little-endian audio.
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// Decoder turns an Ogg/Opus voice note into raw PCM.
type Decoder interface {
	DecodeOggOpus(data []byte) (*PCM, error)
}
