//go:build !opus

package audio

import "github.com/foxseedlab/sprachpartner/internal/audio"

type unavailableDecoder struct{}

func NewOggOpusDecoder() audio.Decoder {
	return &unavailableDecoder{}
}

func (d *unavailableDecoder) DecodeOggOpus(_ []byte) (*audio.PCM, error) {
	return nil, audio.ErrDecoderUnavailable
}
