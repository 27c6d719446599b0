//go:build opus

package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/foxseedlab/sprachpartner/internal/audio"
	"github.com/hraban/opus"
)

const (
	sampleRate = 48000
	// Voice notes from both chat platforms are mono.
	channels       = 1
	frameSizeMs    = 60
	samplesPerRead = sampleRate * frameSizeMs / 1000
)

type OggOpusDecoder struct{}

func NewOggOpusDecoder() audio.Decoder {
	return &OggOpusDecoder{}
}

func (d *OggOpusDecoder) DecodeOggOpus(data []byte) (*audio.PCM, error) {
	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open ogg stream: %w", err)
	}
	defer stream.Close()

	var out bytes.Buffer
	frame := make([]int16, samplesPerRead*channels)
	for {
		n, err := stream.Read(frame)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode opus: %w", err)
		}
		writePCM(&out, frame[:n*channels])
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("decode opus: no samples")
	}
	return &audio.PCM{Data: out.Bytes(), SampleRate: sampleRate, Channels: channels}, nil
}

func writePCM(w *bytes.Buffer, samples []int16) {
	var b [2]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		w.Write(b[:])
	}
}
