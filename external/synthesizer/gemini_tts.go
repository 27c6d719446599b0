package synthesizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/synthesizer"
	"google.golang.org/genai"
)

const speechPrompt = "Read the following German text aloud in a natural, conversational voice:\n\n%s"

type GeminiTTSConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type GeminiTTS struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiTTS(ctx context.Context, cfg GeminiTTSConfig) (*GeminiTTS, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiTTS{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (s *GeminiTTS) Synthesize(ctx context.Context, text, voice string) (*synthesizer.Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(fmt.Sprintf(speechPrompt, text)),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"audio"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("generate speech: %w", err)
	}
	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("speech response contained no audio")
	}
	return &synthesizer.Audio{
		Data:     pcmToWAV(pcm),
		MIMEType: "audio/wav",
		Filename: "antwort.wav",
	}, nil
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
