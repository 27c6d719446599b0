package transcriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/sprachpartner/internal/audio"
	"github.com/foxseedlab/sprachpartner/internal/transcriber"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Language        string
	Location        string
	Model           string
}

// recognizer is the part of *speech.Client the transcriber uses.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

type CloudSpeechTranscriber struct {
	projectID       string
	credentialsJSON string
	language        string
	location        string
	model           string
	decoder         audio.Decoder
	dial            func(ctx context.Context) (recognizer, error)

	// mu guards client, which is dialed on first use and shared by every call.
	mu     sync.Mutex
	client recognizer
}

func NewCloudSpeechTranscriber(cfg CloudSpeechConfig, decoder audio.Decoder) *CloudSpeechTranscriber {
	t := &CloudSpeechTranscriber{
		projectID:       cfg.ProjectID,
		credentialsJSON: cfg.CredentialsJSON,
		language:        cfg.Language,
		location:        strings.TrimSpace(cfg.Location),
		model:           strings.TrimSpace(cfg.Model),
		decoder:         decoder,
	}
	t.dial = t.newClient
	return t
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", transcriber.ErrNoSpeech
	}
	client, err := t.speechClient(ctx)
	if err != nil {
		return "", err
	}

	req := &speechpb.RecognizeRequest{
		Recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location),
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{t.language},
			Features:      &speechpb.RecognitionFeatures{EnableAutomaticPunctuation: true},
		},
	}
	t.attachAudio(req, data, mimeType)

	resp, err := client.Recognize(ctx, req)
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.InvalidArgument {
			return "", fmt.Errorf("recognize rejected audio (%s): %w", st.Message(), err)
		}
		return "", fmt.Errorf("recognize: %w", err)
	}
	text := joinTranscripts(resp.GetResults())
	if text == "" {
		return "", transcriber.ErrNoSpeech
	}
	return text, nil
}

// attachAudio sends decoded LINEAR16 when a native decoder is present and lets the
// service detect the container otherwise.
func (t *CloudSpeechTranscriber) attachAudio(req *speechpb.RecognizeRequest, data []byte, mimeType string) {
	if isOggOpus(mimeType) && t.decoder != nil {
		pcm, err := t.decoder.DecodeOggOpus(data)
		switch {
		case err == nil:
			req.Config.DecodingConfig = &speechpb.RecognitionConfig_ExplicitDecodingConfig{
				ExplicitDecodingConfig: &speechpb.ExplicitDecodingConfig{
					Encoding:          speechpb.ExplicitDecodingConfig_LINEAR16,
					SampleRateHertz:   int32(pcm.SampleRate),
					AudioChannelCount: int32(pcm.Channels),
				},
			}
			req.AudioSource = &speechpb.RecognizeRequest_Content{Content: pcm.Data}
			return
		case !errors.Is(err, audio.ErrDecoderUnavailable):
			slog.Warn("opus decode failed; falling back to auto detection", "error", err)
		}
	}
	req.Config.DecodingConfig = &speechpb.RecognitionConfig_AutoDecodingConfig{
		AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
	}
	req.AudioSource = &speechpb.RecognizeRequest_Content{Content: data}
}

// speechClient returns the shared client, dialing it if needed. A failed dial is
// retried on the next call.
func (t *CloudSpeechTranscriber) speechClient(ctx context.Context) (recognizer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		return t.client, nil
	}
	client, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	t.client = client
	return client, nil
}

// Close releases the shared client. It is a no-op if no voice note was transcribed.
func (t *CloudSpeechTranscriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	if err != nil {
		return fmt.Errorf("close speech client: %w", err)
	}
	return nil
}

func (t *CloudSpeechTranscriber) newClient(ctx context.Context) (recognizer, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(t.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if t.location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", t.location, speechAPIEndpointPort)))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return client, nil
}

func isOggOpus(mimeType string) bool {
	mt := strings.ToLower(mimeType)
	return strings.Contains(mt, "ogg") || strings.Contains(mt, "opus")
}

func joinTranscripts(results []*speechpb.SpeechRecognitionResult) string {
	var parts []string
	for _, result := range results {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if s := strings.TrimSpace(alts[0].GetTranscript()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
