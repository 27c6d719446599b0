package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/generator"
	"google.golang.org/genai"
)

const baseRetryDelay = 500 * time.Millisecond

type GeminiConfig struct {
	APIKey       string
	PrimaryModel string
	LightModel   string
	Timeout      time.Duration
	MaxRetries   int
}

type GeminiGenerator struct {
	client     *genai.Client
	models     map[generator.Tier]string
	timeout    time.Duration
	maxRetries int
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{
		client: client,
		models: map[generator.Tier]string{
			generator.TierPrimary: cfg.PrimaryModel,
			generator.TierLight:   cfg.LightModel,
		},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	model, ok := g.models[req.Tier]
	if !ok {
		model = g.models[generator.TierPrimary]
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       &req.Temperature,
	}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = req.MaxOutputTokens
	}

	return withRetry(ctx, g.maxRetries, baseRetryDelay, func(ctx context.Context) (string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		resp, err := g.client.Models.GenerateContent(attemptCtx, model, genai.Text(req.User), config)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", generator.ErrEmptyResponse
		}
		return text, nil
	})
}

// withRetry runs call up to maxRetries+1 times, doubling the delay between attempts.
func withRetry(ctx context.Context, maxRetries int, delay time.Duration, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, err := call(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == maxRetries {
			break
		}
		wait := delay * time.Duration(1<<uint(attempt))
		slog.Warn("generation failed, retrying", "error", err, "attempt", attempt+1, "max_retries", maxRetries, "delay", wait)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, generator.ErrEmptyResponse) {
		return true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}
