package generator

import (
	"context"
	"errors"
)

// Tier picks the model class for a request.
type Tier string

const (
	// TierPrimary serves conversational replies.
	TierPrimary Tier = "primary"
	// TierLight serves short helper calls such as classification and follow-up questions.
	TierLight Tier = "light"
)

type Request struct {
	Tier            Tier
	System          string
	User            string
	Temperature     float32
	MaxOutputTokens int32
}

// ErrEmptyResponse is returned when the service answers without any text.
var ErrEmptyResponse = errors.New("generation returned no text")

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
