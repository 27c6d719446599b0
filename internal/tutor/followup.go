package tutor

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/foxseedlab/sprachpartner/internal/generator"
)

const followUpInstruction = "You ask exactly ONE very short, natural follow-up question in German that fits the user's last message. " +
	"No unrelated small talk and nothing too personal. One sentence only."

// Probability is a source of uniform values in [0, 1).
type Probability interface {
	Float64() float64
}

// FollowUp occasionally asks the model for a short question to keep the conversation going.
type FollowUp struct {
	gen      generator.Generator
	rnd      Probability
	chance   float64
	maxChars int
}

func NewFollowUp(gen generator.Generator, rnd Probability, chance float64, maxChars int) *FollowUp {
	return &FollowUp{gen: gen, rnd: rnd, chance: chance, maxChars: maxChars}
}

// Maybe returns a question or "" when the draw misses or the result is unusable.
func (f *FollowUp) Maybe(ctx context.Context, utterance string) string {
	if f.chance <= 0 || f.rnd.Float64() >= f.chance {
		return ""
	}
	q, err := f.gen.Generate(ctx, generator.Request{
		Tier:        generator.TierLight,
		System:      followUpInstruction,
		User:        utterance,
		Temperature: 0.7,
	})
	if err != nil {
		slog.Warn("follow-up question failed", "error", err)
		return ""
	}
	q = strings.TrimSpace(q)
	if !f.acceptable(q) {
		slog.Debug("follow-up question discarded", "question", q)
		return ""
	}
	return q
}

func (f *FollowUp) acceptable(q string) bool {
	return q != "" && strings.Contains(q, "?") && utf8.RuneCountInString(q) <= f.maxChars
}
