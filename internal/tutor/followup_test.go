package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foxseedlab/sprachpartner/internal/generator"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, generator.Request) (string, error) {
	return "", errors.New("unavailable")
}

func TestFollowUp_Maybe(t *testing.T) {
	tests := []struct {
		name   string
		draw   float64
		chance float64
		answer string
		want   string
	}{
		{name: "hit", draw: 0.2, chance: 0.35, answer: "  Und was hast du gegessen?  ", want: "Und was hast du gegessen?"},
		{name: "miss", draw: 0.35, chance: 0.35, answer: "Wirklich?", want: ""},
		{name: "disabled", draw: 0, chance: 0, answer: "Wirklich?", want: ""},
		{name: "no question mark", draw: 0, chance: 1, answer: "Erzähl mehr.", want: ""},
		{name: "too long", draw: 0, chance: 1, answer: strings.Repeat("a", 120) + "?", want: ""},
		{name: "exact limit", draw: 0, chance: 1, answer: strings.Repeat("ä", 119) + "?", want: strings.Repeat("ä", 119) + "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{followUp: tt.answer}
			f := NewFollowUp(gen, fixedProbability(tt.draw), tt.chance, 120)
			if got := f.Maybe(context.Background(), "Ich war im Restaurant."); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFollowUp_UsesLightTierOnlyOnHit(t *testing.T) {
	gen := &mockGenerator{followUp: "Warum?"}
	NewFollowUp(gen, fixedProbability(0.9), 0.35, 120).Maybe(context.Background(), "Hallo")
	if len(gen.requests) != 0 {
		t.Fatalf("a missed draw must not call the generator, got %d calls", len(gen.requests))
	}
	NewFollowUp(gen, fixedProbability(0.1), 0.35, 120).Maybe(context.Background(), "Hallo")
	if len(gen.requests) != 1 || gen.requests[0].Tier != generator.TierLight {
		t.Fatalf("expected one light-tier call, got %+v", gen.requests)
	}
}

func TestFollowUp_FailureIsOmitted(t *testing.T) {
	f := NewFollowUp(failingGenerator{}, fixedProbability(0), 1, 120)
	if got := f.Maybe(context.Background(), "Hallo"); got != "" {
		t.Fatalf("expected empty follow-up on failure, got %q", got)
	}
}
