package tutor

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/foxseedlab/sprachpartner/internal/generator"
)

// translationTriggers are phrases meaning "how do I say" or "translate" in the
// supported UI languages and in German.
var translationTriggers = []string{
	"как сказать", "как будет по-немецки", "не знаю как сказать", "переведи",
	"як сказати", "як буде німецькою", "переклади",
	"wie sagt man", "was heißt", "übersetze",
	"how to say", "how do i say", "translate",
	"nasıl denir", "çevir",
	"چطور بگویم", "ترجمه کن",
	"كيف أقول", "ترجم",
}

var affirmatives = map[string]struct{}{
	"yes": {}, "ja": {}, "да": {}, "так": {}, "evet": {}, "بله": {}, "نعم": {},
}

const classifierInstruction = "Decide whether the message asks for a translation into German or looks for a German word or phrase. " +
	"Answer with exactly one word: yes or no."

// Classifier detects "how do I say X" requests.
type Classifier struct {
	gen generator.Generator
}

func NewClassifier(gen generator.Generator) *Classifier {
	return &Classifier{gen: gen}
}

// IsTranslationRequest never fails: any error of the slow path counts as ordinary conversation.
func (c *Classifier) IsTranslationRequest(ctx context.Context, utterance string) bool {
	if matchesTrigger(utterance) {
		return true
	}
	if strings.TrimSpace(utterance) == "" {
		return false
	}
	answer, err := c.gen.Generate(ctx, generator.Request{
		Tier:            generator.TierLight,
		System:          classifierInstruction,
		User:            utterance,
		Temperature:     0,
		MaxOutputTokens: 5,
	})
	if err != nil {
		slog.Warn("translation classification failed", "error", err)
		return false
	}
	return isAffirmative(answer)
}

func matchesTrigger(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, t := range translationTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func isAffirmative(answer string) bool {
	fields := strings.FieldsFunc(strings.ToLower(answer), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(fields) == 0 {
		return false
	}
	_, ok := affirmatives[fields[0]]
	return ok
}
