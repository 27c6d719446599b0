package tutor

import (
	"strings"
	"testing"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/persona"
)

var testPersona = persona.Persona{
	ID: "elsa", Name: "Elsa", Age: 67, City: "München",
	Bio: "retired teacher", Style: "warm and patient", Voice: "Aoede",
}

func compose(m mode.Mode, l locale.Locale, translation bool, utterance string) string {
	return ComposeSystemPrompt(PromptInput{Mode: m, Persona: testPersona, Locale: l, Translation: translation, Utterance: utterance})
}

func TestPromptAlwaysStartsWithPersonaHeader(t *testing.T) {
	for _, m := range mode.All() {
		p := compose(m, locale.English, false, "Hallo")
		if !strings.HasPrefix(p, testPersona.Header()) {
			t.Fatalf("mode %s: prompt does not start with persona header: %q", m, p)
		}
		if !strings.Contains(p, targetLanguageRule) || !strings.Contains(p, safetyRule) {
			t.Fatalf("mode %s: prompt misses language or safety rule", m)
		}
	}
}

func TestTeacherPromptNamesMarkersAndExplanationLanguage(t *testing.T) {
	p := compose(mode.Teacher, locale.Russian, false, "Ich habe gegangen")
	for _, want := range []string{"Исправления:", "Ошибок нет", "Russian"} {
		if !strings.Contains(p, want) {
			t.Fatalf("teacher prompt misses %q: %s", want, p)
		}
	}
}

func TestAutoPromptRequiresNoErrorsMarker(t *testing.T) {
	p := compose(mode.Auto, locale.Turkish, false, "Ich gehe")
	if !strings.Contains(p, "Düzeltmeler:") || !strings.Contains(p, "Hata yok") {
		t.Fatalf("auto prompt misses markers: %s", p)
	}
}

func TestMixPromptWithoutRequestHasNoCorrectionBlock(t *testing.T) {
	p := compose(mode.Mix, locale.English, false, "Ich gehe heute ins Kino.")
	if strings.Contains(p, locale.CorrectionsMarker(locale.English)) {
		t.Fatalf("mix prompt must not mention the correction marker: %s", p)
	}
	if strings.Contains(p, "label") {
		t.Fatalf("mix prompt must not ask for a correction block: %s", p)
	}
}

func TestMixPromptIgnoresLookalikeWords(t *testing.T) {
	for _, u := range []string{
		"Ich bin heute fix und fertig.",
		"Das Präfix ist schwer.",
		"Meine Fixkosten sind hoch.",
		"That was incorrect.",
		"Я поправился за лето.",
	} {
		p := compose(mode.Mix, locale.English, false, u)
		if strings.Contains(p, locale.CorrectionsMarker(locale.English)) {
			t.Fatalf("mix prompt for %q must not ask for corrections: %s", u, p)
		}
	}
}

func TestMixPromptWithRequestAsksForCorrections(t *testing.T) {
	p := compose(mode.Mix, locale.Ukrainian, false, "Виправ мене, будь ласка: Ich habe gegangen")
	if !strings.Contains(p, "Виправлення:") {
		t.Fatalf("mix prompt with request must name the marker: %s", p)
	}
}

func TestChatPromptHasNoMarker(t *testing.T) {
	p := compose(mode.Chat, locale.Arabic, false, "korrigiere mich")
	if strings.Contains(p, locale.CorrectionsMarker(locale.Arabic)) {
		t.Fatalf("chat prompt must not mention the marker: %s", p)
	}
}

func TestTranslationOverridesMode(t *testing.T) {
	for _, m := range mode.All() {
		p := compose(m, locale.Persian, true, "چطور بگویم سلام")
		if !strings.Contains(p, "translation") || !strings.Contains(p, "اصلاحات:") || !strings.Contains(p, "Persian") {
			t.Fatalf("mode %s: expected translation instructions, got %s", m, p)
		}
	}
}
