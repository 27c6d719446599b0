package tutor

import (
	"fmt"
	"strings"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/persona"
)

// PromptInput is everything the system instruction depends on.
type PromptInput struct {
	Mode        mode.Mode
	Persona     persona.Persona
	Locale      locale.Locale
	Translation bool
	Utterance   string
}

const (
	targetLanguageRule = "Write your main reply only in German."
	safetyRule         = "Avoid overly personal or sensitive questions."
)

// ComposeSystemPrompt builds the system instruction for one turn.
func ComposeSystemPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString(in.Persona.Header())
	b.WriteString(" ")
	b.WriteString(targetLanguageRule)
	b.WriteString(" ")
	b.WriteString(safetyRule)
	b.WriteString("\n\n")
	b.WriteString(instructionBody(in))
	return b.String()
}

func instructionBody(in PromptInput) string {
	marker := locale.CorrectionsMarker(in.Locale)
	noErrors := locale.NoErrorsMarker(in.Locale)
	explLang := locale.ExplanationLanguage(in.Locale)

	if in.Translation {
		return fmt.Sprintf("The user is looking for a translation or does not know how to say something in German. "+
			"First give the fitting German phrasing. Then start a separate block with the exact label %q "+
			"and give a short grammar comment written in %s followed by 2-3 German example sentences.",
			marker, explLang)
	}

	switch in.Mode {
	case mode.Teacher:
		return fmt.Sprintf("You are a German teacher. First answer in German (1-2 sentences). "+
			"Then always start a separate block with the exact label %q containing short corrections of the user's message, written in %s. "+
			"If there are no mistakes, write exactly %q.",
			marker, explLang, marker+" "+noErrors)
	case mode.Mix:
		if locale.ContainsCorrectionRequest(in.Utterance) {
			return fmt.Sprintf("You are a German conversation partner. Answer briefly and naturally in German. "+
				"The user explicitly asked for corrections: start a separate block with the exact label %q "+
				"containing short corrections of the user's message, written in %s. "+
				"If there are no mistakes, write exactly %q.",
				marker, explLang, marker+" "+noErrors)
		}
		return "You are a German conversation partner. Answer briefly and naturally in German. " +
			"Do not correct the user and do not add explanations unless they explicitly ask for it."
	case mode.Auto:
		return fmt.Sprintf("You are a German conversation partner. Answer briefly and naturally in German (1-2 sentences). "+
			"If the user's message contains mistakes, start a separate block with the exact label %q "+
			"with short explanations written in %s. If there are no mistakes, write exactly %q instead of explanations.",
			marker, explLang, marker+" "+noErrors)
	default:
		return "You are a German conversation partner. Answer briefly and naturally in German. " +
			"No corrections and no explanations."
	}
}
