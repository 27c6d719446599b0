package tutor

import "strings"

// Decompose splits raw generated text at the first occurrence of marker.
// The explanation keeps the marker as its label. A reply that would be empty
// falls back to the whole text with no explanation.
func Decompose(raw, marker string) (reply, explanation string) {
	text := strings.TrimSpace(raw)
	if marker == "" {
		return text, ""
	}
	idx := strings.Index(text, marker)
	if idx < 0 {
		return text, ""
	}
	reply = strings.TrimSpace(text[:idx])
	if reply == "" {
		return text, ""
	}
	return reply, strings.TrimSpace(text[idx:])
}

// completeExplanation fills a bare marker with the no-errors text.
func completeExplanation(explanation, marker, noErrors string) string {
	if explanation != "" && strings.TrimSpace(strings.TrimPrefix(explanation, marker)) == "" {
		return marker + " " + noErrors
	}
	return explanation
}

// isNoErrorsBlock reports whether the explanation only states that nothing is wrong.
func isNoErrorsBlock(explanation, marker, noErrors string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(explanation, marker))
	rest = strings.TrimRight(rest, ".!")
	return strings.EqualFold(rest, noErrors)
}
