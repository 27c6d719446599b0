// Package locale holds the UI strings of every supported interface language.
package locale

import (
	"strings"
	"unicode"

	"github.com/foxseedlab/sprachpartner/internal/mode"
)

// Locale is a UI and explanation language code. It is distinct from the taught language.
type Locale string

const (
	Russian   Locale = "ru"
	Ukrainian Locale = "uk"
	English   Locale = "en"
	Turkish   Locale = "tr"
	Persian   Locale = "fa"
	Arabic    Locale = "ar"

	Default = English
)

// Key names a UI string.
type Key string

const (
	KeyGreet            Key = "greet"
	KeyHelp             Key = "help"
	KeyModeTeacherOn    Key = "mode_teacher_on"
	KeyModeChatOn       Key = "mode_chat_on"
	KeyModeMixOn        Key = "mode_mix_on"
	KeyModeAutoOn       Key = "mode_auto_on"
	KeyStatus           Key = "status"
	KeyDonateLong       Key = "donate_long"
	KeyDonateShort      Key = "donate_short"
	KeyDonateButton     Key = "donate_btn"
	KeyAdminOnly        Key = "admin_only"
	KeyErrorVoice       Key = "err_voice"
	KeyErrorText        Key = "err_text"
	KeyVoiceUnavailable Key = "voice_unavailable"
	KeyLanguageChoose   Key = "lang_choose"
	KeyLanguageSet      Key = "lang_set"
	KeyCorrections      Key = "corrections"
	KeyNoErrors         Key = "no_errors"
)

var codes = []Locale{Russian, Ukrainian, English, Turkish, Persian, Arabic}

// All returns the supported locales in menu order.
func All() []Locale {
	out := make([]Locale, len(codes))
	copy(out, codes)
	return out
}

func (l Locale) Valid() bool {
	_, ok := tables[l]
	return ok
}

func (l Locale) String() string {
	return string(l)
}

// Parse accepts only codes of the fixed locale set.
func Parse(code string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(code)))
	if !l.Valid() {
		return "", false
	}
	return l, true
}

// Title is the native name of the locale as shown in the language menu.
func Title(l Locale) string {
	if t, ok := titles[l]; ok {
		return t
	}
	return string(l)
}

// Text looks up key for l, falling back to English and finally to the key itself.
func Text(l Locale, key Key) string {
	if s, ok := tables[l][key]; ok {
		return s
	}
	if s, ok := tables[Default][key]; ok {
		return s
	}
	return string(key)
}

// Format substitutes {name} placeholders in the text for key.
func Format(l Locale, key Key, args map[string]string) string {
	s := Text(l, key)
	for name, value := range args {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}

// CorrectionsMarker is the literal label that introduces a correction block.
// The prompt composer asks the model to emit it and the decomposer splits on it.
func CorrectionsMarker(l Locale) string {
	return Text(l, KeyCorrections)
}

// NoErrorsMarker is the literal text the model writes when nothing needs fixing.
func NoErrorsMarker(l Locale) string {
	return Text(l, KeyNoErrors)
}

// ExplanationLanguage names the language explanations must be written in.
func ExplanationLanguage(l Locale) string {
	if name, ok := explanationLanguages[l]; ok {
		return name
	}
	return explanationLanguages[Default]
}

// ModeLabel is the localized display name of m.
func ModeLabel(l Locale, m mode.Mode) string {
	if label, ok := modeLabels[l][m]; ok {
		return label
	}
	if label, ok := modeLabels[Default][m]; ok {
		return label
	}
	return string(m)
}

// ModeEnabledKey is the confirmation shown after switching to m.
func ModeEnabledKey(m mode.Mode) Key {
	switch m {
	case mode.Chat:
		return KeyModeChatOn
	case mode.Mix:
		return KeyModeMixOn
	case mode.Auto:
		return KeyModeAutoOn
	default:
		return KeyModeTeacherOn
	}
}

// CorrectionRequestTokens returns the words and phrases that count as an explicit
// correction request, across every UI locale and the taught language.
func CorrectionRequestTokens() []string {
	out := make([]string, 0, len(correctionTokens)*2)
	seen := make(map[string]struct{})
	for _, l := range append([]Locale{""}, codes...) {
		for _, tok := range correctionTokens[l] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}

// ContainsCorrectionRequest reports whether text asks for a correction in any supported language.
func ContainsCorrectionRequest(text string) bool {
	words := splitWords(text)
	for _, tok := range CorrectionRequestTokens() {
		if containsPhrase(words, tok) {
			return true
		}
	}
	return false
}

// splitWords lowercases s and splits it on anything that is neither a letter
// nor a combining mark, so Arabic diacritics stay inside their word.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r)
	})
}

func containsPhrase(words []string, tok string) bool {
	prefix := strings.HasSuffix(tok, "*")
	parts := splitWords(strings.TrimSuffix(tok, "*"))
	if len(parts) == 0 {
		return false
	}
	for i := 0; i+len(parts) <= len(words); i++ {
		matched := true
		for j, p := range parts {
			w := words[i+j]
			if w == p || (prefix && j == len(parts)-1 && strings.HasPrefix(w, p)) {
				continue
			}
			matched = false
			break
		}
		if matched {
			return true
		}
	}
	return false
}
