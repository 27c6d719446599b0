// Package chat holds the transport-agnostic shapes exchanged between a messenger
// adapter and the dialog handler.
package chat

import (
	"context"
	"strings"
)

// Update is one inbound event. Exactly one of Command, Callback, Text or Voice is set.
type Update struct {
	// UserID is namespaced by platform, e.g. "tg:123" or "dc:456".
	UserID string
	// Command is the lowercased command name without the leading slash.
	Command  string
	Callback string
	Text     string
	Voice    *Voice
}

// Voice is a recorded message. Download fetches the payload lazily so that an
// adapter does not pay for the transfer when transcription is unavailable.
type Voice struct {
	MIMEType string
	Download func(ctx context.Context) ([]byte, error)
}

type Button struct {
	Text string
	// Data is the callback payload. Ignored when URL is set.
	Data string
	URL  string
}

// Keyboard is a grid of buttons attached to a message.
type Keyboard [][]Button

type Audio struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Replier delivers outbound messages to the chat the update came from.
type Replier interface {
	SendText(ctx context.Context, text string, kb Keyboard) error
	SendAudio(ctx context.Context, audio Audio) error
}

// ParseCommand splits "/Start@my_bot arg" into "start". ok is false for plain text.
func ParseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(text, "/")
	if i := strings.IndexAny(name, " \n\t"); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

// UserID builds a namespaced user identifier.
func UserID(platform, id string) string {
	return platform + ":" + id
}
