package repository

import (
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
)

// MessageKind is the channel an utterance arrived through.
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindVoice MessageKind = "voice"
)

func (k MessageKind) Valid() bool {
	return k == MessageKindText || k == MessageKindVoice
}

// Session is the per-user conversation state.
type Session struct {
	UserID    string
	Mode      mode.Mode
	Locale    locale.Locale
	LocaleSet bool
	PersonaID string
	// NudgeCounter counts completed turns and drives the support nudge.
	NudgeCounter  int64
	TotalMessages int64
	TextMessages  int64
	VoiceMessages int64
	FirstSeenAt   time.Time
	LastSeenAt    time.Time
}

// DailyAggregate covers one UTC calendar day.
type DailyAggregate struct {
	Day      time.Time
	Messages int64
	Users    int64
}

type Totals struct {
	Users         int64
	Messages      int64
	TextMessages  int64
	VoiceMessages int64
}

// Day truncates t to the start of its UTC day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats the UTC day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
