package mode

import "strings"

// Mode is the per-user correction policy.
type Mode string

const (
	// Teacher always answers with a correction block, even when there is nothing to fix.
	Teacher Mode = "teacher"
	// Chat never corrects.
	Chat Mode = "chat"
	// Mix corrects only when the user explicitly asks for it.
	Mix Mode = "mix"
	// Auto corrects only when the model finds a mistake.
	Auto Mode = "auto"
)

var all = []Mode{Teacher, Chat, Mix, Auto}

// commands maps chat commands (without the leading slash) to the mode they select.
var commands = map[string]Mode{
	"teacher_on":  Teacher,
	"teacher_off": Chat,
	"mix":         Mix,
	"auto":        Auto,
}

func All() []Mode {
	out := make([]Mode, len(all))
	copy(out, all)
	return out
}

func (m Mode) Valid() bool {
	switch m {
	case Teacher, Chat, Mix, Auto:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

// Parse accepts a mode name in any case.
func Parse(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", false
	}
	return m, true
}

// FromCommand resolves a chat command such as "teacher_off" to its mode.
func FromCommand(command string) (Mode, bool) {
	m, ok := commands[strings.ToLower(strings.TrimPrefix(command, "/"))]
	return m, ok
}

// Commands lists the mode-selecting commands in a stable order.
func Commands() []string {
	return []string{"teacher_on", "teacher_off", "mix", "auto"}
}
