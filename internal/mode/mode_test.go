package mode

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{in: "teacher", want: Teacher, ok: true},
		{in: " MIX ", want: Mix, ok: true},
		{in: "auto", want: Auto, ok: true},
		{in: "chat", want: Chat, ok: true},
		{in: "silent", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromCommand(t *testing.T) {
	cases := map[string]Mode{
		"teacher_on":   Teacher,
		"/teacher_off": Chat,
		"mix":          Mix,
		"/auto":        Auto,
	}
	for cmd, want := range cases {
		got, ok := FromCommand(cmd)
		if !ok || got != want {
			t.Fatalf("FromCommand(%q) = %q, %v; want %q", cmd, got, ok, want)
		}
	}
	if _, ok := FromCommand("status"); ok {
		t.Fatal("expected status not to select a mode")
	}
}

func TestCommandsCoverAllModes(t *testing.T) {
	seen := make(map[Mode]bool)
	for _, cmd := range Commands() {
		m, ok := FromCommand(cmd)
		if !ok {
			t.Fatalf("command %q does not resolve", cmd)
		}
		seen[m] = true
	}
	for _, m := range All() {
		if !seen[m] {
			t.Fatalf("mode %q has no command", m)
		}
	}
}
