package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/sprachpartner/internal/chat"
	"github.com/google/go-cmp/cmp"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestUpsertSlashCommands_CreatesMissingAndEditsChanged(t *testing.T) {
	var created, edited []string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "/applications/app-1/guilds/guild-1/commands"):
			return jsonResponse(http.StatusOK, `[
				{"id":"c1","name":"start","description":"Start the bot"},
				{"id":"c2","name":"help","description":"old"}
			]`), nil
		case req.Method == http.MethodPost:
			created = append(created, req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"new","name":"x","description":"x"}`), nil
		case req.Method == http.MethodPatch:
			edited = append(edited, req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"c2","name":"help","description":"Show help"}`), nil
		}
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		return nil, nil
	})
	s.State.User = &discordgo.User{ID: "app-1"}

	c := &Client{session: s, guildID: "guild-1"}
	err := c.UpsertSlashCommands([]slashCommandDefinition{
		{Name: "start", Description: "Start the bot"},
		{Name: "help", Description: "Show help"},
		{Name: "mix", Description: "Correct only on request"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || len(edited) != 1 {
		t.Fatalf("expected one create and one edit, got %v / %v", created, edited)
	}
	if !strings.HasSuffix(edited[0], "/commands/c2") {
		t.Fatalf("unexpected edit path %s", edited[0])
	}
}

func TestUpsertSlashCommands_RequiresApplicationID(t *testing.T) {
	c := &Client{session: newTestSession(t, nil)}
	if err := c.UpsertSlashCommands(slashCommandDefinitions()); err == nil {
		t.Fatal("expected an error without application id")
	}
}

func TestGetBotUserID_UsesStateFirst(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	})
	s.State.User = &discordgo.User{ID: "bot-1"}
	c := &Client{session: s}
	id, err := c.GetBotUserID()
	if err != nil || id != "bot-1" {
		t.Fatalf("unexpected id %q, %v", id, err)
	}
}

func TestToUpdate(t *testing.T) {
	c := &Client{botUserID: "bot-1"}
	tests := []struct {
		name string
		msg  *discordgo.Message
		want chat.Update
		ok   bool
	}{
		{
			name: "direct message",
			msg:  &discordgo.Message{Author: &discordgo.User{ID: "u1"}, Content: "Ich lerne Deutsch"},
			want: chat.Update{UserID: "dc:u1", Text: "Ich lerne Deutsch"},
			ok:   true,
		},
		{
			name: "direct command",
			msg:  &discordgo.Message{Author: &discordgo.User{ID: "u1"}, Content: "/status"},
			want: chat.Update{UserID: "dc:u1", Command: "status"},
			ok:   true,
		},
		{
			name: "guild mention",
			msg: &discordgo.Message{
				GuildID:  "g1",
				Author:   &discordgo.User{ID: "u1"},
				Content:  "<@bot-1> Guten Tag",
				Mentions: []*discordgo.User{{ID: "bot-1"}},
			},
			want: chat.Update{UserID: "dc:u1", Text: "Guten Tag"},
			ok:   true,
		},
		{
			name: "guild without mention",
			msg:  &discordgo.Message{GuildID: "g1", Author: &discordgo.User{ID: "u1"}, Content: "Guten Tag"},
		},
		{
			name: "own message",
			msg:  &discordgo.Message{Author: &discordgo.User{ID: "bot-1"}, Content: "Hallo"},
		},
		{
			name: "other bot",
			msg:  &discordgo.Message{Author: &discordgo.User{ID: "b2", Bot: true}, Content: "Hallo"},
		},
		{
			name: "empty",
			msg:  &discordgo.Message{Author: &discordgo.User{ID: "u1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.toUpdate(tt.msg)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected update (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToUpdate_AudioAttachment(t *testing.T) {
	c := &Client{botUserID: "bot-1"}
	got, ok := c.toUpdate(&discordgo.Message{
		Author: &discordgo.User{ID: "u1"},
		Attachments: []*discordgo.MessageAttachment{
			{URL: "https://cdn.example/pic.png", ContentType: "image/png"},
			{URL: "https://cdn.example/voice-message.ogg", ContentType: "audio/ogg"},
		},
	})
	if !ok || got.Voice == nil || got.Voice.MIMEType != "audio/ogg" {
		t.Fatalf("expected a voice update, got %+v", got)
	}
}

func TestInteractionUpdate(t *testing.T) {
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionMessageComponent,
		Member: &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		Data:   discordgo.MessageComponentInteractionData{CustomID: "lang_fa"},
	}}
	got, ok := interactionUpdate(ic)
	if !ok || got != (chat.Update{UserID: "dc:u1", Callback: "lang_fa"}) {
		t.Fatalf("unexpected update %+v", got)
	}

	ic = &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		User: &discordgo.User{ID: "u2"},
		Data: discordgo.ApplicationCommandInteractionData{Name: "teacher_on"},
	}}
	got, ok = interactionUpdate(ic)
	if !ok || got != (chat.Update{UserID: "dc:u2", Command: "teacher_on"}) {
		t.Fatalf("unexpected update %+v", got)
	}
}

func TestComponents(t *testing.T) {
	if components(nil) != nil {
		t.Fatal("empty keyboard must produce no components")
	}
	got := components(chat.Keyboard{
		{{Text: "English", Data: "lang_en"}},
		{{Text: "☕", URL: "https://example.com"}},
	})
	want := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "English", Style: discordgo.SecondaryButton, CustomID: "lang_en"},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "☕", Style: discordgo.LinkButton, URL: "https://example.com"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected components (-want +got):\n%s", diff)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("Hallo!", maxMessageRunes); !cmp.Equal(got, []string{"Hallo!"}) {
		t.Fatalf("short text must stay whole, got %q", got)
	}

	long := strings.Repeat("ä", 2500)
	got := splitMessage(long, maxMessageRunes)
	if len(got) != 2 || len([]rune(got[0])) != maxMessageRunes || len([]rune(got[1])) != 500 {
		t.Fatalf("unexpected rune split: %d chunks", len(got))
	}

	para := strings.Repeat("a", 1500) + "\n" + strings.Repeat("b", 1000)
	got = splitMessage(para, maxMessageRunes)
	if len(got) != 2 || got[0] != strings.Repeat("a", 1500)+"\n" || got[1] != strings.Repeat("b", 1000) {
		t.Fatalf("expected split at the line break, got %d chunks", len(got))
	}
	if strings.Join(got, "") != para {
		t.Fatal("chunks must reassemble to the original text")
	}
}

func TestChannelReplierSplitsLongText(t *testing.T) {
	type sent struct {
		Content    string            `json:"content"`
		Components []json.RawMessage `json:"components"`
	}
	var posts []sent
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/channels/ch-1/messages") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		var m sent
		if err := json.NewDecoder(req.Body).Decode(&m); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		posts = append(posts, m)
		return jsonResponse(http.StatusOK, `{"id":"m1","channel_id":"ch-1"}`), nil
	})
	r := &channelReplier{session: s, channelID: "ch-1"}
	kb := chat.Keyboard{{{Text: "English", Data: "lang_en"}}}
	if err := r.SendText(context.Background(), strings.Repeat("Wort ", 900), kb); err != nil {
		t.Fatal(err)
	}

	if len(posts) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(posts))
	}
	for i, p := range posts {
		if n := len([]rune(p.Content)); n == 0 || n > maxMessageRunes {
			t.Fatalf("message %d has %d runes", i, n)
		}
		if last := i == len(posts)-1; last != (len(p.Components) > 0) {
			t.Fatalf("keyboard must ride on the last message only, message %d has %d rows", i, len(p.Components))
		}
	}
}

func TestHandlersUseRunContext(t *testing.T) {
	c := &Client{}
	if c.baseContext() == nil {
		t.Fatal("expected a background context before Run")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.ctx = ctx
	cancel()
	if c.baseContext().Err() == nil {
		t.Fatal("callbacks must observe cancellation of the Run context")
	}
}
