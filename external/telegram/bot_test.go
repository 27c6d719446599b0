package telegram

import (
	"testing"

	"github.com/foxseedlab/sprachpartner/internal/chat"
	"github.com/go-telegram/bot/models"
	"github.com/google/go-cmp/cmp"
)

func TestToUpdate(t *testing.T) {
	b := &Bot{}
	tests := []struct {
		name   string
		update *models.Update
		want   chat.Update
		chatID int64
		ok     bool
	}{
		{
			name: "text",
			update: &models.Update{Message: &models.Message{
				From: &models.User{ID: 7},
				Chat: models.Chat{ID: 70},
				Text: "Ich bin müde",
			}},
			want:   chat.Update{UserID: "tg:7", Text: "Ich bin müde"},
			chatID: 70,
			ok:     true,
		},
		{
			name: "command with bot suffix",
			update: &models.Update{Message: &models.Message{
				From: &models.User{ID: 7},
				Chat: models.Chat{ID: 70},
				Text: "/Mix@sprach_bot",
			}},
			want:   chat.Update{UserID: "tg:7", Command: "mix"},
			chatID: 70,
			ok:     true,
		},
		{
			name: "callback",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				ID:   "cb",
				From: models.User{ID: 9},
				Data: "lang_uk",
				Message: models.MaybeInaccessibleMessage{
					Message: &models.Message{Chat: models.Chat{ID: 90}},
				},
			}},
			want:   chat.Update{UserID: "tg:9", Callback: "lang_uk"},
			chatID: 90,
			ok:     true,
		},
		{
			name:   "bot author",
			update: &models.Update{Message: &models.Message{From: &models.User{ID: 1, IsBot: true}, Text: "hi"}},
			ok:     false,
		},
		{
			name:   "no sender",
			update: &models.Update{Message: &models.Message{Text: "hi"}},
			ok:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, chatID, ok := b.toUpdate(tt.update)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected update (-want +got):\n%s", diff)
			}
			if chatID != tt.chatID {
				t.Fatalf("chat id = %d, want %d", chatID, tt.chatID)
			}
		})
	}
}

func TestToUpdate_Voice(t *testing.T) {
	b := &Bot{}
	got, _, ok := b.toUpdate(&models.Update{Message: &models.Message{
		From:  &models.User{ID: 7},
		Chat:  models.Chat{ID: 70},
		Voice: &models.Voice{FileID: "f1"},
	}})
	if !ok || got.Voice == nil {
		t.Fatalf("expected a voice update, got %+v", got)
	}
	if got.Voice.MIMEType != "audio/ogg" || got.Voice.Download == nil {
		t.Fatalf("unexpected voice %+v", got.Voice)
	}
}

func TestInlineKeyboard(t *testing.T) {
	if inlineKeyboard(nil) != nil {
		t.Fatal("empty keyboard must produce no markup")
	}
	got := inlineKeyboard(chat.Keyboard{
		{{Text: "Русский", Data: "lang_ru"}, {Text: "English", Data: "lang_en"}},
		{{Text: "☕", URL: "https://example.com"}},
	})
	want := &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "Русский", CallbackData: "lang_ru"}, {Text: "English", CallbackData: "lang_en"}},
		{{Text: "☕", URL: "https://example.com"}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected markup (-want +got):\n%s", diff)
	}
}

func TestBotCommands(t *testing.T) {
	cmds := botCommands()
	if len(cmds) == 0 || cmds[0].Command != "start" {
		t.Fatalf("unexpected commands %+v", cmds)
	}
}
