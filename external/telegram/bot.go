// Package telegram connects the dialog handler to the Telegram Bot API via long polling.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/chat"
	"github.com/foxseedlab/sprachpartner/internal/dialog"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	platform         = "tg"
	maxVoiceBytes    = 20 << 20
	downloadTimeout  = 30 * time.Second
	audioTitle       = "Antwort"
	defaultVoiceMIME = "audio/ogg"
)

type Bot struct {
	bot        *bot.Bot
	handler    *dialog.Handler
	httpClient *http.Client
}

func New(token string, handler *dialog.Handler) (*Bot, error) {
	b := &Bot{
		handler:    handler,
		httpClient: &http.Client{Timeout: downloadTimeout},
	}
	tg, err := bot.New(token, bot.WithDefaultHandler(b.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = tg
	return b, nil
}

// Run registers the command menu and polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: botCommands()}); err != nil {
		slog.Warn("failed to register telegram commands", "error", err)
	}
	slog.Info("telegram long polling started")
	b.bot.Start(ctx)
	slog.Info("telegram long polling stopped")
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, tg *bot.Bot, update *models.Update) {
	upd, chatID, ok := b.toUpdate(update)
	if !ok {
		return
	}
	if cq := update.CallbackQuery; cq != nil {
		if _, err := tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
			slog.Warn("failed to answer callback query", "user_id", upd.UserID, "error", err)
		}
	}
	if err := b.handler.Handle(ctx, upd, &replier{bot: tg, chatID: chatID}); err != nil {
		slog.Error("failed to handle telegram update", "update_id", update.ID, "user_id", upd.UserID, "error", err)
	}
}

func (b *Bot) toUpdate(update *models.Update) (chat.Update, int64, bool) {
	if cq := update.CallbackQuery; cq != nil {
		chatID := cq.From.ID
		if cq.Message.Message != nil {
			chatID = cq.Message.Message.Chat.ID
		}
		return chat.Update{UserID: userID(cq.From.ID), Callback: cq.Data}, chatID, true
	}
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return chat.Update{}, 0, false
	}
	upd := chat.Update{UserID: userID(msg.From.ID)}
	switch {
	case msg.Voice != nil:
		upd.Voice = b.voice(msg.Voice.FileID, msg.Voice.MimeType)
	case msg.Audio != nil:
		upd.Voice = b.voice(msg.Audio.FileID, msg.Audio.MimeType)
	default:
		if name, ok := chat.ParseCommand(msg.Text); ok {
			upd.Command = name
		} else {
			upd.Text = msg.Text
		}
	}
	return upd, msg.Chat.ID, true
}

func (b *Bot) voice(fileID, mimeType string) *chat.Voice {
	if mimeType == "" {
		mimeType = defaultVoiceMIME
	}
	return &chat.Voice{
		MIMEType: mimeType,
		Download: func(ctx context.Context) ([]byte, error) {
			return b.download(ctx, fileID)
		},
	}
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	f, err := b.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.bot.FileDownloadLink(f), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
}

type replier struct {
	bot    *bot.Bot
	chatID int64
}

func (r *replier) SendText(ctx context.Context, text string, kb chat.Keyboard) error {
	params := &bot.SendMessageParams{ChatID: r.chatID, Text: text}
	if markup := inlineKeyboard(kb); markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := r.bot.SendMessage(ctx, params)
	return err
}

// SendAudio uploads the clip as audio and retries as a document when Telegram rejects the format.
func (r *replier) SendAudio(ctx context.Context, audio chat.Audio) error {
	_, err := r.bot.SendAudio(ctx, &bot.SendAudioParams{
		ChatID: r.chatID,
		Audio:  &models.InputFileUpload{Filename: audio.Filename, Data: bytes.NewReader(audio.Data)},
		Title:  audioTitle,
	})
	if err == nil {
		return nil
	}
	slog.Warn("send audio failed; falling back to document", "chat_id", r.chatID, "error", err)
	_, err = r.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   r.chatID,
		Document: &models.InputFileUpload{Filename: audio.Filename, Data: bytes.NewReader(audio.Data)},
	})
	return err
}

func inlineKeyboard(kb chat.Keyboard) *models.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			b := models.InlineKeyboardButton{Text: btn.Text}
			if btn.URL != "" {
				b.URL = btn.URL
			} else {
				b.CallbackData = btn.Data
			}
			buttons = append(buttons, b)
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func botCommands() []models.BotCommand {
	cmds := dialog.Commands()
	out := make([]models.BotCommand, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, models.BotCommand{Command: c.Name, Description: c.Description})
	}
	return out
}

func userID(id int64) string {
	return chat.UserID(platform, strconv.FormatInt(id, 10))
}
