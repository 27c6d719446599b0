// Package dialog routes chat updates to the tutor engine and delivers the results.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/foxseedlab/sprachpartner/internal/chat"
	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/synthesizer"
	"github.com/foxseedlab/sprachpartner/internal/transcriber"
	"github.com/foxseedlab/sprachpartner/internal/tutor"
	"github.com/google/uuid"
)

const (
	languageCallbackPrefix = "lang_"
	languageMenuColumns    = 3
	explanationPrefix      = "✍️ "
)

// Command is a chat command exposed by the transports.
type Command struct {
	Name        string
	Description string
}

// Commands lists what the transports register as menu or slash commands.
func Commands() []Command {
	return []Command{
		{Name: "start", Description: "Start the bot"},
		{Name: "help", Description: "Show help"},
		{Name: "teacher_on", Description: "Always correct and explain"},
		{Name: "teacher_off", Description: "German only, no corrections"},
		{Name: "mix", Description: "Correct only on request"},
		{Name: "auto", Description: "Correct only when there are mistakes"},
		{Name: "status", Description: "Show current mode"},
		{Name: "language", Description: "Change interface language"},
		{Name: "donate", Description: "Support the project"},
		{Name: "stats", Description: "Bot stats (admin)"},
	}
}

type Handler struct {
	engine      *tutor.Engine
	transcriber transcriber.Transcriber
	synthesizer synthesizer.Synthesizer
	newTurnID   func() string
}

func NewHandler(engine *tutor.Engine, stt transcriber.Transcriber, tts synthesizer.Synthesizer) *Handler {
	return &Handler{
		engine:      engine,
		transcriber: stt,
		synthesizer: tts,
		newTurnID:   uuid.NewString,
	}
}

// Handle processes one update. It never panics; the returned error reports a
// delivery or storage failure the transport may log.
func (h *Handler) Handle(ctx context.Context, upd chat.Update, r chat.Replier) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic while handling update", "user_id", upd.UserID, "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	switch {
	case upd.Callback != "":
		return h.handleCallback(ctx, upd, r)
	case upd.Command != "":
		return h.handleCommand(ctx, upd, r)
	case upd.Voice != nil:
		return h.handleVoice(ctx, upd, r)
	case strings.TrimSpace(upd.Text) != "":
		return h.handleText(ctx, upd, r)
	default:
		return nil
	}
}

func (h *Handler) handleCommand(ctx context.Context, upd chat.Update, r chat.Replier) error {
	if m, ok := mode.FromCommand(upd.Command); ok {
		s, err := h.engine.SetMode(ctx, upd.UserID, m)
		if err != nil {
			return err
		}
		return r.SendText(ctx, locale.Text(s.Locale, locale.ModeEnabledKey(m)), nil)
	}

	switch upd.Command {
	case "start":
		s, firstVisit, err := h.engine.Start(ctx, upd.UserID)
		if err != nil {
			return err
		}
		if firstVisit {
			return r.SendText(ctx, locale.Text(locale.Default, locale.KeyGreet), LanguageKeyboard())
		}
		return r.SendText(ctx, locale.Text(s.Locale, locale.KeyHelp), nil)
	case "status":
		status, err := h.engine.Status(ctx, upd.UserID)
		if err != nil {
			return err
		}
		return r.SendText(ctx, status, nil)
	case "language":
		l := h.engine.Locale(ctx, upd.UserID)
		return r.SendText(ctx, locale.Text(l, locale.KeyLanguageChoose), LanguageKeyboard())
	case "donate":
		l := h.engine.Locale(ctx, upd.UserID)
		return r.SendText(ctx, locale.Text(l, locale.KeyDonateLong), h.donateKeyboard(l))
	case "stats":
		report, err := h.engine.AdminReport(ctx, upd.UserID)
		if errors.Is(err, tutor.ErrPermission) {
			return r.SendText(ctx, locale.Text(h.engine.Locale(ctx, upd.UserID), locale.KeyAdminOnly), nil)
		}
		if err != nil {
			return err
		}
		return r.SendText(ctx, report, nil)
	default:
		// help and unknown commands
		s, err := h.engine.Session(ctx, upd.UserID)
		if err != nil {
			return err
		}
		return r.SendText(ctx, locale.Text(s.Locale, locale.KeyHelp), nil)
	}
}

func (h *Handler) handleCallback(ctx context.Context, upd chat.Update, r chat.Replier) error {
	code, ok := strings.CutPrefix(upd.Callback, languageCallbackPrefix)
	if !ok {
		slog.Debug("ignoring unknown callback", "user_id", upd.UserID, "data", upd.Callback)
		return nil
	}
	s, changed, err := h.engine.SetLocale(ctx, upd.UserID, code)
	if err != nil {
		return err
	}
	if !changed {
		slog.Warn("unknown locale selected", "user_id", upd.UserID, "code", code)
		return nil
	}
	confirm := locale.Format(s.Locale, locale.KeyLanguageSet, map[string]string{"lang": locale.Title(s.Locale)})
	if err := r.SendText(ctx, confirm, nil); err != nil {
		return err
	}
	return r.SendText(ctx, locale.Text(s.Locale, locale.KeyHelp), nil)
}

func (h *Handler) handleText(ctx context.Context, upd chat.Update, r chat.Replier) error {
	return h.converse(ctx, upd.UserID, upd.Text, repository.MessageKindText, locale.KeyErrorText, r)
}

func (h *Handler) handleVoice(ctx context.Context, upd chat.Update, r chat.Replier) error {
	l := h.engine.Locale(ctx, upd.UserID)
	if _, ok := h.transcriber.(transcriber.Unavailable); ok {
		return r.SendText(ctx, locale.Text(l, locale.KeyVoiceUnavailable), nil)
	}
	data, err := upd.Voice.Download(ctx)
	if err != nil {
		slog.Error("failed to download voice message", "user_id", upd.UserID, "error", err)
		return r.SendText(ctx, locale.Text(l, locale.KeyErrorVoice), nil)
	}
	text, err := h.transcriber.Transcribe(ctx, data, upd.Voice.MIMEType)
	if err != nil {
		key := locale.KeyErrorVoice
		if errors.Is(err, transcriber.ErrUnavailable) {
			key = locale.KeyVoiceUnavailable
		}
		slog.Warn("failed to transcribe voice message", "user_id", upd.UserID, "error", err)
		return r.SendText(ctx, locale.Text(l, key), nil)
	}
	return h.converse(ctx, upd.UserID, text, repository.MessageKindVoice, locale.KeyErrorVoice, r)
}

func (h *Handler) converse(ctx context.Context, userID, text string, kind repository.MessageKind, errKey locale.Key, r chat.Replier) error {
	turnID := h.newTurnID()
	plan, err := h.engine.Converse(ctx, tutor.Turn{ID: turnID, UserID: userID, Text: text, Kind: kind})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Error("failed to generate reply", "turn_id", turnID, "user_id", userID, "error", err)
		return r.SendText(ctx, locale.Text(h.engine.Locale(ctx, userID), errKey), nil)
	}
	return h.deliver(ctx, turnID, plan, r)
}

// deliver sends the reply, its voice rendition, the explanation and then any
// auxiliary messages, in that order.
func (h *Handler) deliver(ctx context.Context, turnID string, plan *tutor.ReplyPlan, r chat.Replier) error {
	if err := r.SendText(ctx, plan.Reply, nil); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	h.sendVoice(ctx, turnID, plan, r)
	if plan.Explanation != "" {
		if err := r.SendText(ctx, explanationPrefix+plan.Explanation, nil); err != nil {
			return fmt.Errorf("send explanation: %w", err)
		}
	}
	for _, aux := range plan.Aux {
		var kb chat.Keyboard
		if aux.ButtonURL != "" {
			kb = chat.Keyboard{{{Text: aux.ButtonText, URL: aux.ButtonURL}}}
		}
		if err := r.SendText(ctx, aux.Text, kb); err != nil {
			slog.Warn("failed to deliver auxiliary message", "turn_id", turnID, "kind", aux.Kind, "error", err)
		}
	}
	return nil
}

func (h *Handler) sendVoice(ctx context.Context, turnID string, plan *tutor.ReplyPlan, r chat.Replier) {
	audio, err := h.synthesizer.Synthesize(ctx, plan.Reply, plan.Voice)
	if errors.Is(err, synthesizer.ErrDisabled) {
		return
	}
	if err != nil {
		slog.Warn("failed to synthesize reply", "turn_id", turnID, "voice", plan.Voice, "error", err)
		return
	}
	if err := r.SendAudio(ctx, chat.Audio{Data: audio.Data, MIMEType: audio.MIMEType, Filename: audio.Filename}); err != nil {
		slog.Warn("failed to send voice reply", "turn_id", turnID, "error", err)
	}
}

func (h *Handler) donateKeyboard(l locale.Locale) chat.Keyboard {
	url := h.engine.DonateURL()
	if url == "" {
		return nil
	}
	return chat.Keyboard{{{Text: locale.Text(l, locale.KeyDonateButton), URL: url}}}
}

// LanguageKeyboard lays out the locale choices in rows of three.
func LanguageKeyboard() chat.Keyboard {
	var kb chat.Keyboard
	var row []chat.Button
	for _, l := range locale.All() {
		row = append(row, chat.Button{Text: locale.Title(l), Data: languageCallbackPrefix + l.String()})
		if len(row) == languageMenuColumns {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return kb
}
