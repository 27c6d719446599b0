// Package discord connects the dialog handler to Discord direct messages, guild
// text channels, slash commands and buttons.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/sprachpartner/internal/chat"
	"github.com/foxseedlab/sprachpartner/internal/dialog"
)

const (
	platform      = "dc"
	maxVoiceBytes = 20 << 20
	// maxMessageRunes is the Discord limit on message content.
	maxMessageRunes = 2000
)

type Client struct {
	// ctx is the Run context that gateway callbacks handle updates under.
	ctx       context.Context
	session   *discordgo.Session
	token     string
	guildID   string
	handler   *dialog.Handler
	botUserID string
}

func NewClient(token, guildID string, handler *dialog.Handler) *Client {
	return &Client{
		token:   token,
		guildID: guildID,
		handler: handler,
	}
}

// Run connects to the gateway, registers slash commands and serves until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	c.ctx = ctx
	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("discord connect: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()
	if err := c.UpsertSlashCommands(slashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", c.guildID)
	}
	slog.Info("discord handlers registered", "guild_id", c.guildID, "bot_user_id", c.botUserID)
	<-ctx.Done()
	return nil
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	s.AddHandler(c.handleMessage)
	s.AddHandler(c.handleInteraction)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	upd, ok := c.toUpdate(m.Message)
	if !ok {
		return
	}
	ctx := c.baseContext()
	r := &channelReplier{session: s, channelID: m.ChannelID}
	if err := c.handler.Handle(ctx, upd, r); err != nil {
		slog.Error("failed to handle discord message", "channel_id", m.ChannelID, "user_id", upd.UserID, "error", err)
	}
}

func (c *Client) baseContext() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// toUpdate converts a message. Guild messages are only handled when they mention the bot.
func (c *Client) toUpdate(m *discordgo.Message) (chat.Update, bool) {
	if m == nil || m.Author == nil || m.Author.Bot || m.Author.ID == c.botUserID {
		return chat.Update{}, false
	}
	content := m.Content
	if m.GuildID != "" {
		if !c.mentioned(m) {
			return chat.Update{}, false
		}
		content = c.stripMention(content)
	}
	upd := chat.Update{UserID: userID(m.Author.ID)}
	if a := audioAttachment(m.Attachments); a != nil {
		upd.Voice = &chat.Voice{
			MIMEType: a.ContentType,
			Download: func(ctx context.Context) ([]byte, error) {
				return c.download(ctx, a.URL)
			},
		}
		return upd, true
	}
	if strings.TrimSpace(content) == "" {
		return chat.Update{}, false
	}
	if name, ok := chat.ParseCommand(content); ok {
		upd.Command = name
	} else {
		upd.Text = strings.TrimSpace(content)
	}
	return upd, true
}

func (c *Client) mentioned(m *discordgo.Message) bool {
	for _, u := range m.Mentions {
		if u != nil && u.ID == c.botUserID {
			return true
		}
	}
	return false
}

func (c *Client) stripMention(content string) string {
	content = strings.ReplaceAll(content, "<@"+c.botUserID+">", "")
	content = strings.ReplaceAll(content, "<@!"+c.botUserID+">", "")
	return strings.TrimSpace(content)
}

func audioAttachment(attachments []*discordgo.MessageAttachment) *discordgo.MessageAttachment {
	for _, a := range attachments {
		if a != nil && strings.HasPrefix(a.ContentType, "audio/") {
			return a
		}
	}
	return nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.session.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download attachment: unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
}

func (c *Client) handleInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic == nil {
		return
	}
	upd, ok := interactionUpdate(ic)
	if !ok {
		return
	}
	slog.Info("discord interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "user_id", upd.UserID, "command", upd.Command, "callback", upd.Callback)
	r := &interactionReplier{session: s, interaction: ic.Interaction}
	if err := c.handler.Handle(c.baseContext(), upd, r); err != nil {
		slog.Error("failed to handle discord interaction", "user_id", upd.UserID, "error", err)
	}
}

func interactionUpdate(ic *discordgo.InteractionCreate) (chat.Update, bool) {
	id := ""
	if ic.Member != nil && ic.Member.User != nil {
		id = ic.Member.User.ID
	}
	if id == "" && ic.User != nil {
		id = ic.User.ID
	}
	if id == "" {
		return chat.Update{}, false
	}
	upd := chat.Update{UserID: userID(id)}
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		upd.Command = ic.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		upd.Callback = ic.MessageComponentData().CustomID
	default:
		return chat.Update{}, false
	}
	if upd.Command == "" && upd.Callback == "" {
		return chat.Update{}, false
	}
	return upd, true
}

type slashCommandDefinition struct {
	Name        string
	Description string
}

func slashCommandDefinitions() []slashCommandDefinition {
	cmds := dialog.Commands()
	out := make([]slashCommandDefinition, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, slashCommandDefinition{Name: cmd.Name, Description: cmd.Description})
	}
	return out
}

// UpsertSlashCommands creates missing commands and edits changed descriptions.
// An empty guild id registers global commands.
func (c *Client) UpsertSlashCommands(defs []slashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, c.guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertSlashCommand(appID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertSlashCommand(appID string, def slashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, c.guildID, payload)
		return err
	}
	if cmd.Description == def.Description {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, c.guildID, cmd.ID, payload)
	return err
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

type channelReplier struct {
	session   *discordgo.Session
	channelID string
}

// SendText posts text in as many messages as the length limit requires. The
// keyboard goes on the last one.
func (r *channelReplier) SendText(ctx context.Context, text string, kb chat.Keyboard) error {
	chunks := splitMessage(text, maxMessageRunes)
	for i, chunk := range chunks {
		msg := &discordgo.MessageSend{Content: chunk}
		if i == len(chunks)-1 {
			msg.Components = components(kb)
		}
		if _, err := r.session.ChannelMessageSendComplex(r.channelID, msg, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (r *channelReplier) SendAudio(ctx context.Context, audio chat.Audio) error {
	_, err := r.session.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{audioFile(audio)},
	}, discordgo.WithContext(ctx))
	return err
}

// interactionReplier answers the interaction with the first message and sends
// the rest as follow-ups.
type interactionReplier struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

func (r *interactionReplier) SendText(ctx context.Context, text string, kb chat.Keyboard) error {
	chunks := splitMessage(text, maxMessageRunes)
	for i, chunk := range chunks {
		var comps []discordgo.MessageComponent
		if i == len(chunks)-1 {
			comps = components(kb)
		}
		if err := r.send(ctx, chunk, comps, nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *interactionReplier) SendAudio(ctx context.Context, audio chat.Audio) error {
	return r.send(ctx, "", nil, []*discordgo.File{audioFile(audio)})
}

func (r *interactionReplier) send(ctx context.Context, text string, comps []discordgo.MessageComponent, files []*discordgo.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.responded {
		err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    text,
				Components: comps,
				Files:      files,
			},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return err
		}
		r.responded = true
		return nil
	}
	_, err := r.session.FollowupMessageCreate(r.interaction, false, &discordgo.WebhookParams{
		Content:    text,
		Components: comps,
		Files:      files,
	}, discordgo.WithContext(ctx))
	return err
}

// splitMessage cuts text into chunks of at most limit runes, preferring the last
// line break in the second half of each window.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}

func components(kb chat.Keyboard) []discordgo.MessageComponent {
	if len(kb) == 0 {
		return nil
	}
	rows := make([]discordgo.MessageComponent, 0, len(kb))
	for _, row := range kb {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, btn := range row {
			if btn.URL != "" {
				buttons = append(buttons, discordgo.Button{Label: btn.Text, Style: discordgo.LinkButton, URL: btn.URL})
				continue
			}
			buttons = append(buttons, discordgo.Button{Label: btn.Text, Style: discordgo.SecondaryButton, CustomID: btn.Data})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func audioFile(audio chat.Audio) *discordgo.File {
	return &discordgo.File{Name: audio.Filename, ContentType: audio.MIMEType, Reader: bytes.NewReader(audio.Data)}
}

func userID(id string) string {
	return chat.UserID(platform, id)
}
