package webhook

import (
	"context"
	"time"
)

type DayPayload struct {
	Date     string `json:"date"`
	Messages int64  `json:"messages"`
	Users    int64  `json:"users"`
}

// StatsReportPayload carries the rendered report in both "content" and "text"
// so chat webhooks that expect either field display it.
type StatsReportPayload struct {
	Content       string       `json:"content"`
	Text          string       `json:"text"`
	GeneratedAt   time.Time    `json:"generated_at"`
	UsersTotal    int64        `json:"users_total"`
	MessagesTotal int64        `json:"messages_total"`
	TextMessages  int64        `json:"text_messages"`
	VoiceMessages int64        `json:"voice_messages"`
	Days          []DayPayload `json:"days"`
}

type Sender interface {
	SendStatsReport(ctx context.Context, payload StatsReportPayload) error
}
