package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/sprachpartner/internal/config"
)

type envConfig struct {
	Env                        string        `env:"ENV" envDefault:"production"`
	TelegramBotToken           string        `env:"TELEGRAM_BOT_TOKEN"`
	DiscordToken               string        `env:"DISCORD_BOT_TOKEN"`
	DiscordGuildID             string        `env:"DISCORD_GUILD_ID"`
	AdminUserID                string        `env:"ADMIN_USER_ID"`
	GeminiAPIKey               string        `env:"GEMINI_API_KEY,required"`
	GenerationModel            string        `env:"GENERATION_MODEL" envDefault:"gemini-2.5-flash"`
	ClassifierModel            string        `env:"CLASSIFIER_MODEL" envDefault:"gemini-2.5-flash-lite"`
	GenerationTimeout          time.Duration `env:"GENERATION_TIMEOUT" envDefault:"30s"`
	GenerationMaxRetries       int           `env:"GENERATION_MAX_RETRIES" envDefault:"2"`
	TTSEnabled                 bool          `env:"TTS_ENABLED" envDefault:"true"`
	TTSModel                   string        `env:"TTS_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	GoogleCloudProjectID       string        `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string        `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string        `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"eu"`
	GoogleCloudSpeechModel     string        `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"chirp_3"`
	TranscribeLanguage         string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"de-DE"`
	StoreDriver                string        `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL                string        `env:"DATABASE_URL"`
	SQLitePath                 string        `env:"SQLITE_PATH" envDefault:"./data/tutor.db"`
	RedisURL                   string        `env:"REDIS_URL"`
	DefaultMode                string        `env:"DEFAULT_MODE" envDefault:"teacher"`
	DefaultLocale              string        `env:"DEFAULT_LOCALE" envDefault:"en"`
	FollowUpChance             float64       `env:"FOLLOW_UP_CHANCE" envDefault:"0.35"`
	FollowUpMaxChars           int           `env:"FOLLOW_UP_MAX_CHARS" envDefault:"120"`
	NudgeInterval              int           `env:"NUDGE_INTERVAL" envDefault:"15"`
	DonateURL                  string        `env:"DONATE_URL" envDefault:"https://buymeacoffee.com/debot"`
	StatsDays                  int           `env:"STATS_DAYS" envDefault:"7"`
	StatsRetentionDays         int           `env:"STATS_RETENTION_DAYS" envDefault:"90"`
	ReportWebhookURL           string        `env:"REPORT_WEBHOOK_URL"`
	ReportHourUTC              int           `env:"REPORT_HOUR_UTC" envDefault:"6"`
	HTTPAddr                   string        `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIToken              string        `env:"ADMIN_API_TOKEN"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		TelegramBotToken:           raw.TelegramBotToken,
		DiscordToken:               raw.DiscordToken,
		DiscordGuildID:             raw.DiscordGuildID,
		AdminUserID:                raw.AdminUserID,
		GeminiAPIKey:               raw.GeminiAPIKey,
		GenerationModel:            raw.GenerationModel,
		ClassifierModel:            raw.ClassifierModel,
		GenerationTimeout:          raw.GenerationTimeout,
		GenerationMaxRetries:       raw.GenerationMaxRetries,
		TTSEnabled:                 raw.TTSEnabled,
		TTSModel:                   raw.TTSModel,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		TranscribeLanguage:         raw.TranscribeLanguage,
		StoreDriver:                raw.StoreDriver,
		DatabaseURL:                raw.DatabaseURL,
		SQLitePath:                 raw.SQLitePath,
		RedisURL:                   raw.RedisURL,
		DefaultMode:                raw.DefaultMode,
		DefaultLocale:              raw.DefaultLocale,
		FollowUpChance:             raw.FollowUpChance,
		FollowUpMaxChars:           raw.FollowUpMaxChars,
		NudgeInterval:              raw.NudgeInterval,
		DonateURL:                  raw.DonateURL,
		StatsDays:                  raw.StatsDays,
		StatsRetentionDays:         raw.StatsRetentionDays,
		ReportWebhookURL:           raw.ReportWebhookURL,
		ReportHourUTC:              raw.ReportHourUTC,
		HTTPAddr:                   raw.HTTPAddr,
		AdminAPIToken:              raw.AdminAPIToken,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
