package config

import (
	"fmt"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverRedis    = "redis"
)

type Config struct {
	Env                        string
	TelegramBotToken           string
	DiscordToken               string
	DiscordGuildID             string
	AdminUserID                string
	GeminiAPIKey               string
	GenerationModel            string
	ClassifierModel            string
	GenerationTimeout          time.Duration
	GenerationMaxRetries       int
	TTSEnabled                 bool
	TTSModel                   string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	TranscribeLanguage         string
	StoreDriver                string
	DatabaseURL                string
	SQLitePath                 string
	RedisURL                   string
	DefaultMode                string
	DefaultLocale              string
	FollowUpChance             float64
	FollowUpMaxChars           int
	NudgeInterval              int
	DonateURL                  string
	StatsDays                  int
	StatsRetentionDays         int
	ReportWebhookURL           string
	ReportHourUTC              int
	HTTPAddr                   string
	AdminAPIToken              string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.TelegramBotToken == "" && c.DiscordToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN or DISCORD_BOT_TOKEN is required")
	}
	if _, ok := mode.Parse(c.DefaultMode); !ok {
		return fmt.Errorf("DEFAULT_MODE is invalid: %q", c.DefaultMode)
	}
	if _, ok := locale.Parse(c.DefaultLocale); !ok {
		return fmt.Errorf("DEFAULT_LOCALE is invalid: %q", c.DefaultLocale)
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if c.FollowUpChance < 0 || c.FollowUpChance > 1 {
		return fmt.Errorf("FOLLOW_UP_CHANCE must be within [0, 1], got %v", c.FollowUpChance)
	}
	if c.FollowUpMaxChars <= 0 {
		return fmt.Errorf("FOLLOW_UP_MAX_CHARS must be positive, got %d", c.FollowUpMaxChars)
	}
	if c.NudgeInterval < 0 {
		return fmt.Errorf("NUDGE_INTERVAL must not be negative, got %d", c.NudgeInterval)
	}
	if c.StatsDays < 1 {
		return fmt.Errorf("STATS_DAYS must be at least 1, got %d", c.StatsDays)
	}
	if c.StatsRetentionDays < c.StatsDays {
		return fmt.Errorf("STATS_RETENTION_DAYS must be at least STATS_DAYS (%d), got %d", c.StatsDays, c.StatsRetentionDays)
	}
	if c.ReportHourUTC < 0 || c.ReportHourUTC > 23 {
		return fmt.Errorf("REPORT_HOUR_UTC must be within 0..23, got %d", c.ReportHourUTC)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive, got %s", c.GenerationTimeout)
	}
	if c.GenerationMaxRetries < 0 {
		return fmt.Errorf("GENERATION_MAX_RETRIES must not be negative, got %d", c.GenerationMaxRetries)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.StoreDriver {
	case StoreDriverMemory:
		return nil
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	case StoreDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("STORE_DRIVER is invalid: %q", c.StoreDriver)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "GEMINI_API_KEY", value: c.GeminiAPIKey},
		{name: "GENERATION_MODEL", value: c.GenerationModel},
		{name: "CLASSIFIER_MODEL", value: c.ClassifierModel},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TranscriptionEnabled reports whether voice messages can be turned into text.
func (c *Config) TranscriptionEnabled() bool {
	return c.GoogleCloudProjectID != "" && c.GoogleCloudCredentialsJSON != ""
}

// Mode returns the validated default mode.
func (c *Config) Mode() mode.Mode {
	m, ok := mode.Parse(c.DefaultMode)
	if !ok {
		return mode.Teacher
	}
	return m
}

func (c *Config) Locale() locale.Locale {
	l, ok := locale.Parse(c.DefaultLocale)
	if !ok {
		return locale.Default
	}
	return l
}
