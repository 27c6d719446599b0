package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	redisPrefix      = "tutor:"
	redisSessionsKey = redisPrefix + "sessions"
	redisTotalsKey   = redisPrefix + "totals"
	redisDaysKey     = redisPrefix + "days"
)

// RedisRepository stores sessions as hashes and daily aggregates as expiring counters and sets.
type RedisRepository struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewRedisRepository(rdb *redis.Client, retention time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, retention: retention}
}

func sessionKey(userID string) string {
	return redisPrefix + "session:" + userID
}

func dayMessagesKey(day string) string {
	return redisPrefix + "day:" + day + ":messages"
}

func dayUsersKey(day string) string {
	return redisPrefix + "day:" + day + ":users"
}

func (r *RedisRepository) EnsureSession(ctx context.Context, input repository.EnsureSessionInput) (*repository.Session, error) {
	key := sessionKey(input.UserID)
	now := strconv.FormatInt(input.Now.UTC().Unix(), 10)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "mode", string(input.Mode))
		pipe.HSetNX(ctx, key, "locale", string(input.Locale))
		pipe.HSetNX(ctx, key, "locale_set", "0")
		pipe.HSetNX(ctx, key, "persona_id", input.PersonaID)
		pipe.HSetNX(ctx, key, "nudge_counter", "0")
		pipe.HSetNX(ctx, key, "total_messages", "0")
		pipe.HSetNX(ctx, key, "text_messages", "0")
		pipe.HSetNX(ctx, key, "voice_messages", "0")
		pipe.HSetNX(ctx, key, "first_seen_at", now)
		pipe.HSetNX(ctx, key, "last_seen_at", now)
		pipe.SAdd(ctx, redisSessionsKey, input.UserID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}
	s, err := r.GetSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("ensure session for %s: %w", input.UserID, repository.ErrSessionNotFound)
	}
	return s, nil
}

func (r *RedisRepository) GetSession(ctx context.Context, userID string) (*repository.Session, error) {
	fields, err := r.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	s := &repository.Session{
		UserID:        userID,
		Mode:          mode.Mode(fields["mode"]),
		Locale:        locale.Locale(fields["locale"]),
		LocaleSet:     fields["locale_set"] == "1",
		PersonaID:     fields["persona_id"],
		NudgeCounter:  parseInt(fields["nudge_counter"]),
		TotalMessages: parseInt(fields["total_messages"]),
		TextMessages:  parseInt(fields["text_messages"]),
		VoiceMessages: parseInt(fields["voice_messages"]),
		FirstSeenAt:   time.Unix(parseInt(fields["first_seen_at"]), 0).UTC(),
		LastSeenAt:    time.Unix(parseInt(fields["last_seen_at"]), 0).UTC(),
	}
	return s, nil
}

func (r *RedisRepository) UpdateMode(ctx context.Context, userID string, m mode.Mode) error {
	if err := r.requireSession(ctx, userID, "update mode"); err != nil {
		return err
	}
	if err := r.rdb.HSet(ctx, sessionKey(userID), "mode", string(m)).Err(); err != nil {
		return fmt.Errorf("failed to update mode: %w", err)
	}
	return nil
}

func (r *RedisRepository) UpdateLocale(ctx context.Context, userID string, l locale.Locale) error {
	if err := r.requireSession(ctx, userID, "update locale"); err != nil {
		return err
	}
	if err := r.rdb.HSet(ctx, sessionKey(userID), "locale", string(l), "locale_set", "1").Err(); err != nil {
		return fmt.Errorf("failed to update locale: %w", err)
	}
	return nil
}

func (r *RedisRepository) RecordTurn(ctx context.Context, input repository.RecordTurnInput) (int64, error) {
	if err := r.requireSession(ctx, input.UserID, "record turn"); err != nil {
		return 0, err
	}
	key := sessionKey(input.UserID)
	kindField := "text_messages"
	if input.Kind == repository.MessageKindVoice {
		kindField = "voice_messages"
	}
	day := repository.DayKey(input.At)
	ttl := r.retention + 48*time.Hour

	var counter *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		counter = pipe.HIncrBy(ctx, key, "nudge_counter", 1)
		pipe.HIncrBy(ctx, key, "total_messages", 1)
		pipe.HIncrBy(ctx, key, kindField, 1)
		pipe.HSet(ctx, key, "last_seen_at", input.At.UTC().Unix())
		pipe.HIncrBy(ctx, redisTotalsKey, "total_messages", 1)
		pipe.HIncrBy(ctx, redisTotalsKey, kindField, 1)
		pipe.Incr(ctx, dayMessagesKey(day))
		pipe.Expire(ctx, dayMessagesKey(day), ttl)
		pipe.SAdd(ctx, dayUsersKey(day), input.UserID)
		pipe.Expire(ctx, dayUsersKey(day), ttl)
		pipe.ZAdd(ctx, redisDaysKey, redis.Z{Score: float64(repository.Day(input.At).Unix()), Member: day})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record turn: %w", err)
	}
	return counter.Val(), nil
}

func (r *RedisRepository) ListDailyAggregates(ctx context.Context, since time.Time) ([]repository.DailyAggregate, error) {
	days, err := r.rdb.ZRangeByScore(ctx, redisDaysKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(repository.Day(since).Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	if len(days) == 0 {
		return nil, nil
	}

	msgCmds := make([]*redis.StringCmd, len(days))
	userCmds := make([]*redis.IntCmd, len(days))
	_, err = r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, day := range days {
			msgCmds[i] = pipe.Get(ctx, dayMessagesKey(day))
			userCmds[i] = pipe.SCard(ctx, dayUsersKey(day))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load daily usage: %w", err)
	}

	var list []repository.DailyAggregate
	for i, key := range days {
		messages, err := msgCmds[i].Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read messages of %s: %w", key, err)
		}
		day, err := time.Parse(time.DateOnly, key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day %q: %w", key, err)
		}
		list = append(list, repository.DailyAggregate{Day: day, Messages: messages, Users: userCmds[i].Val()})
	}
	return list, nil
}

func (r *RedisRepository) GetTotals(ctx context.Context) (*repository.Totals, error) {
	users, err := r.rdb.SCard(ctx, redisSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	fields, err := r.rdb.HGetAll(ctx, redisTotalsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}
	return &repository.Totals{
		Users:         users,
		Messages:      parseInt(fields["total_messages"]),
		TextMessages:  parseInt(fields["text_messages"]),
		VoiceMessages: parseInt(fields["voice_messages"]),
	}, nil
}

func (r *RedisRepository) PruneDailyBefore(ctx context.Context, day time.Time) (int64, error) {
	days, err := r.rdb.ZRangeByScore(ctx, redisDaysKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(repository.Day(day).Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list days: %w", err)
	}
	if len(days) == 0 {
		return 0, nil
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range days {
			pipe.Del(ctx, dayMessagesKey(d), dayUsersKey(d))
			pipe.ZRem(ctx, redisDaysKey, d)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune days: %w", err)
	}
	return int64(len(days)), nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}

func (r *RedisRepository) requireSession(ctx context.Context, userID, op string) error {
	n, err := r.rdb.Exists(ctx, sessionKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s for %s: %w", op, userID, repository.ErrSessionNotFound)
	}
	return nil
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
