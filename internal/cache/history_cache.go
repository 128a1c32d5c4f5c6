package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"documind/internal/model"
)

const defaultHistoryTTL = 60 * time.Second

// setIfGeneration stores the snapshot only while the generation counter still
// holds the value the reader saw before loading it.
var setIfGeneration = redisv9.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// HistoryCache keeps a JSON copy of each document's chat log in Redis.
// Every write to a log bumps a per-document generation so that a snapshot
// read before the write can never be cached after it.
type HistoryCache struct {
	client     *redisv9.Client
	historyTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = defaultHistoryTTL
	}
	return &HistoryCache{
		client:     client,
		historyTTL: historyTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, documentID string) ([]model.ChatMessage, bool, error) {
	raw, err := c.client.Get(ctx, historyKey(documentID)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var messages []model.ChatMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return messages, true, nil
}

// Generation returns the current write generation of a document's log.
// Callers read it before loading the log from storage.
func (c *HistoryCache) Generation(ctx context.Context, documentID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(documentID)).Int64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get history generation failed: %w", err)
	}
	return gen, nil
}

// SetHistory caches messages unless the log was written after generation
// was read. The returned bool reports whether the entry was stored.
func (c *HistoryCache) SetHistory(ctx context.Context, documentID string, generation int64, messages []model.ChatMessage) (bool, error) {
	payload, err := json.Marshal(messages)
	if err != nil {
		return false, fmt.Errorf("marshal history cache failed: %w", err)
	}
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{historyKey(documentID), generationKey(documentID)},
		generation, payload, c.historyTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis set history failed: %w", err)
	}
	return stored == 1, nil
}

// InvalidateHistory bumps the generation and drops the cached log.
func (c *HistoryCache) InvalidateHistory(ctx context.Context, documentID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.Incr(ctx, generationKey(documentID))
		pipe.Del(ctx, historyKey(documentID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate history failed: %w", err)
	}
	return nil
}

func historyKey(documentID string) string {
	return "chat:history:" + documentID
}

func generationKey(documentID string) string {
	return "chat:history:gen:" + documentID
}
