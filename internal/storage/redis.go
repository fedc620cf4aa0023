package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xaenox/teampulse/internal/models"
	"go.uber.org/zap"
)

type RedisConfig struct {
	URL       string
	KeyPrefix string
}

// RedisStorage keeps the log in a list and commitments in a hash. Every
// appended message is also published on a stream for downstream consumers.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisStorage(ctx context.Context, config RedisConfig, logger *zap.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "teampulse"
	}

	return &RedisStorage{rdb: rdb, prefix: prefix, logger: logger}, nil
}

func (s *RedisStorage) messagesKey() string    { return s.prefix + ":chat:messages" }
func (s *RedisStorage) commitmentsKey() string { return s.prefix + ":chat:commitments" }
func (s *RedisStorage) eventsKey() string      { return s.prefix + ":chat:events" }

func (s *RedisStorage) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error encoding message: %w", err)
	}

	if err := s.rdb.RPush(ctx, s.messagesKey(), payload).Err(); err != nil {
		return fmt.Errorf("error appending message: %w", err)
	}

	_, err = s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.eventsKey(),
		Values: map[string]interface{}{
			"id":   msg.ID,
			"user": msg.User,
			"type": msg.Type,
		},
	}).Result()
	if err != nil {
		s.logger.Warn("Failed to publish chat event",
			zap.Error(err),
			zap.String("message_id", msg.ID))
	}

	return nil
}

func (s *RedisStorage) ListMessages(ctx context.Context) ([]models.ChatMessage, error) {
	raw, err := s.rdb.LRange(ctx, s.messagesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading messages: %w", err)
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("error decoding message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStorage) SetCommitment(ctx context.Context, user string, c models.Commitment) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding commitment: %w", err)
	}

	if err := s.rdb.HSet(ctx, s.commitmentsKey(), user, payload).Err(); err != nil {
		return fmt.Errorf("error saving commitment: %w", err)
	}
	return nil
}

func (s *RedisStorage) Commitments(ctx context.Context) (map[string]models.Commitment, error) {
	raw, err := s.rdb.HGetAll(ctx, s.commitmentsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading commitments: %w", err)
	}

	out := make(map[string]models.Commitment, len(raw))
	for user, item := range raw {
		var c models.Commitment
		if err := json.Unmarshal([]byte(item), &c); err != nil {
			return nil, fmt.Errorf("error decoding commitment for %s: %w", user, err)
		}
		out[user] = c
	}
	return out, nil
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
