package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaenox/teampulse/internal/models"
	"go.uber.org/zap"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// ChatStore keeps the chat log in insertion order and the last commitment
// of every user.
type ChatStore interface {
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context) ([]models.ChatMessage, error)
	SetCommitment(ctx context.Context, user string, c models.Commitment) error
	Commitments(ctx context.Context) (map[string]models.Commitment, error)
	Close() error
}

type Config struct {
	Driver   string
	Database DatabaseConfig
	Redis    RedisConfig
}

// Open returns the ChatStore selected by cfg.Driver.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (ChatStore, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		logger.Info("Using in-memory storage")
		return NewMemoryStorage(), nil
	case DriverPostgres:
		logger.Info("Using PostgreSQL storage", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))
		store, err := NewPostgresStorage(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverRedis:
		logger.Info("Using Redis storage", zap.String("prefix", cfg.Redis.KeyPrefix))
		store, err := NewRedisStorage(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
