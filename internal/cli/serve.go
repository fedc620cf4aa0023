package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xaenox/teampulse/internal/bot"
	"github.com/xaenox/teampulse/internal/chat"
	"github.com/xaenox/teampulse/internal/httpapi"
	"github.com/xaenox/teampulse/internal/storage"
	"github.com/xaenox/teampulse/pkg/config"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when configured, the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(rootOpts.ConfigPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Driver: cfg.Storage.Driver,
		Database: storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		},
		Redis: storage.RedisConfig{
			URL:       cfg.Redis.URL,
			KeyPrefix: cfg.Redis.KeyPrefix,
		},
	}
}

func newChatService(cfg *config.Config, store storage.ChatStore, logger *zap.Logger) *chat.Service {
	var opts []chat.Option
	if cfg.OpenAI.APIKey != "" {
		logger.Info("Using GPT digest summarizer", zap.String("model", cfg.OpenAI.Model))
		opts = append(opts, chat.WithSummarizer(chat.NewGPTSummarizer(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)))
	}
	return chat.NewService(store, logger, opts...)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	store, err := storage.Open(ctx, storageConfig(cfg), logger)
	if err != nil {
		logger.Error("Failed to initialize storage", zap.Error(err))
		return err
	}
	defer store.Close()

	svc := newChatService(cfg, store, logger)

	server := httpapi.New(svc, logger, httpapi.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		LeaderboardLimit: cfg.Leaderboard.Limit,
	})

	var telegram *bot.Bot
	if cfg.Telegram.Token != "" {
		telegram, err = bot.New(cfg.Telegram.Token, svc, logger)
		if err != nil {
			logger.Error("Failed to create bot", zap.Error(err))
			return err
		}
	} else {
		logger.Info("Telegram token not set, bot disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, ":"+strconv.Itoa(cfg.Server.Port), cfg.Server.ShutdownTimeout)
	})
	if telegram != nil {
		g.Go(func() error {
			return telegram.Start(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Shut down cleanly")
	return nil
}
