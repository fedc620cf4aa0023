// Package chat is the chat-history collaborator around the message
// classifier. It classifies incoming messages, appends them to the log,
// remembers each user's last commitment and posts the bot's reply.
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/classifier"
	"github.com/xaenox/teampulse/internal/models"
	"github.com/xaenox/teampulse/internal/storage"
)

const (
	// BotUser authors the automated replies in the log.
	BotUser        = "AI_Bot"
	botMessageType = "ai"
)

// Result of Send. Reply is nil when the bot stayed silent.
type Result struct {
	Message models.ChatMessage
	Reply   *models.ChatMessage
}

type Service struct {
	// mu serializes Send so a message and its bot reply stay adjacent.
	mu         sync.Mutex
	store      storage.ChatStore
	summarizer Summarizer
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

// WithClock overrides the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithSummarizer(summarizer Summarizer) Option {
	return func(s *Service) { s.summarizer = summarizer }
}

func NewService(store storage.ChatStore, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		summarizer: CountSummarizer{},
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send classifies text from user and records it.
func (s *Service) Send(ctx context.Context, user, text string) (Result, error) {
	category := classifier.Classify(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.ChatMessage{
		ID:   s.newID(),
		User: user,
		Text: text,
		Type: string(category),
		Time: s.now(),
	}
	if err := s.store.AppendMessage(ctx, &msg); err != nil {
		s.logger.Error("Failed to save message",
			zap.Error(err),
			zap.String("user", user))
		return Result{}, fmt.Errorf("save message: %w", err)
	}

	if category == classifier.Commitment {
		c := models.Commitment{Message: text, Time: msg.Time}
		if err := s.store.SetCommitment(ctx, user, c); err != nil {
			s.logger.Error("Failed to save commitment",
				zap.Error(err),
				zap.String("user", user))
			return Result{}, fmt.Errorf("save commitment: %w", err)
		}
	}

	result := Result{Message: msg}

	replyText, ok := classifier.Reply(category)
	if !ok {
		return result, nil
	}

	reply := models.ChatMessage{
		ID:   s.newID(),
		User: BotUser,
		Text: replyText,
		Type: botMessageType,
		Time: s.now(),
	}
	if err := s.store.AppendMessage(ctx, &reply); err != nil {
		// The user's message is already stored; a lost reply is not fatal.
		s.logger.Warn("Failed to save bot reply",
			zap.Error(err),
			zap.String("user", user),
			zap.String("category", string(category)))
		return result, nil
	}
	result.Reply = &reply

	s.logger.Debug("Message classified",
		zap.String("user", user),
		zap.String("category", string(category)))

	return result, nil
}

func (s *Service) Messages(ctx context.Context) ([]models.ChatMessage, error) {
	return s.store.ListMessages(ctx)
}

func (s *Service) Commitments(ctx context.Context) (map[string]models.Commitment, error) {
	return s.store.Commitments(ctx)
}

// History returns the last n messages written by user, oldest first.
func (s *Service) History(ctx context.Context, user string, n int) ([]models.ChatMessage, error) {
	messages, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, err
	}

	own := make([]models.ChatMessage, 0, n)
	for _, m := range messages {
		if m.User == user {
			own = append(own, m)
		}
	}
	if n > 0 && len(own) > n {
		own = own[len(own)-n:]
	}
	return own, nil
}

// Digest summarizes the whole log.
func (s *Service) Digest(ctx context.Context) (string, error) {
	messages, err := s.store.ListMessages(ctx)
	if err != nil {
		return "", err
	}
	return s.summarizer.Summarize(ctx, messages)
}
