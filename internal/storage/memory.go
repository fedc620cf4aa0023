package storage

import (
	"context"
	"sync"

	"github.com/xaenox/teampulse/internal/models"
)

type MemoryStorage struct {
	mu          sync.RWMutex
	messages    []models.ChatMessage
	commitments map[string]models.Commitment
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		commitments: make(map[string]models.Commitment),
	}
}

func (s *MemoryStorage) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, *msg)
	return nil
}

// ListMessages returns a copy of the log so callers can't mutate it.
func (s *MemoryStorage) ListMessages(ctx context.Context) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *MemoryStorage) SetCommitment(ctx context.Context, user string, c models.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitments[user] = c
	return nil
}

func (s *MemoryStorage) Commitments(ctx context.Context) (map[string]models.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Commitment, len(s.commitments))
	for user, c := range s.commitments {
		out[user] = c
	}
	return out, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
