package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/models"
	"github.com/xaenox/teampulse/internal/storage"
)

var fixedNow = time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)

func newTestService(store storage.ChatStore, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, zap.NewNop(), opts...)
}

// failingStore wraps a MemoryStorage and fails selected operations.
type failingStore struct {
	*storage.MemoryStorage
	failAppendAt   int // 1-based index of the failing append, 0 never fails
	appends        int
	failCommitment bool
	failList       bool
}

func (f *failingStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	f.appends++
	if f.appends == f.failAppendAt {
		return errors.New("disk full")
	}
	return f.MemoryStorage.AppendMessage(ctx, msg)
}

func (f *failingStore) SetCommitment(ctx context.Context, user string, c models.Commitment) error {
	if f.failCommitment {
		return errors.New("conflict")
	}
	return f.MemoryStorage.SetCommitment(ctx, user, c)
}

func (f *failingStore) ListMessages(ctx context.Context) ([]models.ChatMessage, error) {
	if f.failList {
		return nil, errors.New("timeout")
	}
	return f.MemoryStorage.ListMessages(ctx)
}

func TestSend_VagueMessageGetsReply(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStorage())

	res, err := svc.Send(ctx, "alice", "I'm trying to finish")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Message.User)
	assert.Equal(t, "vague", res.Message.Type)
	assert.Equal(t, fixedNow, res.Message.Time)
	assert.NotEmpty(t, res.Message.ID)

	require.NotNil(t, res.Reply)
	assert.Equal(t, BotUser, res.Reply.User)
	assert.Equal(t, "ai", res.Reply.Type)
	assert.Contains(t, res.Reply.Text, "blockers or ETA")

	msgs, err := svc.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, res.Message, msgs[0])
	assert.Equal(t, *res.Reply, msgs[1])

	commitments, err := svc.Commitments(ctx)
	require.NoError(t, err)
	assert.Empty(t, commitments)
}

func TestSend_CommitmentIsTracked(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStorage())

	res, err := svc.Send(ctx, "bob", "will finish tonight")
	require.NoError(t, err)
	assert.Equal(t, "commitment", res.Message.Type)
	require.NotNil(t, res.Reply)
	assert.Contains(t, res.Reply.Text, "Noted")

	_, err = svc.Send(ctx, "bob", "done by friday")
	require.NoError(t, err)

	commitments, err := svc.Commitments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Commitment{
		"bob": {Message: "done by friday", Time: fixedNow},
	}, commitments)
}

func TestSend_NormalMessageHasNoReply(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStorage())

	res, err := svc.Send(ctx, "carol", "")
	require.NoError(t, err)
	assert.Equal(t, "normal", res.Message.Type)
	assert.Nil(t, res.Reply)

	msgs, err := svc.Messages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSend_StoreFailures(t *testing.T) {
	ctx := context.Background()

	store := &failingStore{MemoryStorage: storage.NewMemoryStorage(), failCommitment: true}
	svc := newTestService(store)
	_, err := svc.Send(ctx, "dave", "today")
	assert.ErrorContains(t, err, "save commitment")

	// Losing the bot reply does not fail the send.
	store = &failingStore{MemoryStorage: storage.NewMemoryStorage(), failAppendAt: 2}
	svc = newTestService(store)
	res, err := svc.Send(ctx, "erin", "maybe later")
	require.NoError(t, err)
	assert.Nil(t, res.Reply)
	msgs, _ := store.MemoryStorage.ListMessages(ctx)
	assert.Len(t, msgs, 1)
}

func TestSend_AppendFailure(t *testing.T) {
	store := &failingStore{MemoryStorage: storage.NewMemoryStorage(), failAppendAt: 1}
	svc := newTestService(store)

	_, err := svc.Send(context.Background(), "frank", "hello")
	assert.ErrorContains(t, err, "save message")
}

func TestSend_ConcurrentRepliesStayAdjacent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStorage(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Send(ctx, fmt.Sprintf("user%d", i), "almost there")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	msgs, err := svc.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 40)
	for i := 0; i < len(msgs); i += 2 {
		assert.NotEqual(t, BotUser, msgs[i].User)
		assert.Equal(t, BotUser, msgs[i+1].User)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStorage())

	for _, text := range []string{"one", "two", "three", "maybe four"} {
		_, err := svc.Send(ctx, "gina", text)
		require.NoError(t, err)
	}
	_, err := svc.Send(ctx, "hank", "unrelated")
	require.NoError(t, err)

	history, err := svc.History(ctx, "gina", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "three", history[0].Text)
	assert.Equal(t, "maybe four", history[1].Text)

	all, err := svc.History(ctx, "gina", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	store := &failingStore{MemoryStorage: storage.NewMemoryStorage(), failList: true}
	_, err = newTestService(store).History(ctx, "gina", 2)
	assert.Error(t, err)
}

func TestDigest_DefaultsToCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(storage.NewMemoryStorage())

	digest, err := svc.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "No messages yet.", digest)

	for _, text := range []string{"will finish tonight", "almost", "hi"} {
		_, err := svc.Send(ctx, "ivy", text)
		require.NoError(t, err)
	}
	_, err = svc.Send(ctx, "abe", "today")
	require.NoError(t, err)

	digest, err = svc.Digest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4 messages from 2 users. abe: 1 commitment. ivy: 1 commitment, 1 vague, 1 normal.", digest)
}
