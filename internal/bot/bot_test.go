package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/chat"
	"github.com/xaenox/teampulse/internal/storage"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

const chatID int64 = 555

func newTestBot() (*Bot, *fakeSender, *chat.Service) {
	svc := chat.NewService(storage.NewMemoryStorage(), zap.NewNop(),
		chat.WithClock(func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }))
	fs := &fakeSender{}
	return &Bot{sender: fs, chat: svc, logger: zap.NewNop()}, fs, svc
}

func textMessage(id int, user, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: id,
		From:      &tgbotapi.User{ID: 42, UserName: user},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
}

func commandMessage(user, command string) *tgbotapi.Message {
	msg := textMessage(1, user, "/"+command)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	return msg
}

func TestHandleMessage_VagueGetsReply(t *testing.T) {
	b, fs, svc := newTestBot()
	ctx := context.Background()

	b.handleMessage(ctx, textMessage(7, "alice", "almost there"))

	require.Len(t, fs.sent, 1)
	assert.Equal(t, chatID, fs.sent[0].ChatID)
	assert.Equal(t, 7, fs.sent[0].ReplyToMessageID)
	assert.Contains(t, fs.sent[0].Text, "blockers or ETA")

	msgs, err := svc.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice", msgs[0].User)
	assert.Equal(t, "vague", msgs[0].Type)
}

func TestHandleMessage_NormalIsSilent(t *testing.T) {
	b, fs, svc := newTestBot()
	ctx := context.Background()

	b.handleMessage(ctx, textMessage(8, "bob", "merged the PR"))
	assert.Empty(t, fs.sent)

	msgs, _ := svc.Messages(ctx)
	assert.Len(t, msgs, 1)
}

func TestHandleMessage_CaptionAndUserFallback(t *testing.T) {
	b, _, svc := newTestBot()
	ctx := context.Background()

	msg := textMessage(9, "", "")
	msg.From.FirstName = "Carol"
	msg.Caption = "screenshot, will finish tonight"
	b.handleMessage(ctx, msg)

	commitments, err := svc.Commitments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "screenshot, will finish tonight", commitments["Carol"].Message)
}

func TestHandleMessage_IgnoresEmptyAndAnonymous(t *testing.T) {
	b, fs, svc := newTestBot()
	ctx := context.Background()

	b.handleMessage(ctx, textMessage(1, "dave", ""))
	anon := textMessage(2, "dave", "today")
	anon.From = nil
	b.handleMessage(ctx, anon)

	assert.Empty(t, fs.sent)
	msgs, _ := svc.Messages(ctx)
	assert.Empty(t, msgs)
}

func TestCommands(t *testing.T) {
	b, fs, _ := newTestBot()
	ctx := context.Background()

	b.handleMessage(ctx, commandMessage("erin", "commitments"))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, "Nobody has committed to anything yet.", fs.sent[0].Text)

	b.handleMessage(ctx, textMessage(3, "erin", "done by 5pm."))
	b.handleMessage(ctx, commandMessage("erin", "commitments"))
	last := fs.sent[len(fs.sent)-1]
	assert.Equal(t, tgbotapi.ModeMarkdownV2, last.ParseMode)
	assert.Contains(t, last.Text, "*erin*")
	assert.Contains(t, last.Text, "done by 5pm\\.")

	b.handleMessage(ctx, commandMessage("erin", "history"))
	last = fs.sent[len(fs.sent)-1]
	assert.Contains(t, last.Text, "\\#commitment")

	b.handleMessage(ctx, commandMessage("nobody", "history"))
	last = fs.sent[len(fs.sent)-1]
	assert.Equal(t, "You don't have any messages yet.", last.Text)

	b.handleMessage(ctx, commandMessage("erin", "help"))
	assert.Contains(t, fs.sent[len(fs.sent)-1].Text, "/commitments")

	b.handleMessage(ctx, commandMessage("erin", "bogus"))
	assert.Contains(t, fs.sent[len(fs.sent)-1].Text, "Unknown command")
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "alice", userKey(&tgbotapi.User{ID: 1, UserName: "alice", FirstName: "Alice"}))
	assert.Equal(t, "Alice", userKey(&tgbotapi.User{ID: 1, FirstName: "Alice"}))
	assert.Equal(t, "12345", userKey(&tgbotapi.User{ID: 12345}))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "a\\_b \\(c\\)\\!", escapeMarkdown("a_b (c)!"))
	assert.Equal(t, "\\\\", escapeMarkdown("\\"))
}
