package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/chat"
)

const historySize = 5

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot relays a Telegram group chat through the chat service, so the team's
// messages are classified and answered the same way as over HTTP.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender sender
	chat   *chat.Service
	logger *zap.Logger
}

func New(token string, svc *chat.Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:    api,
		sender: api,
		chat:   svc,
		logger: logger,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	if content == "" {
		return
	}

	user := userKey(message.From)
	res, err := b.chat.Send(ctx, user, content)
	if err != nil {
		b.logger.Error("Failed to record message",
			zap.Error(err),
			zap.String("user", user),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't save your message. Please try again.")
		return
	}

	if res.Reply == nil {
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, res.Reply.Text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "commitments":
		b.handleCommitments(ctx, message)
	case "history":
		b.handleHistory(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Hi! I keep an eye on the team's progress updates.

Post your updates here as usual. If an update sounds vague I'll ask for blockers or an ETA, and I'll remember the commitments you make.
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/commitments - Show everyone's latest commitment
/history - Show your last 5 messages`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleCommitments(ctx context.Context, message *tgbotapi.Message) {
	commitments, err := b.chat.Commitments(ctx)
	if err != nil {
		b.logger.Error("Failed to get commitments",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, failed to retrieve commitments. Please try again later.")
		return
	}

	if len(commitments) == 0 {
		b.sendMessage(message.Chat.ID, "Nobody has committed to anything yet.")
		return
	}

	users := make([]string, 0, len(commitments))
	for u := range commitments {
		users = append(users, u)
	}
	sort.Strings(users)

	response := "*Latest commitments:*\n"
	for _, u := range users {
		c := commitments[u]
		response += fmt.Sprintf("*%s* \\(%s\\): %s\n",
			escapeMarkdown(u),
			escapeMarkdown(c.Time.Format("Jan 2 15:04")),
			escapeMarkdown(c.Message))
	}

	b.sendMarkdown(message.Chat.ID, response)
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	messages, err := b.chat.History(ctx, userKey(message.From), historySize)
	if err != nil {
		b.logger.Error("Failed to get user messages",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your message history.")
		return
	}

	if len(messages) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any messages yet.")
		return
	}

	response := "*Your recent messages:*\n\n"
	for _, msg := range messages {
		response += fmt.Sprintf("*%s*\n", escapeMarkdown("#"+msg.Type))
		response += fmt.Sprintf("_%s_\n\n", escapeMarkdown(msg.Text))
	}

	b.sendMarkdown(message.Chat.ID, response)
}

// userKey picks the name messages are filed under.
func userKey(u *tgbotapi.User) string {
	switch {
	case u.UserName != "":
		return u.UserName
	case u.FirstName != "":
		return u.FirstName
	default:
		return strconv.FormatInt(u.ID, 10)
	}
}

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
