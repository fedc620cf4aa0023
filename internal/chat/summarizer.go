package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/classifier"
	"github.com/xaenox/teampulse/internal/models"
)

// Summarizer condenses the chat log into a short stand-up digest.
type Summarizer interface {
	Summarize(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// CountSummarizer reports how many messages of each category every user sent.
type CountSummarizer struct{}

func (CountSummarizer) Summarize(_ context.Context, messages []models.ChatMessage) (string, error) {
	counts := make(map[string]map[string]int)
	total := 0
	for _, m := range messages {
		if m.User == BotUser {
			continue
		}
		if counts[m.User] == nil {
			counts[m.User] = make(map[string]int)
		}
		counts[m.User][m.Type]++
		total++
	}

	if total == 0 {
		return "No messages yet.", nil
	}

	users := make([]string, 0, len(counts))
	for u := range counts {
		users = append(users, u)
	}
	sort.Strings(users)

	var b strings.Builder
	fmt.Fprintf(&b, "%d messages from %d users.", total, len(users))
	for _, u := range users {
		parts := make([]string, 0, 3)
		for _, c := range []classifier.Category{classifier.Commitment, classifier.Vague, classifier.Normal} {
			if n := counts[u][string(c)]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, c))
			}
		}
		fmt.Fprintf(&b, " %s: %s.", u, strings.Join(parts, ", "))
	}
	return b.String(), nil
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GPTSummarizer asks an OpenAI model for the digest and falls back to
// CountSummarizer when the model cannot be reached.
type GPTSummarizer struct {
	client      chatCompleter
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTSummarizer(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTSummarizer {
	return &GPTSummarizer{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (g *GPTSummarizer) Summarize(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return CountSummarizer{}.Summarize(ctx, messages)
	}

	var transcript strings.Builder
	for _, m := range messages {
		if m.User == BotUser {
			continue
		}
		fmt.Fprintf(&transcript, "[%s] %s (%s): %s\n", m.Time.Format("15:04"), m.User, m.Type, m.Text)
	}

	prompt := fmt.Sprintf(`Summarize this team chat as a short stand-up digest.
For each person list what they committed to and flag anything vague or blocked.
Messages are tagged as commitment, vague or normal.

%s`, transcript.String())

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   g.maxTokens,
			Temperature: float32(g.temperature),
		},
	)
	if err != nil {
		g.logger.Error("Failed to get GPT response", zap.Error(err))
		return CountSummarizer{}.Summarize(ctx, messages)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.logger.Warn("Empty GPT response", zap.String("model", g.model))
		return CountSummarizer{}.Summarize(ctx, messages)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
