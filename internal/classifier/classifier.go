// Package classifier sorts free-text chat messages into vague, commitment
// or normal and maps each category to the bot's canned reply.
package classifier

import (
	"strings"
)

// Category is the derived type of a chat message
type Category string

const (
	Vague      Category = "vague"
	Commitment Category = "commitment"
	Normal     Category = "normal"
)

// Trigger lists are scanned in order. Vague is checked before commitment,
// so "almost done by tomorrow" is vague.
var (
	vagueWords = []string{
		"almost", "soon", "trying", "working",
		"maybe", "nearly",
	}

	commitmentWords = []string{
		"today", "by eod", "tonight",
		"tomorrow", "will finish", "done by",
	}
)

const (
	vagueReply      = "🤖 That sounds unclear. Any blockers or ETA?"
	commitmentReply = "🤖 Noted 👍 I’ll check if progress stalls."
)

// Classify returns the category of text. Matching is a case-insensitive
// substring search without word boundaries ("soonish" is vague).
func Classify(text string) Category {
	t := strings.ToLower(text)
	if containsAny(t, vagueWords) {
		return Vague
	}
	if containsAny(t, commitmentWords) {
		return Commitment
	}
	return Normal
}

// Reply returns the bot's answer for a category. The second value is false
// when the bot stays silent.
func Reply(c Category) (string, bool) {
	switch c {
	case Vague:
		return vagueReply, true
	case Commitment:
		return commitmentReply, true
	}
	return "", false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
