package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"empty", "", Normal},
		{"plain status", "pushed the login fix", Normal},
		{"vague trying", "I'm trying to finish", Vague},
		{"vague uppercase", "ALMOST there", Vague},
		{"vague no word boundary", "soonish I guess", Vague},
		{"vague wins over commitment", "almost done by tomorrow", Vague},
		{"commitment tonight", "will finish tonight", Commitment},
		{"commitment by eod", "Merging it By EOD", Commitment},
		{"commitment done by", "done by friday", Commitment},
		{"commitment inside word", "todays build is green", Commitment},
		{"working is vague", "still working on it", Vague},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	text := "maybe tomorrow"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(text))
	}
}

func TestReply(t *testing.T) {
	reply, ok := Reply(Vague)
	assert.True(t, ok)
	assert.Contains(t, reply, "blockers or ETA")

	reply, ok = Reply(Commitment)
	assert.True(t, ok)
	assert.Contains(t, reply, "Noted")

	reply, ok = Reply(Normal)
	assert.False(t, ok)
	assert.Empty(t, reply)

	_, ok = Reply(Category("unknown"))
	assert.False(t, ok)
}

func TestClassifyThenReply(t *testing.T) {
	reply, ok := Reply(Classify("I'm trying to finish"))
	assert.True(t, ok)
	assert.Equal(t, vagueReply, reply)

	reply, ok = Reply(Classify("will finish tonight"))
	assert.True(t, ok)
	assert.Equal(t, commitmentReply, reply)
}
