package coach

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/validation"
)

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []Prompt
	block   chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.reply, f.err
}

type countingPublisher struct {
	events []events.Event
}

func (c *countingPublisher) Publish(_ context.Context, ev events.Event) error {
	c.events = append(c.events, ev)
	return nil
}

type insightRecorder struct {
	id, text string
	calls    int
}

func (r *insightRecorder) AttachInsight(_ context.Context, id, text string) error {
	r.id, r.text = id, text
	r.calls++
	return nil
}

func TestAnalyzeThought(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"reply passes through verbatim", "**Empathy** first.", nil, "**Empathy** first."},
		{"empty reply", "   ", nil, constants.FallbackReply},
		{"generator error", "", errors.New("dial tcp: timeout"), constants.FallbackDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: tt.reply, err: tt.err}
			pub := &countingPublisher{}
			c := New(gen, pub)

			got, err := c.AnalyzeThought(context.Background(), "I always mess things up")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			require.Len(t, pub.events, 1)
			assert.Equal(t, events.CBTUse, pub.events[0].Type)
			require.Len(t, gen.prompts, 1)
			assert.Equal(t, constants.ThoughtInstruction, gen.prompts[0].System)
			assert.True(t, gen.prompts[0].Fast)
		})
	}
}

func TestAnalyzeThoughtNotConfigured(t *testing.T) {
	pub := &countingPublisher{}
	c := New(nil, pub)

	_, err := c.AnalyzeThought(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, pub.events)
}

func TestAnalyzeThoughtRejectsBlank(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	_, err := New(gen, nil).AnalyzeThought(context.Background(), "  ")
	assert.ErrorIs(t, err, validation.ErrEmptyContent)
	assert.Empty(t, gen.prompts)
}

func TestGratitudePrompt(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, constants.FallbackPrompt, New(nil, nil).GratitudePrompt(ctx, nil))
	assert.Equal(t, constants.FallbackPromptNoAnswer, New(&fakeGenerator{err: errors.New("503")}, nil).GratitudePrompt(ctx, nil))
	assert.Equal(t, constants.FallbackPromptNoAnswer, New(&fakeGenerator{reply: ""}, nil).GratitudePrompt(ctx, nil))

	gen := &fakeGenerator{reply: " Who made you smile today? "}
	got := New(gen, nil).GratitudePrompt(ctx, []models.MoodLog{{Value: 3}, {Value: 8}})
	assert.Equal(t, "Who made you smile today?", got)
	assert.Contains(t, gen.prompts[0].User, "3, 8")
}

func TestGenerateInsight(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, New(nil, nil).GenerateInsight(ctx, "coffee"))
	assert.Empty(t, New(&fakeGenerator{err: errors.New("boom")}, nil).GenerateInsight(ctx, "coffee"))

	gen := &fakeGenerator{reply: "Small rituals ground us."}
	assert.Equal(t, "Small rituals ground us.", New(gen, nil).GenerateInsight(ctx, "morning coffee"))
	assert.Contains(t, gen.prompts[0].User, `"morning coffee"`)
}

func TestAnnotateEntry(t *testing.T) {
	ctx := context.Background()
	entry := models.JournalEntry{ID: "e1", Content: "a kind neighbour"}

	store := &insightRecorder{}
	got, err := New(&fakeGenerator{reply: "Kindness travels."}, nil).AnnotateEntry(ctx, store, entry)
	require.NoError(t, err)
	assert.Equal(t, "Kindness travels.", got)
	assert.Equal(t, "e1", store.id)

	empty := &insightRecorder{}
	got, err = New(&fakeGenerator{reply: ""}, nil).AnnotateEntry(ctx, empty, entry)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, empty.calls, "no insight means no write")
}

func TestAnnotateEntryOnePerEntry(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reply: "ok", block: make(chan struct{})}
	c := New(gen, nil)
	store := &insightRecorder{}

	first := make(chan error, 1)
	go func() {
		_, err := c.AnnotateEntry(ctx, store, models.JournalEntry{ID: "e1", Content: "one"})
		first <- err
	}()

	require.Eventually(t, func() bool { return c.inflight.Busy("entry:e1") }, timeoutForTest, tick)

	_, err := c.AnnotateEntry(ctx, store, models.JournalEntry{ID: "e1", Content: "one"})
	assert.ErrorIs(t, err, ErrInFlight)

	close(gen.block)
	require.NoError(t, <-first)

	assert.False(t, c.inflight.Busy("entry:e1"))
}

func TestReply(t *testing.T) {
	ctx := context.Background()
	conv := NewConversation()
	require.Len(t, conv.Messages(), 1)
	assert.Equal(t, constants.CoachGreeting, conv.Messages()[0].Text)

	msg, err := New(&fakeGenerator{reply: "Let's look at the evidence."}, nil).Reply(ctx, conv, "Nobody likes me")
	require.NoError(t, err)
	assert.Equal(t, RoleModel, msg.Role)

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "Nobody likes me", msgs[1].Text)
	assert.Equal(t, "Let's look at the evidence.", msgs[2].Text)
}

func TestReplyNotConfigured(t *testing.T) {
	conv := NewConversation()
	msg, err := New(nil, nil).Reply(context.Background(), conv, "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, constants.FallbackChatError, msg.Text)
	assert.Len(t, conv.Messages(), 3)
}
