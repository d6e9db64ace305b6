// Package coach wraps the AI text generator behind the three operations
// the app needs. Generator failures never escape: each operation returns
// a fixed fallback text instead.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/validation"
)

var ErrNotConfigured = errors.New("AI coach is not configured: set GEMINI_API_KEY or run 'gratilog keyring set'")

// Prompt is one request to a Generator. Fast asks the model to skip
// extended reasoning.
type Prompt struct {
	System string
	User   string
	Fast   bool
}

type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// InsightStore is where AnnotateEntry saves insights.
type InsightStore interface {
	AttachInsight(ctx context.Context, id, text string) error
}

type Coach struct {
	gen       Generator
	publisher events.Publisher
	timeout   time.Duration
	inflight  *InFlight
}

// New returns a coach. A nil gen leaves the coach unconfigured: thought
// analysis reports ErrNotConfigured and the other operations fall back.
func New(gen Generator, publisher events.Publisher) *Coach {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Coach{
		gen:       gen,
		publisher: publisher,
		timeout:   constants.CoachTimeout,
		inflight:  NewInFlight(),
	}
}

func (c *Coach) Configured() bool {
	return c.gen != nil
}

func (c *Coach) generate(ctx context.Context, p Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.gen.Generate(ctx, p)
}

// AnalyzeThought asks for a CBT-style reflection on text. Any reply,
// fallback included, counts as using the coach and publishes cbt_use.
func (c *Coach) AnalyzeThought(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if err := validation.EntryContent(text); err != nil {
		return "", err
	}

	reply, err := c.generate(ctx, Prompt{System: constants.ThoughtInstruction, User: text, Fast: true})
	switch {
	case err != nil:
		logger.For("coach").Warn("Thought analysis failed", "error", err)
		reply = constants.FallbackDisconnected
	case strings.TrimSpace(reply) == "":
		reply = constants.FallbackReply
	}

	if err := c.publisher.Publish(ctx, events.Event{Type: events.CBTUse, Count: 1}); err != nil {
		return reply, err
	}
	return reply, nil
}

// GratitudePrompt suggests something to write about. recent moods, when
// given, are passed along as context.
func (c *Coach) GratitudePrompt(ctx context.Context, recent []models.MoodLog) string {
	if !c.Configured() {
		return constants.FallbackPrompt
	}

	request := constants.PromptRequest
	if len(recent) > 0 {
		values := make([]string, 0, len(recent))
		for _, m := range recent {
			values = append(values, strconv.Itoa(m.Value))
		}
		request += fmt.Sprintf(" Their recent mood scores on a 1-10 scale were: %s.", strings.Join(values, ", "))
	}

	reply, err := c.generate(ctx, Prompt{User: request})
	if err != nil {
		logger.For("coach").Warn("Prompt generation failed", "error", err)
		return constants.FallbackPromptNoAnswer
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return constants.FallbackPromptNoAnswer
	}
	return reply
}

// GenerateInsight comments on an entry. An empty result means no insight.
func (c *Coach) GenerateInsight(ctx context.Context, entryText string) string {
	if !c.Configured() || strings.TrimSpace(entryText) == "" {
		return ""
	}

	reply, err := c.generate(ctx, Prompt{User: fmt.Sprintf(constants.InsightRequest, entryText)})
	if err != nil {
		logger.For("coach").Warn("Insight generation failed", "error", err)
		return ""
	}
	return strings.TrimSpace(reply)
}

// AnnotateEntry generates an insight for entry and saves it. Only one
// request per entry may be outstanding; a second returns ErrInFlight.
func (c *Coach) AnnotateEntry(ctx context.Context, store InsightStore, entry models.JournalEntry) (string, error) {
	done, ok := c.inflight.Start("entry:" + entry.ID)
	if !ok {
		return "", ErrInFlight
	}
	defer done()

	insight := c.GenerateInsight(ctx, entry.Content)
	if insight == "" {
		return "", nil
	}
	if err := store.AttachInsight(ctx, entry.ID, insight); err != nil {
		return insight, err
	}
	return insight, nil
}

// Reply adds text to conv, asks for a reflection and records the answer.
// When the coach is unconfigured the recorded answer is an apology and
// ErrNotConfigured is returned with it.
func (c *Coach) Reply(ctx context.Context, conv *Conversation, text string) (Message, error) {
	done, ok := c.inflight.Start("conversation:" + conv.ID())
	if !ok {
		return Message{}, ErrInFlight
	}
	defer done()

	if err := validation.EntryContent(text); err != nil {
		return Message{}, err
	}
	conv.append(RoleUser, strings.TrimSpace(text))

	reply, err := c.AnalyzeThought(ctx, text)
	if errors.Is(err, ErrNotConfigured) {
		return conv.append(RoleModel, constants.FallbackChatError), err
	}
	return conv.append(RoleModel, reply), err
}
