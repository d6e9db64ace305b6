package coach

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/gratilog/internal/constants"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
}

// Conversation is an in-memory CBT chat. It is not persisted.
type Conversation struct {
	id       string
	mu       sync.Mutex
	messages []Message
}

// NewConversation starts a chat with the coach's greeting.
func NewConversation() *Conversation {
	c := &Conversation{id: uuid.NewString()}
	c.append(RoleModel, constants.CoachGreeting)
	return c
}

func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a snapshot of the chat so far.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) append(role Role, text string) Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := Message{ID: uuid.NewString(), Role: role, Text: text, Timestamp: time.Now()}
	c.messages = append(c.messages, msg)
	return msg
}
