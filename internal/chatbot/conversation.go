package chatbot

import (
	"strings"
	"sync"
	"time"
)

type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"is_bot"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the message list of one chat window. Nothing is persisted.
type Conversation struct {
	mu       sync.Mutex
	now      func() time.Time
	messages []Message
}

func NewConversation(now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	c := &Conversation{now: now}
	c.append(WelcomeMessage, true)
	return c
}

// Send records the user message and the reply. Blank input is ignored and returns false.
func (c *Conversation) Send(text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(text, false)
	return c.append(Respond(text), true), true
}

func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) append(text string, isBot bool) Message {
	m := Message{
		ID:        len(c.messages) + 1,
		Text:      text,
		IsBot:     isBot,
		Timestamp: c.now(),
	}
	c.messages = append(c.messages, m)
	return m
}
