// Package chat implements the live conversation state: the display
// message list, the canonical turn history sent to the backend, and the
// send/save operations over them.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/sathi"
)

// FallbackReply is shown when the backend answers without a usable
// system turn.
const FallbackReply = "Sorry, I couldn't process your request."

var (
	// ErrSendInFlight is returned when a send is attempted while another
	// is still running. Sends are serialized so two in-flight calls can
	// never read a stale turn history and overwrite each other's result.
	ErrSendInFlight = errors.New("a message is already being sent")

	// ErrNothingToSave is returned by Save when the turn history is empty.
	ErrNothingToSave = errors.New("no chat history to save")
)

// Sender is the part of the API client the controller needs.
type Sender interface {
	Chat(ctx context.Context, query string, history []sathi.Turn, save bool) (*api.ChatResponse, error)
}

// Controller owns one conversation. The message list is the display
// projection; the turn history is the authoritative transcript exchanged
// with the backend.
type Controller struct {
	client Sender

	mu          sync.Mutex
	messages    []sathi.Message
	turnHistory []sathi.Turn
	pending     bool
}

// NewController creates a controller with an empty conversation.
func NewController(client Sender) *Controller {
	return &Controller{client: client}
}

// Restore seeds the conversation from persisted state.
func (c *Controller) Restore(messages []sathi.Message, history []sathi.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append([]sathi.Message(nil), messages...)
	c.turnHistory = append([]sathi.Turn(nil), history...)
}

// Messages returns a copy of the display messages.
func (c *Controller) Messages() []sathi.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sathi.Message(nil), c.messages...)
}

// TurnHistory returns a copy of the canonical turn history.
func (c *Controller) TurnHistory() []sathi.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sathi.Turn(nil), c.turnHistory...)
}

// Pending reports whether a send is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Send submits text to the backend and appends the reply. The user
// message is appended optimistically before the network call; on failure
// a synthetic AI message carrying the classified error is appended
// instead of a reply, so the transcript always shows what happened.
//
// Returns the AI (or error) message text. Empty trimmed text is a
// validation error with no state change and no network call.
func (c *Controller) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &api.ValidationError{Field: "message", Reason: "message is empty"}
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return "", ErrSendInFlight
	}
	c.pending = true
	c.messages = append(c.messages, sathi.NewMessage(text, sathi.SenderUser))
	history := append([]sathi.Turn(nil), c.turnHistory...)
	c.mu.Unlock()

	// pending must reset no matter how the call ends.
	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}()

	resp, err := c.client.Chat(ctx, text, history, false)
	if err != nil {
		notice := api.UserMessage(err)
		c.mu.Lock()
		c.messages = append(c.messages, sathi.NewMessage(notice, sathi.SenderAI))
		c.mu.Unlock()
		return notice, err
	}

	reply := FallbackReply
	if n := len(resp.ChatHistory); n > 0 && resp.ChatHistory[n-1].System != "" {
		reply = resp.ChatHistory[n-1].System
	}

	c.mu.Lock()
	c.messages = append(c.messages, sathi.NewMessage(reply, sathi.SenderAI))
	if len(resp.ChatHistory) > 0 {
		// Server-returned history is authoritative when present.
		c.turnHistory = append([]sathi.Turn(nil), resp.ChatHistory...)
	} else {
		// Fallback: the backend omitted the history, append the exchange
		// locally so the transcript stays in sync.
		c.turnHistory = append(c.turnHistory, sathi.Turn{User: text})
	}
	c.mu.Unlock()

	return reply, nil
}

// Save persists the current turn history on the backend. With an empty
// history it returns ErrNothingToSave without touching the network.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if len(c.turnHistory) == 0 {
		c.mu.Unlock()
		return ErrNothingToSave
	}
	history := append([]sathi.Turn(nil), c.turnHistory...)
	c.mu.Unlock()

	if _, err := c.client.Chat(ctx, "", history, true); err != nil {
		return err
	}
	return nil
}

// Clear resets the conversation. Local only, no network call.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.turnHistory = nil
}
