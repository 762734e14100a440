package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/sathi"
)

// fakeSender records calls and returns scripted responses.
type fakeSender struct {
	mu       sync.Mutex
	calls    []api.ChatRequest
	response *api.ChatResponse
	err      error

	// block, when non-nil, is closed by the test to release an in-flight call.
	block chan struct{}
}

func (f *fakeSender) Chat(ctx context.Context, query string, history []sathi.Turn, save bool) (*api.ChatResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, api.ChatRequest{Query: query, ChatHistory: history, SaveChat: save})
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSendEmptyTextIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			c := NewController(sender)

			_, err := c.Send(context.Background(), tt.text)

			var validationErr *api.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if sender.callCount() != 0 {
				t.Errorf("expected 0 network calls, got %d", sender.callCount())
			}
			if len(c.Messages()) != 0 || len(c.TurnHistory()) != 0 {
				t.Error("state changed on empty send")
			}
			if c.Pending() {
				t.Error("pending = true after validation failure")
			}
		})
	}
}

func TestSendSuccess(t *testing.T) {
	serverHistory := []sathi.Turn{
		{User: "What is photosynthesis?", System: "It is..."},
	}
	sender := &fakeSender{response: &api.ChatResponse{ChatHistory: serverHistory}}
	c := NewController(sender)

	reply, err := c.Send(context.Background(), "What is photosynthesis?")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if reply != "It is..." {
		t.Errorf("reply = %q, want %q", reply, "It is...")
	}

	messages := c.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != sathi.SenderUser || messages[0].Text != "What is photosynthesis?" {
		t.Errorf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Sender != sathi.SenderAI || messages[1].Text != "It is..." {
		t.Errorf("unexpected AI message: %+v", messages[1])
	}

	// Server-returned history is authoritative, taken verbatim.
	history := c.TurnHistory()
	if len(history) != 1 || history[0] != serverHistory[0] {
		t.Errorf("turn history = %+v, want %+v", history, serverHistory)
	}
	if c.Pending() {
		t.Error("pending = true after send settled")
	}
}

func TestSendTrimsText(t *testing.T) {
	sender := &fakeSender{response: &api.ChatResponse{}}
	c := NewController(sender)

	if _, err := c.Send(context.Background(), "  hello  "); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if got := sender.calls[0].Query; got != "hello" {
		t.Errorf("query = %q, want trimmed %q", got, "hello")
	}
}

func TestSendFallbackReply(t *testing.T) {
	// Backend answered but without a usable system turn.
	sender := &fakeSender{response: &api.ChatResponse{ChatHistory: []sathi.Turn{{User: "hi"}}}}
	c := NewController(sender)

	reply, err := c.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if reply != FallbackReply {
		t.Errorf("reply = %q, want fallback %q", reply, FallbackReply)
	}
}

func TestSendLocalHistoryFallback(t *testing.T) {
	// Backend omitted chat_history entirely: the exchange is appended locally.
	sender := &fakeSender{response: &api.ChatResponse{}}
	c := NewController(sender)

	if _, err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	history := c.TurnHistory()
	if len(history) != 1 || history[0].User != "hi" {
		t.Errorf("turn history = %+v, want one locally appended turn", history)
	}
}

func TestSendFailureAppendsErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "auth failure",
			err:  &api.AuthError{Reason: "expired"},
			want: "Authentication error. Please login again.",
		},
		{
			name: "bad request",
			err:  &api.RequestError{Status: 400},
			want: "Invalid request. Please check your input.",
		},
		{
			name: "connectivity",
			err:  &api.ConnectivityError{Status: 503},
			want: "Error: Could not connect to the server.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{err: tt.err}
			c := NewController(sender)

			reply, err := c.Send(context.Background(), "hi")
			if err == nil {
				t.Fatal("expected an error")
			}
			if reply != tt.want {
				t.Errorf("reply = %q, want %q", reply, tt.want)
			}

			// Exactly one user message before, one synthetic AI message after.
			messages := c.Messages()
			if len(messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(messages))
			}
			if messages[1].Sender != sathi.SenderAI || messages[1].Text != tt.want {
				t.Errorf("unexpected synthetic message: %+v", messages[1])
			}

			// Turn history never records a failed exchange.
			if len(c.TurnHistory()) != 0 {
				t.Errorf("turn history grew on failure: %+v", c.TurnHistory())
			}
			if c.Pending() {
				t.Error("pending = true after failed send settled")
			}
		})
	}
}

func TestSendSerialization(t *testing.T) {
	sender := &fakeSender{
		response: &api.ChatResponse{ChatHistory: []sathi.Turn{{User: "first", System: "ok"}}},
		block:    make(chan struct{}),
	}
	c := NewController(sender)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := c.Send(context.Background(), "first")
		done <- err
	}()

	<-started
	// Wait until the first send reaches the fake client.
	for sender.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Send(context.Background(), "second"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("second send error = %v, want ErrSendInFlight", err)
	}

	close(sender.block)
	if err := <-done; err != nil {
		t.Fatalf("first send failed: %v", err)
	}

	if sender.callCount() != 1 {
		t.Errorf("expected exactly 1 network call, got %d", sender.callCount())
	}

	// The slot is free again once the first send settles.
	sender.block = nil
	if _, err := c.Send(context.Background(), "third"); err != nil {
		t.Errorf("send after settle failed: %v", err)
	}
}

func TestTurnHistoryGrowsByOnePerSend(t *testing.T) {
	sender := &fakeSender{}
	c := NewController(sender)

	var want []sathi.Turn
	queries := []string{"one", "two", "three"}
	for _, q := range queries {
		want = append(want, sathi.Turn{User: q, System: "reply to " + q})
		sender.response = &api.ChatResponse{ChatHistory: append([]sathi.Turn(nil), want...)}

		before := len(c.TurnHistory())
		if _, err := c.Send(context.Background(), q); err != nil {
			t.Fatalf("Send(%q) failed: %v", q, err)
		}
		after := len(c.TurnHistory())
		if after != before+1 {
			t.Errorf("history length %d -> %d after send, want +1", before, after)
		}
	}

	// Never reordered: the final history matches the sent order exactly.
	history := c.TurnHistory()
	for i, turn := range history {
		if turn.User != queries[i] {
			t.Errorf("history[%d].User = %q, want %q", i, turn.User, queries[i])
		}
	}
}

func TestSaveEmptyHistoryMakesNoCall(t *testing.T) {
	sender := &fakeSender{}
	c := NewController(sender)

	if err := c.Save(context.Background()); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("Save() error = %v, want ErrNothingToSave", err)
	}
	if sender.callCount() != 0 {
		t.Errorf("expected 0 network calls, got %d", sender.callCount())
	}
}

func TestSaveSendsHistoryWithSaveFlag(t *testing.T) {
	sender := &fakeSender{response: &api.ChatResponse{ChatHistory: []sathi.Turn{{User: "hi", System: "hello"}}}}
	c := NewController(sender)

	if _, err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	saveCall := sender.calls[1]
	if !saveCall.SaveChat {
		t.Error("save_chat = false, want true")
	}
	if saveCall.Query != "" {
		t.Errorf("query = %q, want empty on save", saveCall.Query)
	}
	if len(saveCall.ChatHistory) != 1 {
		t.Errorf("saved history length = %d, want 1", len(saveCall.ChatHistory))
	}
}

func TestClear(t *testing.T) {
	sender := &fakeSender{response: &api.ChatResponse{ChatHistory: []sathi.Turn{{User: "hi", System: "hello"}}}}
	c := NewController(sender)

	if _, err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	c.Clear()

	if len(c.Messages()) != 0 || len(c.TurnHistory()) != 0 {
		t.Error("Clear() did not reset state")
	}
	if sender.callCount() != 1 {
		t.Errorf("Clear() made a network call, total calls = %d", sender.callCount())
	}
}
