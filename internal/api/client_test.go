package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sikshasathi/sathi/internal/sathi"
)

func TestObtainToken(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantErr   error
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      `{"access_token":"tok-123","token_type":"bearer"}`,
			wantToken: "tok-123",
		},
		{
			name:    "credential mismatch",
			status:  http.StatusOK,
			body:    `{"detail":"Email and password does not match!"}`,
			wantErr: ErrCredentialMismatch,
		},
		{
			name:    "mismatch with error status",
			status:  http.StatusUnauthorized,
			body:    `{"detail":"Email and password does not match!"}`,
			wantErr: ErrCredentialMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/auth/token" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 0)
			token, err := client.ObtainToken(context.Background(), "a@b.c", "pw")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ObtainToken() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ObtainToken() unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("ObtainToken() = %q, want %q", token, tt.wantToken)
			}
		})
	}
}

func TestObtainTokenMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.ObtainToken(context.Background(), "a@b.c", "pw")

	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectivityError, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "created",
			status: http.StatusOK,
			body:   `{"user_id":"u1"}`,
		},
		{
			name:    "email exists",
			status:  http.StatusOK,
			body:    `{"detail":"Email Already exists!"}`,
			wantErr: ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/users/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				var req SignupRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decoding request: %v", err)
				}
				if req.Email == "" {
					t.Error("user_email missing from request body")
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 0)
			err := client.CreateUser(context.Background(), SignupRequest{
				FullName: "A B",
				Email:    "a@b.c",
				Password: "pw",
			})

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateUser() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChatSendsBearerToken(t *testing.T) {
	var gotAuth string
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(ChatResponse{
			ChatHistory: []sathi.Turn{{User: "hi", System: "hello"}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	client.SetToken("tok-123")

	resp, err := client.Chat(context.Background(), "hi", nil, false)
	if err != nil {
		t.Fatalf("Chat() unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotReq.ChatHistory == nil {
		t.Error("chat_history was null on the wire, want []")
	}
	if gotReq.SaveChat {
		t.Error("save_chat = true, want false")
	}
	if len(resp.ChatHistory) != 1 || resp.ChatHistory[0].System != "hello" {
		t.Errorf("unexpected response history: %+v", resp.ChatHistory)
	}
}

func TestChatWithoutTokenMakesNoRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.Chat(context.Background(), "hi", nil, false)

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected 0 network calls, got %d", calls)
	}
}

func TestChatStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 is an auth error",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %v", err)
				}
			},
		},
		{
			name:   "400 is a request error",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var reqErr *RequestError
				if !errors.As(err, &reqErr) {
					t.Errorf("expected RequestError, got %v", err)
				}
			},
		},
		{
			name:   "500 is a connectivity error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var connErr *ConnectivityError
				if !errors.As(err, &connErr) {
					t.Errorf("expected ConnectivityError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 0)
			client.SetToken("tok")
			_, err := client.Chat(context.Background(), "hi", nil, false)
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
		})
	}
}

func TestChatNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable

	client := NewClient(srv.URL, 0)
	client.SetToken("tok")
	_, err := client.Chat(context.Background(), "hi", nil, false)

	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectivityError, got %v", err)
	}
	if connErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for a request that never reached the backend", connErr.Status)
	}
}

func TestListSavedChats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Write([]byte(`{"data":[{"id":"1","chat_title":"Biology","data":{"chat_history":[{"user":"hi","system":"hello"}]}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	client.SetToken("tok")

	sessions, err := client.ListSavedChats(context.Background())
	if err != nil {
		t.Fatalf("ListSavedChats() unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].ChatTitle != "Biology" {
		t.Errorf("ChatTitle = %q, want %q", sessions[0].ChatTitle, "Biology")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "auth error",
			err:  &AuthError{Reason: "bad token"},
			want: "Authentication error. Please login again.",
		},
		{
			name: "request error",
			err:  &RequestError{Status: 400},
			want: "Invalid request. Please check your input.",
		},
		{
			name: "connectivity error",
			err:  &ConnectivityError{Status: 500},
			want: "Error: Could not connect to the server.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
