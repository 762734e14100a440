// Package api implements the HTTP client for the Siksha Sathi backend.
// All endpoints live under /api/v1; authenticated calls carry the bearer
// token obtained from the auth endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sikshasathi/sathi/internal/sathi"
)

const (
	DefaultBaseURL = "https://sikshasathi.nebd.in"
	DefaultTimeout = 30 * time.Second

	// Backend-reported domain failures arrive in the "detail" field with
	// these exact strings.
	detailCredentialMismatch = "Email and password does not match!"
	detailEmailExists        = "Email Already exists!"
)

// Client talks to the Siksha Sathi backend. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. A zero timeout falls
// back to DefaultTimeout so no call can hang indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token used on authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// HasToken reports whether a bearer token is configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// TokenResponse is the success payload of the auth endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignupRequest is the payload for user creation.
type SignupRequest struct {
	FullName string `json:"user_full_name"`
	Email    string `json:"user_email"`
	Password string `json:"user_password"`
	Phone    string `json:"user_phone"`
}

// ChatRequest is the payload for the chat endpoint. The same endpoint
// serves both querying (save_chat=false) and saving (save_chat=true).
type ChatRequest struct {
	Query       string       `json:"query"`
	ChatHistory []sathi.Turn `json:"chat_history"`
	SaveChat    bool         `json:"save_chat"`
}

// ChatResponse carries the server's canonical history after a chat call.
type ChatResponse struct {
	ChatHistory []sathi.Turn `json:"chat_history"`
}

type listChatsResponse struct {
	Data []sathi.SavedSession `json:"data"`
}

// detailPayload captures the backend's error envelope.
type detailPayload struct {
	Detail string `json:"detail"`
}

// ObtainToken exchanges credentials for a bearer token. A backend-reported
// mismatch returns ErrCredentialMismatch; the token is not stored on the
// client automatically.
func (c *Client) ObtainToken(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	respBody, status, err := c.post(ctx, "/api/v1/auth/token", body, false)
	if err != nil {
		return "", err
	}

	// The backend signals a credential mismatch through the detail field,
	// sometimes with a 2xx status. Check it before the status code.
	var detail detailPayload
	if json.Unmarshal(respBody, &detail) == nil && detail.Detail == detailCredentialMismatch {
		return "", ErrCredentialMismatch
	}
	if status != http.StatusOK {
		return "", classifyStatus(status, detail.Detail)
	}

	var tok TokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return "", &ConnectivityError{Err: fmt.Errorf("parsing token response: %w", err)}
	}
	if tok.AccessToken == "" {
		return "", &ConnectivityError{Err: fmt.Errorf("no access token in response")}
	}
	return tok.AccessToken, nil
}

// CreateUser registers a new account. A backend-reported duplicate email
// returns ErrEmailExists.
func (c *Client) CreateUser(ctx context.Context, req SignupRequest) error {
	respBody, status, err := c.post(ctx, "/api/v1/users/", req, false)
	if err != nil {
		return err
	}

	var detail detailPayload
	if json.Unmarshal(respBody, &detail) == nil && detail.Detail == detailEmailExists {
		return ErrEmailExists
	}
	if status < 200 || status >= 300 {
		return classifyStatus(status, detail.Detail)
	}
	return nil
}

// FetchProfile retrieves the authenticated user's profile.
func (c *Client) FetchProfile(ctx context.Context) (*sathi.Profile, error) {
	respBody, status, err := c.get(ctx, "/api/v1/users/self")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyStatus(status, extractDetail(respBody))
	}

	var profile sathi.Profile
	if err := json.Unmarshal(respBody, &profile); err != nil {
		return nil, &ConnectivityError{Err: fmt.Errorf("parsing profile response: %w", err)}
	}
	return &profile, nil
}

// Chat sends a query with the canonical turn history. With save=true and
// an empty query the backend persists the history instead of answering.
func (c *Client) Chat(ctx context.Context, query string, history []sathi.Turn, save bool) (*ChatResponse, error) {
	req := ChatRequest{
		Query:       query,
		ChatHistory: history,
		SaveChat:    save,
	}
	// Keep chat_history as [] rather than null on the wire.
	if req.ChatHistory == nil {
		req.ChatHistory = []sathi.Turn{}
	}

	respBody, status, err := c.post(ctx, "/api/v1/chat/", req, true)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyStatus(status, extractDetail(respBody))
	}

	var resp ChatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &ConnectivityError{Err: fmt.Errorf("parsing chat response: %w", err)}
	}
	return &resp, nil
}

// ListSavedChats retrieves all saved sessions for the authenticated user.
func (c *Client) ListSavedChats(ctx context.Context) ([]sathi.SavedSession, error) {
	respBody, status, err := c.get(ctx, "/api/v1/chat/")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyStatus(status, extractDetail(respBody))
	}

	var resp listChatsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &ConnectivityError{Err: fmt.Errorf("parsing chat list response: %w", err)}
	}
	return resp.Data, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, authed bool) ([]byte, int, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, authed)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, true)
}

func (c *Client) do(req *http.Request, authed bool) ([]byte, int, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if c.token == "" {
			return nil, 0, &AuthError{Reason: "no access token found, please login"}
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &ConnectivityError{Err: fmt.Errorf("reading response: %w", err)}
	}
	return body, resp.StatusCode, nil
}

func extractDetail(body []byte) string {
	var d detailPayload
	if json.Unmarshal(body, &d) == nil {
		return d.Detail
	}
	return ""
}
