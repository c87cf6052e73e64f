package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"budgetchat/internal/chat"
	"budgetchat/internal/debug"
)

const defaultTimeout = 60 * time.Second

// TokenSource supplies the bearer token for authenticated requests.
// An empty return means the request goes out unauthenticated.
type TokenSource func() string

// HTTPClient implements Client over REST+JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithTokenSource sets the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) {
		c.token = ts
	}
}

// NewHTTPClient creates a gateway client for the given base URL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		debug.Error("gateway", err, method+" "+path)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		debug.Error("gateway", apiErr, method+" "+path)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error body.
// The gateway uses either {"message": ...} or {"detail": ...}.
func readErrorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Detail
}

// CreateChat creates an empty session and returns its ID.
func (c *HTTPClient) CreateChat(ctx context.Context) (string, error) {
	var resp struct {
		ChatID string `json:"chat_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/chats", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.ChatID, nil
}

// ListChats returns all conversations without messages.
func (c *HTTPClient) ListChats(ctx context.Context) ([]*chat.Conversation, error) {
	var resp struct {
		Chats []wireSession `json:"chats"`
	}
	if err := c.do(ctx, http.MethodGet, "/chats", nil, &resp); err != nil {
		return nil, err
	}
	convs := make([]*chat.Conversation, len(resp.Chats))
	for i, ws := range resp.Chats {
		convs[i] = conversationFromWire(ws)
	}
	return convs, nil
}

// GetChat returns the full conversation including messages.
func (c *HTTPClient) GetChat(ctx context.Context, id string) (*chat.Conversation, error) {
	var ws wireSession
	if err := c.do(ctx, http.MethodGet, "/chats/"+id, nil, &ws); err != nil {
		return nil, err
	}
	return conversationFromWire(ws), nil
}

// SendMessage posts a user message and returns the assistant reply.
func (c *HTTPClient) SendMessage(ctx context.Context, id, text string) (*SendResult, error) {
	req := struct {
		Message string `json:"message"`
	}{Message: text}
	var res SendResult
	if err := c.do(ctx, http.MethodPost, "/chats/"+id+"/message", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteChat removes a conversation server-side.
func (c *HTTPClient) DeleteChat(ctx context.Context, id string) error {
	var resp struct {
		Message string `json:"message"`
	}
	return c.do(ctx, http.MethodDelete, "/chats/"+id, nil, &resp)
}

// Login authenticates and returns an access token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns an access token.
func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Name: name, Email: email, Password: password}
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
