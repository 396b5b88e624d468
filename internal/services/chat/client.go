package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nriassist/internal/services"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultURL         = "http://localhost:8000/api/chat"
	maxErrorBody       = 4 << 10
)

// Config captures the runtime settings required to reach the chat backend.
type Config struct {
	URL            string
	TimeoutSeconds int
}

// Client posts user utterances to the chat backend.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a chat client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			URL:            strings.TrimSpace(cfg.URL),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.URL == "" {
		client.cfg.URL = defaultURL
	}
	return client
}

// URL reports the endpoint the client posts to.
func (c *Client) URL() string {
	return c.cfg.URL
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Ask sends query and returns the backend's answer, which may be empty.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", services.Wrap(services.ErrValidation, "chat", "ask", "query required", nil)
	}
	encoded, err := json.Marshal(askRequest{Query: query})
	if err != nil {
		return "", c.wrap("encode body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(encoded))
	if err != nil {
		return "", c.wrap("new request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.wrap(fmt.Sprintf("http error (timeout=%s)", c.httpClient.Timeout), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", c.wrap("", &StatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}
	var decoded askResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", c.wrap("decode response", err)
	}
	return strings.TrimSpace(decoded.Answer), nil
}

func (c *Client) wrap(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		message = strings.TrimSpace(message + " deadline exceeded")
	}
	return services.Wrap(services.ErrChatBackend, "chat", "ask", message, err)
}
