package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"nriassist/internal/services"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	defaultURL         = "http://localhost:8000/api/upload"
	maxErrorBody       = 16 << 10
	formField          = "file"
)

// Config captures the runtime settings required to reach the upload backend.
type Config struct {
	URL            string
	TimeoutSeconds int
	Precheck       PrecheckConfig
}

// Result is the backend's acknowledgement of an indexed file.
type Result struct {
	ChunksIndexed int `json:"chunksIndexed"`
}

// Error reports a rejected upload. Body is what the customer sees.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upload rejected: %s", e.Body)
	}
	return fmt.Sprintf("upload request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Is matches services.ErrUpload.
func (e *Error) Is(target error) bool {
	return target == services.ErrUpload
}

// Client posts files to the upload backend.
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

// NewClient constructs an upload client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// URL reports the endpoint the client posts to.
func (c *Client) URL() string {
	return c.cfg.URL
}

type uploadResponse struct {
	ChunksIndexed *int `json:"chunksIndexed"`
	Chunks        *int `json:"chunks"`
}

// Upload sends the contents of r as name.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, services.Wrap(services.ErrValidation, "upload", "send", "file name required", nil)
	}
	if r == nil {
		return Result{}, services.Wrap(services.ErrValidation, "upload", "send", "file content required", nil)
	}
	data, err := c.readContent(r)
	if err != nil {
		return Result{}, err
	}
	if c.cfg.Precheck.Enabled {
		if err := Precheck(c.cfg.Precheck, name, data); err != nil {
			return Result{}, err
		}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(formField, name)
	if err != nil {
		return Result{}, c.wrap("build form", err)
	}
	if _, err := part.Write(data); err != nil {
		return Result{}, c.wrap("build form", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, c.wrap("build form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &body)
	if err != nil {
		return Result{}, c.wrap("new request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, c.wrap(fmt.Sprintf("http error (timeout=%s)", c.httpClient.Timeout), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, &Error{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, nil
		}
		return Result{}, c.wrap("decode response", err)
	}
	switch {
	case decoded.ChunksIndexed != nil:
		return Result{ChunksIndexed: *decoded.ChunksIndexed}, nil
	case decoded.Chunks != nil:
		return Result{ChunksIndexed: *decoded.Chunks}, nil
	default:
		// Acknowledged without a count.
		return Result{}, nil
	}
}

func (c *Client) readContent(r io.Reader) ([]byte, error) {
	limit := c.cfg.Precheck.MaxBytes
	if !c.cfg.Precheck.Enabled || limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, c.wrap("read file", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, c.wrap("read file", err)
	}
	return data, nil
}

func (c *Client) wrap(message string, err error) error {
	return services.Wrap(services.ErrUpload, "upload", "send", message, err)
}
