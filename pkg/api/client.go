package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3000"

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Client issues authenticated JSON requests against a single base URL.
type Client struct {
	baseURL string
	http    *http.Client
	auth    Auth
	logger  *zap.Logger
	newID   func() string
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(base); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithHTTPClient swaps the transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithAuth sets the token source.
func WithAuth(auth Auth) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithLogger attaches a logger; calls are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New constructs a Client. Without WithAuth every call fails with
// ErrUnauthenticated.
func New(options ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseURL reports the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type callConfig struct {
	statusField bool
}

// CallOption tweaks a single call.
type CallOption func(*callConfig)

// RequireStatusSuccess treats a 2xx body carrying a "status" field other than
// "success" as a remote error.
func RequireStatusSuccess() CallOption {
	return func(cfg *callConfig) {
		cfg.statusField = true
	}
}

// Do performs one authenticated JSON call. body is encoded as JSON when
// non-nil. The decoded response is returned as-is; an empty body yields nil.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...CallOption) (any, error) {
	cfg := callConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &RemoteError{Method: method, Path: path, Message: "no se pudo contactar con el servidor", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: "respuesta incompleta del servidor", Err: err}
	}

	var payload any
	decodeErr := decode(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractMessage(payload)
		if msg == "" {
			msg = genericMessage(resp.StatusCode)
		}
		return nil, &RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: "respuesta JSON inválida", Err: decodeErr}
	}

	if cfg.statusField {
		if obj, ok := payload.(map[string]any); ok {
			if status, present := obj["status"]; present && status != "success" {
				msg := extractMessage(obj)
				if msg == "" {
					msg = fmt.Sprintf("estado inesperado %v", status)
				}
				return nil, &RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: msg}
			}
		}
	}

	return payload, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.auth == nil {
		return "", ErrUnauthenticated
	}
	token, err := c.auth.Token(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if strings.TrimSpace(token) == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

func decode(raw []byte, out *any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		*out = nil
		return nil
	}
	return json.Unmarshal(raw, out)
}
