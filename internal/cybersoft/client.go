// Package cybersoft is a client for the Cybersoft cinema-booking REST API.
//
// Every request carries the platform token and, when the context holds one,
// the caller's access token. Responses are unwrapped from the
// {statusCode, message, content} envelope.
package cybersoft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	headerPlatformToken = "TokenCybersoft"
	headerAuthorization = "Authorization"
)

type Config struct {
	BaseURL string
	Token   string
	Group   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	token      string
	group      string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	group := cfg.Group
	if group == "" {
		group = "GP01"
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		group:      group,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Group returns the default group code used when a call does not name one.
func (c *Client) Group() string { return c.group }

type accessTokenKey struct{}

// WithAccessToken attaches a user access token to ctx. Calls made with the
// returned context send it as a bearer token.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessTokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(accessTokenKey{}).(string)
	return tok
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Content    json.RawMessage `json:"content"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return c.do(ctx, request{
		method:      method,
		path:        path,
		query:       query,
		body:        bytes.NewReader(b),
		contentType: "application/json",
	}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + "/api/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("build request %s: %w", r.path, err)
	}

	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.token != "" {
		req.Header.Set(headerPlatformToken, c.token)
	}
	if tok := accessTokenFrom(ctx); tok != "" {
		req.Header.Set(headerAuthorization, "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Network: true, Path: r.path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Network: true, Path: r.path, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Path: r.path}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Content = contentText(env.Content)
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("decode %s: %w", r.path, decodeErr)
	}

	if env.StatusCode != 0 && (env.StatusCode < 200 || env.StatusCode >= 300) {
		return &APIError{
			Status:  env.StatusCode,
			Path:    r.path,
			Message: env.Message,
			Content: contentText(env.Content),
		}
	}

	if out == nil || len(env.Content) == 0 || string(env.Content) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Content, out); err != nil {
		return fmt.Errorf("decode %s content: %w", r.path, err)
	}

	return nil
}

// contentText renders envelope content for error messages. The API puts
// human-readable reasons there as a JSON string.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
