package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Neshaki091/evtrade-client/internal/stats"
)

const (
	apiPrefix      = "/api"
	requestTimeout = 15 * time.Second
)

// SessionStore is the slice of the session the client needs: the bearer
// token for outgoing requests and teardown when the backend rejects it.
type SessionStore interface {
	Token() string
	Clear()
}

// envelope is the one normalized response shape. Every backend response
// is decoded through it; downstream code never branches on payload
// nesting.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Client struct {
	log     *log.Logger
	baseURL *url.URL
	http    *http.Client
	session SessionStore
	stats   stats.StatsProvider
}

func NewClient(logger *log.Logger, baseURL string, sess SessionStore, sp stats.StatsProvider) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &Client{
		log:     logger,
		baseURL: u,
		http:    &http.Client{Timeout: requestTimeout},
		session: sess,
		stats:   sp,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do issues one request and decodes the response through the normalized
// envelope. On a 401 from any call site it tears down the session; the
// caller sees an unauthorized error it can treat as a recoverable
// failure. There are no retries and no caching here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(apiPrefix, path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.stats.Incr(stats.APIRequests)

	resp, err := c.http.Do(req)
	if err != nil {
		c.stats.Incr(stats.APIErrors)
		return NewTransientError(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.stats.Incr(stats.APIErrors)
		c.log.Printf("%s %s: credential rejected, clearing session", method, path)
		c.session.Clear()
		return NewUnauthorizedError()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.stats.Incr(stats.APIErrors)
		return NewTransientError(resp.StatusCode, err)
	}

	return c.unwrap(resp.StatusCode, data, out)
}

// unwrap is the single place response payloads are interpreted.
func (c *Client) unwrap(statusCode int, data []byte, out any) error {
	var env envelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			c.stats.Incr(stats.APIErrors)
			return NewTransientError(statusCode, fmt.Errorf("decode response: %w", err))
		}
	}

	if statusCode >= http.StatusBadRequest {
		c.stats.Incr(stats.APIErrors)

		message := env.Message
		if message == "" {
			message = env.Error
		}

		switch {
		case statusCode == http.StatusNotFound:
			return NewNotFoundError(message)
		case statusCode >= http.StatusInternalServerError:
			return NewTransientError(statusCode, fmt.Errorf("server error: %s", message))
		default:
			return NewValidationError(statusCode, message)
		}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		c.stats.Incr(stats.APIErrors)
		return NewTransientError(statusCode, fmt.Errorf("decode response data: %w", err))
	}

	return nil
}
