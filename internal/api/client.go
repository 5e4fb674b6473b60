package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/nhle/trainadmin/internal/model"
)

// Client is a thin HTTP client for the train backend REST API.
// It handles Bearer token authentication, JSON marshaling, and
// automatic retry with exponential backoff on HTTP 429 and gateway errors.
type Client struct {
	http   *resty.Client
	logger *log.Logger

	mu    gosync.RWMutex
	token string
}

// NewClient creates a new backend client from the API configuration.
func NewClient(cfg model.APIConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Client{logger: logger.With("component", "api")}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(30 * time.Second).
		SetRetryAfter(retryAfter).
		AddRetryCondition(retryCondition)

	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	c.http.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		c.logger.Debug("request done",
			"method", r.Request.Method,
			"url", r.Request.URL,
			"status", r.StatusCode(),
			"elapsed", r.Time(),
			"request_id", r.Request.Header.Get("X-Request-ID"),
		)
		return nil
	})

	return c
}

// SetToken sets the access token sent on authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current access token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request describes one call to the backend.
type request struct {
	method   string
	path     string
	query    map[string]string
	body     interface{}
	result   interface{}
	public   bool   // skip the Authorization header
	fallback string // message used when an error body has none
}

// do is the core method that builds the request, handles auth and maps
// failures to typed errors.
func (c *Client) do(ctx context.Context, r request) error {
	op := r.method + " " + r.path

	req := c.http.R().SetContext(ctx)
	if !r.public {
		if token := c.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}
	if len(r.query) > 0 {
		req.SetQueryParams(r.query)
	}
	if r.body != nil {
		req.SetBody(r.body)
	}
	if r.result != nil {
		req.SetResult(r.result)
	}

	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("request failed", "op", op, "err", err)
		return &NetworkError{Op: op, Err: err}
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		fallback := r.fallback
		if fallback == "" {
			fallback = fmt.Sprintf("unexpected status %d on %s", resp.StatusCode(), op)
		}
		apiErr := statusError(resp.StatusCode(), resp.Body(), fallback)
		c.logger.Warn("request rejected", "op", op, "status", resp.StatusCode(), "err", apiErr)
		return apiErr
	}

	return nil
}

// retryCondition retries rate limiting and gateway failures only. POST
// requests are retried on 429 alone, since a gateway error may arrive
// after the server has already created the record.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil || r == nil {
		return false
	}
	if r.Request != nil && r.Request.Method == http.MethodPost {
		return r.StatusCode() == http.StatusTooManyRequests
	}
	switch r.StatusCode() {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryAfter honours a numeric Retry-After header and otherwise backs off
// exponentially: 1s, 2s, 4s, ... capped at 30s.
func retryAfter(_ *resty.Client, r *resty.Response) (time.Duration, error) {
	if r != nil {
		if header := r.Header().Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				return time.Duration(seconds) * time.Second, nil
			}
		}
	}
	attempt := 0
	if r != nil && r.Request != nil {
		attempt = r.Request.Attempt - 1
	}
	if attempt < 0 {
		attempt = 0
	}
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff, nil
}
