// Package httpstore talks to the remote expense store over HTTP.
//
// Endpoints:
//
//	POST   /add          form: title, amount, category
//	DELETE /delete/{id}  response body ignored
//	GET    /api/data     JSON array of records
package httpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"spesechart/internal/core"
	applog "spesechart/internal/log"
	"spesechart/internal/store"
)

const (
	AddPath    = "/add"
	DeletePath = "/delete/"
	ListPath   = "/api/data"

	// RequestIDHeader carries a per-request UUID for correlating store logs.
	RequestIDHeader = "X-Request-ID"

	statusSuccess = "success"
	maxErrorBody  = 512
)

// createResponse is the envelope returned by POST /add.
type createResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    core.Expense `json:"data"`
}

// Client implements store.Store against the HTTP endpoints.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *applog.Logger
}

var _ store.Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *applog.Logger) Option {
	return func(c *Client) { c.logger = l.WithComponent(applog.ComponentStore) }
}

// New creates a client rooted at baseURL (e.g. "http://localhost:5000").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid store url scheme %q: must be http or https", u.Scheme)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  applog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Create posts the draft as a form and returns the record echoed by the store.
// A response without status "success" yields store.ErrCreateRejected.
func (c *Client) Create(ctx context.Context, d core.Draft) (core.Expense, error) {
	d = d.Normalize()
	form := url.Values{}
	form.Set("title", d.Title)
	form.Set("amount", d.Amount)
	form.Set("category", d.Category)

	req, err := c.newRequest(ctx, http.MethodPost, AddPath, strings.NewReader(form.Encode()))
	if err != nil {
		return core.Expense{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req, applog.OpCreate)
	if err != nil {
		return core.Expense{}, err
	}
	defer resp.Body.Close()

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return core.Expense{}, fmt.Errorf("decode create response (HTTP %d): %w", resp.StatusCode, err)
	}
	if out.Status != statusSuccess {
		if out.Message != "" {
			return core.Expense{}, fmt.Errorf("%w: %s", store.ErrCreateRejected, out.Message)
		}
		return core.Expense{}, fmt.Errorf("%w: status %q", store.ErrCreateRejected, out.Status)
	}
	return out.Data, nil
}

// Delete issues DELETE /delete/{id}. The body is never inspected; only
// transport errors and error status codes are reported.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, DeletePath+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req, applog.OpDelete)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("delete expense %s: unexpected status %d", id, resp.StatusCode)
	}
	return nil
}

// List fetches every record from GET /api/data.
func (c *Client) List(ctx context.Context) ([]core.Expense, error) {
	req, err := c.newRequest(ctx, http.MethodGet, ListPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, applog.OpList)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("list expenses: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []core.Expense
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode expense list: %w", err)
	}
	return records, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	start := time.Now()
	requestID := req.Header.Get(RequestIDHeader)

	resp, err := c.http.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.WarnContext(req.Context(), "Store request failed",
			applog.NewFields().
				WithRequestID(requestID).
				WithOperation(op).
				WithHTTPRequest(req.Method, req.URL.Path, "", "").
				WithError(err).
				WithErrorType(applog.ErrorTypeNetwork).
				ToSlice()...)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	c.logger.DebugContext(req.Context(), "Store request completed",
		applog.NewFields().
			WithRequestID(requestID).
			WithOperation(op).
			WithHTTPRequest(req.Method, req.URL.Path, "", "").
			WithHTTPResponse(resp.StatusCode, duration, resp.StatusCode < http.StatusBadRequest).
			ToSlice()...)
	return resp, nil
}
