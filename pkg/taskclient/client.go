// Package taskclient is a Go client for the task REST API.
package taskclient

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

	"cloud.google.com/go/civil"
)

// Task is a task as returned by the API.
type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Priority    *string     `json:"priority"`
	Deadline    *civil.Date `json:"deadline"`
	Urgency     string      `json:"urgency"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CreateRequest creates a task. Nil Priority and Deadline let the server
// derive them from title macros.
type CreateRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status,omitempty"`
	Priority    *string     `json:"priority"`
	Deadline    *civil.Date `json:"deadline"`
}

// UpdateRequest edits a task. Nil fields are left unchanged; the Clear
// flags unset priority or deadline.
type UpdateRequest struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	ClearPriority bool
	Deadline      *civil.Date
	ClearDeadline bool
}

func (r UpdateRequest) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if r.Title != nil {
		body["title"] = *r.Title
	}
	if r.Description != nil {
		body["description"] = *r.Description
	}
	if r.Status != nil {
		body["status"] = *r.Status
	}
	switch {
	case r.ClearPriority:
		body["priority"] = nil
	case r.Priority != nil:
		body["priority"] = *r.Priority
	}
	switch {
	case r.ClearDeadline:
		body["deadline"] = nil
	case r.Deadline != nil:
		body["deadline"] = *r.Deadline
	}
	return json.Marshal(body)
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("taskclient: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	endpoint string
	http     *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 10s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// New returns a client for the tasks resource at endpoint, for example
// "http://localhost:8080/api/tasks".
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all tasks. Empty sortBy keeps creation order.
func (c *Client) List(ctx context.Context, sortBy, direction string) ([]Task, error) {
	q := url.Values{}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if direction != "" {
		q.Set("sortDirection", direction)
	}
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, q, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodGet, url.Values{"id": {id}}, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPost, nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPut, url.Values{"id": {id}}, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, url.Values{"id": {id}}, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, query url.Values, in, out any) error {
	target := c.endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
