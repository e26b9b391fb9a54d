// Package restapi implements the service.Service interface over the task REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

const (
	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	// RequestIDHeader carries a per-request id for server-side correlation.
	RequestIDHeader = "X-Request-ID"
)

// Client implements service.Service using the REST API.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client authenticated with the stored session token.
// Requires token.json to exist.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	token, err := cfg.LoadToken()
	if err != nil {
		return nil, err
	}

	// Static source: the session token is issued by the server and not refreshed here.
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	return NewWithHTTPClient(cfg.ServerURL, httpClient, opts...)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		http:    httpClient,
		baseURL: u,
		timeout: APITimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout <= 0 {
		c.timeout = APITimeout
	}
	return c, nil
}

// envelope is the success shape of every response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// ListTasks returns the user's tasks.
func (c *Client) ListTasks(ctx context.Context, filter service.FetchFilter) ([]service.Task, error) {
	q := url.Values{}
	q.Set("hideCompleted", strconv.FormatBool(filter.HideCompleted))
	q.Set("showTodayOnly", strconv.FormatBool(filter.ShowTodayOnly))

	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	body := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}{title, description}

	var task service.Task
	err := c.do(ctx, http.MethodPost, "/tasks-create", nil, body, &task)
	return task, err
}

// UpdateTitle replaces a task's title.
func (c *Client) UpdateTitle(ctx context.Context, id int, title string) (service.Task, error) {
	body := struct {
		Title string `json:"title"`
	}{title}

	var task service.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/task/update-title/%d", id), nil, body, &task)
	return task, err
}

// UpdateDescription replaces a task's description.
func (c *Client) UpdateDescription(ctx context.Context, id int, description string) (service.Task, error) {
	body := struct {
		Description string `json:"description"`
	}{description}

	var task service.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/task/update-description/%d", id), nil, body, &task)
	return task, err
}

// CompleteTask sets the completion flag.
func (c *Client) CompleteTask(ctx context.Context, id int, completed bool) (service.Task, error) {
	body := struct {
		Completed bool `json:"completed"`
	}{completed}

	var task service.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/task/complete/%d", id), nil, body, &task)
	return task, err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/task/delete/%d", id), nil, nil, nil)
}

// DeleteAll deletes every task.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/task/delete-all", nil, nil, nil)
}

// DeleteCompleted deletes every completed task.
func (c *Client) DeleteCompleted(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/task/delete-completed", nil, nil, nil)
}

// UpdateOrder persists a full ordering.
func (c *Client) UpdateOrder(ctx context.Context, updates []service.OrderUpdate) error {
	if updates == nil {
		updates = []service.OrderUpdate{}
	}
	return c.do(ctx, http.MethodPut, "/tasks/order", nil, updates, nil)
}

// Validate checks the session.
func (c *Client) Validate(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/validate", nil, nil, nil)
}

// do performs one request. A non-nil out receives the envelope's data field.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return wrapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		"method", method,
		"path", path,
		"request_id", reqID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if err := googleapi.CheckResponse(resp); err != nil {
		return classify(resp.StatusCode, err)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &service.Error{
			Kind:   service.KindServerUnstructured,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &service.Error{
			Kind:   service.KindServerUnstructured,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response data: %w", err),
		}
	}
	return nil
}

// wrapError classifies a transport failure.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Kind: service.KindNetwork, Err: fmt.Errorf("request timed out")}
	}
	return &service.Error{Kind: service.KindNetwork, Err: err}
}

// classify turns a non-2xx response into a *service.Error. A string "error"
// field in the body is the server's message.
func classify(status int, err error) error {
	se := &service.Error{Kind: service.KindServerUnstructured, Status: status, Err: err}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return se
	}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(gerr.Body), &body) == nil && body.Error != "" {
		se.Kind = service.KindServer
		se.Message = body.Error
		return se
	}
	if gerr.Message != "" {
		se.Kind = service.KindServer
		se.Message = gerr.Message
	}
	return se
}
