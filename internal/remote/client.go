// Package remote is the client for the task store's HTTP contract.
//
//	POST /users/{name}             create user (body ignored)
//	GET  /users/{name}             {"tasks": [...]}
//	GET  /names                    {"names": [...]}
//	GET  /tasks/{id}               {"id", "name", "checked", ...}
//	POST /tasks/{id}?input={0|1}   {"checked", ...}
package remote

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

	"checklist-cli/internal/model"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const DefaultBaseURL = "http://localhost:3000"

// maxBodyBytes bounds how much of a response we read.
const maxBodyBytes = 4 << 20

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests use httptest clients).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the debug logger for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client talks to one task store. It holds no per-user state and is safe for
// concurrent use. Every call is its own request: a read issued after a write
// always observes that write.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

// CreateUser registers name. The store's response body is ignored.
func (c *Client) CreateUser(ctx context.Context, name string) error {
	_, err := c.do(ctx, "create user", http.MethodPost, c.endpoint(nil, "users", name), nil)
	return err
}

// UserTasks returns the full task collection for name, in store order.
func (c *Client) UserTasks(ctx context.Context, name string) ([]model.Task, error) {
	var out struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.getJSON(ctx, "user tasks", c.endpoint(nil, "users", name), tasksSchema, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	return out.Tasks, nil
}

// Names returns the known user names in store order.
func (c *Client) Names(ctx context.Context) ([]string, error) {
	var out struct {
		Names []string `json:"names"`
	}
	if err := c.getJSON(ctx, "names", c.endpoint(nil, "names"), namesSchema, &out); err != nil {
		return nil, err
	}
	if out.Names == nil {
		out.Names = []string{}
	}
	return out.Names, nil
}

// Task fetches one task's current state.
func (c *Client) Task(ctx context.Context, id model.TaskID) (model.Task, error) {
	var out model.Task
	if err := c.getJSON(ctx, "task", c.endpoint(nil, "tasks", id.String()), taskSchema, &out); err != nil {
		return model.Task{}, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

// SetChecked asks the store to set id's checked state. The returned task carries
// the store's authoritative value, which may differ from the requested one.
func (c *Client) SetChecked(ctx context.Context, id model.TaskID, checked bool) (model.Task, error) {
	q := url.Values{}
	q.Set("input", model.CheckedInput(checked))
	body, err := c.do(ctx, "toggle task", http.MethodPost, c.endpoint(q, "tasks", id.String()), nil)
	if err != nil {
		return model.Task{}, err
	}
	var out model.Task
	if err := decodeValidated("toggle task", taskSchema, body, &out); err != nil {
		return model.Task{}, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

func (c *Client) endpoint(q url.Values, segments ...string) string {
	u := *c.base
	var b strings.Builder
	b.WriteString(strings.TrimRight(c.base.EscapedPath(), "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	u.RawPath = b.String()
	p, err := url.PathUnescape(u.RawPath)
	if err != nil {
		p = u.RawPath
	}
	u.Path = p
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, schema *jsonschema.Schema, out any) error {
	body, err := c.do(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return decodeValidated(op, schema, body, out)
}

func decodeValidated(op string, schema *jsonschema.Schema, body []byte, out any) error {
	if err := validateBody(schema, body); err != nil {
		return &MalformedError{Op: op, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "method", method, "url", endpoint, "err", err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	c.logger.Debug("request", "op", op, "method", method, "url", endpoint, "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, nil
}

// IsTimeout reports whether err came from a deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
