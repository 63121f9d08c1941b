// Package agentclient is the Go client an installation agent links against
// to talk to the dispatch API: poll pending tasks for its hostname, then
// report how each install went.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	agentToken string
	httpClient *http.Client
}

type Option func(*Client)

// WithAgentToken sets the shared token sent as X-Agent-Token.
func WithAgentToken(token string) Option {
	return func(c *Client) { c.agentToken = token }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Task is one pending installation as the dispatch API projects it.
type Task struct {
	ID           uint         `json:"id"`
	Software     SoftwareInfo `json:"software"`
	InstallerURL string       `json:"installer_url"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	InstallArgs  string       `json:"install_args"`
}

type SoftwareInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type taskList struct {
	Tasks []Task `json:"tasks"`
}

type apiError struct {
	Error string `json:"error"`
}

// StatusError is a non-2xx response from the dispatch API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dispatch api: %d %s", e.StatusCode, e.Message)
}

// PendingTasks returns the tasks waiting for the given hostname, oldest
// first. Safe to call on every poll interval.
func (c *Client) PendingTasks(ctx context.Context, hostname string) ([]Task, error) {
	if hostname == "" {
		return nil, fmt.Errorf("hostname is required")
	}

	endpoint := c.baseURL + "/api/tasks/?hostname=" + url.QueryEscape(hostname)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var list taskList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return list.Tasks, nil
}

// Report sends the outcome of one task back: status must be a member of the
// server's closed set, log may carry installer output.
func (c *Client) Report(ctx context.Context, taskID uint, status, log string) error {
	body, err := json.Marshal(map[string]string{"status": status, "log": log})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/tasks/%d/", c.baseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// CreatedTask is the acknowledgement for CreateTask.
type CreatedTask struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTask enqueues an installation directly, bypassing the portal's
// hostname gate. Intended for tooling, not for agents.
func (c *Client) CreateTask(ctx context.Context, softwareID uint, hostname, installerURL string) (*CreatedTask, error) {
	body, err := json.Marshal(map[string]interface{}{
		"software_id":   softwareID,
		"hostname":      hostname,
		"installer_url": installerURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tasks/create/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created CreatedTask
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.agentToken != "" {
		req.Header.Set("X-Agent-Token", c.agentToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
