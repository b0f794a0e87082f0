package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sadopc/targetflow/internal/model"
)

// Error is a non-2xx response from the backend, carrying the status code
// and the server-provided message from the {"error": "..."} payload.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client talks to the TargetFlow REST backend. The zero token means
// anonymous; authenticated endpoints require SetToken first.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:5000/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds model.Credentials) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out)
	return out, err
}

func (c *Client) Signup(ctx context.Context, signup model.Signup) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", signup, &out)
	return out, err
}

// UpdateProfile patches profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodPatch, "/auth/profile", fields, &out)
	return out, err
}

func (c *Client) ListTargets(ctx context.Context) ([]model.Target, error) {
	var out []model.Target
	err := c.do(ctx, http.MethodGet, "/targets", nil, &out)
	return out, err
}

func (c *Client) CreateTarget(ctx context.Context, target model.Target) (model.Target, error) {
	var out model.Target
	err := c.do(ctx, http.MethodPost, "/targets", target, &out)
	return out, err
}

func (c *Client) PatchTarget(ctx context.Context, id string, patch model.TargetPatch) (model.Target, error) {
	var out model.Target
	err := c.do(ctx, http.MethodPatch, "/targets/"+url.PathEscape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteTarget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/targets/"+url.PathEscape(id), nil, nil)
}

// Log mutations return the full updated parent target; the server is the
// source of truth for log-bearing state.

func (c *Client) AddLog(ctx context.Context, targetID string, log model.Log) (model.Target, error) {
	var out model.Target
	err := c.do(ctx, http.MethodPost, "/targets/"+url.PathEscape(targetID)+"/logs", log, &out)
	return out, err
}

func (c *Client) UpdateLog(ctx context.Context, targetID, logID string, log model.Log) (model.Target, error) {
	var out model.Target
	path := "/targets/" + url.PathEscape(targetID) + "/logs/" + url.PathEscape(logID)
	err := c.do(ctx, http.MethodPut, path, log, &out)
	return out, err
}

func (c *Client) DeleteLog(ctx context.Context, targetID, logID string) (model.Target, error) {
	var out model.Target
	path := "/targets/" + url.PathEscape(targetID) + "/logs/" + url.PathEscape(logID)
	err := c.do(ctx, http.MethodDelete, path, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}
