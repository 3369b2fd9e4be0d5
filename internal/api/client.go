// Package api is the JSON client for the task-management backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/models"
)

// DefaultTimeout bounds each backend call
const DefaultTimeout = 10 * time.Second

// TokenPair is the access/refresh pair issued on login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Client talks to the backend REST API. It holds no session state;
// callers pass the bearer token per call.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// New creates a client for the backend at baseURL (no trailing slash)
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// SetLogger enables request logging, used in debug mode
func (c *Client) SetLogger(l *log.Logger) { c.logger = l }

// RequestOTP starts the two-step email OTP login. The backend mails a
// one-time code and answers with a status message.
func (c *Client) RequestOTP(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login/otp/", "", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// LoginOTP completes the email OTP login with the mailed code
func (c *Client) LoginOTP(ctx context.Context, username, password, otpCode string) (TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"username": username, "password": password, "otp_code": otpCode}
	err := c.do(ctx, http.MethodPost, "/api/login/otp/", "", body, &pair)
	return pair, err
}

// Login performs a password login. Accounts with MFA enabled are
// rejected with a detail matched by IsMFARequired; VerifyMFA finishes
// those logins.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"username": username, "password": password}
	err := c.do(ctx, http.MethodPost, "/token/", "", body, &pair)
	return pair, err
}

// VerifyMFA completes a password login with the TOTP code
func (c *Client) VerifyMFA(ctx context.Context, username, totpCode string) (TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"username": username, "totp_code": totpCode}
	err := c.do(ctx, http.MethodPost, "/verify-mfa/", "", body, &pair)
	return pair, err
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/register/", "", body, nil)
}

// Refresh exchanges a refresh token for a new access token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	body := map[string]string{"refresh": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh/", "", body, &out); err != nil {
		return "", err
	}
	return out.Access, nil
}

// Profile fetches the authenticated user's profile
func (c *Client) Profile(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/user/", token, nil, &user)
	return user, err
}

// ListTasks returns the caller's own tasks in server order
func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/tasks/", token, nil, &tasks)
	return tasks, err
}

// AddTask creates a task and returns the server record with its assigned id
func (c *Client) AddTask(ctx context.Context, token, title, description, status string) (models.Task, error) {
	var task models.Task
	body := map[string]string{"title": title, "description": description, "status": status}
	err := c.do(ctx, http.MethodPost, "/tasks/add/", token, body, &task)
	return task, err
}

// UpdateTask replaces a task's fields and returns the updated record
func (c *Client) UpdateTask(ctx context.Context, token string, id int64, title, description, status string) (models.Task, error) {
	var task models.Task
	body := map[string]string{"title": title, "description": description, "status": status}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/update/", id), token, body, &task)
	return task, err
}

// DeleteTask deletes one of the caller's tasks by id
func (c *Client) DeleteTask(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/delete/", id), token, nil, nil)
}

// ListAllTasks returns every user's tasks; owner_username is populated
func (c *Client) ListAllTasks(ctx context.Context, token string) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/all-tasks/", token, nil, &tasks)
	return tasks, err
}

// UpdateAnyTask updates a task in the global collection. The backend
// enforces the staff/owner rule and answers 403 for everyone else.
func (c *Client) UpdateAnyTask(ctx context.Context, token string, id int64, title, description, status string) (models.Task, error) {
	var task models.Task
	body := map[string]string{"title": title, "description": description, "status": status}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/all-tasks/%d/", id), token, body, &task)
	return task, err
}

// DeleteAnyTask deletes a task from the global collection
func (c *Client) DeleteAnyTask(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/all-tasks/%d/", id), token, nil, nil)
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses become *Error with the server's message field.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logf("%s %s request_id=%s err=%v", method, path, requestID, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logf("%s %s request_id=%s status=%d dur=%s", method, path, requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Detail: errorDetail(resp.Body)}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorDetail pulls the message out of an error body. The backend uses
// "detail" on most endpoints and "error" on the OTP login endpoint.
func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var fields struct {
		Detail  string `json:"detail"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}
	switch {
	case fields.Detail != "":
		return fields.Detail
	case fields.Err != "":
		return fields.Err
	default:
		return fields.Message
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
