package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/trace-bio/trace/internal/log"
)

// User is an account as returned by POST /users/ and GET /users/me/.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Jobs  []Job  `json:"jobs"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. A taken address comes back as an
// *AccountError carrying the backend's detail text.
func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, &ValidationError{Field: "email", Message: "email and password required"}
	}
	payload, err := json.Marshal(registerRequest{Email: email, Password: password})
	if err != nil {
		return User{}, &AccountError{Op: "register", Err: err}
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	reqID := uuid.NewString()
	started := time.Now()
	var user User
	status, err := c.account(ctx, reqID, "register", http.MethodPost, "/users/", "", bytes.NewReader(payload), &user)
	event := log.LogEvent{
		RequestID:  reqID,
		Email:      email,
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		err = c.classify(ctx, "register", err)
		event.Event = log.EventRegisterFailed
		event.Error = err.Error()
		c.logger.Record(event)
		return User{}, err
	}
	event.Event = log.EventRegistered
	c.logger.Record(event)
	return user, nil
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	reqID := uuid.NewString()
	started := time.Now()
	var user User
	status, err := c.account(ctx, reqID, "identify", http.MethodGet, "/users/me/", token, nil, &user)
	event := log.LogEvent{
		RequestID:  reqID,
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		err = c.classify(ctx, "identify", err)
		event.Event = log.EventIdentityFailed
		event.Error = err.Error()
		c.logger.Record(event)
		return User{}, err
	}
	event.Event = log.EventIdentityFetched
	event.Email = user.Email
	event.Jobs = len(user.Jobs)
	c.logger.Record(event)
	return user, nil
}

type detailResponse struct {
	Detail any `json:"detail"`
}

// account performs a JSON request against the user endpoints. Failures are
// *AccountError with the backend's detail text when it sent one.
func (c *Client) account(ctx context.Context, reqID, op, method, path, token string, body io.Reader, out *User) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, &AccountError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &AccountError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		var d detailResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&d)
		detail, _ := d.Detail.(string)
		return resp.StatusCode, &AccountError{Op: op, Status: resp.StatusCode, Detail: detail}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &AccountError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return resp.StatusCode, nil
}
