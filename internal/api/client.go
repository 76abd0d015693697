// Package api is the HTTP client for the TRACE analysis backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trace-bio/trace/internal/log"
)

// Client talks to the analysis backend at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger records one event per request outcome.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges email and password for a bearer credential.
// Every failure is an *AuthenticationError or *TimeoutError.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	ctx, cancel := c.bound(ctx)
	defer cancel()

	reqID := uuid.NewString()
	started := time.Now()
	token, status, err := c.login(ctx, reqID, form)
	event := log.LogEvent{
		RequestID:  reqID,
		Email:      email,
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		err = c.classify(ctx, "login", err)
		event.Event = log.EventLoginFailed
		event.Error = err.Error()
		c.logger.Record(event)
		return "", err
	}
	event.Event = log.EventLoginSucceeded
	c.logger.Record(event)
	return token, nil
}

func (c *Client) login(ctx context.Context, reqID string, form url.Values) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &AuthenticationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, &AuthenticationError{Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		drain(resp.Body)
		return "", resp.StatusCode, &AuthenticationError{Status: resp.StatusCode}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", resp.StatusCode, &AuthenticationError{Status: resp.StatusCode, Err: fmt.Errorf("decoding token: %w", err)}
	}
	if tok.AccessToken == "" {
		return "", resp.StatusCode, &AuthenticationError{Status: resp.StatusCode, Err: errors.New("response has no access_token")}
	}
	return tok.AccessToken, resp.StatusCode, nil
}

// CreateAnalysis uploads the file at path to start an analysis job.
// An empty path fails with ErrNoFile before any network call.
func (c *Client) CreateAnalysis(ctx context.Context, token, path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return &UploadError{Err: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	return c.CreateAnalysisFrom(ctx, token, filepath.Base(path), f)
}

// CreateAnalysisFrom uploads r as a multipart part named "file".
func (c *Client) CreateAnalysisFrom(ctx context.Context, token, name string, r io.Reader) error {
	if r == nil || name == "" {
		return ErrNoFile
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return &UploadError{Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return &UploadError{Err: fmt.Errorf("reading %s: %w", name, err)}
	}
	if err := mw.Close(); err != nil {
		return &UploadError{Err: err}
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	reqID := uuid.NewString()
	started := time.Now()
	status, err := c.send(ctx, reqID, http.MethodPost, "/analyses/", token, mw.FormDataContentType(), &body, nil)
	event := log.LogEvent{
		RequestID:  reqID,
		File:       name,
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		err = c.classify(ctx, "upload", &UploadError{Status: status, Err: unwrapStatus(err)})
		event.Event = log.EventUploadFailed
		event.Error = err.Error()
		c.logger.Record(event)
		return err
	}
	event.Event = log.EventUploadSucceeded
	c.logger.Record(event)
	return nil
}

// ListAnalyses returns the session's jobs in server order.
func (c *Client) ListAnalyses(ctx context.Context, token string) ([]Job, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	reqID := uuid.NewString()
	started := time.Now()
	var jobs []Job
	status, err := c.send(ctx, reqID, http.MethodGet, "/analyses/", token, "", nil, &jobs)
	event := log.LogEvent{
		RequestID:  reqID,
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		err = c.classify(ctx, "fetch analyses", &FetchError{Status: status, Err: unwrapStatus(err)})
		event.Event = log.EventRosterFailed
		event.Error = err.Error()
		c.logger.Record(event)
		return nil, err
	}
	if jobs == nil {
		jobs = []Job{}
	}
	event.Event = log.EventRosterFetched
	event.Jobs = len(jobs)
	c.logger.Record(event)
	return jobs, nil
}

// DeleteAnalysis removes the job with the given id.
func (c *Client) DeleteAnalysis(ctx context.Context, token, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "job id required"}
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	reqID := uuid.NewString()
	started := time.Now()
	status, err := c.send(ctx, reqID, http.MethodDelete, "/analyses/"+url.PathEscape(id), token, "", nil, nil)
	event := log.LogEvent{
		RequestID:  reqID,
		JobID:      id,
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		err = c.classify(ctx, "delete analysis", &DeleteError{JobID: id, Status: status, Err: unwrapStatus(err)})
		event.Event = log.EventDeleteFailed
		event.Error = err.Error()
		c.logger.Record(event)
		return err
	}
	event.Event = log.EventJobDeleted
	c.logger.Record(event)
	return nil
}

// errStatus marks a non-2xx response so callers can build their typed error.
type errStatus int

func (e errStatus) Error() string { return fmt.Sprintf("status %d", int(e)) }

// unwrapStatus drops the errStatus marker; the status travels separately.
func unwrapStatus(err error) error {
	var es errStatus
	if errors.As(err, &es) {
		return nil
	}
	return err
}

// send performs an authenticated request and decodes a JSON body into out
// when out is non-nil.
func (c *Client) send(ctx context.Context, reqID, method, path, token, contentType string, body io.Reader, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		drain(resp.Body)
		return resp.StatusCode, errStatus(resp.StatusCode)
	}
	if out == nil {
		drain(resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}

// bound applies the configured timeout to ctx.
func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// classify replaces err with a *TimeoutError when the request deadline fired.
func (c *Client) classify(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op}
	}
	return err
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// drain discards a bounded amount of body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}
