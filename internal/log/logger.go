// Package log provides structured event logging.
// This file appends JSON events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Event type constants.
const (
	EventLoginSucceeded  = "login_succeeded"
	EventLoginFailed     = "login_failed"
	EventLogout          = "logout"
	EventSessionRestored = "session_restored"
	EventUploadRejected  = "upload_rejected"
	EventUploadSucceeded = "upload_succeeded"
	EventUploadFailed    = "upload_failed"
	EventRosterFetched   = "roster_fetched"
	EventRosterFailed    = "roster_failed"
	EventJobDeleted      = "job_deleted"
	EventDeleteFailed    = "delete_failed"
	EventRegistered      = "registered"
	EventRegisterFailed  = "register_failed"
	EventIdentityFetched = "identity_fetched"
	EventIdentityFailed  = "identity_failed"
)

// LogEvent represents a single structured event written to the log.
// Credentials and passwords are never recorded.
type LogEvent struct {
	Time       time.Time              `json:"time"`
	Event      string                 `json:"event"`
	RequestID  string                 `json:"request_id,omitempty"`
	Email      string                 `json:"email,omitempty"`
	File       string                 `json:"file,omitempty"`
	JobID      string                 `json:"job,omitempty"`
	Jobs       int                    `json:"jobs,omitempty"`
	Status     int                    `json:"status,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Logger writes append-only JSONL events to a log file.
// A nil *Logger is valid and discards every event.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to log.jsonl inside dir.
// Creates dir if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &Logger{
		path: filepath.Join(dir, "log.jsonl"),
	}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// The file is opened in append mode, written to, and then closed.
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if l == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// Record appends event and drops any write error. Used from UI paths where
// a failing log must never interrupt the user.
func (l *Logger) Record(event LogEvent) {
	_ = l.Append(event)
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	if l == nil {
		return []LogEvent{}, nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}

// Tail returns the last n events, oldest first. n <= 0 returns every event.
func (l *Logger) Tail(n int) ([]LogEvent, error) {
	events, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

// Summary renders the fields of e that are set, for one-line display.
func (e LogEvent) Summary() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("email", e.Email)
	add("file", e.File)
	add("job", e.JobID)
	if e.Jobs > 0 {
		add("jobs", fmt.Sprint(e.Jobs))
	}
	if e.Status > 0 {
		add("status", fmt.Sprint(e.Status))
	}
	if e.DurationMs > 0 {
		add("took", fmt.Sprintf("%dms", e.DurationMs))
	}
	add("error", e.Error)
	return strings.Join(parts, " ")
}
