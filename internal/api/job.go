package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state the backend reports for a job.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Job is one analysis task as returned by GET /analyses/.
type Job struct {
	ID        string
	Status    Status
	CreatedAt time.Time
	Results   string
	OwnerID   int
}

// jobWire mirrors the backend schema. The backend emits integer ids and
// naive timestamps, so both are decoded leniently.
type jobWire struct {
	ID        json.RawMessage `json:"id"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	Results   *string         `json:"results"`
	OwnerID   int             `json:"owner_id"`
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON decodes a job, accepting string or numeric ids.
func (j *Job) UnmarshalJSON(data []byte) error {
	var w jobWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	created, err := ParseTimestamp(w.CreatedAt)
	if err != nil {
		return err
	}

	*j = Job{
		ID:        id,
		Status:    Status(w.Status),
		CreatedAt: created,
		OwnerID:   w.OwnerID,
	}
	if w.Results != nil {
		j.Results = *w.Results
	}
	return nil
}

// MarshalJSON encodes the job in the backend's shape.
func (j Job) MarshalJSON() ([]byte, error) {
	out := struct {
		ID        string  `json:"id"`
		Status    Status  `json:"status"`
		CreatedAt string  `json:"created_at"`
		Results   *string `json:"results,omitempty"`
		OwnerID   int     `json:"owner_id,omitempty"`
	}{
		ID:        j.ID,
		Status:    j.Status,
		CreatedAt: j.CreatedAt.UTC().Format(time.RFC3339),
		OwnerID:   j.OwnerID,
	}
	if j.Results != "" {
		out.Results = &j.Results
	}
	return json.Marshal(out)
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("job id missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("job id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("job id: %w", err)
	}
	return n.String(), nil
}

// ParseTimestamp parses an ISO-8601 timestamp with or without a zone.
// An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
