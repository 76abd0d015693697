package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJobUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantAt  time.Time
		wantErr bool
	}{
		{
			name:   "string id with zone",
			input:  `{"id":"j1","status":"pending","created_at":"2024-01-01T00:00:00Z"}`,
			wantID: "j1",
			wantAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "integer id with naive timestamp",
			input:  `{"id":7,"status":"complete","created_at":"2024-03-02T10:15:00.5","owner_id":1}`,
			wantID: "7",
			wantAt: time.Date(2024, 3, 2, 10, 15, 0, 500000000, time.UTC),
		},
		{
			name:   "offset timestamp",
			input:  `{"id":"x","status":"failed","created_at":"2024-02-28T18:30:00+02:00"}`,
			wantID: "x",
			wantAt: time.Date(2024, 2, 28, 16, 30, 0, 0, time.UTC),
		},
		{
			name:    "missing id",
			input:   `{"status":"failed","created_at":"2024-02-28T18:30:00Z"}`,
			wantErr: true,
		},
		{
			name:    "garbage timestamp",
			input:   `{"id":"x","status":"failed","created_at":"yesterday"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var j Job
			err := json.Unmarshal([]byte(tt.input), &j)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got job %+v", j)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if j.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", j.ID, tt.wantID)
			}
			if !j.CreatedAt.Equal(tt.wantAt) {
				t.Errorf("CreatedAt = %v, want %v", j.CreatedAt, tt.wantAt)
			}
		})
	}
}

func TestJobUnmarshalResults(t *testing.T) {
	var j Job
	if err := json.Unmarshal([]byte(`{"id":1,"status":"complete","created_at":"","results":"tumor fraction 0.12"}`), &j); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if j.Results != "tumor fraction 0.12" {
		t.Errorf("Results = %q", j.Results)
	}
	if !j.CreatedAt.IsZero() {
		t.Errorf("empty created_at should decode to zero time")
	}
}
