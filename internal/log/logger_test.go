package log

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	if err := l.Append(LogEvent{Event: EventLoginSucceeded, Email: "a@b.c"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	l.Record(LogEvent{Event: EventRosterFetched, Jobs: 3})

	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != EventLoginSucceeded || events[0].Time.IsZero() {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Jobs != 3 {
		t.Errorf("Jobs: got %d, want 3", events[1].Jobs)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestReadAllCorruptLine(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if err := os.WriteFile(l.Path(), []byte("{not json}\n"), 0600); err != nil {
		t.Fatalf("writing log: %v", err)
	}
	if _, err := l.ReadAll(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	if err := l.Append(LogEvent{Event: EventLogout}); err != nil {
		t.Errorf("nil logger Append returned %v", err)
	}
	l.Record(LogEvent{Event: EventLogout})
	if events, _ := l.ReadAll(); len(events) != 0 {
		t.Errorf("nil logger returned events")
	}
}

func TestTail(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	for _, ev := range []string{EventLoginSucceeded, EventRosterFetched, EventLogout} {
		l.Record(LogEvent{Event: ev})
	}

	last, err := l.Tail(2)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(last) != 2 || last[0].Event != EventRosterFetched || last[1].Event != EventLogout {
		t.Errorf("Tail(2) = %+v", last)
	}

	all, _ := l.Tail(0)
	if len(all) != 3 {
		t.Errorf("Tail(0) returned %d events, want 3", len(all))
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		event LogEvent
		want  string
	}{
		{"empty", LogEvent{Event: EventLogout}, ""},
		{"upload", LogEvent{File: "s.tsv", Status: 201, DurationMs: 12}, "file=s.tsv status=201 took=12ms"},
		{"failure", LogEvent{JobID: "4", Error: "boom"}, "job=4 error=boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
