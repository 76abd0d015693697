package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/tui"
)

func TestPlainWatchPrintsTransitionsOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewJobWatch(&buf, false, time.RFC3339)

	w.Update([]api.Job{{ID: "1", Status: api.StatusPending}})
	w.Update([]api.Job{{ID: "1", Status: api.StatusPending}})
	if w.Settled() {
		t.Error("Settled() = true with a pending job")
	}
	w.Update([]api.Job{{ID: "1", Status: api.StatusComplete}})
	if !w.Settled() {
		t.Error("Settled() = false after completion")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"[PENDING] job 1", "[COMPLETE] job 1"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTTYWatchRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	w := NewJobWatch(&buf, true, time.RFC3339)

	w.Update([]api.Job{{ID: "7", Status: api.StatusPending}, {ID: "8", Status: api.StatusFailed}})
	if strings.Contains(buf.String(), "\033[4A") {
		t.Error("first draw should not move the cursor up")
	}
	w.Update([]api.Job{{ID: "7", Status: api.StatusComplete}, {ID: "8", Status: api.StatusFailed}})
	if !strings.Contains(buf.String(), "\033[4A") {
		t.Error("second draw should move up over header, blank line and two jobs")
	}

	w.Finish()
	if !strings.Contains(buf.String(), "1/2 complete, 1 failed") {
		t.Errorf("summary missing: %q", buf.String())
	}
}

func TestTTYWatchClearsRowsOfShorterRoster(t *testing.T) {
	var buf bytes.Buffer
	w := NewJobWatch(&buf, true, time.RFC3339)

	w.Update([]api.Job{
		{ID: "1", Status: api.StatusPending},
		{ID: "2", Status: api.StatusPending},
		{ID: "3", Status: api.StatusPending},
	})
	buf.Reset()

	w.Update([]api.Job{{ID: "1", Status: api.StatusComplete}})
	frame := buf.String()
	if !strings.HasPrefix(frame, "\033[5A") {
		t.Errorf("second frame should move up over the previous five lines: %q", frame)
	}
	if !strings.HasSuffix(frame, "\033[J") {
		t.Errorf("second frame should clear below itself: %q", frame)
	}
	if strings.Contains(frame, " 2 ") || strings.Contains(frame, " 3 ") {
		t.Errorf("removed jobs redrawn: %q", frame)
	}
}

func TestStatusIconFollowsRosterGlyphs(t *testing.T) {
	tests := []struct {
		status api.Status
		glyph  string
	}{
		{api.StatusComplete, tui.GlyphComplete},
		{api.StatusPending, tui.GlyphPending},
		{api.StatusFailed, tui.GlyphFailed},
	}
	for _, tt := range tests {
		if got := statusIcon(tt.status); !strings.Contains(got, tt.glyph) {
			t.Errorf("statusIcon(%q) = %q, want glyph %q", tt.status, got, tt.glyph)
		}
	}
	if got := statusIcon("archived"); got != " " {
		t.Errorf("statusIcon(archived) = %q, want blank", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2*time.Hour + 1*time.Minute + 9*time.Second, "2h1m9s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
