package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunFallbackPointsAtSubcommands(t *testing.T) {
	var buf bytes.Buffer
	if err := runFallback(&buf); err != nil {
		t.Fatalf("runFallback: %v", err)
	}
	for _, want := range []string{"trace register", "trace login", "trace upload", "trace jobs", "trace delete"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("fallback output missing %q", want)
		}
	}
}
