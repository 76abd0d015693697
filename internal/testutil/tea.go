package testutil

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ownPackages matches message types declared in this module. Messages from
// bubbles internals (cursor blinks, directory listings) are not replayed.
const ownPackages = "github.com/trace-bio/trace"

// cmdTimeout bounds a single command. Commands that outlive it are dropped.
const cmdTimeout = 2 * time.Second

// maxSteps stops a runaway update loop.
const maxSteps = 500

// Drain runs cmd and every command it leads to, feeding each resulting
// message of this module to update, the way the Bubble Tea runtime would.
// It returns the delivered messages in order.
func Drain(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	var delivered []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > maxSteps {
			t.Fatalf("update loop did not settle after %d steps", maxSteps)
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg, ok := run(next)
		if !ok || msg == nil {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		if !ours(msg) {
			continue
		}
		delivered = append(delivered, msg)
		queue = append(queue, update(msg))
	}
	return delivered
}

// Send delivers msg to update and drains what follows.
func Send(t *testing.T, update func(tea.Msg) tea.Cmd, msg tea.Msg) []tea.Msg {
	t.Helper()
	return append([]tea.Msg{msg}, Drain(t, update, update(msg))...)
}

// Key builds a key press for s: a named key such as "ctrl+l" or "tab", or
// a single rune.
func Key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func run(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

func ours(msg tea.Msg) bool {
	typ := reflect.TypeOf(msg)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return strings.HasPrefix(typ.PkgPath(), ownPackages)
}
