package commands

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trace-bio/trace/internal/tui"
)

// NotifyCmd asks the shell to show a notification.
func NotifyCmd(kind tui.NotificationKind, text string) tea.Cmd {
	return func() tea.Msg {
		return tui.NotifyMsg{Kind: kind, Text: text}
	}
}

// ExpireNotificationCmd dismisses notification id after ttl.
func ExpireNotificationCmd(id int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return tui.NotificationExpiredMsg{ID: id}
	})
}
