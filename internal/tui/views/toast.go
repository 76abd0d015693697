package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/trace-bio/trace/internal/tui"
)

// maxToasts is the number of notifications kept on screen at once.
const maxToasts = 3

// ToastModel holds the notifications currently on screen, newest last.
type ToastModel struct {
	items  []tui.Notification
	nextID int
}

// Push adds a notification and returns its id.
func (m *ToastModel) Push(kind tui.NotificationKind, text string) int {
	m.nextID++
	m.items = append(m.items, tui.Notification{ID: m.nextID, Kind: kind, Text: text})
	if len(m.items) > maxToasts {
		m.items = m.items[len(m.items)-maxToasts:]
	}
	return m.nextID
}

// Dismiss removes the notification with id, if still shown.
func (m *ToastModel) Dismiss(id int) {
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return
		}
	}
}

// Items returns the notifications on screen.
func (m ToastModel) Items() []tui.Notification {
	return m.items
}

// View renders the notifications stacked and centred in width.
func (m ToastModel) View(width int) string {
	if len(m.items) == 0 {
		return ""
	}
	rendered := make([]string, len(m.items))
	for i, n := range m.items {
		rendered[i] = tui.NotificationStyle(n.Kind).Render(n.Text)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, rendered...))
}
