package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/trace-bio/trace/internal/tui"
)

// RenderHeader renders the application bar: title, route tabs and, when
// signed in, the logout hint.
func RenderHeader(active tui.Route, loggedIn bool, width int) string {
	title := tui.HeaderStyle.Render("⚗ TRACE")

	var tabs []string
	for _, r := range tui.Routes {
		if r == active {
			tabs = append(tabs, tui.ActiveTabStyle.Render(r.Title()))
		} else {
			tabs = append(tabs, tui.InactiveTabStyle.Render(r.Title()))
		}
	}
	if loggedIn {
		tabs = append(tabs, tui.InactiveTabStyle.Render("Logout (ctrl+l)"))
	}
	right := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, lipgloss.NewStyle().Width(gap).Render(""), right)
}

// RenderFooter renders the copyright line centred in width.
func RenderFooter(year, width int) string {
	text := fmt.Sprintf("© %d TRACE Project. All Rights Reserved.", year)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, tui.DimStyle.Render(text))
}
