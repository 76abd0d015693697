package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/trace-bio/trace/internal/api"
)

// Colour constants for the dark TRACE theme.
const (
	primaryColor   = "#00BFFF" // Electric blue
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
	paperColor     = "#1E1E1E"
	textColor      = "#E0E0E0"
)

// Style variables for consistent TUI rendering.
var (
	// BoxStyle provides a rounded border box with primary color.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// PaperStyle is a borderless elevated surface.
	PaperStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(paperColor)).
			Foreground(lipgloss.Color(textColor)).
			Padding(1, 2)

	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// SelectedStyle highlights selected items in primary color.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warning messages in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// HeaderStyle is the application bar.
	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(primaryColor)).
			Foreground(lipgloss.Color("#0B0B0B")).
			Bold(true).
			Padding(0, 1)

	// ActiveTabStyle renders the active tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#0B0B0B")).
			Foreground(lipgloss.Color(primaryColor)).
			Padding(0, 2)

	// InactiveTabStyle renders inactive tabs.
	InactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(lipgloss.Color("#9CA3AF")).
				Padding(0, 2)

	// ToastStyle frames a notification.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	// SkeletonStyle renders placeholder blocks while data loads.
	SkeletonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#374151"))
)

// Status glyphs for the job roster.
const (
	GlyphComplete = "\u2713"
	GlyphPending  = "\u29d7"
	GlyphFailed   = "\u2717"
)

// StatusGlyph maps a job status to its glyph. Unknown statuses have none.
func StatusGlyph(status api.Status) string {
	switch status {
	case api.StatusComplete:
		return GlyphComplete
	case api.StatusPending:
		return GlyphPending
	case api.StatusFailed:
		return GlyphFailed
	default:
		return ""
	}
}

// StatusIcon returns the coloured glyph for status, or "" when unknown.
func StatusIcon(status api.Status) string {
	switch status {
	case api.StatusComplete:
		return SuccessStyle.Render(GlyphComplete)
	case api.StatusPending:
		return DimStyle.Render(GlyphPending)
	case api.StatusFailed:
		return ErrorStyle.Render(GlyphFailed)
	default:
		return ""
	}
}

// NotificationStyle returns the toast style for kind.
func NotificationStyle(kind NotificationKind) lipgloss.Style {
	switch kind {
	case NotifySuccess:
		return ToastStyle.BorderForeground(lipgloss.Color(secondaryColor)).Foreground(lipgloss.Color(secondaryColor))
	case NotifyError:
		return ToastStyle.BorderForeground(lipgloss.Color(errorColor)).Foreground(lipgloss.Color(errorColor))
	default:
		return ToastStyle.BorderForeground(lipgloss.Color(primaryColor))
	}
}
