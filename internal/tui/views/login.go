// Package views provides TUI view components for the TRACE client.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trace-bio/trace/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SubmitLoginMsg is sent when the user submits the sign-in form.
type SubmitLoginMsg struct {
	Email    string
	Password string
}

// ============================================================================
// LoginModel
// ============================================================================

const (
	fieldEmail = iota
	fieldPassword
)

// maxLoginWidth is the maximum width for the sign-in box.
const maxLoginWidth = 60

// LoginModel is the view model for the sign-in screen.
type LoginModel struct {
	email      textinput.Model
	password   textinput.Model
	focused    int
	submitting bool
	width      int
	height     int
}

// NewLoginModel creates an empty sign-in form with the email field focused.
func NewLoginModel(width, height int) LoginModel {
	email := textinput.New()
	email.Placeholder = "Email Address"
	email.CharLimit = 254
	email.Prompt = "  "
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.Prompt = "  "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := LoginModel{
		email:    email,
		password: password,
		focused:  fieldEmail,
	}
	m.resize(width, height)
	return m
}

// Init returns the initial command for the login view.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Submitting reports whether a login request is in flight.
func (m LoginModel) Submitting() bool {
	return m.submitting
}

// SetSubmitting marks the form busy or idle.
func (m *LoginModel) SetSubmitting(busy bool) {
	m.submitting = busy
}

// Update handles messages for the login view.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp:
			return m, m.focus(fieldEmail)
		case tui.KeyDown:
			return m, m.focus(fieldPassword)
		case tui.KeyEnter:
			if m.focused == fieldEmail {
				return m, m.focus(fieldPassword)
			}
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			email := strings.TrimSpace(m.email.Value())
			password := m.password.Value()
			return m, func() tea.Msg {
				return SubmitLoginMsg{Email: email, Password: password}
			}
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focused == fieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *LoginModel) focus(field int) tea.Cmd {
	m.focused = field
	if field == fieldEmail {
		m.password.Blur()
		return m.email.Focus()
	}
	m.email.Blur()
	return m.password.Focus()
}

func (m *LoginModel) resize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := min(width, maxLoginWidth) - 12
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.email.Width = inputWidth
	m.password.Width = inputWidth
}

// View renders the login view.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Sign in"))
	b.WriteString("\n\n")

	b.WriteString(m.label("Email Address", fieldEmail))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")

	b.WriteString(m.label("Password", fieldPassword))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	button := " Sign In "
	if m.submitting {
		b.WriteString(tui.DimStyle.Render("Signing in..."))
	} else if m.focused == fieldPassword {
		b.WriteString(tui.ActiveTabStyle.Render(button))
	} else {
		b.WriteString(tui.InactiveTabStyle.Render(button))
	}
	b.WriteString("\n\n")

	b.WriteString(tui.DimStyle.Render("↑/↓: Switch field · Enter: Next / Sign in"))

	boxWidth := maxLoginWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}

func (m LoginModel) label(text string, field int) string {
	if m.focused == field {
		return tui.SelectedStyle.Render(text + " *")
	}
	return lipgloss.NewStyle().Render(text + " *")
}
