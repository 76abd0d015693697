package views

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/tui"
	"github.com/trace-bio/trace/internal/tui/commands"
)

// SubmitUploadMsg is sent when the user presses Analyze. Path is empty when
// nothing has been chosen.
type SubmitUploadMsg struct {
	Path string
}

// FileChosenMsg sets the upload selection without going through the chooser.
type FileChosenMsg struct {
	Path string
}

// pickerHeight is the number of directory entries shown while choosing.
const pickerHeight = 10

// UploadModel is the upload form: a file chooser plus the current selection.
type UploadModel struct {
	picker     filepicker.Model
	picking    bool
	selected   string
	submitting bool
	onUploaded func() tea.Msg
	width      int
}

// NewUploadModel creates an upload form rooted at startDir. onUploaded is
// invoked once after every successful submission.
func NewUploadModel(startDir string, onUploaded func() tea.Msg) UploadModel {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	fp.AutoHeight = false
	fp.Height = pickerHeight
	fp.ShowPermissions = false
	fp.ShowSize = true

	return UploadModel{
		picker:     fp,
		onUploaded: onUploaded,
	}
}

// Init loads the starting directory listing.
func (m UploadModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Select sets the file to upload.
func (m *UploadModel) Select(path string) {
	m.selected = path
}

// Selected returns the chosen file path, or "" when none.
func (m UploadModel) Selected() string {
	return m.selected
}

// Picking reports whether the file chooser is open.
func (m UploadModel) Picking() bool {
	return m.picking
}

// Submitting reports whether an upload is in flight.
func (m UploadModel) Submitting() bool {
	return m.submitting
}

// SetSubmitting marks the form busy or idle.
func (m *UploadModel) SetSubmitting(busy bool) {
	m.submitting = busy
}

// Update handles messages for the upload form.
func (m UploadModel) Update(msg tea.Msg) (UploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			if key.Matches(msg, tui.DefaultKeyMap.Escape) {
				m.picking = false
				return m, nil
			}
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			if ok, path := m.picker.DidSelectFile(msg); ok {
				m.selected = path
				m.picking = false
			}
			return m, cmd
		}

		switch {
		case key.Matches(msg, tui.DefaultKeyMap.ChooseFile):
			m.picking = true
			return m, m.picker.Init()
		case key.Matches(msg, tui.DefaultKeyMap.Analyze):
			if m.submitting {
				return m, nil
			}
			path := m.selected
			return m, func() tea.Msg {
				return SubmitUploadMsg{Path: path}
			}
		}
		return m, nil

	case FileChosenMsg:
		m.selected = msg.Path
		m.picking = false
		return m, nil

	case tui.UploadResultMsg:
		m.submitting = false
		if msg.Err != nil {
			text := tui.MsgUploadFailed
			if api.IsTimeout(msg.Err) {
				text = tui.MsgTimedOut
			}
			return m, commands.NotifyCmd(tui.NotifyError, text)
		}
		m.selected = ""
		cmds := []tea.Cmd{commands.NotifyCmd(tui.NotifySuccess, tui.MsgUploadSucceeded)}
		if m.onUploaded != nil {
			cmds = append(cmds, m.onUploaded)
		}
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	// Directory listings and other picker-internal messages.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// View renders the upload form.
func (m UploadModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Upload and Analyze"))
	b.WriteString("\n\n")

	if m.picking {
		b.WriteString(tui.DimStyle.Render(m.picker.CurrentDirectory))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter: Choose · Esc: Cancel"))
		return b.String()
	}

	chooseBtn := tui.ActiveTabStyle.Render("o Choose File")
	analyzeBtn := tui.InactiveTabStyle.Render("a Analyze")
	if m.selected != "" && !m.submitting {
		analyzeBtn = tui.ActiveTabStyle.Render("a Analyze")
	}
	b.WriteString(chooseBtn + " " + analyzeBtn)
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(tui.WarningStyle.Render("Uploading " + filepath.Base(m.selected) + "..."))
	case m.selected != "":
		b.WriteString(filepath.Base(m.selected))
	default:
		b.WriteString(tui.DimStyle.Render("No file chosen"))
	}

	return b.String()
}
