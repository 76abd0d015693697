package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/log"
	"github.com/trace-bio/trace/internal/tui"
	"github.com/trace-bio/trace/internal/tui/commands"
)

// ============================================================================
// DashboardModel
// ============================================================================

// DashboardDeps holds the dependencies needed by the dashboard view.
type DashboardDeps struct {
	Backend    commands.Backend
	Token      string
	Generation uint64
	Logger     *log.Logger
	StartDir   string
	DateFormat string
}

// wideLayout is the terminal width at which the upload form and roster sit
// side by side.
const wideLayout = 110

// uploadPaneWidth is the width of the upload form in the wide layout.
const uploadPaneWidth = 40

// DashboardModel composes the upload form and the job roster for one
// authenticated session.
type DashboardModel struct {
	upload UploadModel
	roster RosterModel
	help   help.Model
	deps   DashboardDeps
	seq    int
	width  int
	height int
}

// NewDashboardModel creates a dashboard whose roster starts loading.
func NewDashboardModel(width, height int, deps DashboardDeps) DashboardModel {
	return DashboardModel{
		upload: NewUploadModel(deps.StartDir, func() tea.Msg { return RefreshRosterMsg{} }),
		roster: NewRosterModel(deps.DateFormat),
		help:   help.New(),
		deps:   deps,
		seq:    1,
		width:  width,
		height: height,
	}
}

// Init loads the file chooser and issues the first roster fetch.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.upload.Init(),
		commands.FetchJobsCmd(m.deps.Backend, m.deps.Generation, m.seq, m.deps.Token),
	)
}

// Upload exposes the upload form.
func (m DashboardModel) Upload() UploadModel {
	return m.upload
}

// Roster exposes the job roster.
func (m DashboardModel) Roster() RosterModel {
	return m.roster
}

// Select sets the file to upload.
func (m *DashboardModel) Select(path string) {
	m.upload.Select(path)
}

// refresh marks the roster loading and issues a fetch. Only the newest
// fetch's result is applied.
func (m *DashboardModel) refresh() tea.Cmd {
	m.seq++
	m.roster.SetLoading(true)
	return commands.FetchJobsCmd(m.deps.Backend, m.deps.Generation, m.seq, m.deps.Token)
}

// Update handles messages for the dashboard view.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case m.upload.Picking():
			m.upload, cmd = m.upload.Update(msg)
		case m.roster.Confirming() != "":
			m.roster, cmd = m.roster.Update(msg)
		case key.Matches(msg, tui.DefaultKeyMap.ChooseFile, tui.DefaultKeyMap.Analyze):
			m.upload, cmd = m.upload.Update(msg)
		default:
			m.roster, cmd = m.roster.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.roster, _ = m.roster.Update(msg)
		m.upload, cmd = m.upload.Update(msg)
		return m, cmd

	case SubmitUploadMsg:
		if msg.Path == "" {
			m.deps.Logger.Record(log.LogEvent{Event: log.EventUploadRejected, Error: api.ErrNoFile.Error()})
			return m, commands.NotifyCmd(tui.NotifyError, tui.MsgNoFileSelected)
		}
		m.upload.SetSubmitting(true)
		return m, commands.UploadCmd(m.deps.Backend, m.deps.Generation, m.deps.Token, msg.Path)

	case tui.UploadResultMsg:
		m.upload, cmd = m.upload.Update(msg)
		return m, cmd

	case RefreshRosterMsg:
		return m, m.refresh()

	case tui.JobsLoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		if msg.Err != nil {
			m.roster.SetLoading(false)
			return m, commands.NotifyCmd(tui.NotifyError, failureText(msg.Err, tui.MsgRosterFailed))
		}
		m.roster.SetJobs(msg.Jobs)
		return m, nil

	case DeleteJobMsg:
		return m, commands.DeleteJobCmd(m.deps.Backend, m.deps.Generation, m.deps.Token, msg.JobID)

	case tui.JobDeletedMsg:
		if msg.Err != nil {
			return m, commands.NotifyCmd(tui.NotifyError, failureText(msg.Err, tui.MsgDeleteFailed))
		}
		return m, tea.Batch(
			commands.NotifyCmd(tui.NotifySuccess, tui.MsgJobDeleted),
			m.refresh(),
		)
	}

	m.upload, cmd = m.upload.Update(msg)
	return m, cmd
}

// failureText picks the timeout message over the operation's own text.
func failureText(err error, fallback string) string {
	if api.IsTimeout(err) {
		return tui.MsgTimedOut
	}
	return fallback
}

// View renders the dashboard view.
func (m DashboardModel) View() string {
	upload := tui.BoxStyle.Width(uploadPaneWidth).Render(m.upload.View())
	roster := m.roster.View()

	var body string
	if m.width >= wideLayout {
		body = lipgloss.JoinHorizontal(lipgloss.Top, upload, "  ", roster)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, upload, "", roster)
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.help.View(tui.DefaultKeyMap))
	return b.String()
}
