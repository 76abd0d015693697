package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/tui"
)

// RefreshRosterMsg asks the dashboard to re-fetch the roster.
type RefreshRosterMsg struct{}

// DeleteJobMsg is sent once the user has confirmed a deletion.
type DeleteJobMsg struct {
	JobID string
}

// RosterState is what the roster currently renders.
type RosterState int

const (
	RosterLoading RosterState = iota
	RosterEmpty
	RosterPopulated
)

// skeletonRows is the number of placeholder rows shown while loading.
const skeletonRows = 3

const emptyRosterText = "Your analysis jobs will appear here."

const confirmDeleteText = "Are you sure you want to permanently delete this job?"

// RosterModel renders the job table. It never edits the job list itself;
// every change arrives as a new snapshot through SetJobs.
type RosterModel struct {
	jobs       []api.Job
	loading    bool
	cursor     int
	confirming string
	dateFormat string
	width      int
}

// NewRosterModel creates a roster in the loading state.
func NewRosterModel(dateFormat string) RosterModel {
	if dateFormat == "" {
		dateFormat = "2006-01-02 15:04:05"
	}
	return RosterModel{loading: true, dateFormat: dateFormat}
}

// State returns which of loading, empty or populated is rendered.
func (m RosterModel) State() RosterState {
	switch {
	case m.loading:
		return RosterLoading
	case len(m.jobs) == 0:
		return RosterEmpty
	default:
		return RosterPopulated
	}
}

// Jobs returns the snapshot being displayed.
func (m RosterModel) Jobs() []api.Job {
	return m.jobs
}

// Confirming returns the job awaiting delete confirmation, or "".
func (m RosterModel) Confirming() string {
	return m.confirming
}

// SetLoading toggles the skeleton placeholder.
func (m *RosterModel) SetLoading(loading bool) {
	m.loading = loading
}

// SetJobs replaces the snapshot wholesale.
func (m *RosterModel) SetJobs(jobs []api.Job) {
	m.jobs = jobs
	m.loading = false
	if m.cursor >= len(jobs) {
		m.cursor = max(len(jobs)-1, 0)
	}
	if m.confirming != "" && !m.has(m.confirming) {
		m.confirming = ""
	}
}

func (m RosterModel) has(id string) bool {
	for _, j := range m.jobs {
		if j.ID == id {
			return true
		}
	}
	return false
}

// Update handles messages for the roster.
func (m RosterModel) Update(msg tea.Msg) (RosterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming != "" {
			id := m.confirming
			m.confirming = ""
			if key.Matches(msg, tui.DefaultKeyMap.Confirm) {
				return m, func() tea.Msg {
					return DeleteJobMsg{JobID: id}
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, tui.DefaultKeyMap.Down):
			if m.cursor < len(m.jobs)-1 {
				m.cursor++
			}
		case key.Matches(msg, tui.DefaultKeyMap.Delete):
			if m.State() == RosterPopulated {
				m.confirming = m.jobs[m.cursor].ID
			}
		case key.Matches(msg, tui.DefaultKeyMap.Refresh):
			return m, func() tea.Msg { return RefreshRosterMsg{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

// View renders the roster for its current state.
func (m RosterModel) View() string {
	switch m.State() {
	case RosterLoading:
		return m.renderSkeleton()
	case RosterEmpty:
		return tui.PaperStyle.Render(
			lipgloss.JoinVertical(lipgloss.Center,
				tui.TitleStyle.Render("My Analyses"),
				"",
				emptyRosterText,
			),
		)
	}

	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("My Analyses"))
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	if m.confirming != "" {
		b.WriteString(tui.WarningStyle.Render(confirmDeleteText + " (y/n)"))
	}
	return b.String()
}

func (m RosterModel) renderTable() string {
	rows := make([][]string, len(m.jobs))
	for i, j := range m.jobs {
		action := ""
		if i == m.cursor {
			action = "d Delete"
		}
		rows[i] = []string{
			tui.StatusIcon(j.Status),
			j.ID,
			string(j.Status),
			m.formatDate(j),
			action,
		}
	}

	cursor := m.cursor
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tui.DimStyle).
		Headers("Icon", "Job ID", "Status", "Date Created", "Actions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Bold(true)
			case row == cursor && col == 4:
				return base.Foreground(tui.ErrorStyle.GetForeground())
			case row == cursor:
				return base.Inherit(tui.SelectedStyle)
			}
			return base
		})
	return t.Render()
}

func (m RosterModel) formatDate(j api.Job) string {
	if j.CreatedAt.IsZero() {
		return "-"
	}
	return j.CreatedAt.Local().Format(m.dateFormat)
}

func (m RosterModel) renderSkeleton() string {
	bar := func(n int) string { return tui.SkeletonStyle.Render(strings.Repeat("░", n)) }

	rows := make([][]string, skeletonRows)
	for i := range rows {
		rows[i] = []string{tui.SkeletonStyle.Render("◌"), bar(8), bar(8), bar(16), bar(8)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tui.DimStyle).
		Headers(bar(4), bar(8), bar(8), bar(16), bar(8)).
		Rows(rows...)

	return bar(20) + "\n" + t.Render()
}
