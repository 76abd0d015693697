package views

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/testutil"
	"github.com/trace-bio/trace/internal/tui"
)

// stubBackend answers every call immediately with canned results.
type stubBackend struct {
	jobs    []api.Job
	listErr error
	uploads []string
}

func (s *stubBackend) Login(context.Context, string, string) (string, error) {
	return "tok", nil
}

func (s *stubBackend) CreateAnalysis(_ context.Context, _, path string) error {
	s.uploads = append(s.uploads, path)
	return nil
}

func (s *stubBackend) ListAnalyses(context.Context, string) ([]api.Job, error) {
	return s.jobs, s.listErr
}

func (s *stubBackend) DeleteAnalysis(context.Context, string, string) error {
	return nil
}

func newDashboard(t *testing.T, b *stubBackend) DashboardModel {
	t.Helper()
	return NewDashboardModel(80, 24, DashboardDeps{
		Backend:    b,
		Token:      "tok",
		Generation: 1,
		StartDir:   t.TempDir(),
	})
}

func TestDashboardAppliesOnlyNewestFetch(t *testing.T) {
	m := newDashboard(t, &stubBackend{})

	// Two refreshes overlap; the first answer arrives last.
	m, _ = m.Update(RefreshRosterMsg{})
	m, _ = m.Update(RefreshRosterMsg{})
	newest := m.seq

	newer := []api.Job{{ID: "new", Status: api.StatusPending}}
	older := []api.Job{{ID: "old", Status: api.StatusComplete}}

	m, _ = m.Update(tui.JobsLoadedMsg{Generation: 1, Seq: newest, Jobs: newer})
	m, _ = m.Update(tui.JobsLoadedMsg{Generation: 1, Seq: newest - 1, Jobs: older})

	jobs := m.Roster().Jobs()
	if len(jobs) != 1 || jobs[0].ID != "new" {
		t.Errorf("Jobs() = %+v, want the newest snapshot", jobs)
	}
}

func TestDashboardFetchFailureKeepsSnapshot(t *testing.T) {
	m := newDashboard(t, &stubBackend{})
	m, _ = m.Update(tui.JobsLoadedMsg{Generation: 1, Seq: m.seq, Jobs: []api.Job{{ID: "a"}}})

	m, _ = m.Update(RefreshRosterMsg{})
	if m.Roster().State() != RosterLoading {
		t.Fatal("refresh should show the loading state")
	}
	m, cmd := m.Update(tui.JobsLoadedMsg{Generation: 1, Seq: m.seq, Err: &api.FetchError{Status: 500}})

	if m.Roster().State() != RosterPopulated || len(m.Roster().Jobs()) != 1 {
		t.Errorf("snapshot lost after failed fetch: %+v", m.Roster().Jobs())
	}
	msgs := collect(cmd)
	if len(msgs) != 1 || msgs[0].(tui.NotifyMsg).Text != tui.MsgRosterFailed {
		t.Errorf("messages = %+v, want roster failure notification", msgs)
	}
}

func TestDashboardRejectsEmptyUpload(t *testing.T) {
	b := &stubBackend{}
	m := newDashboard(t, b)

	_, cmd := m.Update(SubmitUploadMsg{})
	msgs := collect(cmd)
	if len(msgs) != 1 || msgs[0].(tui.NotifyMsg).Text != tui.MsgNoFileSelected {
		t.Errorf("messages = %+v, want no-file notification", msgs)
	}
	if len(b.uploads) != 0 {
		t.Error("no request may be sent without a file")
	}
}

func TestDashboardUploadThenRefresh(t *testing.T) {
	b := &stubBackend{jobs: []api.Job{{ID: "j1", Status: api.StatusPending}}}
	m := newDashboard(t, b)
	m.Select("/tmp/sample.tsv")

	var order []string
	msgs := testutil.Drain(t, func(msg tea.Msg) tea.Cmd {
		switch msg.(type) {
		case tui.UploadResultMsg:
			order = append(order, "uploaded")
		case tui.JobsLoadedMsg:
			order = append(order, "listed")
		}
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		return cmd
	}, func() tea.Msg { return SubmitUploadMsg{Path: "/tmp/sample.tsv"} })

	if len(b.uploads) != 1 {
		t.Fatalf("uploads = %v, want one", b.uploads)
	}
	if len(order) != 2 || order[0] != "uploaded" || order[1] != "listed" {
		t.Errorf("order = %v, want upload response before the roster fetch", order)
	}
	if m.Roster().State() != RosterPopulated {
		t.Errorf("State() = %v, want RosterPopulated", m.Roster().State())
	}
	if len(msgs) == 0 {
		t.Error("no messages delivered")
	}
}

func TestFailureText(t *testing.T) {
	if got := failureText(&api.TimeoutError{Op: "list"}, tui.MsgRosterFailed); got != tui.MsgTimedOut {
		t.Errorf("timeout text = %q", got)
	}
	if got := failureText(errors.New("x"), tui.MsgRosterFailed); got != tui.MsgRosterFailed {
		t.Errorf("fallback text = %q", got)
	}
}
