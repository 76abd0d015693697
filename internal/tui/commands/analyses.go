// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/tui"
)

// Backend is the subset of the analysis API the TUI drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateAnalysis(ctx context.Context, token, path string) error
	ListAnalyses(ctx context.Context, token string) ([]api.Job, error)
	DeleteAnalysis(ctx context.Context, token, id string) error
}

// LoginCmd exchanges credentials for a bearer token.
func LoginCmd(b Backend, email, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := b.Login(context.Background(), email, password)
		return tui.LoginResultMsg{Email: email, Token: token, Err: err}
	}
}

// UploadCmd submits the file at path under the session generation gen.
func UploadCmd(b Backend, gen uint64, token, path string) tea.Cmd {
	return func() tea.Msg {
		err := b.CreateAnalysis(context.Background(), token, path)
		return tui.UploadResultMsg{Generation: gen, Path: path, Err: err}
	}
}

// FetchJobsCmd retrieves the roster. seq orders overlapping fetches.
func FetchJobsCmd(b Backend, gen uint64, seq int, token string) tea.Cmd {
	return func() tea.Msg {
		jobs, err := b.ListAnalyses(context.Background(), token)
		return tui.JobsLoadedMsg{Generation: gen, Seq: seq, Jobs: jobs, Err: err}
	}
}

// DeleteJobCmd removes one job.
func DeleteJobCmd(b Backend, gen uint64, token, id string) tea.Cmd {
	return func() tea.Msg {
		err := b.DeleteAnalysis(context.Background(), token, id)
		return tui.JobDeletedMsg{Generation: gen, JobID: id, Err: err}
	}
}
