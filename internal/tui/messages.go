package tui

import "github.com/trace-bio/trace/internal/api"

// ============================================================================
// Session-scoped results
// ============================================================================

// Scoped is implemented by results that belong to one session instance.
// The shell discards them once that instance has ended.
type Scoped interface {
	SessionGeneration() uint64
}

// LoginResultMsg carries the outcome of a login request.
type LoginResultMsg struct {
	Email string
	Token string
	Err   error
}

// UploadResultMsg carries the outcome of an analysis submission.
type UploadResultMsg struct {
	Generation uint64
	Path       string
	Err        error
}

func (m UploadResultMsg) SessionGeneration() uint64 { return m.Generation }

// JobsLoadedMsg carries a roster snapshot or the reason it could not be fetched.
type JobsLoadedMsg struct {
	Generation uint64
	Seq        int
	Jobs       []api.Job
	Err        error
}

func (m JobsLoadedMsg) SessionGeneration() uint64 { return m.Generation }

// JobDeletedMsg carries the outcome of a delete request.
type JobDeletedMsg struct {
	Generation uint64
	JobID      string
	Err        error
}

func (m JobDeletedMsg) SessionGeneration() uint64 { return m.Generation }

// ============================================================================
// Shell Messages
// ============================================================================

// NotifyMsg asks the shell to show a notification.
type NotifyMsg struct {
	Kind NotificationKind
	Text string
}

// NotificationExpiredMsg removes a notification after its time on screen.
type NotificationExpiredMsg struct {
	ID int
}

// NavigateMsg switches the active route.
type NavigateMsg struct {
	Route Route
}

// LogoutMsg requests the end of the current session.
type LogoutMsg struct{}

// CtrlCResetMsg clears the pending Ctrl+C confirmation after a timeout.
type CtrlCResetMsg struct{}
