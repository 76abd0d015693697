// Package app provides the main TUI application that wires all views together.
package app

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trace-bio/trace/internal/config"
	"github.com/trace-bio/trace/internal/log"
	"github.com/trace-bio/trace/internal/session"
	"github.com/trace-bio/trace/internal/tui"
	"github.com/trace-bio/trace/internal/tui/commands"
	"github.com/trace-bio/trace/internal/tui/views"
	"github.com/trace-bio/trace/pages"
)

const ctrlCTimeout = time.Second

// Deps holds what the shell needs from the outside world.
type Deps struct {
	Config    *config.Config
	Backend   commands.Backend
	Session   *session.Store
	Persister *session.Persister
	Logger    *log.Logger
	StartDir  string
	// InitialFile is preselected in the upload form of the first session.
	InitialFile string
	// NotificationTTL overrides the configured notification lifetime.
	NotificationTTL time.Duration
	Now             func() time.Time
}

// App is the navigation shell. It owns the session, the active route and
// the notification stack, and renders header, page and footer.
type App struct {
	deps Deps

	route  tui.Route
	width  int
	height int

	ctrlCPending bool

	loginView     views.LoginModel
	dashboardView views.DashboardModel
	modelPage     views.PageModel
	aboutPage     views.PageModel
	toasts        views.ToastModel
}

// New creates the shell. The session may already hold a restored credential.
func New(deps Deps) *App {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Session == nil {
		deps.Session = session.NewStore()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NotificationTTL <= 0 {
		deps.NotificationTTL = deps.Config.NotificationTTL()
	}
	if deps.StartDir == "" {
		deps.StartDir, _ = os.Getwd()
	}

	a := &App{
		deps:      deps,
		route:     tui.RouteRoot,
		width:     80,
		height:    24,
		loginView: views.NewLoginModel(80, 24),
		modelPage: views.NewPageModel(pages.Model, 80, 24),
		aboutPage: views.NewPageModel(pages.About, 80, 24),
	}
	if deps.Session.IsAuthenticated() {
		a.dashboardView = a.newDashboard()
	}
	return a
}

// Init starts the root view of the current session.
func (a *App) Init() tea.Cmd {
	if a.deps.Session.IsAuthenticated() {
		return tea.Batch(a.dashboardView.Init(), a.chooseInitialFile())
	}
	return a.loginView.Init()
}

// chooseInitialFile hands InitialFile to the dashboard once.
func (a *App) chooseInitialFile() tea.Cmd {
	path := a.deps.InitialFile
	if path == "" {
		return nil
	}
	a.deps.InitialFile = ""
	return func() tea.Msg { return views.FileChosenMsg{Path: path} }
}

// Route returns the active route.
func (a *App) Route() tui.Route {
	return a.route
}

// Session returns the credential store.
func (a *App) Session() *session.Store {
	return a.deps.Session
}

// Notifications returns the notifications on screen.
func (a *App) Notifications() []tui.Notification {
	return a.toasts.Items()
}

// Dashboard returns the dashboard of the current session. It is the zero
// value while anonymous.
func (a *App) Dashboard() views.DashboardModel {
	return a.dashboardView
}

// Login returns the sign-in form.
func (a *App) Login() views.LoginModel {
	return a.loginView
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results addressed to a session that has since ended are dropped.
	if scoped, ok := msg.(tui.Scoped); ok && !a.deps.Session.Current(scoped.SessionGeneration()) {
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.loginView, cmd = a.loginView.Update(msg)
		cmds = append(cmds, cmd)
		a.modelPage, _ = a.modelPage.Update(msg)
		a.aboutPage, _ = a.aboutPage.Update(msg)
		if a.deps.Session.IsAuthenticated() {
			a.dashboardView, cmd = a.dashboardView.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.CtrlC):
			if a.ctrlCPending {
				return a, tea.Quit
			}
			a.ctrlCPending = true
			return a, tea.Tick(ctrlCTimeout, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		case key.Matches(msg, tui.DefaultKeyMap.NextTab):
			a.route = a.route.Next()
			return a, nil
		case key.Matches(msg, tui.DefaultKeyMap.PrevTab):
			a.route = a.route.Prev()
			return a, nil
		case key.Matches(msg, tui.DefaultKeyMap.Logout):
			if a.deps.Session.IsAuthenticated() {
				return a, a.logout()
			}
			return a, nil
		}
		return a.updateRoute(msg)

	case tui.CtrlCResetMsg:
		a.ctrlCPending = false
		return a, nil

	case tui.NavigateMsg:
		a.route = msg.Route
		return a, nil

	case tui.NotifyMsg:
		id := a.toasts.Push(msg.Kind, msg.Text)
		return a, commands.ExpireNotificationCmd(id, a.deps.NotificationTTL)

	case tui.NotificationExpiredMsg:
		a.toasts.Dismiss(msg.ID)
		return a, nil

	case views.SubmitLoginMsg:
		if a.deps.Session.IsAuthenticated() {
			return a, nil
		}
		return a, commands.LoginCmd(a.deps.Backend, msg.Email, msg.Password)

	case tui.LoginResultMsg:
		return a, a.handleLogin(msg)

	case tui.LogoutMsg:
		if a.deps.Session.IsAuthenticated() {
			return a, a.logout()
		}
		return a, nil
	}

	// Everything else belongs to the root view of the current session.
	return a.updateRoot(msg)
}

// updateRoute forwards a key press to the view behind the active route.
func (a *App) updateRoute(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case tui.RouteModel:
		a.modelPage, cmd = a.modelPage.Update(msg)
	case tui.RouteAbout:
		a.aboutPage, cmd = a.aboutPage.Update(msg)
	default:
		return a.updateRoot(msg)
	}
	return a, cmd
}

func (a *App) updateRoot(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.deps.Session.IsAuthenticated() {
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	} else {
		a.loginView, cmd = a.loginView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleLogin(msg tui.LoginResultMsg) tea.Cmd {
	a.loginView.SetSubmitting(false)
	if msg.Err != nil || msg.Token == "" {
		return commands.NotifyCmd(tui.NotifyError, tui.MsgLoginFailed)
	}

	a.deps.Session.SetCredential(msg.Token, msg.Email)
	if err := a.deps.Persister.Remember(a.deps.Session); err != nil {
		a.deps.Logger.Record(log.LogEvent{Event: log.EventLoginSucceeded, Email: msg.Email, Error: "persist: " + err.Error()})
	}

	a.dashboardView = a.newDashboard()
	return tea.Batch(
		commands.NotifyCmd(tui.NotifySuccess, tui.MsgLoginSucceeded),
		a.dashboardView.Init(),
		a.chooseInitialFile(),
	)
}

// logout ends the session. The next session starts from a fresh form and
// a fresh dashboard.
func (a *App) logout() tea.Cmd {
	email := a.deps.Session.Email()
	a.deps.Session.ClearCredential()
	if err := a.deps.Persister.Forget(); err != nil {
		a.deps.Logger.Record(log.LogEvent{Event: log.EventLogout, Email: email, Error: "forget: " + err.Error()})
	} else {
		a.deps.Logger.Record(log.LogEvent{Event: log.EventLogout, Email: email})
	}

	a.route = tui.RouteRoot
	a.dashboardView = views.DashboardModel{}
	a.loginView = views.NewLoginModel(a.width, a.height)
	return tea.Batch(
		commands.NotifyCmd(tui.NotifyInfo, tui.MsgLoggedOut),
		a.loginView.Init(),
	)
}

func (a *App) newDashboard() views.DashboardModel {
	return views.NewDashboardModel(a.width, a.height, views.DashboardDeps{
		Backend:    a.deps.Backend,
		Token:      a.deps.Session.Credential(),
		Generation: a.deps.Session.Generation(),
		Logger:     a.deps.Logger,
		StartDir:   a.deps.StartDir,
		DateFormat: a.deps.Config.UI.DateFormat,
	})
}

// View renders the header, notifications, active page and footer.
func (a *App) View() string {
	var content string
	switch a.route {
	case tui.RouteModel:
		content = a.modelPage.View()
	case tui.RouteAbout:
		content = a.aboutPage.View()
	default:
		if a.deps.Session.IsAuthenticated() {
			content = a.dashboardView.View()
		} else {
			content = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.loginView.View())
		}
	}

	var b strings.Builder
	b.WriteString(views.RenderHeader(a.route, a.deps.Session.IsAuthenticated(), a.width))
	b.WriteString("\n")
	if toasts := a.toasts.View(a.width); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	if a.ctrlCPending {
		b.WriteString(tui.WarningStyle.Render("Press Ctrl+C again to exit"))
		b.WriteString("\n")
	}
	b.WriteString(views.RenderFooter(a.deps.Now().Year(), a.width))
	return b.String()
}
