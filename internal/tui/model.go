package tui

// Route identifies a top-level screen.
type Route int

const (
	RouteRoot  Route = iota // Login when anonymous, Dashboard otherwise
	RouteModel              // static model information
	RouteAbout              // static about page
)

// Routes lists every route in header order.
var Routes = []Route{RouteRoot, RouteModel, RouteAbout}

// Path returns the URL-style path of the route.
func (r Route) Path() string {
	switch r {
	case RouteModel:
		return "/model"
	case RouteAbout:
		return "/about"
	default:
		return "/"
	}
}

// Title returns the header label for the route.
func (r Route) Title() string {
	switch r {
	case RouteModel:
		return "Model"
	case RouteAbout:
		return "About"
	default:
		return "Home"
	}
}

// Next returns the route after r, wrapping around.
func (r Route) Next() Route {
	return Routes[(int(r)+1)%len(Routes)]
}

// Prev returns the route before r, wrapping around.
func (r Route) Prev() Route {
	return Routes[(int(r)+len(Routes)-1)%len(Routes)]
}

// NotificationKind selects the colour of a notification.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
	NotifyInfo
)

// Notification is a transient message shown at the top of the screen.
type Notification struct {
	ID   int
	Kind NotificationKind
	Text string
}

// User-facing notification texts.
const (
	MsgLoginSucceeded  = "Login successful!"
	MsgLoginFailed     = "Incorrect email or password."
	MsgLoggedOut       = "You have been logged out."
	MsgNoFileSelected  = "Please select a file first!"
	MsgUploadSucceeded = "File uploaded! Analysis has started."
	MsgUploadFailed    = "An error occurred during file upload."
	MsgRosterFailed    = "Could not load your analyses."
	MsgJobDeleted      = "Job deleted."
	MsgDeleteFailed    = "Could not delete the job."
	MsgTimedOut        = "The request timed out."
)
