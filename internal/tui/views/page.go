package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/trace-bio/trace/internal/tui"
)

// maxPageWidth is the maximum width for static page text.
const maxPageWidth = 90

// PageModel shows one static informational page in a scrollable viewport.
type PageModel struct {
	source   string
	viewport viewport.Model
	width    int
	height   int
}

// NewPageModel creates a page for the given markdown source.
func NewPageModel(source string, width, height int) PageModel {
	m := PageModel{source: source}
	m.resize(width, height)
	return m
}

// Update handles scrolling and resizing.
func (m PageModel) Update(msg tea.Msg) (PageModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size.Width, size.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *PageModel) resize(width, height int) {
	m.width = width
	m.height = height
	w := min(width-8, maxPageWidth)
	if w < 20 {
		w = 20
	}
	h := height - 10
	if h < 5 {
		h = 5
	}
	m.viewport = viewport.New(w, h)
	m.viewport.SetContent(renderPage(m.source, w))
}

// View renders the page.
func (m PageModel) View() string {
	return tui.BoxStyle.Render(m.viewport.View())
}

// renderPage renders the markdown source wrapped to width. A renderer
// failure shows the source as is.
func renderPage(source string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.DarkStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}
	out, err := r.Render(source)
	if err != nil {
		return source
	}
	return strings.Trim(out, "\n")
}
