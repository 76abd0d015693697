// Package ui provides plain terminal output for the one-shot commands.
// This file implements the live roster shown by "trace jobs --watch".
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/tui"
)

// JobWatch redraws the roster in place on a terminal. On other writers it
// prints one line per status change so logs stay readable.
type JobWatch struct {
	mu          sync.Mutex
	w           io.Writer
	isTTY       bool
	dateFormat  string
	jobs        []api.Job
	linesDrawn  int
	firstSeen   map[string]time.Time
	lastPrinted map[string]api.Status // non-TTY only
	now         func() time.Time
}

// NewJobWatch creates a watch writing to w.
func NewJobWatch(w io.Writer, isTTY bool, dateFormat string) *JobWatch {
	return &JobWatch{
		w:           w,
		isTTY:       isTTY,
		dateFormat:  dateFormat,
		firstSeen:   make(map[string]time.Time),
		lastPrinted: make(map[string]api.Status),
		now:         time.Now,
	}
}

// Update replaces the roster snapshot and redraws.
func (p *JobWatch) Update(jobs []api.Job) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.jobs = jobs
	for _, j := range jobs {
		if _, ok := p.firstSeen[j.ID]; !ok {
			p.firstSeen[j.ID] = p.now()
		}
	}
	p.render()
}

// Settled reports whether no job in the last snapshot is still pending.
func (p *JobWatch) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, j := range p.jobs {
		if j.Status == api.StatusPending {
			return false
		}
	}
	return true
}

// Finish moves below the display and prints a summary line.
func (p *JobWatch) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isTTY && p.linesDrawn > 0 {
		fmt.Fprint(p.w, "\n")
	}

	var complete, failed, pending int
	for _, j := range p.jobs {
		switch j.Status {
		case api.StatusComplete:
			complete++
		case api.StatusFailed:
			failed++
		case api.StatusPending:
			pending++
		}
	}

	fmt.Fprintf(p.w, "%d/%d complete", complete, len(p.jobs))
	if failed > 0 {
		fmt.Fprintf(p.w, ", %d failed", failed)
	}
	if pending > 0 {
		fmt.Fprintf(p.w, ", %d pending", pending)
	}
	fmt.Fprintln(p.w)
}

func (p *JobWatch) render() {
	if !p.isTTY {
		p.renderPlain()
		return
	}
	p.renderTTY()
}

// renderTTY redraws using ANSI cursor movement.
func (p *JobWatch) renderTTY() {
	if p.linesDrawn > 0 {
		fmt.Fprintf(p.w, "\033[%dA", p.linesDrawn)
	}

	var buf strings.Builder
	buf.WriteString("\033[2K\033[1mMy Analyses\033[0m\n")
	buf.WriteString("\033[2K\n")

	if len(p.jobs) == 0 {
		buf.WriteString("\033[2K  Your analysis jobs will appear here.\n")
	}
	for _, j := range p.jobs {
		buf.WriteString("\033[2K")
		buf.WriteString(p.formatLine(j))
		buf.WriteString("\n")
	}

	// A shorter roster leaves rows of the previous frame below this one.
	buf.WriteString("\033[J")

	fmt.Fprint(p.w, buf.String())
	p.linesDrawn = max(len(p.jobs), 1) + 2
}

// renderPlain prints only status transitions.
func (p *JobWatch) renderPlain() {
	for _, j := range p.jobs {
		if prev, seen := p.lastPrinted[j.ID]; seen && prev == j.Status {
			continue
		}
		fmt.Fprintln(p.w, formatLinePlain(j))
		p.lastPrinted[j.ID] = j.Status
	}
}

func (p *JobWatch) formatLine(j api.Job) string {
	created := "-"
	if !j.CreatedAt.IsZero() {
		created = j.CreatedAt.Local().Format(p.dateFormat)
	}
	return fmt.Sprintf("  %s %-10s %-10s %s  %s", statusIcon(j.Status), j.ID, j.Status, created, p.detail(j))
}

func formatLinePlain(j api.Job) string {
	return fmt.Sprintf("[%s] job %s", strings.ToUpper(string(j.Status)), j.ID)
}

// statusIcon returns the coloured glyph for a job. Unknown statuses get none.
func statusIcon(status api.Status) string {
	glyph := tui.StatusGlyph(status)
	if glyph == "" {
		return " "
	}
	return statusColor[status] + glyph + "\033[0m"
}

var statusColor = map[api.Status]string{
	api.StatusComplete: "\033[32m",
	api.StatusPending:  "\033[33m",
	api.StatusFailed:   "\033[31m",
}

// detail is the dim right-hand column: how long a pending job has been
// watched.
func (p *JobWatch) detail(j api.Job) string {
	if j.Status != api.StatusPending {
		return ""
	}
	return fmt.Sprintf("\033[90m[watching %s]\033[0m", formatDuration(p.now().Sub(p.firstSeen[j.ID])))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", h, m, s)
}
