// Package view renders application state into terminal frames. Every
// function here is a pure projection of *app.State; no rendering call
// ever mutates state.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"agenttop/internal/app"
)

// Render produces a full frame for the given terminal size. spinner is
// the current spinner frame supplied by the program shell so that all
// panels animate in lockstep.
func Render(s *app.State, width, height int, spinner string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if s.UI.ShowHelp {
		return renderHelp(width, height)
	}

	header := renderHeader(s, width, spinner)
	status := renderStatusBar(s, width)

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch s.UI.View {
	case app.ViewAgentDetail:
		body = renderAgentDetail(s, width, bodyHeight, spinner)
	case app.ViewSessions:
		body = renderSessions(s, width, bodyHeight)
	default:
		body = renderDashboard(s, width, bodyHeight, spinner)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func renderHeader(s *app.State, width int, spinner string) string {
	title := titleStyle.Render("agenttop")

	var parts []string
	parts = append(parts, title)

	active := s.ActiveAgentCount()
	if active > 0 {
		parts = append(parts, runningStyle.Render(fmt.Sprintf("%s %d active", spinner, active)))
	}
	if g := s.Domain.TaskGraph; g != nil && g.TotalTasks > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("tasks %d/%d", g.CompletedTasks, g.TotalTasks)))
	}
	if s.Domain.ActiveSession != nil {
		parts = append(parts, dimStyle.Render("session "+shorten(s.Domain.ActiveSession.ID, 8)))
	}
	parts = append(parts, dimStyle.Render("up "+formatElapsed(time.Since(s.Meta.StartedAt))))

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().Width(width).Render(line)
}

func renderStatusBar(s *app.State, width int) string {
	var parts []string

	switch s.UI.View {
	case app.ViewAgentDetail:
		parts = append(parts, "[1]dash  2:detail  [3]sessions")
	case app.ViewSessions:
		parts = append(parts, "[1]dash  [2]detail  3:sessions")
	default:
		parts = append(parts, "1:dash  [2]detail  [3]sessions")
	}

	parts = append(parts, hookStatusLabel(s.Meta.HookStatus))

	if s.UI.FilterActive {
		f := s.UI.Filter
		if s.UI.FilterInput {
			f += "▏"
		}
		parts = append(parts, filterStyle.Render("/"+f))
	}
	if !s.UI.AutoScroll {
		parts = append(parts, dimStyle.Render("scroll:manual"))
	}
	if n := s.Meta.Errors.Len(); n > 0 {
		last := s.Meta.Errors.At(n - 1)
		parts = append(parts, errStyle.Render(fmt.Sprintf("errors:%d %s", n, shorten(last, 40))))
	}
	parts = append(parts, dimStyle.Render("? help  q quit"))

	return statusStyle.Width(width).Render(strings.Join(parts, "  "))
}

func hookStatusLabel(st app.HookStatus) string {
	switch st {
	case app.HookInstalled:
		return doneStyle.Render("hook:ok")
	case app.HookMissing:
		return failedStyle.Render("hook:missing")
	case app.HookInstallFailed:
		return failedStyle.Render("hook:install-failed")
	default:
		return dimStyle.Render("hook:?")
	}
}

// twoColumn splits the body into a left and right panel, highlighting
// whichever side holds focus.
func twoColumn(s *app.State, width, height int, left, right string) string {
	leftWidth := width * 2 / 5
	if leftWidth < 20 {
		leftWidth = width / 2
	}
	rightWidth := width - leftWidth

	leftPanel := panelFor(s.UI.Focus == app.FocusLeft, leftWidth, height, left)
	rightPanel := panelFor(s.UI.Focus == app.FocusRight, rightWidth, height, right)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

func panelFor(focused bool, width, height int, content string) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	innerW := width - style.GetHorizontalFrameSize()
	innerH := height - style.GetVerticalFrameSize()
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}
	return style.Width(innerW).Height(innerH).Render(content)
}

// window clamps a scroll offset against a line slice and returns the
// visible portion. When tail is true the window sticks to the end.
func window(lines []string, offset, height int, tail bool) []string {
	if height <= 0 || len(lines) == 0 {
		return nil
	}
	if len(lines) <= height {
		return lines
	}
	if tail {
		return lines[len(lines)-height:]
	}
	max := len(lines) - height
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return lines[offset : offset+height]
}

func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
