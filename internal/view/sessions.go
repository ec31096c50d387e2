package view

import (
	"fmt"
	"strings"

	"agenttop/internal/app"
	"agenttop/internal/model"
)

func renderSessions(s *app.State, width, height int) string {
	sessions := s.Domain.Sessions
	if len(sessions) == 0 {
		return panelFor(true, width, height, dimStyle.Render("no archived sessions"))
	}

	header := dimStyle.Render(fmt.Sprintf("%-10s %-17s %-10s %7s %7s %7s  %s",
		"ID", "STARTED", "STATUS", "AGENTS", "TASKS", "EVENTS", "BRANCH"))

	lines := []string{header}
	for i, m := range sessions {
		line := fmt.Sprintf("%-10s %-17s %-10s %7d %7d %7d  %s",
			shorten(m.ID, 10),
			m.Timestamp.Format("01-02 15:04:05"),
			sessionStatusLabel(m.Status),
			m.AgentCount, m.TaskCount, m.EventCount,
			shorten(m.GitBranch, 20))
		if i == s.UI.SelectedSession {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	inner := height - panelStyle.GetVerticalFrameSize()
	return panelFor(true, width, height, strings.Join(window(lines, s.UI.Scroll.Sessions, inner, false), "\n"))
}

func sessionStatusLabel(st model.SessionStatus) string {
	switch st {
	case model.SessionActive:
		return runningStyle.Render(string(st))
	case model.SessionCompleted:
		return doneStyle.Render(string(st))
	case model.SessionFailed, model.SessionCancelled:
		return failedStyle.Render(string(st))
	default:
		return string(st)
	}
}
