package view

import (
	"fmt"
	"strings"

	"agenttop/internal/app"
	"agenttop/internal/model"
)

func renderDashboard(s *app.State, width, height int, spinner string) string {
	inner := height - panelStyle.GetVerticalFrameSize()
	left := renderTaskList(s, inner, spinner)
	right := renderEventStream(s, inner)
	return twoColumn(s, width, height, left, right)
}

func renderTaskList(s *app.State, height int, spinner string) string {
	g := s.Domain.TaskGraph
	if g == nil || len(g.Waves) == 0 {
		return renderAgentList(s, height, spinner)
	}

	current := g.CurrentWave()
	var b strings.Builder
	idx := 0
	for _, wave := range g.Waves {
		label := fmt.Sprintf("wave %d", wave.Number)
		if wave.Number == current {
			b.WriteString(titleStyle.Render(label))
		} else {
			b.WriteString(dimStyle.Render(label))
		}
		b.WriteByte('\n')
		for _, t := range wave.Tasks {
			line := fmt.Sprintf(" %s %s", taskGlyph(t, spinner), t.Description)
			if t.Status.Kind == model.TaskFailed && t.Status.RetryCount > 0 {
				line += dimStyle.Render(fmt.Sprintf(" (retry %d)", t.Status.RetryCount))
			}
			if idx == s.UI.SelectedTask {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteByte('\n')
			idx++
		}
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	return strings.Join(window(lines, s.UI.Scroll.TaskList, height, false), "\n")
}

// renderAgentList stands in for the task list before a task graph arrives,
// showing agents ordered by id.
func renderAgentList(s *app.State, height int, spinner string) string {
	ids := s.SortedAgentIDs()
	if len(ids) == 0 {
		return dimStyle.Render("no task graph")
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		agent := s.Domain.Agents[id]
		glyph := doneStyle.Render("✓")
		if agent.IsActive() {
			glyph = runningStyle.Render(spinner)
		}
		lines = append(lines, fmt.Sprintf(" %s %s", glyph, shorten(agent.DisplayName(), 30)))
	}
	return strings.Join(window(lines, s.UI.Scroll.TaskList, height, false), "\n")
}

func taskGlyph(t model.Task, spinner string) string {
	switch t.Status.Kind {
	case model.TaskRunning:
		return runningStyle.Render(spinner)
	case model.TaskCompleted:
		return doneStyle.Render("✓")
	case model.TaskImplemented:
		return doneStyle.Render("◐")
	case model.TaskFailed:
		return failedStyle.Render("✗")
	default:
		return pendingStyle.Render("·")
	}
}

func renderEventStream(s *app.State, height int) string {
	events := s.Domain.Events.Items()
	if len(events) == 0 {
		return dimStyle.Render("waiting for events...")
	}

	filter := strings.ToLower(s.UI.Filter)
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		line := formatEvent(s, ev)
		if filter != "" && !strings.Contains(strings.ToLower(line), filter) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return dimStyle.Render("no events match filter")
	}

	return strings.Join(window(lines, s.UI.Scroll.EventStream, height, s.UI.AutoScroll), "\n")
}

func formatEvent(s *app.State, ev model.HookEvent) string {
	ts := dimStyle.Render(ev.Timestamp.Format("15:04:05"))
	who := eventAgentLabel(s, ev)

	var desc string
	switch ev.Kind {
	case model.EventPreToolUse:
		desc = fmt.Sprintf("→ %s %s", ev.ToolName, dimStyle.Render(shorten(ev.InputSummary, 60)))
	case model.EventPostToolUse:
		desc = fmt.Sprintf("← %s %s", ev.ToolName, dimStyle.Render(shorten(ev.ResultSummary, 60)))
		if d, ok := ev.Duration(); ok {
			desc += dimStyle.Render(" " + d.String())
		}
	case model.EventSubagentStart:
		desc = doneStyle.Render("start ") + shorten(ev.TaskDescription, 60)
	case model.EventSubagentStop:
		desc = dimStyle.Render("stop")
	case model.EventSessionStart:
		desc = titleStyle.Render("session start")
	case model.EventSessionEnd:
		desc = titleStyle.Render("session end")
		if ev.Reason != "" {
			desc += dimStyle.Render(" " + ev.Reason)
		}
	case model.EventNotification:
		desc = "⚠ " + shorten(ev.Message, 70)
	case model.EventUserPromptSubmit:
		desc = "» " + shorten(ev.TaskPrompt, 70)
	case model.EventAssistantText:
		desc = shorten(ev.Content, 80)
	case model.EventStop:
		desc = dimStyle.Render("agent stopped")
	default:
		desc = string(ev.Kind)
	}

	if who != "" {
		return fmt.Sprintf("%s %s %s", ts, who, desc)
	}
	return fmt.Sprintf("%s %s", ts, desc)
}

func eventAgentLabel(s *app.State, ev model.HookEvent) string {
	if ev.AgentID == "" {
		return ""
	}
	if agent, ok := s.Domain.Agents[ev.AgentID]; ok {
		return runningStyle.Render("[" + shorten(agent.DisplayName(), 16) + "]")
	}
	return dimStyle.Render("[" + shorten(ev.AgentID, 8) + "]")
}
