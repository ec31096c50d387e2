package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"agenttop/internal/app"
	"agenttop/internal/model"
)

func renderAgentDetail(s *app.State, width, height int, spinner string) string {
	agent, ok := s.Domain.Agents[s.UI.DetailAgentID]
	if !ok {
		return panelFor(false, width, height, dimStyle.Render("agent not found: "+s.UI.DetailAgentID))
	}

	header := renderAgentHeader(agent, spinner)
	bodyHeight := height - lipgloss.Height(header)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	inner := bodyHeight - panelStyle.GetVerticalFrameSize()
	left := renderToolCalls(agent, s.UI.Scroll.AgentTools, inner)
	right := renderReasoning(agent, s.UI.Scroll.AgentReasoning, inner)

	return header + "\n" + twoColumn(s, width, bodyHeight, left, right)
}

func renderAgentHeader(a *model.Agent, spinner string) string {
	var parts []string
	if a.IsActive() {
		parts = append(parts, runningStyle.Render(spinner+" "+a.DisplayName()))
	} else {
		parts = append(parts, doneStyle.Render("● "+a.DisplayName()))
	}
	if a.Model != "" {
		parts = append(parts, dimStyle.Render(a.Model))
	}
	if a.TaskDescription != "" {
		parts = append(parts, shorten(a.TaskDescription, 60))
	}
	parts = append(parts, dimStyle.Render(formatElapsed(agentElapsed(a))))
	if !a.TokenUsage.IsZero() {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("ctx %s", formatTokens(a.TokenUsage.ContextWindow()))))
	}
	return strings.Join(parts, "  ")
}

func agentElapsed(a *model.Agent) time.Duration {
	if a.FinishedAt != nil {
		return a.FinishedAt.Sub(a.StartedAt)
	}
	return time.Since(a.StartedAt)
}

func renderToolCalls(a *model.Agent, offset, height int) string {
	var lines []string
	for _, m := range a.Messages {
		if m.Kind != model.MessageTool {
			continue
		}
		lines = append(lines, formatToolCall(m))
	}
	if len(lines) == 0 {
		return dimStyle.Render("no tool calls")
	}
	return strings.Join(window(lines, offset, height, false), "\n")
}

func formatToolCall(m model.AgentMessage) string {
	ts := dimStyle.Render(m.Timestamp.Format("15:04:05"))
	call := m.Tool
	line := fmt.Sprintf("%s %s %s", ts, titleStyle.Render(call.ToolName), shorten(call.InputSummary, 40))
	switch {
	case call.Pending():
		line += " " + pendingStyle.Render("…")
	case call.Success != nil && *call.Success:
		line += " " + doneStyle.Render("✓")
		if call.Duration > 0 {
			line += dimStyle.Render(" " + call.Duration.Round(time.Millisecond).String())
		}
	default:
		line += " " + failedStyle.Render("✗")
	}
	return line
}

func renderReasoning(a *model.Agent, offset, height int) string {
	var lines []string
	for _, m := range a.Messages {
		if m.Kind != model.MessageReasoning {
			continue
		}
		ts := dimStyle.Render(m.Timestamp.Format("15:04:05"))
		for i, l := range strings.Split(strings.TrimRight(m.Content, "\n"), "\n") {
			if i == 0 {
				lines = append(lines, ts+" "+l)
			} else {
				lines = append(lines, "         "+l)
			}
		}
	}
	if len(lines) == 0 {
		return dimStyle.Render("no reasoning yet")
	}
	return strings.Join(window(lines, offset, height, false), "\n")
}

func formatTokens(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
