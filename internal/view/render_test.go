package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenttop/internal/app"
	"agenttop/internal/model"
)

func populatedState(t *testing.T) *app.State {
	t.Helper()
	s := app.NewState()
	s.Domain.TaskGraph = model.NewTaskGraph([]model.Wave{
		{Number: 1, Tasks: []model.Task{
			{ID: "t1", Description: "scaffold repo", AgentID: "a1", Status: model.StatusCompleted()},
			{ID: "t2", Description: "write parser", AgentID: "a2", Status: model.StatusRunning()},
		}},
		{Number: 2, Tasks: []model.Task{
			{ID: "t3", Description: "write docs", Status: model.StatusFailed("lint", 1)},
		}},
	})

	agent := model.NewAgent("a2", time.Now().Add(-time.Minute))
	agent.AgentType = "coder"
	agent.Model = "large-v2"
	agent.Messages = []model.AgentMessage{
		model.ReasoningMessage(time.Now(), "reading the grammar"),
		model.ToolMessage(time.Now(), model.NewToolCall("bash", "go vet")),
	}
	s.Domain.Agents["a2"] = agent

	ev := model.NewHookEvent(time.Now(), model.EventPreToolUse).WithAgent("a2")
	ev.ToolName = "bash"
	ev.InputSummary = "go vet"
	s.Domain.Events.Push(ev)
	return s
}

func TestRenderDashboardFrame(t *testing.T) {
	s := populatedState(t)
	out := Render(s, 120, 40, "⣾")

	assert.Contains(t, out, "agenttop")
	assert.Contains(t, out, "wave 1")
	assert.Contains(t, out, "scaffold repo")
	assert.Contains(t, out, "write parser")
	assert.Contains(t, out, "bash")
	assert.Contains(t, out, "tasks 1/3")
}

func TestRenderAgentListBeforeTaskGraph(t *testing.T) {
	s := populatedState(t)
	s.Domain.TaskGraph = nil
	s.Domain.Agents["a1"] = model.NewAgent("a1", time.Now())

	out := Render(s, 120, 40, "⣾")
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "coder")
	assert.NotContains(t, out, "no task graph")

	s.Domain.Agents = map[string]*model.Agent{}
	assert.Contains(t, Render(s, 120, 40, ""), "no task graph")
}

func TestRenderZeroSize(t *testing.T) {
	s := populatedState(t)
	assert.Empty(t, Render(s, 0, 0, ""))
	assert.Empty(t, Render(s, -1, 40, ""))
}

func TestRenderHelpOverlayReplacesFrame(t *testing.T) {
	s := populatedState(t)
	s.UI.ShowHelp = true
	out := Render(s, 120, 40, "")

	assert.Contains(t, out, "Keybindings")
	assert.NotContains(t, out, "scaffold repo")
}

func TestRenderAgentDetail(t *testing.T) {
	s := populatedState(t)
	s.UI.View = app.ViewAgentDetail
	s.UI.DetailAgentID = "a2"

	out := Render(s, 120, 40, "⣾")
	assert.Contains(t, out, "coder")
	assert.Contains(t, out, "large-v2")
	assert.Contains(t, out, "reading the grammar")
	assert.Contains(t, out, "go vet")
}

func TestRenderAgentDetailUnknownAgent(t *testing.T) {
	s := populatedState(t)
	s.UI.View = app.ViewAgentDetail
	s.UI.DetailAgentID = "ghost"

	out := Render(s, 120, 40, "")
	assert.Contains(t, out, "agent not found")
}

func TestRenderSessionsView(t *testing.T) {
	s := populatedState(t)
	s.UI.View = app.ViewSessions
	meta := model.NewSessionMeta("session-20260801-100000", time.Now(), "/p")
	meta.Status = model.SessionCompleted
	meta.AgentCount = 3
	s.Domain.Sessions = []model.SessionMeta{meta}
	s.UI.SelectedSession = 0

	out := Render(s, 120, 40, "")
	assert.Contains(t, out, "AGENTS")
	assert.Contains(t, out, "completed")
}

func TestFilterNarrowsEventStream(t *testing.T) {
	s := populatedState(t)
	ev := model.NewHookEvent(time.Now(), model.EventNotification)
	ev.Message = "rate limited"
	s.Domain.Events.Push(ev)

	s.UI.FilterActive = true
	s.UI.Filter = "rate"
	out := Render(s, 120, 40, "")

	assert.Contains(t, out, "rate limited")
	// The pre_tool_use line does not match and leaves the stream panel.
	assert.NotContains(t, out, "go vet")
}

func TestRenderStatusBarShowsErrors(t *testing.T) {
	s := populatedState(t)
	s.Meta.Errors.Push("graph.json: line 3: bad json")
	s.Meta.HookStatus = app.HookInstalled

	out := Render(s, 120, 40, "")
	assert.Contains(t, out, "errors:1")
	assert.Contains(t, out, "hook:ok")
}

func TestShortenAndElapsed(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 5))
	assert.Equal(t, "ab...", shorten("abcdefgh", 5))
	assert.Equal(t, "日本", shorten("日本", 4))

	assert.Equal(t, "45s", formatElapsed(45*time.Second))
	assert.Equal(t, "2m05s", formatElapsed(125*time.Second))
	assert.Equal(t, "1h01m", formatElapsed(61*time.Minute))
}

func TestWindow(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, lines, window(lines, 0, 10, false), "short content is untouched")
	assert.Equal(t, []string{"d", "e"}, window(lines, 0, 2, true), "tail mode sticks to the end")
	assert.Equal(t, []string{"b", "c"}, window(lines, 1, 2, false))
	assert.Equal(t, []string{"d", "e"}, window(lines, 99, 2, false), "offset clamps to content")
	assert.Nil(t, window(nil, 0, 3, false))
}

func TestRenderIsReadOnly(t *testing.T) {
	s := populatedState(t)
	s.UI.SelectedTask = 1
	before := s.UI
	eventsBefore := s.Domain.Events.Len()

	Render(s, 100, 30, "⣾")

	require.Equal(t, before, s.UI)
	assert.Equal(t, eventsBefore, s.Domain.Events.Len())
}
