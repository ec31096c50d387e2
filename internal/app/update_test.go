package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenttop/internal/model"
)

func newTestState() *State {
	return NewState()
}

func startEvent(ts time.Time, agentID, agentType string) model.HookEvent {
	ev := model.NewHookEvent(ts, model.EventSubagentStart).WithAgent(agentID)
	ev.AgentType = agentType
	return ev
}

func TestTaskGraphUpdatedReplacesGraph(t *testing.T) {
	s := newTestState()
	g := model.NewTaskGraph([]model.Wave{
		{Number: 1, Tasks: []model.Task{{ID: "t1", Description: "build"}}},
	})
	Apply(s, TaskGraphUpdated{Graph: g})
	require.Same(t, g, s.Domain.TaskGraph)
	assert.Equal(t, 1, s.Domain.TaskGraph.TotalTasks)
}

func TestTranscriptUpdateNeverCreatesAgent(t *testing.T) {
	s := newTestState()
	msgs := []model.AgentMessage{model.ReasoningMessage(time.Now(), "thinking")}

	Apply(s, TranscriptUpdated{AgentID: "ghost", Messages: msgs})
	assert.Empty(t, s.Domain.Agents)

	Apply(s, AgentStarted{AgentID: "a1"})
	Apply(s, TranscriptUpdated{AgentID: "a1", Messages: msgs})
	require.Contains(t, s.Domain.Agents, "a1")
	assert.Len(t, s.Domain.Agents["a1"].Messages, 1)
}

func TestSubagentStartIsIdempotent(t *testing.T) {
	s := newTestState()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	Apply(s, HookEventReceived{Event: startEvent(t0, "a1", "reviewer")})
	require.Contains(t, s.Domain.Agents, "a1")
	agent := s.Domain.Agents["a1"]
	assert.Equal(t, "reviewer", agent.AgentType)
	assert.Equal(t, t0, agent.StartedAt)

	// Duplicate start with a later timestamp must not reset the lifecycle.
	finished := t0.Add(time.Minute)
	agent.FinishedAt = &finished
	Apply(s, HookEventReceived{Event: startEvent(t0.Add(time.Hour), "a1", "other")})

	assert.Equal(t, t0, agent.StartedAt)
	require.NotNil(t, agent.FinishedAt)
	assert.Equal(t, finished, *agent.FinishedAt)
	assert.Equal(t, "reviewer", agent.AgentType, "known type is never overwritten")
}

func TestSubagentStartFillsUnknownType(t *testing.T) {
	s := newTestState()
	t0 := time.Now()

	Apply(s, AgentStarted{AgentID: "a1"})
	require.Empty(t, s.Domain.Agents["a1"].AgentType)

	Apply(s, HookEventReceived{Event: startEvent(t0, "a1", "coder")})
	assert.Equal(t, "coder", s.Domain.Agents["a1"].AgentType)
}

func TestSubagentStartTypeFallsBackToDescription(t *testing.T) {
	s := newTestState()
	ev := model.NewHookEvent(time.Now(), model.EventSubagentStart).WithAgent("a1")
	ev.TaskDescription = "fix the parser"
	Apply(s, HookEventReceived{Event: ev})
	assert.Equal(t, "fix the parser", s.Domain.Agents["a1"].AgentType)
}

func TestSubagentStopIsMonotonic(t *testing.T) {
	s := newTestState()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	Apply(s, HookEventReceived{Event: startEvent(t0, "a1", "coder")})

	stop := model.NewHookEvent(t0.Add(time.Minute), model.EventSubagentStop).WithAgent("a1")
	Apply(s, HookEventReceived{Event: stop})
	require.NotNil(t, s.Domain.Agents["a1"].FinishedAt)
	first := *s.Domain.Agents["a1"].FinishedAt

	// A second stop must not move the finish time.
	later := model.NewHookEvent(t0.Add(time.Hour), model.EventSubagentStop).WithAgent("a1")
	Apply(s, HookEventReceived{Event: later})
	assert.Equal(t, first, *s.Domain.Agents["a1"].FinishedAt)
}

func TestAttributionExplicitIDWins(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "a1"})
	Apply(s, AgentStarted{AgentID: "a2"})

	ev := model.NewHookEvent(time.Now(), model.EventPreToolUse).WithAgent("a2")
	ev.ToolName = "read_file"
	Apply(s, HookEventReceived{Event: ev})

	assert.Empty(t, s.Domain.Agents["a1"].Messages)
	assert.Len(t, s.Domain.Agents["a2"].Messages, 1)
}

func TestAttributionSoleActiveAgent(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "a1"})

	ev := model.NewHookEvent(time.Now(), model.EventPreToolUse)
	ev.ToolName = "bash"
	Apply(s, HookEventReceived{Event: ev})

	require.Len(t, s.Domain.Agents["a1"].Messages, 1)
	assert.Equal(t, "bash", s.Domain.Agents["a1"].Messages[0].Tool.ToolName)

	// The buffered copy carries the attribution.
	events := s.Domain.Events.Items()
	require.Len(t, events, 1)
	assert.Equal(t, "a1", events[0].AgentID)
}

func TestAttributionAmbiguousLeavesUnattributed(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "a1"})
	Apply(s, AgentStarted{AgentID: "a2"})

	ev := model.NewHookEvent(time.Now(), model.EventPreToolUse)
	ev.ToolName = "bash"
	Apply(s, HookEventReceived{Event: ev})

	assert.Empty(t, s.Domain.Agents["a1"].Messages)
	assert.Empty(t, s.Domain.Agents["a2"].Messages)

	events := s.Domain.Events.Items()
	require.Len(t, events, 1)
	assert.Empty(t, events[0].AgentID)
}

func TestAttributionIgnoresFinishedAgents(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "done"})
	Apply(s, AgentStopped{AgentID: "done"})
	Apply(s, AgentStarted{AgentID: "live"})

	ev := model.NewHookEvent(time.Now(), model.EventPreToolUse)
	ev.ToolName = "bash"
	Apply(s, HookEventReceived{Event: ev})

	assert.Empty(t, s.Domain.Agents["done"].Messages)
	assert.Len(t, s.Domain.Agents["live"].Messages, 1)
}

func TestPostToolUseCompletesMostRecentPendingCall(t *testing.T) {
	s := newTestState()
	t0 := time.Now()
	Apply(s, AgentStarted{AgentID: "a1"})

	pre := model.NewHookEvent(t0, model.EventPreToolUse).WithAgent("a1")
	pre.ToolName = "bash"
	pre.InputSummary = "ls"
	Apply(s, HookEventReceived{Event: pre})

	ms := uint64(1500)
	post := model.NewHookEvent(t0.Add(time.Second), model.EventPostToolUse).WithAgent("a1")
	post.ToolName = "bash"
	post.ResultSummary = "3 files"
	post.DurationMS = &ms
	Apply(s, HookEventReceived{Event: post})

	msgs := s.Domain.Agents["a1"].Messages
	require.Len(t, msgs, 1)
	call := msgs[0].Tool
	assert.Equal(t, "3 files", call.ResultSummary)
	require.NotNil(t, call.Success)
	assert.True(t, *call.Success)
	assert.Equal(t, 1500*time.Millisecond, call.Duration)
}

func TestPostToolUsePairsByRecencyNotFIFO(t *testing.T) {
	s := newTestState()
	t0 := time.Now()
	Apply(s, AgentStarted{AgentID: "a1"})

	for _, input := range []string{"first", "second"} {
		pre := model.NewHookEvent(t0, model.EventPreToolUse).WithAgent("a1")
		pre.ToolName = "bash"
		pre.InputSummary = input
		Apply(s, HookEventReceived{Event: pre})
	}

	post := model.NewHookEvent(t0, model.EventPostToolUse).WithAgent("a1")
	post.ToolName = "bash"
	post.ResultSummary = "done"
	Apply(s, HookEventReceived{Event: post})

	msgs := s.Domain.Agents["a1"].Messages
	require.Len(t, msgs, 2)
	// The newest pending call takes the result; the older stays pending.
	assert.True(t, msgs[0].Tool.Pending())
	assert.False(t, msgs[1].Tool.Pending())
	assert.Equal(t, "done", msgs[1].Tool.ResultSummary)
}

func TestPostToolUseUnmatchedIsDropped(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "a1"})

	post := model.NewHookEvent(time.Now(), model.EventPostToolUse).WithAgent("a1")
	post.ToolName = "bash"
	Apply(s, HookEventReceived{Event: post})

	assert.Empty(t, s.Domain.Agents["a1"].Messages)
	// The event is still recorded in the stream.
	assert.Equal(t, 1, s.Domain.Events.Len())
}

func TestSessionLifecycleEventsHaveNoAgentSideEffects(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "a1"})

	for _, kind := range []model.HookEventKind{
		model.EventSessionStart, model.EventSessionEnd, model.EventStop,
		model.EventNotification, model.EventUserPromptSubmit, model.EventAssistantText,
	} {
		Apply(s, HookEventReceived{Event: model.NewHookEvent(time.Now(), kind)})
	}

	assert.True(t, s.Domain.Agents["a1"].IsActive())
	assert.Empty(t, s.Domain.Agents["a1"].Messages)
	assert.Equal(t, 6, s.Domain.Events.Len())
}

func TestTickIsPassive(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "a1"})
	before := *s

	Apply(s, Tick{})

	assert.Equal(t, before.UI, s.UI)
	assert.Equal(t, 0, s.Domain.Events.Len())
	assert.True(t, s.Domain.Agents["a1"].IsActive())
}

func TestParseErrorFormatAndCap(t *testing.T) {
	s := newTestState()
	Apply(s, ParseError{Source: "/tmp/graph.json", Err: "line 3: bad json"})

	require.Equal(t, 1, s.Meta.Errors.Len())
	assert.Equal(t, "/tmp/graph.json: line 3: bad json", s.Meta.Errors.At(0))

	for i := 0; i < 500; i++ {
		Apply(s, ParseError{Source: "src", Err: fmt.Sprintf("err %d", i)})
	}
	assert.Equal(t, ErrorBufferCap, s.Meta.Errors.Len())
	assert.Equal(t, "src: err 499", s.Meta.Errors.At(ErrorBufferCap-1))
}

func TestEventBufferStaysBounded(t *testing.T) {
	s := newTestState()
	for i := 0; i < EventBufferCap+50; i++ {
		Apply(s, HookEventReceived{Event: model.NewHookEvent(time.Now(), model.EventNotification)})
	}
	assert.Equal(t, EventBufferCap, s.Domain.Events.Len())
}

func TestSessionLoadedReplacesState(t *testing.T) {
	s := newTestState()
	Apply(s, AgentStarted{AgentID: "live"})
	Apply(s, HookEventReceived{Event: model.NewHookEvent(time.Now(), model.EventNotification)})

	meta := model.NewSessionMeta("s1", time.Now().Add(-time.Hour), "/proj")
	archive := model.NewSessionArchive(meta)
	archive.TaskGraph = model.NewTaskGraph([]model.Wave{
		{Number: 1, Tasks: []model.Task{{ID: "t1"}}},
	})
	archive.Agents["old"] = model.NewAgent("old", meta.Timestamp)
	archive.Events = []model.HookEvent{
		model.NewHookEvent(meta.Timestamp, model.EventSessionStart),
		model.NewHookEvent(meta.Timestamp, model.EventSessionEnd),
	}

	s.UI.View = ViewSessions
	s.UI.Scroll.EventStream = 42

	Apply(s, SessionLoaded{Archive: archive})

	assert.Equal(t, ViewDashboard, s.UI.View)
	assert.Zero(t, s.UI.Scroll.EventStream)
	require.NotNil(t, s.Domain.ActiveSession)
	assert.Equal(t, "s1", s.Domain.ActiveSession.ID)
	assert.Equal(t, 1, s.Domain.TaskGraph.TotalTasks)
	assert.NotContains(t, s.Domain.Agents, "live")
	assert.Contains(t, s.Domain.Agents, "old")

	events := s.Domain.Events.Items()
	require.Len(t, events, 2)
	assert.Equal(t, model.EventSessionStart, events[0].Kind)
	assert.Equal(t, model.EventSessionEnd, events[1].Kind)
}

func TestSessionListRefreshed(t *testing.T) {
	s := newTestState()
	sessions := []model.SessionMeta{
		model.NewSessionMeta("s2", time.Now(), "/p"),
		model.NewSessionMeta("s1", time.Now().Add(-time.Hour), "/p"),
	}
	Apply(s, SessionListRefreshed{Sessions: sessions})
	assert.Equal(t, sessions, s.Domain.Sessions)
}

func TestSortedAgentIDsOrdersByID(t *testing.T) {
	s := newTestState()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// Start order and liveness must not affect display order, only the id.
	s.Domain.Agents["old-active"] = model.NewAgent("old-active", t0)
	s.Domain.Agents["new-active"] = model.NewAgent("new-active", t0.Add(time.Hour))
	finished := model.NewAgent("finished", t0.Add(2*time.Hour))
	done := t0.Add(3 * time.Hour)
	finished.FinishedAt = &done
	s.Domain.Agents["finished"] = finished

	assert.Equal(t, []string{"finished", "new-active", "old-active"}, s.SortedAgentIDs())
}
