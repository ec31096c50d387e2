package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenttop/internal/app"
	"agenttop/internal/model"
	"agenttop/internal/paths"
)

func testPaths(t *testing.T) paths.Paths {
	t.Helper()
	dir := t.TempDir()
	p := paths.Paths{
		TaskGraph:   filepath.Join(dir, "state", "active_task_graph.json"),
		Transcripts: filepath.Join(dir, "state", "subagents"),
		Events:      filepath.Join(dir, "events", "events.jsonl"),
		ArchiveDir:  filepath.Join(dir, "sessions"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(p.TaskGraph), 0755))
	require.NoError(t, os.MkdirAll(p.Transcripts, 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(p.Events), 0755))
	return p
}

func collectEvents(t *testing.T, ch <-chan app.Event, n int) []app.Event {
	t.Helper()
	events := make([]app.Event, 0, n)
	timeout := time.After(5 * time.Second)
	for len(events) < n {
		select {
		case ev := <-ch:
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(events), n)
		}
	}
	return events
}

func TestClassify(t *testing.T) {
	p := testPaths(t)
	w := New(p)

	assert.Equal(t, kindTaskGraph, w.classify(filepath.Clean(p.TaskGraph)))
	assert.Equal(t, kindEvents, w.classify(filepath.Clean(p.Events)))
	assert.Equal(t, kindTranscript, w.classify(filepath.Join(p.Transcripts, "agent-a1.jsonl")))

	assert.Equal(t, kindIgnored, w.classify(filepath.Join(p.Transcripts, "agent-a1.txt")))
	assert.Equal(t, kindIgnored, w.classify(filepath.Join(filepath.Dir(p.TaskGraph), "other.json")))
	assert.Equal(t, kindIgnored, w.classify("/somewhere/else.jsonl"))
}

func TestAgentIDFromPath(t *testing.T) {
	assert.Equal(t, "a1", agentIDFromPath("/x/subagents/agent-a1.jsonl"))
	assert.Equal(t, "deep-researcher-2", agentIDFromPath("agent-deep-researcher-2.jsonl"))
	assert.Equal(t, "notes", agentIDFromPath("/x/notes.jsonl"), "non-conforming names use the stem")
	assert.Equal(t, "agent-", agentIDFromPath("agent-.jsonl"), "empty id falls back to the stem")
}

func TestHandleTaskGraphEmitsGraph(t *testing.T) {
	p := testPaths(t)
	w := New(p)
	require.NoError(t, os.WriteFile(p.TaskGraph,
		[]byte(`{"waves": [{"number": 1, "tasks": [{"id": "t1", "description": "x", "status": "pending", "review_status": "pending"}]}]}`), 0644))

	go w.handleTaskGraph(p.TaskGraph)
	events := collectEvents(t, w.Events(), 1)

	update, ok := events[0].(app.TaskGraphUpdated)
	require.True(t, ok)
	assert.Equal(t, 1, update.Graph.TotalTasks)
}

func TestHandleTaskGraphEmitsParseError(t *testing.T) {
	p := testPaths(t)
	w := New(p)
	require.NoError(t, os.WriteFile(p.TaskGraph, []byte("{bad"), 0644))

	go w.handleTaskGraph(p.TaskGraph)
	events := collectEvents(t, w.Events(), 1)

	perr, ok := events[0].(app.ParseError)
	require.True(t, ok)
	assert.Equal(t, p.TaskGraph, perr.Source)
}

func TestHandleTranscriptEmitsMessages(t *testing.T) {
	p := testPaths(t)
	w := New(p)
	path := filepath.Join(p.Transcripts, "agent-a7.jsonl")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"timestamp": "2026-08-01T10:00:00Z", "type": "reasoning", "content": "hi"}`+"\n"), 0644))

	go w.handleTranscript(path)
	events := collectEvents(t, w.Events(), 1)

	update, ok := events[0].(app.TranscriptUpdated)
	require.True(t, ok)
	assert.Equal(t, "a7", update.AgentID)
	require.Len(t, update.Messages, 1)
	assert.Equal(t, "hi", update.Messages[0].Content)
}

func TestHandleEventsTailsNewContentOnly(t *testing.T) {
	p := testPaths(t)
	w := New(p)
	line1 := `{"timestamp": "2026-08-01T10:00:00Z", "event": "session_start"}` + "\n"
	require.NoError(t, os.WriteFile(p.Events, []byte(line1), 0644))

	go w.handleEvents(p.Events)
	events := collectEvents(t, w.Events(), 1)
	first, ok := events[0].(app.HookEventReceived)
	require.True(t, ok)
	assert.Equal(t, model.EventSessionStart, first.Event.Kind)

	// Append one line: only that line is parsed and emitted.
	f, err := os.OpenFile(p.Events, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"timestamp": "2026-08-01T10:00:01Z", "event": "stop"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	go w.handleEvents(p.Events)
	events = collectEvents(t, w.Events(), 1)
	second, ok := events[0].(app.HookEventReceived)
	require.True(t, ok)
	assert.Equal(t, model.EventStop, second.Event.Kind)
}

func TestReplayExistingEmitsStartupState(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.TaskGraph,
		[]byte(`{"waves": [{"number": 1, "tasks": [{"id": "t1", "description": "x", "status": "running", "review_status": "pending"}]}]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(p.Transcripts, "agent-a1.jsonl"),
		[]byte(`{"timestamp": "2026-08-01T10:00:00Z", "type": "reasoning", "content": "warm"}`+"\n"), 0644))
	require.NoError(t, os.WriteFile(p.Events,
		[]byte(`{"timestamp": "2026-08-01T10:00:00Z", "event": "session_start"}`+"\n"), 0644))

	w := New(p)
	go w.replayExisting()
	events := collectEvents(t, w.Events(), 3)

	var sawGraph, sawTranscript, sawHook bool
	for _, ev := range events {
		switch ev.(type) {
		case app.TaskGraphUpdated:
			sawGraph = true
		case app.TranscriptUpdated:
			sawTranscript = true
		case app.HookEventReceived:
			sawHook = true
		}
	}
	assert.True(t, sawGraph)
	assert.True(t, sawTranscript)
	assert.True(t, sawHook)
}

func TestWatcherPicksUpEventAppends(t *testing.T) {
	p := testPaths(t)
	w := New(p, WithDebounce(10*time.Millisecond))
	require.NoError(t, w.Start(nil))
	defer w.Stop()

	require.NoError(t, os.WriteFile(p.Events,
		[]byte(`{"timestamp": "2026-08-01T10:00:00Z", "event": "notification", "message": "hello"}`+"\n"), 0644))

	events := collectEvents(t, w.Events(), 1)
	hook, ok := events[0].(app.HookEventReceived)
	require.True(t, ok)
	assert.Equal(t, model.EventNotification, hook.Event.Kind)
	assert.Equal(t, "hello", hook.Event.Message)
}

func TestStartIsIdempotentAndStopTerminates(t *testing.T) {
	p := testPaths(t)
	w := New(p)
	require.NoError(t, w.Start(nil))
	require.NoError(t, w.Start(nil))
	w.Stop()
	w.Stop()
}
