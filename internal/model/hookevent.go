package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// HookEventKind enumerates the event types emitted by the agent
// instrumentation hooks. Wire values are the snake_case "event" tag.
type HookEventKind string

const (
	EventSessionStart     HookEventKind = "session_start"
	EventSessionEnd       HookEventKind = "session_end"
	EventSubagentStart    HookEventKind = "subagent_start"
	EventSubagentStop     HookEventKind = "subagent_stop"
	EventPreToolUse       HookEventKind = "pre_tool_use"
	EventPostToolUse      HookEventKind = "post_tool_use"
	EventStop             HookEventKind = "stop"
	EventNotification     HookEventKind = "notification"
	EventUserPromptSubmit HookEventKind = "user_prompt_submit"
	EventAssistantText    HookEventKind = "assistant_text"
)

// HookEvent is one instrumentation event. Payload fields are populated per
// kind; Raw retains the original JSON object so downstream consumers can read
// fields this struct does not model.
type HookEvent struct {
	Timestamp time.Time
	Kind      HookEventKind
	SessionID string
	AgentID   string

	// subagent_start
	AgentType       string
	TaskDescription string

	// pre_tool_use / post_tool_use
	ToolName      string
	InputSummary  string
	TaskPrompt    string
	TaskModel     string
	ResultSummary string
	DurationMS    *uint64

	// stop
	Reason string

	// notification
	Message string

	// assistant_text
	Content string

	Raw json.RawMessage
}

// NewHookEvent builds an event with only the fields common to all kinds.
func NewHookEvent(ts time.Time, kind HookEventKind) HookEvent {
	return HookEvent{Timestamp: ts, Kind: kind}
}

// WithSession returns a copy with the session id set.
func (e HookEvent) WithSession(sessionID string) HookEvent {
	e.SessionID = sessionID
	return e
}

// WithAgent returns a copy with the agent id set.
func (e HookEvent) WithAgent(agentID string) HookEvent {
	e.AgentID = agentID
	return e
}

// Duration converts the reported millisecond duration, if any.
func (e HookEvent) Duration() (time.Duration, bool) {
	if e.DurationMS == nil {
		return 0, false
	}
	return time.Duration(*e.DurationMS) * time.Millisecond, true
}

type hookEventWire struct {
	Timestamp       time.Time     `json:"timestamp"`
	Event           HookEventKind `json:"event"`
	SessionID       string        `json:"session_id,omitempty"`
	AgentID         string        `json:"agent_id,omitempty"`
	AgentType       string        `json:"agent_type,omitempty"`
	TaskDescription string        `json:"task_description,omitempty"`
	ToolName        string        `json:"tool_name,omitempty"`
	InputSummary    string        `json:"input_summary,omitempty"`
	TaskPrompt      string        `json:"task_prompt,omitempty"`
	TaskModel       string        `json:"task_model,omitempty"`
	ResultSummary   string        `json:"result_summary,omitempty"`
	DurationMS      *uint64       `json:"duration_ms,omitempty"`
	Reason          string        `json:"reason,omitempty"`
	Message         string        `json:"message,omitempty"`
	Content         string        `json:"content,omitempty"`
}

func (e HookEvent) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, fmt.Errorf("hook event kind is empty")
	}
	return json.Marshal(hookEventWire{
		Timestamp:       e.Timestamp,
		Event:           e.Kind,
		SessionID:       e.SessionID,
		AgentID:         e.AgentID,
		AgentType:       e.AgentType,
		TaskDescription: e.TaskDescription,
		ToolName:        e.ToolName,
		InputSummary:    e.InputSummary,
		TaskPrompt:      e.TaskPrompt,
		TaskModel:       e.TaskModel,
		ResultSummary:   e.ResultSummary,
		DurationMS:      e.DurationMS,
		Reason:          e.Reason,
		Message:         e.Message,
		Content:         e.Content,
	})
}

func (e *HookEvent) UnmarshalJSON(data []byte) error {
	var wire hookEventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Event {
	case EventSessionStart, EventSessionEnd, EventSubagentStart, EventSubagentStop,
		EventPreToolUse, EventPostToolUse, EventStop, EventNotification,
		EventUserPromptSubmit, EventAssistantText:
	default:
		return fmt.Errorf("unknown hook event %q", wire.Event)
	}
	*e = HookEvent{
		Timestamp:       wire.Timestamp,
		Kind:            wire.Event,
		SessionID:       wire.SessionID,
		AgentID:         wire.AgentID,
		AgentType:       wire.AgentType,
		TaskDescription: wire.TaskDescription,
		ToolName:        wire.ToolName,
		InputSummary:    wire.InputSummary,
		TaskPrompt:      wire.TaskPrompt,
		TaskModel:       wire.TaskModel,
		ResultSummary:   wire.ResultSummary,
		DurationMS:      wire.DurationMS,
		Reason:          wire.Reason,
		Message:         wire.Message,
		Content:         wire.Content,
	}
	return nil
}
