package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Agent tracks the lifecycle and activity of one subagent. FinishedAt is
// monotonic: once set it is never cleared.
type Agent struct {
	ID              string         `json:"id"`
	TaskID          string         `json:"task_id,omitempty"`
	AgentType       string         `json:"agent_type,omitempty"`
	TaskDescription string         `json:"task_description,omitempty"`
	Model           string         `json:"model,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
	Messages        []AgentMessage `json:"messages,omitempty"`
	SessionID       string         `json:"session_id,omitempty"`
	TokenUsage      TokenUsage     `json:"token_usage,omitempty"`
}

// NewAgent creates an active agent with no messages.
func NewAgent(id string, startedAt time.Time) *Agent {
	if id == "" {
		panic("agent id cannot be empty")
	}
	return &Agent{ID: id, StartedAt: startedAt}
}

// IsActive reports whether the agent has not yet finished.
func (a *Agent) IsActive() bool { return a.FinishedAt == nil }

// DisplayName prefers the agent type over the raw id.
func (a *Agent) DisplayName() string {
	if a.AgentType != "" {
		return a.AgentType
	}
	return a.ID
}

// TokenUsage accumulates API token counters reported for an agent.
type TokenUsage struct {
	InputTokens              uint64 `json:"input_tokens,omitempty"`
	OutputTokens             uint64 `json:"output_tokens,omitempty"`
	CacheCreationInputTokens uint64 `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     uint64 `json:"cache_read_input_tokens,omitempty"`
}

// ContextWindow approximates the context size occupied by the agent's last
// API call: everything the model read, cached or not.
func (u TokenUsage) ContextWindow() uint64 {
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// IsZero reports whether no counters have been recorded.
func (u TokenUsage) IsZero() bool {
	return u == TokenUsage{}
}

// MessageKind discriminates transcript entries.
type MessageKind string

const (
	MessageReasoning MessageKind = "reasoning"
	MessageTool      MessageKind = "tool"
)

// AgentMessage is one transcript entry: either free-form reasoning text or a
// tool call. Content is set for reasoning, Tool for tool calls.
type AgentMessage struct {
	Timestamp time.Time
	Kind      MessageKind
	Content   string
	Tool      ToolCall
}

// ReasoningMessage builds a reasoning transcript entry.
func ReasoningMessage(ts time.Time, content string) AgentMessage {
	return AgentMessage{Timestamp: ts, Kind: MessageReasoning, Content: content}
}

// ToolMessage builds a tool call transcript entry.
func ToolMessage(ts time.Time, call ToolCall) AgentMessage {
	return AgentMessage{Timestamp: ts, Kind: MessageTool, Tool: call}
}

// ToolCall is a single tool invocation. Success and ResultSummary stay unset
// while the call is pending.
type ToolCall struct {
	ToolName      string
	InputSummary  string
	ResultSummary string
	Duration      time.Duration
	Success       *bool
}

// NewToolCall builds a pending tool call.
func NewToolCall(toolName, inputSummary string) ToolCall {
	return ToolCall{ToolName: toolName, InputSummary: inputSummary}
}

// Pending reports whether no result has arrived yet.
func (c ToolCall) Pending() bool { return c.Success == nil }

type agentMessageWire struct {
	Timestamp     time.Time   `json:"timestamp"`
	Type          MessageKind `json:"type"`
	Content       string      `json:"content,omitempty"`
	ToolName      string      `json:"tool_name,omitempty"`
	InputSummary  string      `json:"input_summary,omitempty"`
	ResultSummary *string     `json:"result_summary,omitempty"`
	Duration      *int64      `json:"duration,omitempty"`
	Success       *bool       `json:"success,omitempty"`
}

// MarshalJSON flattens the message variant into a single object tagged by
// "type", with tool call durations expressed in milliseconds.
func (m AgentMessage) MarshalJSON() ([]byte, error) {
	wire := agentMessageWire{Timestamp: m.Timestamp, Type: m.Kind}
	switch m.Kind {
	case MessageReasoning:
		wire.Content = m.Content
	case MessageTool:
		wire.ToolName = m.Tool.ToolName
		wire.InputSummary = m.Tool.InputSummary
		if m.Tool.ResultSummary != "" {
			summary := m.Tool.ResultSummary
			wire.ResultSummary = &summary
		}
		if m.Tool.Duration > 0 {
			ms := m.Tool.Duration.Milliseconds()
			wire.Duration = &ms
		}
		wire.Success = m.Tool.Success
	default:
		return nil, fmt.Errorf("unknown message kind %q", m.Kind)
	}
	return json.Marshal(wire)
}

func (m *AgentMessage) UnmarshalJSON(data []byte) error {
	var wire agentMessageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case MessageReasoning:
		*m = AgentMessage{Timestamp: wire.Timestamp, Kind: MessageReasoning, Content: wire.Content}
	case MessageTool:
		call := ToolCall{
			ToolName:     wire.ToolName,
			InputSummary: wire.InputSummary,
			Success:      wire.Success,
		}
		if wire.ResultSummary != nil {
			call.ResultSummary = *wire.ResultSummary
		}
		if wire.Duration != nil {
			call.Duration = time.Duration(*wire.Duration) * time.Millisecond
		}
		*m = AgentMessage{Timestamp: wire.Timestamp, Kind: MessageTool, Tool: call}
	default:
		return fmt.Errorf("unknown message type %q", wire.Type)
	}
	return nil
}
