package app

import (
	"fmt"
	"time"

	"agenttop/internal/model"
)

// Apply advances the state by one event. It is total: every event kind is
// handled and no input panics. All mutation of State goes through here.
func Apply(s *State, event Event) {
	switch ev := event.(type) {
	case TaskGraphUpdated:
		s.Domain.TaskGraph = ev.Graph

	case TranscriptUpdated:
		if agent, ok := s.Domain.Agents[ev.AgentID]; ok {
			agent.Messages = ev.Messages
		}

	case HookEventReceived:
		applyHookEvent(s, ev.Event)

	case AgentStarted:
		s.Domain.Agents[ev.AgentID] = model.NewAgent(ev.AgentID, time.Now())

	case AgentStopped:
		if agent, ok := s.Domain.Agents[ev.AgentID]; ok {
			now := time.Now()
			agent.FinishedAt = &now
		}

	case KeyPressed:
		handleKey(s, ev.Key)

	case Tick:
		// Passive. Elapsed-time display is derived at render time.

	case ParseError:
		s.Meta.Errors.Push(fmt.Sprintf("%s: %s", ev.Source, ev.Err))

	case SessionLoaded:
		loadArchive(s, ev.Archive)

	case SessionListRefreshed:
		s.Domain.Sessions = ev.Sessions
	}
}

// resolveAttribution decides which agent a hook event belongs to. Events that
// carry an explicit agent id win; otherwise the event is attributed to the
// sole active agent, or left unattributed when zero or several are active.
func resolveAttribution(s *State, ev model.HookEvent) string {
	if ev.AgentID != "" {
		return ev.AgentID
	}
	var sole string
	for id, agent := range s.Domain.Agents {
		if !agent.IsActive() {
			continue
		}
		if sole != "" {
			return ""
		}
		sole = id
	}
	return sole
}

func applyHookEvent(s *State, ev model.HookEvent) {
	attributed := resolveAttribution(s, ev)

	switch ev.Kind {
	case model.EventSubagentStart:
		if ev.AgentID != "" {
			if agent, ok := s.Domain.Agents[ev.AgentID]; ok {
				// Duplicate start: fill the type if it was unknown, never
				// reset lifecycle fields.
				if agent.AgentType == "" {
					agent.AgentType = startAgentType(ev)
				}
			} else {
				agent := model.NewAgent(ev.AgentID, ev.Timestamp)
				agent.AgentType = startAgentType(ev)
				agent.TaskDescription = ev.TaskDescription
				agent.SessionID = ev.SessionID
				s.Domain.Agents[ev.AgentID] = agent
			}
		}

	case model.EventSubagentStop:
		if ev.AgentID != "" {
			if agent, ok := s.Domain.Agents[ev.AgentID]; ok && agent.FinishedAt == nil {
				ts := ev.Timestamp
				agent.FinishedAt = &ts
			}
		}

	case model.EventPreToolUse:
		if agent, ok := s.Domain.Agents[attributed]; ok {
			agent.Messages = append(agent.Messages,
				model.ToolMessage(ev.Timestamp, model.NewToolCall(ev.ToolName, ev.InputSummary)))
		}

	case model.EventPostToolUse:
		if agent, ok := s.Domain.Agents[attributed]; ok {
			completeToolCall(agent, ev)
		}

	default:
		// Remaining kinds are recorded in the event buffer only.
	}

	enriched := ev
	if enriched.AgentID == "" {
		enriched.AgentID = attributed
	}
	s.Domain.Events.Push(enriched)
}

func startAgentType(ev model.HookEvent) string {
	if ev.AgentType != "" {
		return ev.AgentType
	}
	return ev.TaskDescription
}

// completeToolCall pairs a post_tool_use event with the most recent pending
// call of the same tool, scanning from the end. Pairing is by recency, not
// FIFO: two concurrent calls to the same tool can mis-associate results.
// Unmatched results are dropped.
func completeToolCall(agent *model.Agent, ev model.HookEvent) {
	for i := len(agent.Messages) - 1; i >= 0; i-- {
		msg := &agent.Messages[i]
		if msg.Kind != model.MessageTool {
			continue
		}
		if msg.Tool.ToolName != ev.ToolName || msg.Tool.Success != nil {
			continue
		}
		msg.Tool.ResultSummary = ev.ResultSummary
		success := true
		msg.Tool.Success = &success
		if d, ok := ev.Duration(); ok {
			msg.Tool.Duration = d
		}
		return
	}
}

// loadArchive replaces the live session state with an archived one. The
// event buffer is cleared first, then archive events are replayed in their
// original order so the ring bound still holds.
func loadArchive(s *State, archive *model.SessionArchive) {
	meta := archive.Meta
	s.Domain.ActiveSession = &meta
	s.Domain.TaskGraph = archive.TaskGraph

	agents := make(map[string]*model.Agent, len(archive.Agents))
	for id, agent := range archive.Agents {
		agents[id] = agent
	}
	s.Domain.Agents = agents

	s.Domain.Events.Clear()
	for _, ev := range archive.Events {
		s.Domain.Events.Push(ev)
	}

	// Loading lands the user on the dashboard with fresh scroll positions.
	s.UI.View = ViewDashboard
	s.UI.Scroll.Reset()
}
