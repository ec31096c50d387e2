package app

import "agenttop/internal/model"

// Event is the closed set of inputs the reducer accepts. Every state change
// in the application is expressed as applying one Event to the previous
// state; there is no other mutation path.
type Event interface {
	isEvent()
}

// TaskGraphUpdated replaces the task graph wholesale.
type TaskGraphUpdated struct {
	Graph *model.TaskGraph
}

// TranscriptUpdated replaces a known agent's message list wholesale. Unknown
// agent ids are ignored: a transcript update never creates an agent.
type TranscriptUpdated struct {
	AgentID  string
	Messages []model.AgentMessage
}

// HookEventReceived delivers one instrumentation event from the event log.
type HookEventReceived struct {
	Event model.HookEvent
}

// AgentStarted creates an agent directly, bypassing hook event heuristics.
type AgentStarted struct {
	AgentID string
}

// AgentStopped marks an agent finished directly. Unknown ids are ignored.
type AgentStopped struct {
	AgentID string
}

// KeyPressed delivers one keyboard input to the navigation reducer.
type KeyPressed struct {
	Key Key
}

// Tick is the periodic timer event. It carries no state change; time-derived
// display values are computed at render time.
type Tick struct{}

// ParseError records a non-fatal I/O or parse failure for display.
type ParseError struct {
	Source string
	Err    string
}

// SessionLoaded restores state wholesale from an archived session.
type SessionLoaded struct {
	Archive *model.SessionArchive
}

// SessionListRefreshed replaces the session summary list.
type SessionListRefreshed struct {
	Sessions []model.SessionMeta
}

func (TaskGraphUpdated) isEvent()     {}
func (TranscriptUpdated) isEvent()    {}
func (HookEventReceived) isEvent()    {}
func (AgentStarted) isEvent()         {}
func (AgentStopped) isEvent()         {}
func (KeyPressed) isEvent()           {}
func (Tick) isEvent()                 {}
func (ParseError) isEvent()           {}
func (SessionLoaded) isEvent()        {}
func (SessionListRefreshed) isEvent() {}
