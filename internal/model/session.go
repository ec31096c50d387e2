package model

import "time"

// SessionStatus enumerates archived session outcomes.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// SessionMeta is the lightweight description of a monitoring session, kept
// small enough to list without loading full archives.
type SessionMeta struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	DurationMS  *int64        `json:"duration,omitempty"`
	Status      SessionStatus `json:"status"`
	AgentCount  int           `json:"agent_count"`
	TaskCount   int           `json:"task_count"`
	EventCount  int           `json:"event_count"`
	ProjectPath string        `json:"project_path"`
	GitBranch   string        `json:"git_branch,omitempty"`
}

// NewSessionMeta builds an active session meta with zero counters.
func NewSessionMeta(id string, ts time.Time, projectPath string) SessionMeta {
	if id == "" {
		panic("session id cannot be empty")
	}
	return SessionMeta{
		ID:          id,
		Timestamp:   ts,
		Status:      SessionActive,
		ProjectPath: projectPath,
	}
}

// Duration converts the stored millisecond duration, if any.
func (m SessionMeta) Duration() (time.Duration, bool) {
	if m.DurationMS == nil {
		return 0, false
	}
	return time.Duration(*m.DurationMS) * time.Millisecond, true
}

// SetDuration stores a duration as milliseconds.
func (m *SessionMeta) SetDuration(d time.Duration) {
	ms := d.Milliseconds()
	m.DurationMS = &ms
}

// SessionArchive bundles everything needed to restore a finished session:
// its meta, the task graph snapshot, the recorded event stream in arrival
// order, and the agent map.
type SessionArchive struct {
	Meta      SessionMeta       `json:"meta"`
	TaskGraph *TaskGraph        `json:"task_graph,omitempty"`
	Events    []HookEvent       `json:"events,omitempty"`
	Agents    map[string]*Agent `json:"agents,omitempty"`
}

// NewSessionArchive builds an empty archive for the given meta.
func NewSessionArchive(meta SessionMeta) *SessionArchive {
	return &SessionArchive{Meta: meta, Agents: make(map[string]*Agent)}
}
