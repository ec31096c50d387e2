package app

import (
	"sort"
	"time"

	"agenttop/internal/model"
)

// Ring buffer capacities. Burst input beyond these bounds evicts the oldest
// entries; memory use stays fixed regardless of session length.
const (
	EventBufferCap = 10_000
	ErrorBufferCap = 100
)

// View identifies the active screen.
type View int

const (
	ViewDashboard View = iota
	ViewAgentDetail
	ViewSessions
)

// Focus identifies which panel of a two-panel layout receives scroll keys.
type Focus int

const (
	FocusLeft Focus = iota
	FocusRight
)

// HookStatus describes whether the event-forwarding hook is installed in the
// monitored project.
type HookStatus int

const (
	HookUnknown HookStatus = iota
	HookInstalled
	HookMissing
	HookInstallFailed
)

// ScrollState holds the scroll offset of every scrollable panel. Offsets
// saturate at zero and never go negative.
type ScrollState struct {
	TaskList       int
	EventStream    int
	AgentTools     int
	AgentReasoning int
	Sessions       int
}

// Reset zeroes all offsets.
func (s *ScrollState) Reset() {
	*s = ScrollState{}
}

// UIState is the presentation-side state: view, focus, scrolling, filter,
// overlays and selections.
type UIState struct {
	View View

	// DetailAgentID is the agent shown in the agent detail view.
	DetailAgentID string

	Focus    Focus
	ShowHelp bool

	// FilterActive means a filter string is applied to the event stream.
	// FilterInput means keys currently edit it; Enter keeps the filter
	// applied but leaves input mode.
	FilterActive bool
	FilterInput  bool
	Filter       string

	AutoScroll bool
	Scroll     ScrollState

	// Selected indices; -1 means nothing selected.
	SelectedTask    int
	SelectedSession int
}

// DomainState is the data-side state derived from watched files.
type DomainState struct {
	TaskGraph     *model.TaskGraph
	Agents        map[string]*model.Agent
	Events        *Ring[model.HookEvent]
	Sessions      []model.SessionMeta
	ActiveSession *model.SessionMeta
}

// Meta is application lifecycle state.
type Meta struct {
	HookStatus  HookStatus
	HookError   string
	Errors      *Ring[string]
	StartedAt   time.Time
	ProjectPath string
	ShouldQuit  bool
}

// State is the aggregate application state. It is created once at startup
// and mutated only by Apply, one event at a time.
type State struct {
	UI     UIState
	Domain DomainState
	Meta   Meta
}

// NewState creates the startup state: dashboard view, left focus, auto-scroll
// on, empty buffers.
func NewState() *State {
	return &State{
		UI: UIState{
			View:            ViewDashboard,
			Focus:           FocusLeft,
			AutoScroll:      true,
			SelectedTask:    -1,
			SelectedSession: -1,
		},
		Domain: DomainState{
			Agents: make(map[string]*model.Agent),
			Events: NewRing[model.HookEvent](EventBufferCap),
		},
		Meta: Meta{
			HookStatus: HookUnknown,
			Errors:     NewRing[string](ErrorBufferCap),
			StartedAt:  time.Now(),
		},
	}
}

// SortedAgentIDs returns agent ids ordered by id, so display order is
// deterministic across renders.
func (s *State) SortedAgentIDs() []string {
	ids := make([]string, 0, len(s.Domain.Agents))
	for id := range s.Domain.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectedTaskAgent resolves the currently selected task to its assigned
// agent id, or "" when no task is selected or the task has no agent.
func (s *State) SelectedTaskAgent() string {
	if s.UI.SelectedTask < 0 || s.Domain.TaskGraph == nil {
		return ""
	}
	task, ok := s.Domain.TaskGraph.TaskAt(s.UI.SelectedTask)
	if !ok {
		return ""
	}
	return task.AgentID
}

// ActiveAgentCount returns how many agents have not finished.
func (s *State) ActiveAgentCount() int {
	n := 0
	for _, agent := range s.Domain.Agents {
		if agent.IsActive() {
			n++
		}
	}
	return n
}
