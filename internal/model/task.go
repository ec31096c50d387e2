package model

import (
	"encoding/json"
	"fmt"
)

// TaskStatusKind enumerates the lifecycle states of a task.
type TaskStatusKind string

const (
	TaskPending     TaskStatusKind = "pending"
	TaskRunning     TaskStatusKind = "running"
	TaskImplemented TaskStatusKind = "implemented"
	TaskCompleted   TaskStatusKind = "completed"
	TaskFailed      TaskStatusKind = "failed"
)

// TaskStatus is a tagged status value. Reason and RetryCount are only
// meaningful when Kind == TaskFailed.
type TaskStatus struct {
	Kind       TaskStatusKind
	Reason     string
	RetryCount int
}

func StatusPending() TaskStatus     { return TaskStatus{Kind: TaskPending} }
func StatusRunning() TaskStatus     { return TaskStatus{Kind: TaskRunning} }
func StatusImplemented() TaskStatus { return TaskStatus{Kind: TaskImplemented} }
func StatusCompleted() TaskStatus   { return TaskStatus{Kind: TaskCompleted} }

func StatusFailed(reason string, retryCount int) TaskStatus {
	return TaskStatus{Kind: TaskFailed, Reason: reason, RetryCount: retryCount}
}

type failedPayload struct {
	Reason     string `json:"reason"`
	RetryCount int    `json:"retry_count"`
}

// MarshalJSON emits unit states as bare strings and the failed state as
// {"failed": {"reason": ..., "retry_count": ...}}.
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	if s.Kind == "" {
		return json.Marshal(TaskPending)
	}
	if s.Kind != TaskFailed {
		return json.Marshal(string(s.Kind))
	}
	return json.Marshal(map[string]failedPayload{
		"failed": {Reason: s.Reason, RetryCount: s.RetryCount},
	})
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		switch TaskStatusKind(plain) {
		case TaskPending, TaskRunning, TaskImplemented, TaskCompleted, TaskFailed:
			*s = TaskStatus{Kind: TaskStatusKind(plain)}
			return nil
		default:
			return fmt.Errorf("unknown task status %q", plain)
		}
	}
	var tagged map[string]failedPayload
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("task status: %w", err)
	}
	payload, ok := tagged["failed"]
	if !ok {
		return fmt.Errorf("task status: expected failed payload, got %s", data)
	}
	*s = TaskStatus{Kind: TaskFailed, Reason: payload.Reason, RetryCount: payload.RetryCount}
	return nil
}

// ReviewStatusKind enumerates review outcomes for a task.
type ReviewStatusKind string

const (
	ReviewPending ReviewStatusKind = "pending"
	ReviewPassed  ReviewStatusKind = "passed"
	ReviewBlocked ReviewStatusKind = "blocked"
)

// ReviewStatus carries blocking findings when Kind == ReviewBlocked.
type ReviewStatus struct {
	Kind     ReviewStatusKind
	Critical []string
	Advisory []string
}

func ReviewStatusPending() ReviewStatus { return ReviewStatus{Kind: ReviewPending} }
func ReviewStatusPassed() ReviewStatus  { return ReviewStatus{Kind: ReviewPassed} }

func ReviewStatusBlocked(critical, advisory []string) ReviewStatus {
	return ReviewStatus{Kind: ReviewBlocked, Critical: critical, Advisory: advisory}
}

type blockedPayload struct {
	Critical []string `json:"critical"`
	Advisory []string `json:"advisory"`
}

func (r ReviewStatus) MarshalJSON() ([]byte, error) {
	if r.Kind == "" {
		return json.Marshal(ReviewPending)
	}
	if r.Kind != ReviewBlocked {
		return json.Marshal(string(r.Kind))
	}
	return json.Marshal(map[string]blockedPayload{
		"blocked": {Critical: r.Critical, Advisory: r.Advisory},
	})
}

func (r *ReviewStatus) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		switch ReviewStatusKind(plain) {
		case ReviewPending, ReviewPassed, ReviewBlocked:
			*r = ReviewStatus{Kind: ReviewStatusKind(plain)}
			return nil
		default:
			return fmt.Errorf("unknown review status %q", plain)
		}
	}
	var tagged map[string]blockedPayload
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("review status: %w", err)
	}
	payload, ok := tagged["blocked"]
	if !ok {
		return fmt.Errorf("review status: expected blocked payload, got %s", data)
	}
	*r = ReviewStatus{Kind: ReviewBlocked, Critical: payload.Critical, Advisory: payload.Advisory}
	return nil
}

// Task is a single unit of planned work. Tasks are immutable once parsed;
// the whole graph is replaced on every task graph file update.
type Task struct {
	ID            string       `json:"id"`
	Description   string       `json:"description"`
	AgentID       string       `json:"agent_id,omitempty"`
	Status        TaskStatus   `json:"status"`
	ReviewStatus  ReviewStatus `json:"review_status"`
	FilesModified []string     `json:"files_modified,omitempty"`
	TestsPassed   *bool        `json:"tests_passed,omitempty"`
}

// Wave is an ordered batch of tasks intended to execute together.
type Wave struct {
	Number int    `json:"number"`
	Tasks  []Task `json:"tasks"`
}

// TaskGraph is an ordered sequence of waves. Totals are computed once at
// construction; build graphs through NewTaskGraph to keep them consistent.
type TaskGraph struct {
	Waves          []Wave `json:"waves"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
}

// NewTaskGraph builds a graph from waves and derives the task totals.
func NewTaskGraph(waves []Wave) *TaskGraph {
	g := &TaskGraph{Waves: waves}
	for _, wave := range waves {
		g.TotalTasks += len(wave.Tasks)
		for _, task := range wave.Tasks {
			if task.Status.Kind == TaskCompleted {
				g.CompletedTasks++
			}
		}
	}
	return g
}

// EmptyTaskGraph returns a graph with no waves.
func EmptyTaskGraph() *TaskGraph {
	return &TaskGraph{}
}

// FlatTasks returns all tasks in wave order.
func (g *TaskGraph) FlatTasks() []Task {
	tasks := make([]Task, 0, g.TotalTasks)
	for _, wave := range g.Waves {
		tasks = append(tasks, wave.Tasks...)
	}
	return tasks
}

// TaskAt returns the task at the given flat index across all waves.
func (g *TaskGraph) TaskAt(index int) (Task, bool) {
	if index < 0 {
		return Task{}, false
	}
	for _, wave := range g.Waves {
		if index < len(wave.Tasks) {
			return wave.Tasks[index], true
		}
		index -= len(wave.Tasks)
	}
	return Task{}, false
}

// CurrentWave returns the number of the first wave containing a task that is
// not yet completed, the last wave when everything is done, or zero for an
// empty graph.
func (g *TaskGraph) CurrentWave() int {
	if len(g.Waves) == 0 {
		return 0
	}
	for _, wave := range g.Waves {
		for _, task := range wave.Tasks {
			if task.Status.Kind != TaskCompleted {
				return wave.Number
			}
		}
	}
	return g.Waves[len(g.Waves)-1].Number
}
