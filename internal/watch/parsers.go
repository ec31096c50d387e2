package watch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"agenttop/internal/model"
)

// ParseErrorKind classifies structured parse failures.
type ParseErrorKind string

const (
	ParseErrorJSON          ParseErrorKind = "json"
	ParseErrorInvalidFormat ParseErrorKind = "invalid format"
)

// ParseError is a recoverable parse failure. Line is 1-based and zero when
// the failure is not tied to a specific line.
type ParseError struct {
	Kind ParseErrorKind
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func jsonError(line int, msg string) *ParseError {
	return &ParseError{Kind: ParseErrorJSON, Line: line, Msg: msg}
}

// nativeGraphDoc is the waves-first task graph schema.
type nativeGraphDoc struct {
	Waves []model.Wave `json:"waves"`
}

// flatGraphDoc is the alternate schema: a flat task list where each task
// carries its own wave number.
type flatGraphDoc struct {
	Tasks []flatTask `json:"tasks"`
}

type flatTask struct {
	ID            string             `json:"id"`
	Description   string             `json:"description"`
	Agent         string             `json:"agent,omitempty"`
	Wave          *int               `json:"wave,omitempty"`
	Status        model.TaskStatus   `json:"status,omitempty"`
	ReviewStatus  model.ReviewStatus `json:"review_status,omitempty"`
	FilesModified []string           `json:"files_modified,omitempty"`
	TestsPassed   *bool              `json:"tests_passed,omitempty"`
}

// ParseTaskGraph parses a task graph snapshot. The native waves schema is
// tried first, then the flat tasks schema; it fails only when both do.
// Totals are always recomputed from the waves, never trusted from the file.
func ParseTaskGraph(content []byte) (*model.TaskGraph, error) {
	var native nativeGraphDoc
	if err := json.Unmarshal(content, &native); err == nil && native.Waves != nil {
		return model.NewTaskGraph(native.Waves), nil
	}

	var flat flatGraphDoc
	if err := json.Unmarshal(content, &flat); err != nil || flat.Tasks == nil {
		msg := "document matches neither waves nor tasks schema"
		if err != nil {
			msg = err.Error()
		}
		return nil, jsonError(0, msg)
	}

	byWave := make(map[int][]model.Task)
	for _, ft := range flat.Tasks {
		wave := 1
		if ft.Wave != nil {
			wave = *ft.Wave
		}
		status := ft.Status
		if status.Kind == "" {
			status = model.StatusPending()
		}
		review := ft.ReviewStatus
		if review.Kind == "" {
			review = model.ReviewStatusPending()
		}
		byWave[wave] = append(byWave[wave], model.Task{
			ID:            ft.ID,
			Description:   ft.Description,
			AgentID:       ft.Agent,
			Status:        status,
			ReviewStatus:  review,
			FilesModified: ft.FilesModified,
			TestsPassed:   ft.TestsPassed,
		})
	}

	numbers := make([]int, 0, len(byWave))
	for n := range byWave {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	waves := make([]model.Wave, 0, len(numbers))
	for _, n := range numbers {
		waves = append(waves, model.Wave{Number: n, Tasks: byWave[n]})
	}
	return model.NewTaskGraph(waves), nil
}

// ParseTranscript parses newline-delimited JSON transcript content. Empty
// lines are skipped; any malformed line fails the whole parse with its
// 1-based line number.
func ParseTranscript(content string) ([]model.AgentMessage, error) {
	var messages []model.AgentMessage
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var msg model.AgentMessage
		if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
			return nil, jsonError(i+1, err.Error())
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// ParseHookEvents parses newline-delimited JSON hook events, retaining each
// line's raw JSON on the event for fields the model does not cover. Empty
// lines are skipped; malformed lines fail with their 1-based line number.
func ParseHookEvents(content string) ([]model.HookEvent, error) {
	var events []model.HookEvent
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var ev model.HookEvent
		if err := json.Unmarshal([]byte(trimmed), &ev); err != nil {
			return nil, jsonError(i+1, err.Error())
		}
		ev.Raw = json.RawMessage(trimmed)
		events = append(events, ev)
	}
	return events, nil
}

// Truncate shortens s to at most maxChars characters, appending an ellipsis
// when content was cut. Counts characters, not bytes, so multibyte input
// never splits mid-rune.
func Truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}
