// Package paths resolves the on-disk locations the dashboard watches and
// writes. Resolution is pure path concatenation; nothing here creates
// directories or checks existence.
package paths

import (
	"os"
	"path/filepath"
)

// Paths holds every resolved file location for one monitored project.
type Paths struct {
	// TaskGraph is the task graph snapshot file.
	// Example: <root>/.claude/state/active_task_graph.json
	TaskGraph string

	// Transcripts is the directory of per-agent transcript files.
	// Example: <root>/.claude/state/subagents
	Transcripts string

	// Events is the shared append-only hook event log. Always under /tmp
	// (not $TMPDIR) so the dashboard and the hook script agree on the path
	// regardless of each process's environment.
	Events string

	// ArchiveDir is where finished sessions are stored.
	// Example: ~/.local/share/agenttop/sessions
	ArchiveDir string
}

// Resolve computes all paths for the given project root.
func Resolve(projectRoot string) Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}
	return Paths{
		TaskGraph:   filepath.Join(projectRoot, ".claude", "state", "active_task_graph.json"),
		Transcripts: filepath.Join(projectRoot, ".claude", "state", "subagents"),
		Events:      filepath.Join("/tmp", "agenttop", "events.jsonl"),
		ArchiveDir:  filepath.Join(home, ".local", "share", "agenttop", "sessions"),
	}
}
