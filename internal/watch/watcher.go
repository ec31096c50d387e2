package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"agenttop/internal/app"
	"agenttop/internal/async"
	"agenttop/internal/logging"
	"agenttop/internal/paths"
)

const (
	defaultDebounce   = 200 * time.Millisecond
	defaultBufferSize = 4096
)

// pathKind classifies a changed path into the file roles the dashboard
// understands.
type pathKind int

const (
	kindIgnored pathKind = iota
	kindTaskGraph
	kindTranscript
	kindEvents
)

// Watcher turns filesystem changes under the resolved project paths into
// typed reducer events. It owns a background goroutine and communicates
// exclusively through its event channel; watch errors are reported as
// non-fatal events and never stop the watcher.
type Watcher struct {
	paths    paths.Paths
	tail     *Tail
	logger   logging.Logger
	debounce time.Duration
	events   chan app.Event

	mu       sync.Mutex
	timers   map[string]*time.Timer
	fs       *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
}

// Option customizes watcher behavior.
type Option func(*Watcher)

// WithDebounce sets the coalescing window for change notifications.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.OrNop(logger)
	}
}

// WithBufferSize sets the event channel capacity.
func WithBufferSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.events = make(chan app.Event, n)
		}
	}
}

// New constructs a watcher for the resolved project paths.
func New(p paths.Paths, opts ...Option) *Watcher {
	w := &Watcher{
		paths:    p,
		tail:     NewTail(),
		logger:   logging.Nop(),
		debounce: defaultDebounce,
		events:   make(chan app.Event, defaultBufferSize),
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the channel the watcher emits reducer events on.
func (w *Watcher) Events() <-chan app.Event {
	return w.events
}

// Start establishes the OS watches, replays existing file content so the
// dashboard is never empty at launch, and begins the watch loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.fs != nil {
		w.mu.Unlock()
		return nil
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.fs = fs
	w.mu.Unlock()

	// Watch the events file's parent directory so the file is picked up the
	// moment it is created.
	eventsDir := filepath.Dir(w.paths.Events)
	if err := os.MkdirAll(eventsDir, 0755); err != nil {
		w.teardown(fs)
		return fmt.Errorf("create events dir: %w", err)
	}
	if err := fs.Add(eventsDir); err != nil {
		w.teardown(fs)
		return fmt.Errorf("watch %s: %w", eventsDir, err)
	}
	w.addIfExists(filepath.Dir(w.paths.TaskGraph))
	w.addIfExists(w.paths.Transcripts)

	w.replayExisting()

	async.Go(w.logger, "watch.loop", w.watchLoop)
	if ctx != nil {
		async.Go(w.logger, "watch.ctx", func() {
			<-ctx.Done()
			w.Stop()
		})
	}
	return nil
}

func (w *Watcher) teardown(fs *fsnotify.Watcher) {
	_ = fs.Close()
	w.mu.Lock()
	w.fs = nil
	w.mu.Unlock()
}

// addIfExists registers a watch on path when it exists. Missing directories
// are logged, not fatal: data may appear later through other watches.
func (w *Watcher) addIfExists(path string) {
	if _, err := os.Stat(path); err != nil {
		w.logger.Warn("Watch path missing: %s", path)
		return
	}
	if err := w.fs.Add(path); err != nil {
		w.emit(app.ParseError{Source: "file_watcher", Err: err.Error()})
	}
}

// Stop terminates the watcher and closes the event channel.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		for _, timer := range w.timers {
			timer.Stop()
		}
		w.timers = make(map[string]*time.Timer)
		if w.fs != nil {
			_ = w.fs.Close()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.emit(app.ParseError{Source: "file_watcher", Err: err.Error()})
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if event.Name == "" {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	path := filepath.Clean(event.Name)
	if w.classify(path) == kindIgnored {
		return
	}
	w.schedule(path)
}

// schedule coalesces rapid notifications for one path into a single handler
// call after the debounce window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopCh:
			return
		default:
		}
		w.handlePath(path)
	})
}

// classify maps a changed path to its role. Transcript files must live under
// the transcript directory and carry the .jsonl extension.
func (w *Watcher) classify(path string) pathKind {
	switch {
	case path == filepath.Clean(w.paths.TaskGraph):
		return kindTaskGraph
	case path == filepath.Clean(w.paths.Events):
		return kindEvents
	case strings.HasPrefix(path, filepath.Clean(w.paths.Transcripts)+string(filepath.Separator)) &&
		filepath.Ext(path) == ".jsonl":
		return kindTranscript
	default:
		return kindIgnored
	}
}

func (w *Watcher) handlePath(path string) {
	switch w.classify(path) {
	case kindTaskGraph:
		w.handleTaskGraph(path)
	case kindTranscript:
		w.handleTranscript(path)
	case kindEvents:
		w.handleEvents(path)
	}
}

// handleTaskGraph re-reads and re-parses the whole snapshot file.
func (w *Watcher) handleTaskGraph(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		w.emit(app.ParseError{Source: path, Err: err.Error()})
		return
	}
	graph, err := ParseTaskGraph(content)
	if err != nil {
		w.emit(app.ParseError{Source: path, Err: err.Error()})
		return
	}
	w.emit(app.TaskGraphUpdated{Graph: graph})
}

// handleTranscript re-reads the whole per-agent transcript. Transcripts are
// append-mostly but cheap enough to re-parse entirely.
func (w *Watcher) handleTranscript(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		w.emit(app.ParseError{Source: path, Err: err.Error()})
		return
	}
	messages, err := ParseTranscript(string(content))
	if err != nil {
		w.emit(app.ParseError{Source: path, Err: err.Error()})
		return
	}
	w.emit(app.TranscriptUpdated{AgentID: agentIDFromPath(path), Messages: messages})
}

// handleEvents tails the shared event log and parses only the new bytes, so
// previously seen events are never re-emitted.
func (w *Watcher) handleEvents(path string) {
	content, err := w.tail.ReadNew(path)
	if err != nil {
		w.emit(app.ParseError{Source: path, Err: err.Error()})
		return
	}
	if content == "" {
		return
	}
	events, err := ParseHookEvents(content)
	if err != nil {
		w.emit(app.ParseError{Source: path, Err: err.Error()})
		return
	}
	for _, ev := range events {
		w.emit(app.HookEventReceived{Event: ev})
	}
}

// replayExisting performs one eager read of every watched file that already
// exists so the dashboard starts with current state.
func (w *Watcher) replayExisting() {
	if _, err := os.Stat(w.paths.TaskGraph); err == nil {
		w.handleTaskGraph(filepath.Clean(w.paths.TaskGraph))
	}
	if entries, err := os.ReadDir(w.paths.Transcripts); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
				continue
			}
			w.handleTranscript(filepath.Join(w.paths.Transcripts, entry.Name()))
		}
	}
	if _, err := os.Stat(w.paths.Events); err == nil {
		w.handleEvents(filepath.Clean(w.paths.Events))
	}
}

func (w *Watcher) emit(ev app.Event) {
	select {
	case w.events <- ev:
	case <-w.stopCh:
	}
}

// agentIDFromPath extracts the agent id from a transcript filename following
// the agent-<id>.jsonl convention. Non-conforming names fall back to the
// bare file stem.
func agentIDFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if id, ok := strings.CutPrefix(stem, "agent-"); ok && id != "" {
		return id
	}
	return stem
}
