package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"agenttop/internal/app"
	"agenttop/internal/hookinstall"
	"agenttop/internal/logging"
	"agenttop/internal/model"
	"agenttop/internal/paths"
	"agenttop/internal/sessionstore"
	"agenttop/internal/view"
	"agenttop/internal/watch"
)

type watchEventMsg struct {
	event app.Event
}

type tickMsg time.Time

// dashboardModel is the bubbletea shell around the pure reducer: it owns IO
// (watcher channel, ticker, terminal size) and forwards everything through
// app.Apply.
type dashboardModel struct {
	state   *app.State
	watcher *watch.Watcher
	store   *sessionstore.Store
	spinner spinner.Model
	logger  logging.Logger
	tick    time.Duration

	width  int
	height int
}

func runDashboard(root string) error {
	logger := logging.NewComponentLogger("Dashboard")
	p := paths.Resolve(root)

	debounce := viper.GetDuration("debounce")
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	tick := viper.GetDuration("tick")
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}

	state := app.NewState()
	state.Meta.ProjectPath = root
	state.Meta.HookStatus = hookinstall.Detect(root)

	store := sessionstore.New(p.ArchiveDir)
	if sessions, err := store.List(); err != nil {
		logger.Warn("list sessions: %v", err)
	} else {
		app.Apply(state, app.SessionListRefreshed{Sessions: sessions})
	}

	watcher := watch.New(p, watch.WithDebounce(debounce), watch.WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := dashboardModel{
		state:   state,
		watcher: watcher,
		store:   store,
		spinner: sp,
		logger:  logger,
		tick:    tick,
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	if fm, ok := final.(dashboardModel); ok {
		fm.archiveSession()
	}
	return nil
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen(), m.tickCmd())
}

// listen delivers the next watcher event as a message. The command re-arms
// itself from Update.
func (m dashboardModel) listen() tea.Cmd {
	ch := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return watchEventMsg{event: ev}
	}
}

func (m dashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case watchEventMsg:
		app.Apply(m.state, msg.event)
		return m, m.listen()

	case tickMsg:
		app.Apply(m.state, app.Tick{})
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key, ok := translateKey(msg)
	if !ok {
		return m, nil
	}

	// Enter on a selected archived session loads it; everything else goes
	// straight to the reducer. Help and filter input keep their precedence.
	if key.Code == app.KeyEnter && m.state.UI.View == app.ViewSessions &&
		!m.state.UI.ShowHelp && !m.state.UI.FilterInput {
		return m, m.loadSelectedSession()
	}

	app.Apply(m.state, app.KeyPressed{Key: key})
	if m.state.Meta.ShouldQuit {
		return m, tea.Quit
	}
	return m, nil
}

func (m dashboardModel) loadSelectedSession() tea.Cmd {
	idx := m.state.UI.SelectedSession
	if idx < 0 || idx >= len(m.state.Domain.Sessions) {
		return nil
	}
	id := m.state.Domain.Sessions[idx].ID
	archive, err := m.store.Load(id)
	if err != nil {
		app.Apply(m.state, app.ParseError{Source: "session_store", Err: err.Error()})
		return nil
	}
	app.Apply(m.state, app.SessionLoaded{Archive: archive})
	return nil
}

func translateKey(msg tea.KeyMsg) (app.Key, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return app.Key{Code: app.KeyEnter}, true
	case tea.KeyEsc:
		return app.Key{Code: app.KeyEsc}, true
	case tea.KeyTab:
		return app.Key{Code: app.KeyTab}, true
	case tea.KeyBackspace:
		return app.Key{Code: app.KeyBackspace}, true
	case tea.KeyUp:
		return app.Key{Code: app.KeyUp}, true
	case tea.KeyDown:
		return app.Key{Code: app.KeyDown}, true
	case tea.KeyLeft:
		return app.Key{Code: app.KeyLeft}, true
	case tea.KeyRight:
		return app.Key{Code: app.KeyRight}, true
	case tea.KeySpace:
		return app.RuneKey(' '), true
	case tea.KeyCtrlC:
		return app.CtrlKey('c'), true
	case tea.KeyCtrlD:
		return app.CtrlKey('d'), true
	case tea.KeyCtrlU:
		return app.CtrlKey('u'), true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return app.RuneKey(msg.Runes[0]), true
		}
	}
	return app.Key{}, false
}

func (m dashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting..."
	}
	return view.Render(m.state, m.width, m.height, m.spinner.View())
}

// archiveSession persists the live session on exit. Loaded historical
// sessions are not re-archived.
func (m dashboardModel) archiveSession() {
	s := m.state
	if s.Domain.ActiveSession != nil {
		return
	}
	if s.Domain.Events.Len() == 0 && len(s.Domain.Agents) == 0 {
		return
	}

	id := fmt.Sprintf("session-%s", s.Meta.StartedAt.Format("20060102-150405"))
	meta := model.NewSessionMeta(id, s.Meta.StartedAt, s.Meta.ProjectPath)
	meta.Status = model.SessionCompleted
	meta.SetDuration(time.Since(s.Meta.StartedAt))
	meta.AgentCount = len(s.Domain.Agents)
	meta.EventCount = s.Domain.Events.Len()
	if s.Domain.TaskGraph != nil {
		meta.TaskCount = s.Domain.TaskGraph.TotalTasks
	}
	meta.GitBranch = gitBranch(s.Meta.ProjectPath)

	archive := model.NewSessionArchive(meta)
	archive.TaskGraph = s.Domain.TaskGraph
	archive.Events = s.Domain.Events.Items()
	archive.Agents = s.Domain.Agents

	if err := m.store.Save(archive); err != nil {
		m.logger.Error("archive session: %v", err)
	}
}

func gitBranch(root string) string {
	out, err := exec.Command("git", "-C", root, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
