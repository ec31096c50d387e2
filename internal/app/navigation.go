package app

// pageJump is the row count for Ctrl+D / Ctrl+U.
const pageJump = 20

// handleKey is the navigation reducer. Modal precedence is strict: Ctrl+C
// quits first, then the help overlay consumes any key, then filter input,
// then normal navigation. Unrecognized keys leave the state unchanged.
func handleKey(s *State, key Key) {
	// Ctrl+C always quits, regardless of overlays or input mode.
	if key.Ctrl && key.Code == KeyRune && key.Rune == 'c' {
		s.Meta.ShouldQuit = true
		return
	}

	if s.UI.ShowHelp {
		s.UI.ShowHelp = false
		return
	}

	if s.UI.FilterInput {
		handleFilterKey(s, key)
		return
	}

	if key.Ctrl && key.Code == KeyRune {
		switch key.Rune {
		case 'd':
			scrollBy(s, pageJump)
		case 'u':
			scrollBy(s, -pageJump)
		}
		return
	}

	switch key.Code {
	case KeyRune:
		handleRuneKey(s, key.Rune)
	case KeyTab:
		s.UI.Focus = FocusRight
	case KeyDown:
		scrollBy(s, 1)
	case KeyUp:
		scrollBy(s, -1)
	case KeyEnter:
		drillDown(s)
	case KeyEsc:
		goBack(s)
	}
}

func handleRuneKey(s *State, r rune) {
	switch r {
	case 'q':
		s.Meta.ShouldQuit = true
	case '1':
		s.UI.View = ViewDashboard
	case '2':
		openAgentDetail(s, s.SelectedTaskAgent())
	case '3':
		s.UI.View = ViewSessions
		if s.UI.SelectedSession < 0 && len(s.Domain.Sessions) > 0 {
			s.UI.SelectedSession = 0
		}
	case 'l':
		s.UI.Focus = FocusRight
	case 'h':
		s.UI.Focus = FocusLeft
	case 'j':
		scrollBy(s, 1)
	case 'k':
		scrollBy(s, -1)
	case 'g':
		jumpToTop(s)
	case 'G':
		jumpToBottom(s)
	case '/':
		s.UI.FilterActive = true
		s.UI.FilterInput = true
		s.UI.Filter = ""
	case '?':
		s.UI.ShowHelp = !s.UI.ShowHelp
	case ' ':
		s.UI.AutoScroll = !s.UI.AutoScroll
	}
}

// handleFilterKey edits the filter text. Escape drops the filter entirely;
// Enter leaves input mode with the filter still applied.
func handleFilterKey(s *State, key Key) {
	switch key.Code {
	case KeyEsc:
		s.UI.Filter = ""
		s.UI.FilterActive = false
		s.UI.FilterInput = false
	case KeyEnter:
		s.UI.FilterInput = false
	case KeyBackspace:
		if runes := []rune(s.UI.Filter); len(runes) > 0 {
			s.UI.Filter = string(runes[:len(runes)-1])
		}
	case KeyRune:
		if !key.Ctrl {
			s.UI.Filter += string(key.Rune)
		}
	}
}

// activeScrollOffset returns the offset addressed by the current view and
// focus combination.
func activeScrollOffset(s *State) *int {
	switch s.UI.View {
	case ViewDashboard:
		if s.UI.Focus == FocusLeft {
			return &s.UI.Scroll.TaskList
		}
		return &s.UI.Scroll.EventStream
	case ViewAgentDetail:
		if s.UI.Focus == FocusLeft {
			return &s.UI.Scroll.AgentTools
		}
		return &s.UI.Scroll.AgentReasoning
	default:
		return &s.UI.Scroll.Sessions
	}
}

// scrollBy moves the active panel by delta rows, saturating at zero.
// Scrolling the dashboard event stream takes over from auto-scroll.
func scrollBy(s *State, delta int) {
	switch {
	case s.UI.View == ViewDashboard && s.UI.Focus == FocusLeft:
		s.UI.Scroll.TaskList = saturate(s.UI.Scroll.TaskList + delta)
		if count := taskCount(s); count > 0 {
			// First movement lands on the first task.
			if s.UI.SelectedTask < 0 {
				s.UI.SelectedTask = 0
			} else {
				s.UI.SelectedTask = clamp(s.UI.SelectedTask+delta, 0, count-1)
			}
		}
	case s.UI.View == ViewSessions:
		s.UI.Scroll.Sessions = saturate(s.UI.Scroll.Sessions + delta)
		if count := len(s.Domain.Sessions); count > 0 {
			if s.UI.SelectedSession < 0 {
				s.UI.SelectedSession = 0
			} else {
				s.UI.SelectedSession = clamp(s.UI.SelectedSession+delta, 0, count-1)
			}
		}
	default:
		offset := activeScrollOffset(s)
		*offset = saturate(*offset + delta)
	}

	if s.UI.View == ViewDashboard && s.UI.Focus == FocusRight {
		s.UI.AutoScroll = false
	}
}

func jumpToTop(s *State) {
	*activeScrollOffset(s) = 0
	switch {
	case s.UI.View == ViewDashboard && s.UI.Focus == FocusLeft:
		if taskCount(s) > 0 {
			s.UI.SelectedTask = 0
		}
	case s.UI.View == ViewSessions:
		if len(s.Domain.Sessions) > 0 {
			s.UI.SelectedSession = 0
		}
	}
}

func jumpToBottom(s *State) {
	switch {
	case s.UI.View == ViewDashboard && s.UI.Focus == FocusLeft:
		if count := taskCount(s); count > 0 {
			s.UI.SelectedTask = count - 1
			s.UI.Scroll.TaskList = count - 1
		}
	case s.UI.View == ViewSessions:
		if count := len(s.Domain.Sessions); count > 0 {
			s.UI.SelectedSession = count - 1
			s.UI.Scroll.Sessions = count - 1
		}
	default:
		// Render clamps offsets to content height.
		*activeScrollOffset(s) = int(^uint(0) >> 2)
	}
}

// drillDown opens the agent behind the selected task. Other views have no
// drill-down target here; session loading is driven by the program shell.
func drillDown(s *State) {
	if s.UI.View != ViewDashboard {
		return
	}
	openAgentDetail(s, s.SelectedTaskAgent())
}

func openAgentDetail(s *State, agentID string) {
	if agentID == "" {
		return
	}
	s.UI.View = ViewAgentDetail
	s.UI.DetailAgentID = agentID
	s.UI.Scroll.AgentTools = 0
	s.UI.Scroll.AgentReasoning = 0
}

func goBack(s *State) {
	if s.UI.View != ViewDashboard {
		s.UI.View = ViewDashboard
	}
}

func taskCount(s *State) int {
	if s.Domain.TaskGraph == nil {
		return 0
	}
	return s.Domain.TaskGraph.TotalTasks
}

func saturate(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
