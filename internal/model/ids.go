package model

import "fmt"

// Identifier newtypes. Constructors reject empty strings as a hard
// precondition: an empty id indicates a caller bug, not bad input data.

type AgentID string

func NewAgentID(s string) AgentID {
	if s == "" {
		panic("AgentID cannot be empty")
	}
	return AgentID(s)
}

func (id AgentID) String() string { return string(id) }

type SessionID string

func NewSessionID(s string) SessionID {
	if s == "" {
		panic("SessionID cannot be empty")
	}
	return SessionID(s)
}

func (id SessionID) String() string { return string(id) }

type TaskID string

func NewTaskID(s string) TaskID {
	if s == "" {
		panic("TaskID cannot be empty")
	}
	return TaskID(s)
}

func (id TaskID) String() string { return string(id) }

// ShortID returns the first n characters of an identifier for display.
func ShortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return fmt.Sprintf("%s…", id[:n])
}
