package tui

import "github.com/jasonKoogler/zcommit/internal/commit"

// fieldMsg carries the new contents of the commit message field
type fieldMsg string

// stateMsg reports a generation state change
type stateMsg commit.State

type level int

const (
	levelInfo level = iota
	levelWarning
	levelError
)

// noticeMsg is a user notification raised by the service
type noticeMsg struct {
	level level
	text  string
}

// doneMsg ends the program with the generation result
type doneMsg commit.Result
