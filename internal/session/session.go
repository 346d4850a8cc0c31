// Package session scores bounded interactive sessions: the cognitive
// quiz and the emotional well-being chat. A session accepts turns
// while ACTIVE, then emits a summary on Finish and becomes terminal;
// nothing is persisted beyond the summary returned to the caller.
package session

import (
	"errors"
	"time"
)

// ErrFinished is returned when a turn arrives after Finish. A finished
// session never merges late turns silently.
var ErrFinished = errors.New("session already finished")

type state int

const (
	stateActive state = iota
	stateFinished
)

// Turn is one scored exchange within a session.
type Turn struct {
	Timestamp  time.Time `json:"timestamp"`
	Input      string    `json:"input"`
	Label      string    `json:"label"` // question category or detected emotion
	ScoreDelta int       `json:"score_delta"`
}
