package workflow

import (
	"fmt"
	"slices"
	"time"
)

// Kind distinguishes transcription from rendering.
type Kind string

const (
	KindTranscribe Kind = "transcribe"
	KindRender     Kind = "render"
)

// State is a job lifecycle state.
type State string

const (
	StateIdle          State = "idle"
	StateStage1Running State = "stage1_running"
	StateStage2Running State = "stage2_running"
	StateParsingOutput State = "parsing_output"
	StateCleaningUp    State = "cleaning_up"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
	StateCancelled     State = "cancelled"
)

var transitions = map[State][]State{
	StateIdle:          {StateStage1Running, StateFailed},
	StateStage1Running: {StateStage2Running, StateCleaningUp},
	StateStage2Running: {StateParsingOutput, StateCleaningUp},
	StateParsingOutput: {StateCleaningUp},
	StateCleaningUp:    {StateSucceeded, StateFailed, StateCancelled},
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}

// Job is a snapshot of one pipeline run.
type Job struct {
	ID         string
	Kind       Kind
	State      State
	Target     string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Elapsed is the wall time between start and finish, or zero while running.
func (j Job) Elapsed() time.Duration {
	if j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

func (j *Job) transition(next State) error {
	if !j.State.CanTransition(next) {
		return fmt.Errorf("job %s: invalid transition %s -> %s", j.ID, j.State, next)
	}
	j.State = next
	return nil
}
