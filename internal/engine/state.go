package engine

import (
	"time"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
)

// RunState is the lifecycle state of the engine.
type RunState int

const (
	RunStateIdle      RunState = iota // Day selected (or none), not started
	RunStateRunning                   // Countdown active
	RunStatePaused                    // Countdown held
	RunStateCompleted                 // Every phase played through
)

func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateRunning:
		return "running"
	case RunStatePaused:
		return "paused"
	case RunStateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the engine. Workout points into the catalog and
// must not be modified.
type State struct {
	SelectedDay         int // 0 when no day is selected
	Workout             *catalog.Workout
	RunState            RunState
	PhaseIndex          int
	ExerciseIndex       int
	SecondsRemaining    int
	PhaseStartTimestamp time.Time
	PhaseElapsedSeconds int
	// AwaitingAdvance is set when an exercise ran out with auto-advance
	// disabled. The next Start moves on to the following exercise.
	AwaitingAdvance bool
	// SessionID identifies one run of a workout from a fresh start.
	SessionID string
}

// Position returns the subset of the state used by the progress package.
func (s State) Position() progress.Position {
	return progress.Position{
		Workout:             s.Workout,
		PhaseIndex:          s.PhaseIndex,
		ExerciseIndex:       s.ExerciseIndex,
		SecondsRemaining:    s.SecondsRemaining,
		PhaseElapsedSeconds: s.PhaseElapsedSeconds,
	}
}

// CurrentPhase returns the phase at PhaseIndex, or nil.
func (s State) CurrentPhase() *catalog.Phase {
	if s.Workout == nil || s.PhaseIndex < 0 || s.PhaseIndex >= len(s.Workout.Phases) {
		return nil
	}
	return &s.Workout.Phases[s.PhaseIndex]
}

// CurrentExercise returns the exercise at the current position, or nil.
func (s State) CurrentExercise() *catalog.Exercise {
	p := s.CurrentPhase()
	if p == nil || s.ExerciseIndex < 0 || s.ExerciseIndex >= len(p.Exercises) {
		return nil
	}
	return &p.Exercises[s.ExerciseIndex]
}

// NextExercise returns the exercise that follows the current one, crossing
// into the next phase when needed, or nil at the end of the workout.
func (s State) NextExercise() *catalog.Exercise {
	p := s.CurrentPhase()
	if p == nil {
		return nil
	}
	if s.ExerciseIndex+1 < len(p.Exercises) {
		return &p.Exercises[s.ExerciseIndex+1]
	}
	if s.PhaseIndex+1 < len(s.Workout.Phases) {
		return &s.Workout.Phases[s.PhaseIndex+1].Exercises[0]
	}
	return nil
}
