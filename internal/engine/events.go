package engine

import (
	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
)

// DaySelected is emitted when SelectDay loads a workout.
type DaySelected struct {
	Day     int
	Workout *catalog.Workout
}

// StatusKind names a workout lifecycle transition.
type StatusKind int

const (
	StatusStart StatusKind = iota
	StatusPause
	StatusReset
	StatusComplete
)

func (k StatusKind) String() string {
	switch k {
	case StatusStart:
		return "workout:start"
	case StatusPause:
		return "workout:pause"
	case StatusReset:
		return "workout:reset"
	case StatusComplete:
		return "workout:complete"
	default:
		return "workout:unknown"
	}
}

// PauseReasonAwaitingAdvance marks the pause taken when an exercise ends
// with auto-advance disabled.
const PauseReasonAwaitingAdvance = "awaiting-advance"

// StatusChange is emitted on start, pause, reset and completion.
type StatusChange struct {
	Kind   StatusKind
	Reason string
	State  State
}

// ExerciseEntered is emitted each time an exercise's countdown is (re)started.
type ExerciseEntered struct {
	Exercise      catalog.Exercise
	Phase         *catalog.Phase
	PhaseIndex    int
	ExerciseIndex int
	// PhaseStarted is true when this exercise opened a phase.
	PhaseStarted bool
}

// ExerciseCompleted is emitted when an exercise's countdown reaches zero.
// Skipping an exercise does not emit it.
type ExerciseCompleted struct {
	Exercise      catalog.Exercise
	PhaseIndex    int
	ExerciseIndex int
}

// Tick is emitted once per second while running.
type Tick struct {
	SecondsRemaining    int
	PhaseElapsedSeconds int
	Progress            progress.Progress
}

// CountdownWarning is emitted for the last five seconds of an exercise.
type CountdownWarning struct {
	SecondsRemaining int
}

// BoundaryDirection says which end of the workout was hit.
type BoundaryDirection string

const (
	BoundaryStart BoundaryDirection = "start"
	BoundaryEnd   BoundaryDirection = "end"
)

// BoundaryReached is emitted when navigation runs off either end.
type BoundaryReached struct {
	Direction BoundaryDirection
}

// notifications collects event dispatches while the engine lock is held so
// they can run after it is released.
type notifications []func()

func (n *notifications) add(f func()) {
	*n = append(*n, f)
}

func (n notifications) dispatch() {
	for _, f := range n {
		f()
	}
}
