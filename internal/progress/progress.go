// Package progress derives display metrics from a position inside a workout.
// Everything here is a pure function of its input.
package progress

import (
	"fmt"
	"math"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
)

// Position is the part of the engine state the calculations need.
type Position struct {
	Workout             *catalog.Workout
	PhaseIndex          int
	ExerciseIndex       int
	SecondsRemaining    int
	PhaseElapsedSeconds int
}

// Progress bundles every derived metric for one position.
type Progress struct {
	ExercisePercent         float64
	PhasePercent            float64
	WorkoutPercent          float64
	Round                   int
	TotalRounds             int
	WorkoutRemainingSeconds int
}

func (p Position) phase() *catalog.Phase {
	if p.Workout == nil || p.PhaseIndex < 0 || p.PhaseIndex >= len(p.Workout.Phases) {
		return nil
	}
	return &p.Workout.Phases[p.PhaseIndex]
}

func (p Position) exercise() *catalog.Exercise {
	ph := p.phase()
	if ph == nil || p.ExerciseIndex < 0 || p.ExerciseIndex >= len(ph.Exercises) {
		return nil
	}
	return &ph.Exercises[p.ExerciseIndex]
}

func (p Position) completed() bool {
	return p.Workout != nil && p.PhaseIndex >= len(p.Workout.Phases)
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ExercisePercent returns how much of the current exercise has elapsed.
func ExercisePercent(p Position) float64 {
	ex := p.exercise()
	if ex == nil || ex.DurationSeconds <= 0 {
		return 0
	}
	d := float64(ex.DurationSeconds)
	return clampPercent((d - float64(p.SecondsRemaining)) / d * 100)
}

// PhasePercent compares the time spent in the current phase against the
// phase's declared duration. The declared duration is only an estimate, so
// the raw ratio can pass 100 before the exercises run out.
func PhasePercent(p Position) float64 {
	ph := p.phase()
	if ph == nil {
		return 0
	}
	declared := ph.DurationSeconds()
	if declared <= 0 {
		return 0
	}
	return clampPercent(float64(p.PhaseElapsedSeconds) / declared * 100)
}

// WorkoutPercent adds the declared durations of finished phases to the time
// spent in the current phase and divides by the declared workout total.
func WorkoutPercent(p Position) float64 {
	if p.Workout == nil {
		return 0
	}
	if p.completed() {
		return 100
	}
	total := p.Workout.DeclaredSeconds()
	if total <= 0 {
		return 0
	}
	var done float64
	for i := 0; i < p.PhaseIndex && i < len(p.Workout.Phases); i++ {
		done += p.Workout.Phases[i].DurationSeconds()
	}
	done += float64(p.PhaseElapsedSeconds)
	return clampPercent(done / total * 100)
}

// CurrentRound returns the 1-based round within the current phase, where a
// round is one pass through the phase's exercise list. It returns 0 when
// there is no current phase.
func CurrentRound(p Position) int {
	ph := p.phase()
	if ph == nil {
		return 0
	}
	roundSeconds := ph.RoundSeconds()
	if roundSeconds <= 0 {
		return 1
	}
	elapsed := p.PhaseElapsedSeconds
	if elapsed < 0 {
		elapsed = 0
	}
	round := elapsed/roundSeconds + 1
	if round > ph.Rounds() {
		round = ph.Rounds()
	}
	return round
}

// TotalRounds returns the number of rounds in the current phase.
func TotalRounds(p Position) int {
	ph := p.phase()
	if ph == nil {
		return 0
	}
	return ph.Rounds()
}

// WorkoutRemainingSeconds returns the countdown left in the current exercise
// plus the full duration of every exercise after it.
func WorkoutRemainingSeconds(p Position) int {
	if p.Workout == nil || p.completed() || p.phase() == nil {
		return 0
	}
	remaining := p.SecondsRemaining
	for pi := p.PhaseIndex; pi < len(p.Workout.Phases); pi++ {
		exercises := p.Workout.Phases[pi].Exercises
		start := 0
		if pi == p.PhaseIndex {
			start = p.ExerciseIndex + 1
		}
		for ei := start; ei < len(exercises); ei++ {
			remaining += exercises[ei].DurationSeconds
		}
	}
	return remaining
}

// Calculate computes every metric for p.
func Calculate(p Position) Progress {
	return Progress{
		ExercisePercent:         ExercisePercent(p),
		PhasePercent:            PhasePercent(p),
		WorkoutPercent:          WorkoutPercent(p),
		Round:                   CurrentRound(p),
		TotalRounds:             TotalRounds(p),
		WorkoutRemainingSeconds: WorkoutRemainingSeconds(p),
	}
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
