package timerui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
)

func dayOne(t *testing.T) *catalog.Workout {
	t.Helper()
	w, ok := catalog.Default().Get(1)
	require.True(t, ok)
	return w
}

func TestFormatWorkoutDetails(t *testing.T) {
	text := formatWorkoutDetails(dayOne(t))
	assert.Contains(t, text, "Day 1: Full Body Foundation")
	assert.Contains(t, text, "Strength Circuit")
	assert.Contains(t, text, "(3 rounds)")
}

func TestFormatTimerPanel(t *testing.T) {
	assert.Contains(t, formatTimerPanel(TimerState{}), "No workout loaded")

	w := dayOne(t)
	idle := TimerState{Engine: engine.State{SelectedDay: 1, Workout: w}}
	assert.Contains(t, formatTimerPanel(idle), "to start")
	assert.NotContains(t, formatTimerPanel(idle), "session")

	running := engine.State{
		SelectedDay:      1,
		Workout:          w,
		RunState:         engine.RunStateRunning,
		SecondsRemaining: 42,
		SessionID:        "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
	}
	text := formatTimerPanel(TimerState{Engine: running, Progress: progress.Calculate(running.Position())})
	assert.Contains(t, text, "session 1b9d6bcd")
	assert.NotContains(t, text, "bbfd")
	assert.Contains(t, text, "00:42")
	assert.Contains(t, text, "Jumping Jacks")
	assert.Contains(t, text, "(RUNNING)")

	awaiting := running
	awaiting.RunState = engine.RunStatePaused
	awaiting.AwaitingAdvance = true
	assert.Contains(t, formatTimerPanel(TimerState{Engine: awaiting}), "Press Space for the next exercise")

	done := running
	done.RunState = engine.RunStateCompleted
	assert.Contains(t, formatTimerPanel(TimerState{Engine: done}), "Workout complete")
}

func TestFormatUpNextPanel(t *testing.T) {
	w := dayOne(t)
	assert.Contains(t, formatUpNextPanel(TimerState{Engine: engine.State{Workout: w}}), "Jumping Jacks")

	running := engine.State{Workout: w, RunState: engine.RunStateRunning}
	assert.Contains(t, formatUpNextPanel(TimerState{Engine: running}), "Arm Circles")

	last := len(w.Phases) - 1
	running.PhaseIndex = last
	running.ExerciseIndex = len(w.Phases[last].Exercises) - 1
	assert.Contains(t, formatUpNextPanel(TimerState{Engine: running}), "Finish!")
}
