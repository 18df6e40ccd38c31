// Package engine walks a workout's phases and exercises against a one second
// countdown. It owns the only tick source and reports every transition through
// typed events.
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/events"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/safego"
)

// DefaultTickInterval is the countdown resolution.
const DefaultTickInterval = time.Second

// CountdownWarningSeconds is the number of final seconds that emit a
// CountdownWarning.
const CountdownWarningSeconds = 5

// Config holds the engine's dependencies.
type Config struct {
	Catalog      *catalog.Catalog
	Logger       *log.Logger
	Clock        Clock         // defaults to RealClock
	TickInterval time.Duration // defaults to DefaultTickInterval
	AutoAdvance  bool
}

// tickTimer is one armed tick source together with its goroutine.
type tickTimer struct {
	ticker Ticker
	done   chan struct{}
	gen    uint64
}

// Engine is the workout progression engine.
type Engine struct {
	catalog      *catalog.Catalog
	logger       *log.Logger
	clock        Clock
	tickInterval time.Duration

	// protected by mu
	mu          sync.Mutex
	state       State
	autoAdvance bool
	pausedAt    time.Time
	timer       *tickTimer
	timerGen    uint64
	closed      bool

	daySelectedEvent       *events.CallbackEvent[DaySelected]
	statusEvent            *events.CallbackEvent[StatusChange]
	exerciseEnteredEvent   *events.CallbackEvent[ExerciseEntered]
	exerciseCompletedEvent *events.CallbackEvent[ExerciseCompleted]
	tickEvent              *events.CallbackEvent[Tick]
	countdownWarningEvent  *events.CallbackEvent[CountdownWarning]
	boundaryEvent          *events.CallbackEvent[BoundaryReached]

	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// New creates an idle engine with no workout selected.
func New(cfg Config) *Engine {
	if cfg.Catalog == nil {
		panic("Engine: catalog cannot be nil")
	}
	if cfg.Logger == nil {
		panic("Engine: logger cannot be nil")
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	return &Engine{
		catalog:                cfg.Catalog,
		logger:                 cfg.Logger,
		clock:                  cfg.Clock,
		tickInterval:           cfg.TickInterval,
		state:                  State{RunState: RunStateIdle},
		autoAdvance:            cfg.AutoAdvance,
		daySelectedEvent:       events.NewCallbackEvent[DaySelected](false),
		statusEvent:            events.NewCallbackEvent[StatusChange](false),
		exerciseEnteredEvent:   events.NewCallbackEvent[ExerciseEntered](false),
		exerciseCompletedEvent: events.NewCallbackEvent[ExerciseCompleted](false),
		tickEvent:              events.NewCallbackEvent[Tick](false),
		countdownWarningEvent:  events.NewCallbackEvent[CountdownWarning](false),
		boundaryEvent:          events.NewCallbackEvent[BoundaryReached](false),
	}
}

// --- Listeners. Each returns a function that removes the listener. ---

func (e *Engine) ListenToDaySelected(fn func(DaySelected)) func() {
	return e.daySelectedEvent.Listen(fn)
}

func (e *Engine) ListenToStatus(fn func(StatusChange)) func() {
	return e.statusEvent.Listen(fn)
}

func (e *Engine) ListenToExerciseEntered(fn func(ExerciseEntered)) func() {
	return e.exerciseEnteredEvent.Listen(fn)
}

func (e *Engine) ListenToExerciseCompleted(fn func(ExerciseCompleted)) func() {
	return e.exerciseCompletedEvent.Listen(fn)
}

func (e *Engine) ListenToTick(fn func(Tick)) func() {
	return e.tickEvent.Listen(fn)
}

func (e *Engine) ListenToCountdownWarning(fn func(CountdownWarning)) func() {
	return e.countdownWarningEvent.Listen(fn)
}

func (e *Engine) ListenToBoundary(fn func(BoundaryReached)) func() {
	return e.boundaryEvent.Listen(fn)
}

// State returns a snapshot of the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Progress returns the derived progress metrics for the current state.
func (e *Engine) Progress() progress.Progress {
	return progress.Calculate(e.State().Position())
}

// AutoAdvance reports whether the engine moves on by itself when an
// exercise's countdown runs out.
func (e *Engine) AutoAdvance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoAdvance
}

// SetAutoAdvance changes the auto-advance setting. It takes effect the next
// time a countdown reaches zero.
func (e *Engine) SetAutoAdvance(enabled bool) {
	e.mu.Lock()
	e.autoAdvance = enabled
	e.mu.Unlock()
	e.logger.Printf("Engine: Auto-advance set to %v", enabled)
}

// SelectDay loads the workout for day and resets the position. Any running
// countdown is stopped. An unknown day leaves the state untouched.
func (e *Engine) SelectDay(day int) error {
	workout, ok := e.catalog.Get(day)
	if !ok {
		e.logger.Printf("Engine: Day %d not in catalog", day)
		return fmt.Errorf("select day %d: %w", day, ErrNotFound)
	}

	var out notifications
	e.mu.Lock()
	e.stopTimerLocked()
	e.state = State{
		SelectedDay: day,
		Workout:     workout,
		RunState:    RunStateIdle,
	}
	e.pausedAt = time.Time{}
	out.add(func() { e.daySelectedEvent.Notify(DaySelected{Day: day, Workout: workout}) })
	e.mu.Unlock()

	e.logger.Printf("Engine: Day %d selected (%s)", day, workout.Name)
	out.dispatch()
	return nil
}

// Start begins the selected workout, resumes a paused one, or restarts a
// completed one from the top. Calling Start while running is a no-op.
func (e *Engine) Start() error {
	var out notifications
	e.mu.Lock()

	if e.state.Workout == nil {
		e.mu.Unlock()
		e.logger.Printf("Engine: Start requested with no workout selected")
		return ErrNoWorkoutSelected
	}

	switch e.state.RunState {
	case RunStateRunning:
		e.mu.Unlock()
		return nil

	case RunStateIdle, RunStateCompleted:
		e.state.PhaseIndex = 0
		e.state.ExerciseIndex = 0
		e.state.SecondsRemaining = 0
		e.state.AwaitingAdvance = false
		e.state.SessionID = uuid.NewString()
		e.state.RunState = RunStateRunning
		e.logger.Printf("Engine: Starting %q (session %s)", e.state.Workout.Name, e.state.SessionID)
		var entry notifications
		e.enterPhaseLocked(&entry)
		// workout:start goes out before exercise:enter but carries the entered state
		e.emitStatusLocked(&out, StatusStart, "")
		out = append(out, entry...)

	case RunStatePaused:
		now := e.clock.Now()
		if !e.pausedAt.IsZero() {
			// keep phaseElapsedSeconds measuring active time only
			e.state.PhaseStartTimestamp = e.state.PhaseStartTimestamp.Add(now.Sub(e.pausedAt))
			e.pausedAt = time.Time{}
		}
		e.state.RunState = RunStateRunning
		if e.state.AwaitingAdvance {
			e.state.AwaitingAdvance = false
			e.logger.Printf("Engine: Resuming with advance to next exercise")
			e.emitStatusLocked(&out, StatusStart, "")
			e.advanceLocked(&out)
		} else {
			e.logger.Printf("Engine: Resuming with %ds remaining", e.state.SecondsRemaining)
			e.armTimerLocked()
			e.emitStatusLocked(&out, StatusStart, "")
		}
	}

	e.mu.Unlock()
	out.dispatch()
	return nil
}

// Pause holds the countdown. It is a no-op unless the engine is running.
func (e *Engine) Pause() {
	var out notifications
	e.mu.Lock()
	if e.state.RunState != RunStateRunning {
		e.mu.Unlock()
		return
	}
	e.pauseLocked(&out, "")
	e.mu.Unlock()

	e.logger.Printf("Engine: Paused")
	out.dispatch()
}

// Reset stops the countdown and returns to the start of the selected workout.
func (e *Engine) Reset() {
	var out notifications
	e.mu.Lock()
	e.stopTimerLocked()
	e.state = State{
		SelectedDay: e.state.SelectedDay,
		Workout:     e.state.Workout,
		RunState:    RunStateIdle,
	}
	e.pausedAt = time.Time{}
	e.emitStatusLocked(&out, StatusReset, "")
	e.mu.Unlock()

	e.logger.Printf("Engine: Reset")
	out.dispatch()
}

// SkipExercise jumps to the next exercise, or completes the workout after the
// last one. It only acts while running; after completion it reports the end
// boundary.
func (e *Engine) SkipExercise() error {
	var out notifications
	e.mu.Lock()

	if e.state.RunState == RunStateCompleted {
		e.emitBoundaryLocked(&out, BoundaryEnd)
		e.mu.Unlock()
		out.dispatch()
		return fmt.Errorf("skip: %w", ErrAtBoundary)
	}
	if e.state.Workout == nil || e.state.RunState != RunStateRunning {
		e.mu.Unlock()
		return nil
	}

	e.stopTimerLocked()
	e.logger.Printf("Engine: Skipping %s", e.describePositionLocked())
	e.advanceLocked(&out)
	e.mu.Unlock()

	out.dispatch()
	return nil
}

// GoBack returns to the previous exercise with a fresh countdown. Crossing
// back into the previous phase re-enters that phase at its last exercise.
// At the very first exercise the state is left as is and ErrAtBoundary is
// returned.
func (e *Engine) GoBack() error {
	var out notifications
	e.mu.Lock()

	if e.state.RunState == RunStateCompleted {
		e.emitBoundaryLocked(&out, BoundaryEnd)
		e.mu.Unlock()
		out.dispatch()
		return fmt.Errorf("go back: %w", ErrAtBoundary)
	}
	if e.state.Workout == nil || e.state.RunState != RunStateRunning {
		e.mu.Unlock()
		return nil
	}
	if e.state.PhaseIndex == 0 && e.state.ExerciseIndex == 0 {
		e.emitBoundaryLocked(&out, BoundaryStart)
		e.mu.Unlock()
		e.logger.Printf("Engine: Already at first exercise")
		out.dispatch()
		return fmt.Errorf("go back: %w", ErrAtBoundary)
	}

	e.stopTimerLocked()
	if e.state.ExerciseIndex > 0 {
		e.state.ExerciseIndex--
		e.enterExerciseLocked(&out, false)
	} else {
		e.state.PhaseIndex--
		e.state.ExerciseIndex = len(e.state.Workout.Phases[e.state.PhaseIndex].Exercises) - 1
		e.enterPhaseLocked(&out)
	}
	e.logger.Printf("Engine: Went back to %s", e.describePositionLocked())
	e.mu.Unlock()

	out.dispatch()
	return nil
}

// Shutdown stops the tick source and waits for its goroutine to exit.
// Safe to call multiple times.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.logger.Printf("Engine: Shutting down")
		e.mu.Lock()
		e.closed = true
		e.stopTimerLocked()
		if e.state.RunState == RunStateRunning {
			e.state.RunState = RunStatePaused
		}
		e.mu.Unlock()
		e.wg.Wait()
		e.logger.Printf("Engine: Shutdown complete")
	})
}

// tick runs one countdown step.
func (e *Engine) tick() {
	e.mu.Lock()
	out := e.tickLocked()
	e.mu.Unlock()
	out.dispatch()
}

// --- Private methods. The *Locked variants MUST be called with mu held. ---

// tickLocked decrements the countdown and advances when it runs out.
func (e *Engine) tickLocked() notifications {
	var out notifications

	if e.state.RunState != RunStateRunning || e.state.Workout == nil {
		// stale tick from a timer that outlived its run
		e.stopTimerLocked()
		return out
	}

	now := e.clock.Now()
	e.state.PhaseElapsedSeconds = int(now.Sub(e.state.PhaseStartTimestamp) / time.Second)
	if e.state.SecondsRemaining > 0 {
		e.state.SecondsRemaining--
	}

	tick := Tick{
		SecondsRemaining:    e.state.SecondsRemaining,
		PhaseElapsedSeconds: e.state.PhaseElapsedSeconds,
		Progress:            progress.Calculate(e.state.Position()),
	}
	out.add(func() { e.tickEvent.Notify(tick) })

	if remaining := e.state.SecondsRemaining; remaining > 0 && remaining <= CountdownWarningSeconds {
		out.add(func() { e.countdownWarningEvent.Notify(CountdownWarning{SecondsRemaining: remaining}) })
	}

	if e.state.SecondsRemaining > 0 {
		return out
	}

	if ex := e.state.CurrentExercise(); ex != nil {
		completed := ExerciseCompleted{
			Exercise:      *ex,
			PhaseIndex:    e.state.PhaseIndex,
			ExerciseIndex: e.state.ExerciseIndex,
		}
		out.add(func() { e.exerciseCompletedEvent.Notify(completed) })
	}

	if !e.autoAdvance {
		e.state.AwaitingAdvance = true
		e.pauseLocked(&out, PauseReasonAwaitingAdvance)
		e.logger.Printf("Engine: %s finished, waiting for user to continue", e.describePositionLocked())
		return out
	}

	e.stopTimerLocked()
	e.advanceLocked(&out)
	return out
}

// advanceLocked moves to the next exercise, the next phase, or completion.
func (e *Engine) advanceLocked(out *notifications) {
	w := e.state.Workout
	e.state.ExerciseIndex++
	if e.state.ExerciseIndex < len(w.Phases[e.state.PhaseIndex].Exercises) {
		e.enterExerciseLocked(out, false)
		return
	}

	e.state.PhaseIndex++
	e.state.ExerciseIndex = 0
	if e.state.PhaseIndex >= len(w.Phases) {
		e.completeLocked(out)
		return
	}
	e.enterPhaseLocked(out)
}

// enterPhaseLocked restarts the phase clock and enters the exercise at the
// current ExerciseIndex.
func (e *Engine) enterPhaseLocked(out *notifications) {
	e.state.PhaseStartTimestamp = e.clock.Now()
	e.state.PhaseElapsedSeconds = 0
	e.logger.Printf("Engine: Entering phase %q", e.state.Workout.Phases[e.state.PhaseIndex].Name)
	e.enterExerciseLocked(out, true)
}

// enterExerciseLocked loads the current exercise's full duration and
// (re)arms the tick source.
func (e *Engine) enterExerciseLocked(out *notifications, phaseStarted bool) {
	phase := &e.state.Workout.Phases[e.state.PhaseIndex]
	ex := phase.Exercises[e.state.ExerciseIndex]

	e.state.SecondsRemaining = ex.DurationSeconds
	e.state.RunState = RunStateRunning
	e.armTimerLocked()

	entered := ExerciseEntered{
		Exercise:      ex,
		Phase:         phase,
		PhaseIndex:    e.state.PhaseIndex,
		ExerciseIndex: e.state.ExerciseIndex,
		PhaseStarted:  phaseStarted,
	}
	out.add(func() { e.exerciseEnteredEvent.Notify(entered) })
}

func (e *Engine) completeLocked(out *notifications) {
	e.stopTimerLocked()
	e.state.RunState = RunStateCompleted
	e.state.SecondsRemaining = 0
	e.state.AwaitingAdvance = false
	e.logger.Printf("Engine: Workout %q complete (session %s)", e.state.Workout.Name, e.state.SessionID)
	e.emitStatusLocked(out, StatusComplete, "")
}

func (e *Engine) pauseLocked(out *notifications, reason string) {
	e.stopTimerLocked()
	e.state.RunState = RunStatePaused
	e.pausedAt = e.clock.Now()
	e.emitStatusLocked(out, StatusPause, reason)
}

func (e *Engine) emitStatusLocked(out *notifications, kind StatusKind, reason string) {
	change := StatusChange{Kind: kind, Reason: reason, State: e.state}
	out.add(func() { e.statusEvent.Notify(change) })
}

func (e *Engine) emitBoundaryLocked(out *notifications, dir BoundaryDirection) {
	out.add(func() { e.boundaryEvent.Notify(BoundaryReached{Direction: dir}) })
}

// armTimerLocked replaces any existing tick source with a fresh one.
func (e *Engine) armTimerLocked() {
	e.stopTimerLocked()
	if e.closed {
		return
	}

	e.timerGen++
	t := &tickTimer{
		ticker: e.clock.NewTicker(e.tickInterval),
		done:   make(chan struct{}),
		gen:    e.timerGen,
	}
	e.timer = t

	e.wg.Add(1)
	safego.Go(e.logger, func() { e.runTimer(t) })
}

// stopTimerLocked cancels the active tick source, if any.
func (e *Engine) stopTimerLocked() {
	if e.timer == nil {
		return
	}
	e.timer.ticker.Stop()
	close(e.timer.done)
	e.timer = nil
}

// runTimer forwards ticks from t until it is stopped.
func (e *Engine) runTimer(t *tickTimer) {
	defer e.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C():
			e.onTimerTick(t.gen)
		}
	}
}

// onTimerTick ignores ticks from any timer but the currently armed one.
func (e *Engine) onTimerTick(gen uint64) {
	e.mu.Lock()
	if e.timer == nil || e.timer.gen != gen {
		e.mu.Unlock()
		return
	}
	out := e.tickLocked()
	e.mu.Unlock()
	out.dispatch()
}

func (e *Engine) describePositionLocked() string {
	ex := e.state.CurrentExercise()
	if ex == nil {
		return fmt.Sprintf("phase %d exercise %d", e.state.PhaseIndex, e.state.ExerciseIndex)
	}
	return fmt.Sprintf("%q (phase %d, exercise %d)", ex.Name, e.state.PhaseIndex, e.state.ExerciseIndex)
}

// hasActiveTimer reports whether a tick source is armed.
func (e *Engine) hasActiveTimer() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timer != nil
}
