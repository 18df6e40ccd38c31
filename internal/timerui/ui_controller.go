package timerui

import (
	"errors"
	"log"
	"math"
	"sync"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/cues"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
)

// UIController handles UI events and coordinates the engine, the UIModel
// and the persisted settings.
type UIController struct {
	model  *UIModel
	engine *engine.Engine
	store  *settings.Store
	player *cues.Player
	logger *log.Logger

	// protected by mu
	mu          sync.Mutex
	state       settings.State
	unregisters []func()
}

// NewUIControllerArg holds the arguments for creating a new UIController
type NewUIControllerArg struct {
	Model  *UIModel
	Engine *engine.Engine
	Store  *settings.Store
	Player *cues.Player
	Logger *log.Logger
	// Initial is the loaded settings state. A non-zero SelectedDay is
	// selected on the engine right away.
	Initial settings.State
}

// NewUIController creates a new UIController with the given dependencies
func NewUIController(args NewUIControllerArg) *UIController {
	if args.Model == nil {
		panic("UIController: model cannot be nil")
	}
	if args.Engine == nil {
		panic("UIController: engine cannot be nil")
	}
	if args.Store == nil {
		panic("UIController: store cannot be nil")
	}
	if args.Player == nil {
		panic("UIController: player cannot be nil")
	}
	if args.Logger == nil {
		panic("UIController: logger cannot be nil")
	}

	c := &UIController{
		model:  args.Model,
		engine: args.Engine,
		store:  args.Store,
		player: args.Player,
		logger: args.Logger,
		state:  args.Initial,
	}

	c.engine.SetAutoAdvance(c.state.Settings.AutoAdvance)
	c.player.UpdateSettings(c.state.Settings)
	c.player.Attach(c.engine)
	c.model.SetSettings(c.state.Settings)
	c.listenToEngine()

	if day := c.state.SelectedDay; day != 0 {
		if err := c.engine.SelectDay(day); err != nil {
			c.logger.Printf("Saved day %d is not available: %v", day, err)
		} else {
			c.model.SetMode(UIModeTimerDashboard)
		}
	}
	c.publishTimerState()

	return c
}

// listenToEngine mirrors every engine state change into the model.
func (c *UIController) listenToEngine() {
	refresh := func() { c.publishTimerState() }
	unregisters := []func(){
		c.engine.ListenToDaySelected(func(engine.DaySelected) { refresh() }),
		c.engine.ListenToStatus(func(engine.StatusChange) { refresh() }),
		c.engine.ListenToExerciseEntered(func(engine.ExerciseEntered) { refresh() }),
		c.engine.ListenToTick(func(engine.Tick) { refresh() }),
		c.engine.ListenToBoundary(func(ev engine.BoundaryReached) {
			if ev.Direction == engine.BoundaryStart {
				c.logger.Printf("Already at the first exercise")
			} else {
				c.logger.Printf("Workout already finished - press Space to restart or r to reset")
			}
		}),
	}
	c.mu.Lock()
	c.unregisters = append(c.unregisters, unregisters...)
	c.mu.Unlock()
}

func (c *UIController) publishTimerState() {
	st := c.engine.State()
	c.model.SetTimerState(TimerState{Engine: st, Progress: c.engine.Progress()})
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	c.model.SetMode(mode)
}

// --- Workout Selection Methods ---

// OnDaySelected loads the workout for day, remembers the choice and shows
// the dashboard.
func (c *UIController) OnDaySelected(day int) {
	if err := c.engine.SelectDay(day); err != nil {
		c.logger.Printf("Cannot select day %d: %v", day, err)
		return
	}

	c.mu.Lock()
	c.state.SelectedDay = day
	st := c.state
	c.mu.Unlock()
	c.persist(st)

	c.model.SetMode(UIModeTimerDashboard)
}

// --- Timer Methods ---

// ToggleWorkout starts, pauses, or resumes the workout based on current state
func (c *UIController) ToggleWorkout() {
	st := c.engine.State()
	if st.Workout == nil {
		c.logger.Printf("No workout loaded - select a day in Workout Selection mode (press 1)")
		return
	}
	if st.RunState == engine.RunStateRunning {
		c.engine.Pause()
		return
	}
	if err := c.engine.Start(); err != nil {
		c.logger.Printf("Cannot start: %v", err)
	}
}

// SkipExercise moves to the next exercise
func (c *UIController) SkipExercise() {
	c.navigate("skip", c.engine.SkipExercise)
}

// GoBack moves to the previous exercise
func (c *UIController) GoBack() {
	c.navigate("go back", c.engine.GoBack)
}

func (c *UIController) navigate(action string, fn func() error) {
	st := c.engine.State()
	if st.RunState == engine.RunStateIdle || st.RunState == engine.RunStatePaused {
		c.logger.Printf("Start the workout (Space) to %s", action)
		return
	}
	err := fn()
	if err != nil && !errors.Is(err, engine.ErrAtBoundary) {
		// boundary hits are reported through the boundary listener
		c.logger.Printf("Cannot %s: %v", action, err)
	}
}

// ResetWorkout stops the countdown and returns to the first exercise
func (c *UIController) ResetWorkout() {
	if c.engine.State().Workout == nil {
		c.logger.Printf("No workout loaded")
		return
	}
	c.engine.Reset()
}

// --- Settings Methods ---

// ToggleAutoAdvance flips whether the timer moves on by itself
func (c *UIController) ToggleAutoAdvance() {
	c.updateSettings("Auto-advance", func(s *settings.Settings) string {
		s.AutoAdvance = !s.AutoAdvance
		return onOff(s.AutoAdvance)
	})
}

// ToggleSound flips the beep cues
func (c *UIController) ToggleSound() {
	c.updateSettings("Sound", func(s *settings.Settings) string {
		s.SoundEnabled = !s.SoundEnabled
		return onOff(s.SoundEnabled)
	})
}

// ToggleVoice flips the spoken announcements
func (c *UIController) ToggleVoice() {
	c.updateSettings("Voice", func(s *settings.Settings) string {
		s.VoiceEnabled = !s.VoiceEnabled
		return onOff(s.VoiceEnabled)
	})
}

// ToggleVibration flips the vibration cue
func (c *UIController) ToggleVibration() {
	c.updateSettings("Vibration", func(s *settings.Settings) string {
		s.VibrationEnabled = !s.VibrationEnabled
		return onOff(s.VibrationEnabled)
	})
}

// AdjustVoiceVolume changes the voice volume by delta, clamped to [0,1]
func (c *UIController) AdjustVoiceVolume(delta float64) {
	c.updateSettings("Voice volume", func(s *settings.Settings) string {
		s.VoiceVolume = clampStep(s.VoiceVolume+delta, 0, 1)
		return formatPercent(s.VoiceVolume)
	})
}

// AdjustVoiceRate changes the voice rate by delta, clamped to [0.5,2]
func (c *UIController) AdjustVoiceRate(delta float64) {
	c.updateSettings("Voice rate", func(s *settings.Settings) string {
		s.VoiceRate = clampStep(s.VoiceRate+delta, 0.5, 2)
		return formatRate(s.VoiceRate)
	})
}

// updateSettings applies mutate, which returns the new value for display,
// and pushes the result to the engine, the cue player, the model and disk.
func (c *UIController) updateSettings(name string, mutate func(*settings.Settings) string) {
	c.mu.Lock()
	next := c.state
	display := mutate(&next.Settings)
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		c.logger.Printf("%s unchanged: %v", name, err)
		return
	}
	c.state = next
	c.mu.Unlock()

	s := next.Settings
	c.engine.SetAutoAdvance(s.AutoAdvance)
	c.player.UpdateSettings(s)
	c.model.SetSettings(s)
	c.persist(next)
	c.logger.Printf("%s: %s", name, display)
}

func (c *UIController) persist(st settings.State) {
	if err := c.store.Save(st); err != nil {
		c.logger.Printf("Could not save settings: %v", err)
	}
}

// Shutdown detaches from the engine and stops it
func (c *UIController) Shutdown() {
	c.mu.Lock()
	unregisters := c.unregisters
	c.unregisters = nil
	c.mu.Unlock()

	for _, fn := range unregisters {
		fn()
	}
	c.player.Detach()
	c.engine.Shutdown()
}

// clampStep rounds v to one decimal and keeps it within [lo, hi].
func clampStep(v, lo, hi float64) float64 {
	v = math.Round(v*10) / 10
	return math.Min(hi, math.Max(lo, v))
}
