package timerui

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
)

// Page names for tview.Pages
const (
	pageWorkoutSelection = "workout_selection"
	pageTimerDashboard   = "timer_dashboard"
	pageSettings         = "settings"
)

const progressBarWidth = 30

// settingsItem is one row of the settings list, in display order.
type settingsItem int

const (
	settingsItemAutoAdvance settingsItem = iota
	settingsItemSound
	settingsItemVoice
	settingsItemVibration
	settingsItemVoiceVolume
	settingsItemVoiceRate
)

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	currentMode UIMode

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex // Main layout: mode content on left, logs on right

	// Workout Selection mode components
	workoutSelectionFlex       *tview.Flex
	workoutSelectionTabWidgets []*tview.Box
	workoutList                *tview.List
	workoutDetailsPanel        *tview.TextView
	workouts                   []*catalog.Workout

	// Timer Dashboard mode components
	timerDashboardFlex       *tview.Flex
	timerDashboardTabWidgets []*tview.Box
	timerPanel               *tview.TextView
	progressPanel            *tview.TextView
	upNextPanel              *tview.TextView

	// Settings mode components
	settingsFlex       *tview.Flex
	settingsTabWidgets []*tview.Box
	settingsList       *tview.List
}

func NewCursesUIView(logger *log.Logger, app *tview.Application) *CursesUIViewImpl {
	if logger == nil {
		panic("CursesUIViewImpl: logger cannot be nil")
	}
	if app == nil {
		panic("CursesUIViewImpl: app cannot be nil")
	}
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		currentMode: UIModeWorkoutSelection,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// Note: Don't use SetChangedFunc with app.Draw() - it can hang during shutdown
	// when the app has been stopped but log messages are still being written.
	// The BaseUIView's event listeners already call Draw() after updating content.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initWorkoutSelectionMode(controller)
	ui.initTimerDashboardMode()
	ui.initSettingsMode(controller)

	ui.pages.AddPage(pageWorkoutSelection, ui.workoutSelectionFlex, true, true)
	ui.pages.AddPage(pageTimerDashboard, ui.timerDashboardFlex, true, false)
	ui.pages.AddPage(pageSettings, ui.settingsFlex, true, false)

	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.setFocusForCurrentMode()
}

func newInstructions(text string) *tview.TextView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetText(text)
	return tv
}

// initWorkoutSelectionMode sets up the Workout Selection mode UI
func (ui *CursesUIViewImpl) initWorkoutSelectionMode(controller *UIController) {
	instructions := newInstructions("[yellow]Enter[white] Select Day  |  [yellow]Tab[white] Switch Pane\n[yellow]1[white] Workouts  |  [yellow]2[white] Timer  |  [yellow]3[white] Settings  |  [yellow]Esc[white] Quit")

	ui.workoutList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			if index < 0 || index >= len(ui.workouts) {
				return
			}
			day := ui.workouts[index].DayNumber
			ui.logger.Printf("UI: Day %d selected from list", day)
			controller.OnDaySelected(day)
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updateWorkoutDetailsDisplay(index)
		})
	ui.workoutList.SetBorder(true).SetTitle(" Days ")

	ui.workoutDetailsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.workoutDetailsPanel.SetBorder(true).SetTitle(" Workout Details ")
	ui.updateWorkoutDetailsDisplay(-1)

	ui.workoutSelectionTabWidgets = append(ui.workoutSelectionTabWidgets, ui.workoutList.Box, ui.workoutDetailsPanel.Box)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.workoutList, 0, 1, true).
		AddItem(ui.workoutDetailsPanel, 0, 2, false)

	ui.workoutSelectionFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(content, 0, 1, true)
}

// initTimerDashboardMode sets up the Timer Dashboard mode UI
func (ui *CursesUIViewImpl) initTimerDashboardMode() {
	instructions := newInstructions("[yellow]Space[white] Start/Pause  |  [yellow]n[white]/[yellow]→[white] Skip  |  [yellow]b[white]/[yellow]←[white] Back  |  [yellow]r[white] Reset\n[yellow]a[white] Auto-advance  |  [yellow]s[white] Sound  |  [yellow]v[white] Voice")

	ui.timerPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.timerPanel.SetBorder(true).SetTitle(" Timer ")

	ui.progressPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.progressPanel.SetBorder(true).SetTitle(" Progress ")

	ui.upNextPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.upNextPanel.SetBorder(true).SetTitle(" Up Next ")

	ui.UpdateTimerState(TimerState{Engine: engine.State{RunState: engine.RunStateIdle}})

	ui.timerDashboardTabWidgets = append(ui.timerDashboardTabWidgets, ui.timerPanel.Box, ui.progressPanel.Box, ui.upNextPanel.Box)

	bottom := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.progressPanel, 0, 1, false).
		AddItem(ui.upNextPanel, 0, 1, false)

	ui.timerDashboardFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(ui.timerPanel, 0, 3, true).
		AddItem(bottom, 0, 2, false)
}

// initSettingsMode sets up the Settings mode UI
func (ui *CursesUIViewImpl) initSettingsMode(controller *UIController) {
	instructions := newInstructions("[yellow]Enter[white] Toggle  |  [yellow]+[white]/[yellow]-[white] Adjust volume or rate\n[yellow]1[white] Workouts  |  [yellow]2[white] Timer  |  [yellow]3[white] Settings  |  [yellow]Esc[white] Quit")

	ui.settingsList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			switch settingsItem(index) {
			case settingsItemAutoAdvance:
				controller.ToggleAutoAdvance()
			case settingsItemSound:
				controller.ToggleSound()
			case settingsItemVoice:
				controller.ToggleVoice()
			case settingsItemVibration:
				controller.ToggleVibration()
			case settingsItemVoiceVolume:
				controller.AdjustVoiceVolume(VoiceVolumeStep)
			case settingsItemVoiceRate:
				controller.AdjustVoiceRate(VoiceRateStep)
			}
		})
	ui.settingsList.SetBorder(true).SetTitle(" Settings ")
	ui.UpdateSettings(settings.Defaults())

	ui.settingsTabWidgets = append(ui.settingsTabWidgets, ui.settingsList.Box)

	ui.settingsFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(ui.settingsList, 0, 1, true)
}

// SetWorkoutList populates the day list
func (ui *CursesUIViewImpl) SetWorkoutList(workouts []*catalog.Workout) {
	ui.workouts = workouts
	ui.workoutList.Clear()

	for _, w := range workouts {
		main := fmt.Sprintf("Day %d: %s", w.DayNumber, w.Name)
		secondary := fmt.Sprintf("%s - %s", w.Focus, formatMinutes(w.DurationMinutes))
		ui.workoutList.AddItem(main, secondary, 0, nil)
	}

	if len(workouts) > 0 {
		ui.updateWorkoutDetailsDisplay(0)
	}
}

// updateWorkoutDetailsDisplay formats and displays the workout details
func (ui *CursesUIViewImpl) updateWorkoutDetailsDisplay(index int) {
	if ui.workoutDetailsPanel == nil {
		return
	}
	if index < 0 || index >= len(ui.workouts) {
		ui.workoutDetailsPanel.SetText("\n\n  [yellow]Workout Selection[white]\n\n  Select a day from the list to view details.\n")
		return
	}
	ui.workoutDetailsPanel.SetText(formatWorkoutDetails(ui.workouts[index]))
}

func formatWorkoutDetails(w *catalog.Workout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  [yellow]Day %d: %s[white]\n\n", w.DayNumber, w.Name)
	if w.Focus != "" {
		fmt.Fprintf(&b, "  [gray]Focus:[white] %s\n", w.Focus)
	}
	fmt.Fprintf(&b, "  [gray]Duration:[white] %s\n", formatMinutes(w.DurationMinutes))
	fmt.Fprintf(&b, "  [gray]Exercises:[white] %d (%s of work)\n\n", w.ExerciseCount(), progress.FormatClock(w.ExerciseSeconds()))

	b.WriteString("  [gray]Phases:[white]\n")
	for i := range w.Phases {
		p := &w.Phases[i]
		fmt.Fprintf(&b, "    %d. %s - %s", i+1, p.Name, formatMinutes(p.DurationMinutes))
		if rounds := p.Rounds(); rounds > 1 {
			fmt.Fprintf(&b, " [gray](%d rounds)[white]", rounds)
		}
		if p.Optional {
			b.WriteString(" [gray](optional)[white]")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n  [green]Press Enter to load this workout[white]\n")
	return b.String()
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModeWorkoutSelection:
		ui.pages.SwitchToPage(pageWorkoutSelection)
	case UIModeTimerDashboard:
		ui.pages.SwitchToPage(pageTimerDashboard)
	case UIModeSettings:
		ui.pages.SwitchToPage(pageSettings)
	}

	ui.setFocusForCurrentMode()
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// setFocusForCurrentMode sets focus to the first widget in the current mode
func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	if widgets := ui.getTabWidgetsForCurrentMode(); len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// getTabWidgetsForCurrentMode returns the tab widgets for the current mode
func (ui *CursesUIViewImpl) getTabWidgetsForCurrentMode() []*tview.Box {
	switch ui.currentMode {
	case UIModeWorkoutSelection:
		return ui.workoutSelectionTabWidgets
	case UIModeTimerDashboard:
		return ui.timerDashboardTabWidgets
	case UIModeSettings:
		return ui.settingsTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			// Number keys for mode switching (1-9)
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				controller.OnModeChange(mode)
				return nil
			}
		}

		// Tab to switch focus between widgets in current mode
		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentMode()
			for i, w := range widgets {
				if w.HasFocus() {
					ui.app.SetFocus(widgets[(i+1)%len(widgets)])
					return nil
				}
			}
			if len(widgets) > 0 {
				ui.app.SetFocus(widgets[0])
			}
			return nil
		}

		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		// Timer and toggle keys work in every mode
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case ' ':
				controller.ToggleWorkout()
				return nil
			case 'n':
				controller.SkipExercise()
				return nil
			case 'b':
				controller.GoBack()
				return nil
			case 'r':
				controller.ResetWorkout()
				return nil
			case 'a':
				controller.ToggleAutoAdvance()
				return nil
			case 's':
				controller.ToggleSound()
				return nil
			case 'v':
				controller.ToggleVoice()
				return nil
			}
		}

		// Mode-specific key handlers
		switch ui.currentMode {
		case UIModeTimerDashboard:
			if event.Key() == tcell.KeyRight {
				controller.SkipExercise()
				return nil
			}
			if event.Key() == tcell.KeyLeft {
				controller.GoBack()
				return nil
			}
		case UIModeSettings:
			if event.Key() == tcell.KeyRune && (event.Rune() == '+' || event.Rune() == '=' || event.Rune() == '-') {
				step := 1.0
				if event.Rune() == '-' {
					step = -1.0
				}
				switch settingsItem(ui.settingsList.GetCurrentItem()) {
				case settingsItemVoiceVolume:
					controller.AdjustVoiceVolume(step * VoiceVolumeStep)
				case settingsItemVoiceRate:
					controller.AdjustVoiceRate(step * VoiceRateStep)
				}
				return nil
			}
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}

// UpdateTimerState refreshes the dashboard panels
func (ui *CursesUIViewImpl) UpdateTimerState(state TimerState) {
	if ui.timerPanel == nil {
		return
	}
	ui.timerPanel.SetText(formatTimerPanel(state))
	ui.progressPanel.SetText(formatProgressPanel(state))
	ui.upNextPanel.SetText(formatUpNextPanel(state))
}

func formatTimerPanel(state TimerState) string {
	st := state.Engine
	if st.Workout == nil {
		return "\n\n[gray]No workout loaded[white]\n\nGo to Workout Selection (press 1) to pick a day.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[yellow]Day %d: %s[white]  %s", st.SelectedDay, st.Workout.Name, runStateBadge(st))
	if st.SessionID != "" {
		fmt.Fprintf(&b, "  [gray]session %s[white]", shortSessionID(st.SessionID))
	}
	b.WriteString("\n\n")

	switch st.RunState {
	case engine.RunStateIdle:
		fmt.Fprintf(&b, "%d exercises, about %s\n\n", st.Workout.ExerciseCount(), formatMinutes(st.Workout.DurationMinutes))
		b.WriteString("[gray]Press[white] [yellow]Space[white] [gray]to start[white]\n")
		return b.String()
	case engine.RunStateCompleted:
		b.WriteString("[green]Workout complete. Great job![white]\n\n")
		b.WriteString("[gray]Press[white] [yellow]Space[white] [gray]to go again or[white] [yellow]r[white] [gray]to reset[white]\n")
		return b.String()
	}

	if phase := st.CurrentPhase(); phase != nil {
		fmt.Fprintf(&b, "[cyan]%s[white]", phase.Name)
		if state.Progress.TotalRounds > 1 {
			fmt.Fprintf(&b, "  [gray]Round %d/%d[white]", state.Progress.Round, state.Progress.TotalRounds)
		}
		b.WriteString("\n\n")
	}
	clockColor := "white"
	if st.SecondsRemaining > 0 && st.SecondsRemaining <= engine.CountdownWarningSeconds {
		clockColor = "red"
	}
	fmt.Fprintf(&b, "[%s::b]%s[-::-]\n\n", clockColor, progress.FormatClock(st.SecondsRemaining))
	if ex := st.CurrentExercise(); ex != nil {
		fmt.Fprintf(&b, "[yellow]%s[white]\n", ex.Name)
		if ex.Description != "" {
			fmt.Fprintf(&b, "[gray]%s[white]\n", ex.Description)
		}
	}
	if st.AwaitingAdvance {
		b.WriteString("\n[green]Done! Press Space for the next exercise[white]\n")
	}
	return b.String()
}

func runStateBadge(st engine.State) string {
	switch st.RunState {
	case engine.RunStateRunning:
		return "[green](RUNNING)[white]"
	case engine.RunStatePaused:
		return "[gray](PAUSED)[white]"
	case engine.RunStateCompleted:
		return "[green](DONE)[white]"
	default:
		return "[gray](READY)[white]"
	}
}

func formatProgressPanel(state TimerState) string {
	if state.Engine.Workout == nil {
		return ""
	}
	p := state.Progress
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  [gray]Exercise[white] %s %3.0f%%\n", progressBar(p.ExercisePercent, progressBarWidth), p.ExercisePercent)
	fmt.Fprintf(&b, "  [gray]Phase   [white] %s %3.0f%%\n", progressBar(p.PhasePercent, progressBarWidth), p.PhasePercent)
	fmt.Fprintf(&b, "  [gray]Workout [white] %s %3.0f%%\n\n", progressBar(p.WorkoutPercent, progressBarWidth), p.WorkoutPercent)
	fmt.Fprintf(&b, "  [gray]Phase time:[white] %s\n", progress.FormatClock(state.Engine.PhaseElapsedSeconds))
	fmt.Fprintf(&b, "  [gray]Remaining:[white]  %s\n", progress.FormatClock(p.WorkoutRemainingSeconds))
	return b.String()
}

func formatUpNextPanel(state TimerState) string {
	st := state.Engine
	if st.Workout == nil || st.RunState == engine.RunStateCompleted {
		return ""
	}
	if st.RunState == engine.RunStateIdle {
		first := &st.Workout.Phases[0].Exercises[0]
		return fmt.Sprintf("\n  [yellow]%s[white] (%s)\n", first.Name, progress.FormatClock(first.DurationSeconds))
	}
	next := st.NextExercise()
	if next == nil {
		return "\n  [green]Finish![white]\n"
	}
	return fmt.Sprintf("\n  [yellow]%s[white] (%s)\n", next.Name, progress.FormatClock(next.DurationSeconds))
}

// UpdateSettings refreshes the settings list
func (ui *CursesUIViewImpl) UpdateSettings(s settings.Settings) {
	if ui.settingsList == nil {
		return
	}
	current := ui.settingsList.GetCurrentItem()
	ui.settingsList.Clear()
	ui.settingsList.AddItem("Auto-advance: "+onOff(s.AutoAdvance), "Move to the next exercise when the countdown ends (a)", 0, nil)
	ui.settingsList.AddItem("Sound: "+onOff(s.SoundEnabled), "Beep on exercise start, last seconds and completion (s)", 0, nil)
	ui.settingsList.AddItem("Voice: "+onOff(s.VoiceEnabled), "Announce exercises and count down (v)", 0, nil)
	ui.settingsList.AddItem("Vibration: "+onOff(s.VibrationEnabled), "Vibrate on exercise completion", 0, nil)
	ui.settingsList.AddItem("Voice volume: "+formatPercent(s.VoiceVolume), "+/- to adjust", 0, nil)
	ui.settingsList.AddItem("Voice rate: "+formatRate(s.VoiceRate), "+/- to adjust", 0, nil)
	ui.settingsList.SetCurrentItem(current)
}
