package timerui

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/events"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/safego"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
)

// UIState holds the current state of the UI that views need to render
type UIState struct {
	Mode UIMode
}

// TimerState is what the dashboard renders: an engine snapshot and the
// progress derived from it.
type TimerState struct {
	Engine   engine.State
	Progress progress.Progress
}

type UIModel struct {
	logEvent              *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	uiStateEvent          *events.ChannelEvent[UIState]
	uiState               UIState
	timerStateEvent       *events.ChannelEvent[TimerState]
	timerState            TimerState
	settingsEvent         *events.ChannelEvent[settings.Settings]
	settings              settings.Settings
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

const maxLogLines = 1000

func NewUIModel(logger *log.Logger, uiLogChan <-chan string, initial settings.Settings) *UIModel {
	if logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	model := &UIModel{
		logEvent:              events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		uiStateEvent:          events.NewChannelEvent[UIState](true),
		uiState:               UIState{Mode: UIModeWorkoutSelection},
		timerStateEvent:       events.NewChannelEvent[TimerState](true),
		timerState:            TimerState{Engine: engine.State{RunState: engine.RunStateIdle}},
		settingsEvent:         events.NewChannelEvent[settings.Settings](true),
		settings:              initial,
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}

	// Read from the UI log channel and populate logLines
	model.wg.Add(1)
	safego.Go(model.logger, func() { model.readFromLogChannel(ctx, uiLogChan) })

	return model
}

// Shutdown stops all goroutines and waits for them to finish
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// ListenToLog registers a channel to receive log messages
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToCloseApplication registers a channel to receive close application signals
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// ListenToUIState registers a channel to receive UI state changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

// GetUIState returns the current UI state
func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode and notifies listeners
func (m *UIModel) SetMode(mode UIMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// ListenToTimerState registers a channel to receive timer updates
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToTimerState(ch chan<- TimerState) func() {
	return m.timerStateEvent.Listen(ch)
}

// GetTimerState returns the latest timer state
func (m *UIModel) GetTimerState() TimerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timerState
}

// SetTimerState updates the timer state and notifies listeners
func (m *UIModel) SetTimerState(state TimerState) {
	m.mu.Lock()
	m.timerState = state
	m.mu.Unlock()

	m.timerStateEvent.Notify(state)
}

// ListenToSettings registers a channel to receive settings changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToSettings(ch chan<- settings.Settings) func() {
	return m.settingsEvent.Listen(ch)
}

// GetSettings returns the current settings
func (m *UIModel) GetSettings() settings.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetSettings updates the settings and notifies listeners
func (m *UIModel) SetSettings(s settings.Settings) {
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()

	m.settingsEvent.Notify(s)
}

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}

	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}

	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
