package timerui

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
)

func newTestModel(t *testing.T) (*UIModel, chan string) {
	t.Helper()
	logChan := make(chan string, 16)
	m := NewUIModel(log.New(io.Discard, "", 0), logChan, settings.Defaults())
	t.Cleanup(m.Shutdown)
	return m, logChan
}

func TestUIModel_LogTail(t *testing.T) {
	m, logChan := newTestModel(t)
	for i := 0; i < 5; i++ {
		logChan <- fmt.Sprintf("line %d\n", i)
	}

	require.Eventually(t, func() bool { return len(m.GetLogTail(10)) == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"line 3\n", "line 4\n"}, m.GetLogTail(2))
	assert.Empty(t, m.GetLogTail(0))
}

func TestUIModel_LogTailIsBounded(t *testing.T) {
	m, logChan := newTestModel(t)
	go func() {
		for i := 0; i < maxLogLines+10; i++ {
			logChan <- fmt.Sprintf("%d", i)
		}
	}()

	want := fmt.Sprintf("%d", maxLogLines+9)
	require.Eventually(t, func() bool {
		tail := m.GetLogTail(1)
		return len(tail) == 1 && tail[0] == want
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, m.GetLogTail(maxLogLines*2), maxLogLines)
}

func TestUIModel_SetModeNotifiesOnChangeOnly(t *testing.T) {
	m, _ := newTestModel(t)
	ch := make(chan UIState, 4)
	defer m.ListenToUIState(ch)()

	m.SetMode(UIModeWorkoutSelection)
	m.SetMode(UIModeTimerDashboard)
	m.SetMode(UIModeTimerDashboard)

	require.Len(t, ch, 1)
	assert.Equal(t, UIModeTimerDashboard, (<-ch).Mode)
	assert.Equal(t, UIModeTimerDashboard, m.GetUIState().Mode)
}

func TestUIModel_TimerStateReplaysToLateListener(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetTimerState(TimerState{Engine: engine.State{SelectedDay: 4, RunState: engine.RunStatePaused}})

	ch := make(chan TimerState, 1)
	defer m.ListenToTimerState(ch)()

	require.Len(t, ch, 1)
	assert.Equal(t, 4, (<-ch).Engine.SelectedDay)
	assert.Equal(t, engine.RunStatePaused, m.GetTimerState().Engine.RunState)
}

func TestUIModel_Settings(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, settings.Defaults(), m.GetSettings())

	ch := make(chan settings.Settings, 1)
	defer m.ListenToSettings(ch)()

	s := settings.Defaults()
	s.VoiceRate = 1.5
	m.SetSettings(s)

	require.Len(t, ch, 1)
	assert.Equal(t, 1.5, (<-ch).VoiceRate)
}

func TestNewUIModel_NilArgumentsPanic(t *testing.T) {
	assert.Panics(t, func() { NewUIModel(nil, make(chan string), settings.Defaults()) })
	assert.Panics(t, func() { NewUIModel(log.New(io.Discard, "", 0), nil, settings.Defaults()) })
}

func TestLogChannelWriter(t *testing.T) {
	ch := make(chan string, 1)
	logger := log.New(NewLogChannelWriter(ch), "", 0)

	logger.Printf("Engine: Day %d selected", 1)
	logger.Printf("dropped while the channel is full")

	require.Len(t, ch, 1)
	assert.Equal(t, "Engine: Day 1 selected\n", <-ch)
}

func TestModes(t *testing.T) {
	mode, ok := GetUIModeByKey('2')
	require.True(t, ok)
	assert.Equal(t, UIModeTimerDashboard, mode)

	_, ok = GetUIModeByKey('9')
	assert.False(t, ok)

	info, ok := GetUIModeInfo(UIModeSettings)
	require.True(t, ok)
	assert.Equal(t, '3', info.KeyBinding)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░", progressBar(0, 4))
	assert.Equal(t, "██░░", progressBar(50, 4))
	assert.Equal(t, "████", progressBar(100, 4))
	assert.Equal(t, "████", progressBar(250, 4))
	assert.Equal(t, "░░░░", progressBar(-3, 4))
	assert.Equal(t, "", progressBar(50, 0))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45 min", formatMinutes(45))
	assert.Equal(t, "1h", formatMinutes(60))
	assert.Equal(t, "1h 30m", formatMinutes(90))
	assert.Equal(t, "15 sec", formatMinutes(0.25))
	assert.Equal(t, "0 min", formatMinutes(0))
}
