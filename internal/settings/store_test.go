package settings

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "settings.json"), log.New(io.Discard, "", 0))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaults(t *testing.T) {
	d := DefaultState()
	assert.Equal(t, 0, d.SelectedDay)
	assert.True(t, d.Settings.SoundEnabled)
	assert.True(t, d.Settings.VibrationEnabled)
	assert.True(t, d.Settings.AutoAdvance)
	assert.True(t, d.Settings.VoiceEnabled)
	assert.Equal(t, 1.0, d.Settings.VoiceVolume)
	assert.Equal(t, 1.0, d.Settings.VoiceRate)
	assert.NoError(t, d.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*State)
		wantErr bool
	}{
		{"defaults", func(*State) {}, false},
		{"day 7", func(s *State) { s.SelectedDay = 7 }, false},
		{"day 8", func(s *State) { s.SelectedDay = 8 }, true},
		{"negative day", func(s *State) { s.SelectedDay = -1 }, true},
		{"silent volume", func(s *State) { s.Settings.VoiceVolume = 0 }, false},
		{"volume too high", func(s *State) { s.Settings.VoiceVolume = 1.5 }, true},
		{"slowest rate", func(s *State) { s.Settings.VoiceRate = 0.5 }, false},
		{"rate too low", func(s *State) { s.Settings.VoiceRate = 0.2 }, true},
		{"rate too high", func(s *State) { s.Settings.VoiceRate = 2.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultState()
			tt.mutate(&st)
			err := st.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStore_LoadMissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), st)
}

func TestStore_SaveThenLoad(t *testing.T) {
	s := newTestStore(t)
	want := State{
		SelectedDay: 4,
		Settings: Settings{
			SoundEnabled:     false,
			VibrationEnabled: true,
			AutoAdvance:      false,
			VoiceEnabled:     true,
			VoiceVolume:      0.4,
			VoiceRate:        1.5,
		},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SaveWritesCamelCaseDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(DefaultState()))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"selectedDay"`)
	assert.Contains(t, string(raw), `"voiceVolume"`)
	assert.NoFileExists(t, s.Path()+".tmp")
}

func TestStore_PartialFileOverlaysDefaults(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"selectedDay": 2, "settings": {"soundEnabled": false}}`)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, st.SelectedDay)
	assert.False(t, st.Settings.SoundEnabled)
	assert.True(t, st.Settings.VoiceEnabled)
	assert.Equal(t, 1.0, st.Settings.VoiceRate)
}

func TestStore_CorruptFileFallsBackToDefaults(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"selectedDay": `)

	st, err := s.Load()
	assert.Error(t, err)
	assert.Equal(t, DefaultState(), st)
}

func TestStore_OutOfRangeFallsBackToDefaults(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"selectedDay": 3, "settings": {"voiceVolume": 7}}`)

	st, err := s.Load()
	assert.Error(t, err)
	assert.Equal(t, DefaultState(), st)
}

func TestStore_EnvironmentOverridesFile(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"selectedDay": 3, "settings": {"autoAdvance": true}}`)
	t.Setenv("INTERVAL_TIMER_PREFS_SETTINGS_AUTOADVANCE", "false")
	t.Setenv("INTERVAL_TIMER_PREFS_SELECTEDDAY", "5")

	st, err := s.Load()
	require.NoError(t, err)
	assert.False(t, st.Settings.AutoAdvance)
	assert.Equal(t, 5, st.SelectedDay)
}

func TestStore_SettingsPathVariableDoesNotShadowFile(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"selectedDay": 3, "settings": {"soundEnabled": true, "vibrationEnabled": true, "autoAdvance": false, "voiceEnabled": true, "voiceVolume": 0.8, "voiceRate": 1.5}}`)
	t.Setenv("INTERVAL_TIMER_SETTINGS", s.Path())
	t.Setenv("INTERVAL_TIMER_SELECTEDDAY", "6")

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, st.SelectedDay)
	assert.False(t, st.Settings.AutoAdvance)
	assert.Equal(t, 0.8, st.Settings.VoiceVolume)
	assert.Equal(t, 1.5, st.Settings.VoiceRate)
}

func TestStore_SaveRejectsInvalidState(t *testing.T) {
	s := newTestStore(t)
	err := s.Save(State{SelectedDay: 9, Settings: Defaults()})
	assert.Error(t, err)
	assert.NoFileExists(t, s.Path())
}

func TestNewStore_DefaultPath(t *testing.T) {
	s := NewStore("", log.New(io.Discard, "", 0))
	assert.Equal(t, DefaultPath(), s.Path())
	assert.Equal(t, "settings.json", filepath.Base(s.Path()))
}

func TestNewStore_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { NewStore("x.json", nil) })
}
