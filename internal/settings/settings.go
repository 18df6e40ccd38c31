// Package settings holds the user preferences that survive restarts.
package settings

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Settings are the user toggles for cues and progression.
type Settings struct {
	SoundEnabled     bool    `json:"soundEnabled" mapstructure:"soundEnabled"`
	VibrationEnabled bool    `json:"vibrationEnabled" mapstructure:"vibrationEnabled"`
	AutoAdvance      bool    `json:"autoAdvance" mapstructure:"autoAdvance"`
	VoiceEnabled     bool    `json:"voiceEnabled" mapstructure:"voiceEnabled"`
	VoiceVolume      float64 `json:"voiceVolume" mapstructure:"voiceVolume" validate:"gte=0,lte=1"`
	VoiceRate        float64 `json:"voiceRate" mapstructure:"voiceRate" validate:"gte=0.5,lte=2"`
}

// State is the persisted document: the last selected day plus settings.
type State struct {
	SelectedDay int      `json:"selectedDay" mapstructure:"selectedDay" validate:"gte=0,lte=7"`
	Settings    Settings `json:"settings" mapstructure:"settings"`
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{
		SoundEnabled:     true,
		VibrationEnabled: true,
		AutoAdvance:      true,
		VoiceEnabled:     true,
		VoiceVolume:      1.0,
		VoiceRate:        1.0,
	}
}

// DefaultState is Defaults with no day selected.
func DefaultState() State {
	return State{Settings: Defaults()}
}

var validate = validator.New()

// Validate checks the value ranges of s.
func (s State) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}
