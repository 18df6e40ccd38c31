package cues

import (
	"fmt"
	"log"
	"sync"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
)

// EventSource is the part of the engine the player listens to.
type EventSource interface {
	ListenToStatus(fn func(engine.StatusChange)) func()
	ListenToExerciseEntered(fn func(engine.ExerciseEntered)) func()
	ListenToExerciseCompleted(fn func(engine.ExerciseCompleted)) func()
	ListenToCountdownWarning(fn func(engine.CountdownWarning)) func()
}

// spokenCountdownFrom is the highest remaining second that is read aloud.
const spokenCountdownFrom = 3

// Player gates cues on the current settings and forwards them to a Speaker
// and a Beeper.
type Player struct {
	speaker Speaker
	beeper  Beeper
	logger  *log.Logger

	mu         sync.Mutex
	settings   settings.Settings
	unregister []func()
}

// NewPlayer creates a player with the given initial settings.
func NewPlayer(speaker Speaker, beeper Beeper, s settings.Settings, logger *log.Logger) *Player {
	if speaker == nil {
		panic("Player: speaker cannot be nil")
	}
	if beeper == nil {
		panic("Player: beeper cannot be nil")
	}
	if logger == nil {
		panic("Player: logger cannot be nil")
	}
	return &Player{
		speaker:  speaker,
		beeper:   beeper,
		logger:   logger,
		settings: s,
	}
}

// Attach subscribes the player to src. Calling Attach again adds another
// set of listeners; Detach removes all of them.
func (p *Player) Attach(src EventSource) {
	unregister := []func(){
		src.ListenToExerciseEntered(p.onExerciseEntered),
		src.ListenToExerciseCompleted(p.onExerciseCompleted),
		src.ListenToCountdownWarning(p.onCountdownWarning),
		src.ListenToStatus(p.onStatus),
	}
	p.mu.Lock()
	p.unregister = append(p.unregister, unregister...)
	p.mu.Unlock()
}

// Detach removes every listener registered by Attach and silences the
// speaker.
func (p *Player) Detach() {
	p.mu.Lock()
	unregister := p.unregister
	p.unregister = nil
	p.mu.Unlock()

	for _, fn := range unregister {
		fn()
	}
	p.speaker.Cancel()
}

// UpdateSettings replaces the gates used for subsequent cues. Turning the
// voice off cuts any announcement in progress.
func (p *Player) UpdateSettings(s settings.Settings) {
	p.mu.Lock()
	wasSpeaking := p.settings.VoiceEnabled
	p.settings = s
	p.mu.Unlock()

	if wasSpeaking && !s.VoiceEnabled {
		p.speaker.Cancel()
	}
}

// Settings returns the gates currently in effect.
func (p *Player) Settings() settings.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

func (p *Player) onExerciseEntered(ev engine.ExerciseEntered) {
	s := p.Settings()
	if s.SoundEnabled {
		p.beeper.Beep(CueExerciseStart)
	}
	if !s.VoiceEnabled {
		return
	}
	text := ev.Exercise.Name
	if ev.Exercise.Description != "" {
		text = fmt.Sprintf("%s. %s", text, ev.Exercise.Description)
	}
	if ev.PhaseStarted && ev.Phase != nil {
		text = fmt.Sprintf("%s. %s", ev.Phase.Name, text)
	}
	p.speak(s, text, true)
}

func (p *Player) onExerciseCompleted(ev engine.ExerciseCompleted) {
	s := p.Settings()
	if s.SoundEnabled {
		p.beeper.Beep(CueExerciseComplete)
	}
	if s.VibrationEnabled {
		// no haptic backend in a terminal
		p.logger.Printf("Player: Vibrate for %q skipped (no device)", ev.Exercise.Name)
	}
}

func (p *Player) onCountdownWarning(ev engine.CountdownWarning) {
	s := p.Settings()
	if s.SoundEnabled {
		p.beeper.Beep(CueTickWarning)
	}
	if s.VoiceEnabled && ev.SecondsRemaining <= spokenCountdownFrom {
		p.speak(s, fmt.Sprintf("%d", ev.SecondsRemaining), false)
	}
}

func (p *Player) onStatus(ev engine.StatusChange) {
	switch ev.Kind {
	case engine.StatusPause, engine.StatusReset:
		p.speaker.Cancel()
	case engine.StatusComplete:
		s := p.Settings()
		if s.SoundEnabled {
			p.beeper.Beep(CueWorkoutComplete)
		}
		if s.VoiceEnabled {
			p.speak(s, "Workout complete. Great job!", true)
		}
	}
}

func (p *Player) speak(s settings.Settings, text string, priority bool) {
	p.speaker.Speak(Utterance{
		Text:     text,
		Priority: priority,
		Volume:   s.VoiceVolume,
		Rate:     s.VoiceRate,
	})
}
