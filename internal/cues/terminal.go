package cues

import (
	"log"
	"sync"
)

// LogSpeaker "speaks" by writing announcements to the log, which the
// terminal UI shows in its log pane.
type LogSpeaker struct {
	logger *log.Logger

	mu       sync.Mutex
	speaking bool
}

func NewLogSpeaker(logger *log.Logger) *LogSpeaker {
	if logger == nil {
		panic("LogSpeaker: logger cannot be nil")
	}
	return &LogSpeaker{logger: logger}
}

func (s *LogSpeaker) Speak(u Utterance) {
	s.mu.Lock()
	interrupted := u.Priority && s.speaking
	s.speaking = true
	s.mu.Unlock()

	if interrupted {
		s.logger.Printf("Speaker: (interrupted)")
	}
	s.logger.Printf("Speaker: %q [vol %.0f%% rate %.1fx]", u.Text, u.Volume*100, u.Rate)
}

func (s *LogSpeaker) Cancel() {
	s.mu.Lock()
	s.speaking = false
	s.mu.Unlock()
}

// Bell rings the terminal bell. tcell.Screen satisfies it.
type Bell interface {
	Beep() error
}

// TerminalBeeper maps cues onto terminal bells: one for start and warning
// cues, two for an exercise finishing, three for the workout finishing.
type TerminalBeeper struct {
	bell   Bell
	logger *log.Logger
	mu     sync.Mutex
}

func NewTerminalBeeper(bell Bell, logger *log.Logger) *TerminalBeeper {
	if bell == nil {
		panic("TerminalBeeper: bell cannot be nil")
	}
	if logger == nil {
		panic("TerminalBeeper: logger cannot be nil")
	}
	return &TerminalBeeper{bell: bell, logger: logger}
}

func (b *TerminalBeeper) Beep(kind CueKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 0; i < bellCount(kind); i++ {
		if err := b.bell.Beep(); err != nil {
			b.logger.Printf("TerminalBeeper: %s bell failed: %v", kind, err)
			return
		}
	}
}

func bellCount(kind CueKind) int {
	switch kind {
	case CueExerciseComplete:
		return 2
	case CueWorkoutComplete:
		return 3
	default:
		return 1
	}
}
