// Package cues turns engine events into beeps and spoken announcements.
package cues

// CueKind identifies a sound cue.
type CueKind int

const (
	CueExerciseStart CueKind = iota
	CueTickWarning
	CueExerciseComplete
	CueWorkoutComplete
)

func (k CueKind) String() string {
	switch k {
	case CueExerciseStart:
		return "exercise-start"
	case CueTickWarning:
		return "tick-warning"
	case CueExerciseComplete:
		return "exercise-complete"
	case CueWorkoutComplete:
		return "workout-complete"
	default:
		return "unknown"
	}
}

// Utterance is one announcement. Volume is in [0,1] and Rate in [0.5,2].
type Utterance struct {
	Text string
	// Priority utterances cancel whatever is still being spoken.
	Priority bool
	Volume   float64
	Rate     float64
}

// Speaker speaks announcements. Speak must not block the caller for the
// duration of the speech.
type Speaker interface {
	Speak(u Utterance)
	Cancel()
}

// Beeper plays short sound cues.
type Beeper interface {
	Beep(kind CueKind)
}
