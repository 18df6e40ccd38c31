package catalog

// Exercise is the smallest timed unit of a workout.
type Exercise struct {
	Name            string `yaml:"name" toml:"name" validate:"required"`
	DurationSeconds int    `yaml:"duration_seconds" toml:"duration_seconds" validate:"gt=0"`
	Description     string `yaml:"description" toml:"description"`
}

// Phase is a named block of a workout such as "Warm-Up".
//
// DurationMinutes is a display estimate used to scale progress bars. The
// phase actually ends when its exercise list is exhausted.
type Phase struct {
	Name            string     `yaml:"name" toml:"name" validate:"required"`
	DurationMinutes float64    `yaml:"duration_minutes" toml:"duration_minutes" validate:"gte=0"`
	Exercises       []Exercise `yaml:"exercises" toml:"exercise" validate:"required,min=1,dive"`
	Optional        bool       `yaml:"optional,omitempty" toml:"optional,omitempty"`
	// RepeatCount is the number of rounds. Parse flattens the declared
	// exercise list this many times, so in a Catalog Exercises already holds
	// every round. Zero means a single round.
	RepeatCount int `yaml:"repeat,omitempty" toml:"repeat,omitempty" validate:"gte=0"`
}

// Workout is the program for one day of the week.
type Workout struct {
	DayNumber       int     `yaml:"day" toml:"day" validate:"min=1,max=7"`
	Name            string  `yaml:"name" toml:"name" validate:"required"`
	Focus           string  `yaml:"focus" toml:"focus"`
	DurationMinutes float64 `yaml:"duration_minutes" toml:"duration_minutes" validate:"gte=0"`
	Phases          []Phase `yaml:"phases" toml:"phase" validate:"required,min=1,dive"`
}

// Rounds returns the number of rounds the phase was declared with.
func (p *Phase) Rounds() int {
	if p.RepeatCount < 1 {
		return 1
	}
	return p.RepeatCount
}

// DurationSeconds returns the declared (advisory) phase duration.
func (p *Phase) DurationSeconds() float64 {
	return p.DurationMinutes * 60
}

// ExerciseSeconds returns the sum of all exercise durations in the phase.
// This is what actually elapses when the phase is played through.
func (p *Phase) ExerciseSeconds() int {
	total := 0
	for _, e := range p.Exercises {
		total += e.DurationSeconds
	}
	return total
}

// RoundSeconds returns the length of one pass through the phase's exercises.
func (p *Phase) RoundSeconds() int {
	return p.ExerciseSeconds() / p.Rounds()
}

// DeclaredSeconds returns the sum of the declared phase durations.
func (w *Workout) DeclaredSeconds() float64 {
	var total float64
	for i := range w.Phases {
		total += w.Phases[i].DurationSeconds()
	}
	return total
}

// ExerciseSeconds returns the sum of every exercise duration in the workout.
func (w *Workout) ExerciseSeconds() int {
	total := 0
	for i := range w.Phases {
		total += w.Phases[i].ExerciseSeconds()
	}
	return total
}

// ExerciseCount returns the number of exercises across all phases.
func (w *Workout) ExerciseCount() int {
	total := 0
	for i := range w.Phases {
		total += len(w.Phases[i].Exercises)
	}
	return total
}
