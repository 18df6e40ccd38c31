package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrDuplicateDay is returned when two workouts claim the same day.
var ErrDuplicateDay = errors.New("duplicate day")

// Catalog maps a day number (1..7) to its Workout. It is never mutated after
// New returns; the *Workout values it hands out must be treated as read-only.
type Catalog struct {
	workouts map[int]*Workout
	days     []int
}

// New validates workouts and indexes a copy of them by day. Each phase's
// Exercises must already list every round; Parse flattens repeated phases
// before calling New, so workouts taken from a Catalog can be passed back
// in unchanged. The input slice is not modified.
func New(workouts []Workout) (*Catalog, error) {
	validate := validator.New()

	c := &Catalog{workouts: make(map[int]*Workout, len(workouts))}
	for i := range workouts {
		w := workouts[i]
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("workout %d (%q): %w", i, w.Name, err)
		}
		if _, exists := c.workouts[w.DayNumber]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateDay, w.DayNumber)
		}
		copied := cloneWorkout(w)
		c.workouts[w.DayNumber] = &copied
		c.days = append(c.days, w.DayNumber)
	}
	sort.Ints(c.days)
	return c, nil
}

// cloneWorkout returns a deep copy of w.
func cloneWorkout(w Workout) Workout {
	phases := make([]Phase, len(w.Phases))
	for i, p := range w.Phases {
		p.Exercises = append([]Exercise(nil), p.Exercises...)
		phases[i] = p
	}
	w.Phases = phases
	return w
}

// expandRepeats returns a deep copy of w with every phase's exercise list
// written out once per round. It applies to declared (file) data only.
func expandRepeats(w Workout) Workout {
	phases := make([]Phase, len(w.Phases))
	for i, p := range w.Phases {
		rounds := p.Rounds()
		exercises := make([]Exercise, 0, len(p.Exercises)*rounds)
		for r := 0; r < rounds; r++ {
			exercises = append(exercises, p.Exercises...)
		}
		p.Exercises = exercises
		phases[i] = p
	}
	w.Phases = phases
	return w
}

// Get returns the workout for day.
func (c *Catalog) Get(day int) (*Workout, bool) {
	w, ok := c.workouts[day]
	return w, ok
}

// Days returns the days that have a workout, in ascending order.
func (c *Catalog) Days() []int {
	out := make([]int, len(c.days))
	copy(out, c.days)
	return out
}

// Workouts returns the workouts ordered by day.
func (c *Catalog) Workouts() []*Workout {
	out := make([]*Workout, 0, len(c.days))
	for _, d := range c.days {
		out = append(out, c.workouts[d])
	}
	return out
}

// Len returns the number of workouts in the catalog.
func (c *Catalog) Len() int {
	return len(c.days)
}
