package engine

import "errors"

var (
	// ErrNotFound is returned by SelectDay for a day with no workout.
	ErrNotFound = errors.New("workout not found")
	// ErrNoWorkoutSelected is returned by Start before a day is selected.
	ErrNoWorkoutSelected = errors.New("no workout selected")
	// ErrAtBoundary is returned when navigation would move before the first
	// exercise or after the workout has completed. State is left unchanged.
	ErrAtBoundary = errors.New("at workout boundary")
)
