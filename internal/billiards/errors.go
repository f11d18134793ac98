package billiards

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTable       = errors.New("billiards: invalid table dimensions")
	ErrOutsideTable       = errors.New("billiards: start position is not on the table")
	ErrInvalidReflections = errors.New("billiards: reflections must be at least 1")
	ErrInvalidVelocity    = errors.New("billiards: velocity must be finite and non-zero")

	// ErrNoCollision is returned when the ray march finds no boundary crossing
	// within the table's time horizon.
	ErrNoCollision = errors.New("billiards: no collision within horizon")
)

// StepError records the collision step at which a run stopped.
type StepError struct {
	Step     int
	Position Vec2
	Velocity Vec2
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at (%.4f, %.4f) heading (%.4f, %.4f): %v",
		e.Step, e.Position.X, e.Position.Y, e.Velocity.X, e.Velocity.Y, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
