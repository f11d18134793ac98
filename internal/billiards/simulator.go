package billiards

import "fmt"

// Ball is the mutable state of one ball during a run.
type Ball struct {
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
}

// NewBall places a ball at (x, y) moving at unit speed in the given direction
// (degrees, counter-clockwise from +x).
func NewBall(x, y, degrees float64) Ball {
	return Ball{Position: NewVec2(x, y), Velocity: FromAngle(degrees)}
}

// Step describes one collision of a run.
type Step struct {
	Index    int          `json:"index"`
	Point    Vec2         `json:"point"`
	Kind     ContactKind  `json:"kind"`
	Velocity Vec2         `json:"velocity"`
	Phase    *PhaseSample `json:"phase,omitempty"`
}

// Result holds the owned outputs of one run.
type Result struct {
	Table Table `json:"-"`
	// Trajectory starts with the initial position followed by every
	// collision point.
	Trajectory []Vec2        `json:"trajectory"`
	Contacts   []ContactKind `json:"contacts"`
	Velocities []Vec2        `json:"velocities"`
	PhaseSpace []PhaseSample `json:"phase_space,omitempty"`
	Final      Ball          `json:"final"`
}

// Reflections is the number of completed collision steps.
func (r Result) Reflections() int {
	return len(r.Contacts)
}

// Steps returns the collision steps in order.
func (r Result) Steps() []Step {
	steps := make([]Step, len(r.Contacts))
	for i := range r.Contacts {
		steps[i] = Step{
			Index:    i + 1,
			Point:    r.Trajectory[i+1],
			Kind:     r.Contacts[i],
			Velocity: r.Velocities[i],
		}
		if i < len(r.PhaseSpace) {
			ps := r.PhaseSpace[i]
			steps[i].Phase = &ps
		}
	}
	return steps
}

// KeyScalar is the last arc length normalised by the stadium perimeter. It is
// defined only for stadium runs with a phase-space sequence.
func (r Result) KeyScalar() (float64, bool) {
	s, ok := r.Table.(Stadium)
	if !ok || len(r.PhaseSpace) == 0 {
		return 0, false
	}
	return r.PhaseSpace[len(r.PhaseSpace)-1].S / s.Perimeter(), true
}

// Run simulates exactly reflections collisions of ball on t. When phase is
// set and the table supports it, one phase sample is recorded per collision.
//
// Run is pure: it only mutates its own copy of ball and may be called from
// any number of goroutines sharing t. If a step finds no collision within the
// horizon the run stops and the partial result is returned with a *StepError
// wrapping ErrNoCollision.
func Run(ball Ball, t Table, reflections int, phase bool) (Result, error) {
	if t == nil {
		return Result{}, fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	if reflections < MinReflections {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidReflections, reflections)
	}
	if !ball.Velocity.IsFinite() || ball.Velocity.IsZero() {
		return Result{}, ErrInvalidVelocity
	}

	phase = phase && SupportsPhaseSpace(t)
	res := Result{
		Table:      t,
		Trajectory: make([]Vec2, 0, reflections+1),
		Contacts:   make([]ContactKind, 0, reflections),
		Velocities: make([]Vec2, 0, reflections),
	}
	if phase {
		res.PhaseSpace = make([]PhaseSample, 0, reflections)
	}
	res.Trajectory = append(res.Trajectory, ball.Position)

	for i := 0; i < reflections; i++ {
		c := t.NextCollision(ball.Position, ball.Velocity)
		if !c.Found() {
			res.Final = ball
			return res, &StepError{Step: i + 1, Position: ball.Position, Velocity: ball.Velocity, Err: ErrNoCollision}
		}

		ball.Velocity, _ = t.reflect(ball.Velocity, c)
		ball.Position = c.Point

		res.Trajectory = append(res.Trajectory, c.Point)
		res.Contacts = append(res.Contacts, c.Kind)
		res.Velocities = append(res.Velocities, ball.Velocity)
		if phase {
			if ps, ok := t.phase(ball.Velocity, c); ok {
				res.PhaseSpace = append(res.PhaseSpace, ps)
			}
		}
	}

	res.Final = ball
	return res, nil
}
