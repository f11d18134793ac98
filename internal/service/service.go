// Package service validates simulation requests, runs them on the billiards
// engine and shapes the results for the HTTP and websocket layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/playmatatu/billiards/internal/billiards"
	"github.com/playmatatu/billiards/internal/redis"
)

var ErrInvalidRequest = errors.New("invalid simulation request")

// Request is one simulation. Angle is in degrees, counter-clockwise from +x.
type Request struct {
	Table       TableSpec `json:"table"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Angle       float64   `json:"angle"`
	Reflections int       `json:"reflections"`
	PhaseSpace  bool      `json:"phase_space"`
}

// Response carries a finished (or, with Partial set, interrupted) run.
type Response struct {
	Table       TableSpec               `json:"table"`
	Reflections int                     `json:"reflections"`
	Perimeter   float64                 `json:"perimeter"`
	Trajectory  []billiards.Vec2        `json:"trajectory"`
	Contacts    []billiards.ContactKind `json:"contacts"`
	Velocities  []billiards.Vec2        `json:"velocities"`
	PhaseSpace  []billiards.PhaseSample `json:"phase_space,omitempty"`
	KeyScalar   *float64                `json:"key_scalar,omitempty"`
	Partial     bool                    `json:"partial,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Cached      bool                    `json:"cached"`
}

// Steps rebuilds the per-collision view of the response.
func (r *Response) Steps() []billiards.Step {
	res := billiards.Result{
		Trajectory: r.Trajectory,
		Contacts:   r.Contacts,
		Velocities: r.Velocities,
		PhaseSpace: r.PhaseSpace,
	}
	return res.Steps()
}

// Simulator runs requests within configured limits. Cache may be nil.
type Simulator struct {
	MaxReflections int
	Cache          *redis.ResultCache
}

func NewSimulator(maxReflections int, cache *redis.ResultCache) *Simulator {
	return &Simulator{MaxReflections: maxReflections, Cache: cache}
}

// Prepare validates req and returns the table and starting ball.
func (s *Simulator) Prepare(req Request) (billiards.Table, billiards.Ball, error) {
	t, err := req.Table.Build()
	if err != nil {
		return nil, billiards.Ball{}, err
	}
	if req.Reflections < billiards.MinReflections {
		return nil, billiards.Ball{}, fmt.Errorf("%w: %w", ErrInvalidRequest, billiards.ErrInvalidReflections)
	}
	if s.MaxReflections > 0 && req.Reflections > s.MaxReflections {
		return nil, billiards.Ball{}, fmt.Errorf("%w: reflections capped at %d", ErrInvalidRequest, s.MaxReflections)
	}
	if math.IsNaN(req.Angle) || math.IsInf(req.Angle, 0) {
		return nil, billiards.Ball{}, fmt.Errorf("%w: angle must be finite", ErrInvalidRequest)
	}
	pos := billiards.NewVec2(req.X, req.Y)
	if err := billiards.ValidateStart(t, pos); err != nil {
		return nil, billiards.Ball{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return t, billiards.NewBall(req.X, req.Y, req.Angle), nil
}

// Simulate runs req, consulting the cache first. When the run stops early
// the partial response is returned together with the *billiards.StepError.
func (s *Simulator) Simulate(ctx context.Context, req Request) (*Response, error) {
	t, ball, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}

	key, kerr := redis.CacheKey(req)
	if kerr == nil {
		var cached Response
		if ok, err := s.Cache.Get(ctx, key, &cached); err != nil {
			log.Printf("[CACHE] get %s failed: %v", key, err)
		} else if ok {
			cached.Cached = true
			if cached.Partial {
				return &cached, &billiards.StepError{Step: cached.Reflections + 1, Err: billiards.ErrNoCollision}
			}
			return &cached, nil
		}
	}

	res, runErr := billiards.Run(ball, t, req.Reflections, req.PhaseSpace)
	if runErr != nil && !errors.Is(runErr, billiards.ErrNoCollision) {
		return nil, runErr
	}
	resp := newResponse(t, res, runErr)
	if runErr != nil {
		log.Printf("[SIM] %s run stopped after %d of %d reflections: %v", t.Variant(), resp.Reflections, req.Reflections, runErr)
	}

	if kerr == nil {
		if err := s.Cache.Set(ctx, key, resp); err != nil {
			log.Printf("[CACHE] set %s failed: %v", key, err)
		}
	}
	return resp, runErr
}

// Stream simulates req and passes every collision step to emit in order. It
// stops at the first emit error or when ctx is done.
func (s *Simulator) Stream(ctx context.Context, req Request, emit func(billiards.Step) error) (*Response, error) {
	resp, runErr := s.Simulate(ctx, req)
	if resp == nil {
		return nil, runErr
	}
	for _, step := range resp.Steps() {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		if err := emit(step); err != nil {
			return resp, err
		}
	}
	return resp, runErr
}

func newResponse(t billiards.Table, res billiards.Result, runErr error) *Response {
	resp := &Response{
		Table:       SpecFor(t),
		Reflections: res.Reflections(),
		Perimeter:   t.Perimeter(),
		Trajectory:  res.Trajectory,
		Contacts:    res.Contacts,
		Velocities:  res.Velocities,
		PhaseSpace:  res.PhaseSpace,
	}
	if k, ok := res.KeyScalar(); ok {
		resp.KeyScalar = &k
	}
	if runErr != nil {
		resp.Partial = true
		resp.Error = runErr.Error()
	}
	return resp
}
