// Package sweep runs many independent billiard simulations in parallel and
// summarises the distribution of their normalised arc-length keys.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"github.com/playmatatu/billiards/internal/billiards"
	"github.com/playmatatu/billiards/internal/keyring"
	"golang.org/x/sync/errgroup"
)

const (
	// GridPoints is the size of the dimension and angle grids draws come from.
	GridPoints  = 500
	MaxDim      = 10.0
	DefaultBins = 20
)

var ErrInvalidSpec = errors.New("sweep: invalid spec")

// Spec describes one sweep. With a nil Table every sample draws a random
// stadium from the dimension grid; otherwise only the launch angle varies.
type Spec struct {
	Samples     int             `json:"samples"`
	Reflections int             `json:"reflections"`
	Bins        int             `json:"bins"`
	Seed        uint64          `json:"seed"`
	Workers     int             `json:"-"`
	Table       billiards.Table `json:"-"`
}

// Sample is the outcome of one simulation.
type Sample struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
	Key    float64 `json:"key"`
	Err    string  `json:"error,omitempty"`
}

// Summary is the result of a sweep.
type Summary struct {
	Samples   []Sample  `json:"samples"`
	Failed    int       `json:"failed"`
	Histogram Histogram `json:"histogram"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"stddev"`
}

// Keys returns the keys of all successful samples in index order.
func (s Summary) Keys() []float64 {
	keys := make([]float64, 0, len(s.Samples))
	for _, smp := range s.Samples {
		if smp.Err == "" {
			keys = append(keys, smp.Key)
		}
	}
	return keys
}

// Progress is called after each finished sample. It may be called from
// several goroutines at once.
type Progress func(done, total int)

// Validate checks s and fills in defaults for Bins and Workers.
func (s *Spec) Validate() error {
	if s.Samples < 1 {
		return fmt.Errorf("%w: samples must be at least 1", ErrInvalidSpec)
	}
	if s.Reflections < billiards.MinReflections {
		return fmt.Errorf("%w: reflections must be at least %d", ErrInvalidSpec, billiards.MinReflections)
	}
	if s.Bins <= 0 {
		s.Bins = DefaultBins
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	if s.Table != nil {
		if err := s.Table.Validate(); err != nil {
			return err
		}
		if !billiards.SupportsPhaseSpace(s.Table) {
			return fmt.Errorf("%w: %s tables have no phase space", ErrInvalidSpec, s.Table.Variant())
		}
	}
	return nil
}

// draw picks every sample's table and angle up front from a single seeded
// source, so results do not depend on scheduling.
func (s Spec) draw() []Sample {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	out := make([]Sample, s.Samples)
	for i := range out {
		out[i].Index = i
		if s.Table == nil {
			out[i].Width = dimGrid(rng.IntN(GridPoints))
			out[i].Height = dimGrid(rng.IntN(GridPoints))
		} else {
			out[i].Width, out[i].Height = s.Table.Dims()
		}
		out[i].Angle = angleGrid(rng.IntN(GridPoints))
	}
	return out
}

// dimGrid excludes zero so every drawn stadium is valid.
func dimGrid(i int) float64 {
	return MaxDim * float64(i+1) / GridPoints
}

func angleGrid(i int) float64 {
	return 2 * math.Pi * float64(i) / (GridPoints - 1)
}

// Run executes spec on a bounded pool of workers. A failed simulation is
// recorded on its sample and excluded from the statistics; only context
// cancellation aborts the sweep.
func Run(ctx context.Context, spec Spec, progress Progress) (*Summary, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	samples := spec.draw()
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spec.Workers)
	for i := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			smp := &samples[i]
			table := spec.Table
			if table == nil {
				table = billiards.Stadium{Width: smp.Width, Height: smp.Height}
			}
			key, err := keyring.Scalar(table, smp.Angle, spec.Reflections)
			if err != nil {
				smp.Err = err.Error()
			} else {
				smp.Key = key
			}
			n := int(done.Add(1))
			if progress != nil {
				progress(n, len(samples))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := &Summary{Samples: samples}
	keys := sum.Keys()
	sum.Failed = len(samples) - len(keys)
	if sum.Failed > 0 {
		log.Printf("[SWEEP] %d of %d samples failed", sum.Failed, len(samples))
	}
	sum.Histogram = NewHistogram(keys, spec.Bins)
	sum.Mean, sum.StdDev = moments(keys)
	return sum, nil
}
