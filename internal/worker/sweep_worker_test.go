package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/playmatatu/billiards/internal/sweep"
)

func TestRunSweepJobWithoutBackends(t *testing.T) {
	sum, err := RunSweepJob(context.Background(), nil, nil, SweepJob{ID: 1, Spec: sweep.Spec{Samples: 4, Reflections: 5, Seed: 11}})
	if err != nil {
		t.Fatalf("RunSweepJob: %v", err)
	}
	if len(sum.Samples) != 4 {
		t.Errorf("samples = %d, want 4", len(sum.Samples))
	}
}

func TestRunSweepJobInvalid(t *testing.T) {
	_, err := RunSweepJob(context.Background(), nil, nil, SweepJob{ID: 2, Spec: sweep.Spec{Samples: 0, Reflections: 5}})
	if !errors.Is(err, sweep.ErrInvalidSpec) {
		t.Errorf("err = %v, want ErrInvalidSpec", err)
	}
}

func TestProgressReporterNeverGoesBackwards(t *testing.T) {
	var got []int
	p := newProgressReporter(100, func(done, total int) { got = append(got, done) })

	for _, done := range []int{2, 40, 20, 60, 60, 100, 80} {
		p.report(done, 100)
	}
	want := []int{2, 40, 60, 100}
	if len(got) != len(want) {
		t.Fatalf("emitted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("emitted %v, want %v", got, want)
		}
	}
}

func TestProgressReporterThrottles(t *testing.T) {
	var got []int
	p := newProgressReporter(500, func(done, total int) { got = append(got, done) })
	for done := 1; done <= 500; done++ {
		p.report(done, 500)
	}
	if len(got) != progressSteps {
		t.Errorf("emitted %d events, want %d", len(got), progressSteps)
	}
	if got[len(got)-1] != 500 {
		t.Errorf("last event = %d, want 500", got[len(got)-1])
	}
}

func TestProgressReporterConcurrent(t *testing.T) {
	var (
		mu  sync.Mutex
		got []int
	)
	p := newProgressReporter(10, func(done, total int) {
		mu.Lock()
		got = append(got, done)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for done := 200 - w; done > 0; done -= 8 {
				p.report(done, 200)
			}
		}(w)
	}
	wg.Wait()

	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("progress went backwards: %v", got)
		}
	}
}
