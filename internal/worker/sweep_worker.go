// Package worker runs long simulation jobs in the background and reports
// their progress through PostgreSQL and Redis.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	rstore "github.com/playmatatu/billiards/internal/redis"
	"github.com/playmatatu/billiards/internal/store"
	"github.com/playmatatu/billiards/internal/sweep"
	"github.com/redis/go-redis/v9"
)

// progressSteps is how many progress events a sweep emits at most.
const progressSteps = 50

// SweepJob is a persisted sweep waiting to run.
type SweepJob struct {
	ID   int64
	Spec sweep.Spec
}

// StartSweepJob runs job in its own goroutine with the given timeout.
func StartSweepJob(db *sqlx.DB, rdb *redis.Client, job SweepJob, timeout time.Duration) {
	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		RunSweepJob(ctx, db, rdb, job)
	}()
}

// RunSweepJob executes job, publishing throttled progress and recording the
// outcome. Persistence and publish failures are logged, not returned.
func RunSweepJob(ctx context.Context, db *sqlx.DB, rdb *redis.Client, job SweepJob) (*sweep.Summary, error) {
	started := time.Now()
	log.Printf("[SWEEP] sweep %d started: samples=%d reflections=%d", job.ID, job.Spec.Samples, job.Spec.Reflections)

	progress := newProgressReporter(job.Spec.Samples, func(done, total int) {
		if db != nil {
			if err := store.UpdateSweepProgress(db, job.ID, done); err != nil {
				log.Printf("[DB] sweep %d progress update failed: %v", job.ID, err)
			}
		}
		publish(ctx, rdb, rstore.SweepEvent{Type: rstore.EventSweepProgress, SweepID: job.ID, Done: done, Total: total})
	})

	sum, err := sweep.Run(ctx, job.Spec, progress.report)
	if err != nil {
		log.Printf("[SWEEP] sweep %d failed after %s: %v", job.ID, time.Since(started), err)
		if db != nil {
			if ferr := store.FailSweep(db, job.ID, err.Error()); ferr != nil {
				log.Printf("[DB] sweep %d fail update failed: %v", job.ID, ferr)
			}
		}
		publish(context.Background(), rdb, rstore.SweepEvent{Type: rstore.EventSweepFailed, SweepID: job.ID, Total: job.Spec.Samples, Error: err.Error()})
		return nil, err
	}

	total := len(sum.Samples)
	if db != nil {
		if err := store.CompleteSweep(db, job.ID, total, sum.Failed, sum.Mean, sum.StdDev, sum.Histogram); err != nil {
			log.Printf("[DB] sweep %d completion update failed: %v", job.ID, err)
		}
	}
	publish(ctx, rdb, rstore.SweepEvent{Type: rstore.EventSweepDone, SweepID: job.ID, Done: total, Total: total})
	log.Printf("[SWEEP] sweep %d done in %s: mean=%.4f stddev=%.4f failed=%d", job.ID, time.Since(started), sum.Mean, sum.StdDev, sum.Failed)
	return sum, nil
}

// progressReporter throttles sweep progress and serialises it. Workers finish
// out of order, so a count at or below the last one reported is dropped and
// the stored progress never moves backwards.
type progressReporter struct {
	mu    sync.Mutex
	every int
	last  int
	emit  func(done, total int)
}

func newProgressReporter(samples int, emit func(done, total int)) *progressReporter {
	every := samples / progressSteps
	if every < 1 {
		every = 1
	}
	return &progressReporter{every: every, emit: emit}
}

func (p *progressReporter) report(done, total int) {
	if done%p.every != 0 && done != total {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if done <= p.last {
		return
	}
	p.last = done
	p.emit(done, total)
}

func publish(ctx context.Context, rdb *redis.Client, ev rstore.SweepEvent) {
	if _, err := rstore.PublishSweepEvent(ctx, rdb, ev); err != nil {
		log.Printf("[SWEEP] publish %s for sweep %d failed: %v", ev.Type, ev.SweepID, err)
	}
}
