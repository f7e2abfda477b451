package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wikitalk/crawler/pkg/client"
)

// Config holds scheduler configuration.
type Config struct {
	// Ceiling is the maximum descriptor count fetched with direct
	// per-descriptor concurrency. Larger inputs go through the worker pool,
	// which caps peak concurrent connections independent of input size.
	Ceiling int

	// Workers is the fixed pool size used above the ceiling.
	Workers int
}

// DefaultConfig returns safe default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Ceiling: 200,
		Workers: 50,
	}
}

// Progress receives one completion event per descriptor. It has no
// backpressure effect on the scheduler. May be nil.
type Progress func(desc Descriptor, err error)

// Outcome is the resolution of one descriptor: exactly one of Value or Err
// is meaningful. No descriptor is ever silently dropped.
type Outcome struct {
	Descriptor Descriptor
	Value      any
	Err        error
}

// Scheduler runs many continuation runners under a global concurrency ceiling.
type Scheduler struct {
	client *client.Client
	config Config
	logger zerolog.Logger
}

// NewScheduler creates a scheduler on top of a wiki client.
func NewScheduler(c *client.Client, cfg Config) *Scheduler {
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = 200
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 50
	}

	return &Scheduler{
		client: c,
		config: cfg,
		logger: log.With().Str("component", "scheduler").Logger(),
	}
}

// Fetch runs every descriptor to completion and aggregates the outcomes.
// Inputs at or under the ceiling run with one goroutine per descriptor and
// input-order correspondence; larger inputs run through the worker pool with
// completeness but no ordering guarantee. Cancellation stops new dispatch
// promptly; every descriptor still resolves to an explicit outcome.
func (s *Scheduler) Fetch(ctx context.Context, descs []Descriptor, handler Handler, progress Progress) (Results, error) {
	if len(descs) == 0 {
		return Results{}, nil
	}

	start := time.Now()

	var outcomes []Outcome
	if len(descs) <= s.config.Ceiling {
		s.logger.Info().
			Int("descriptors", len(descs)).
			Msg("Starting direct fetch")
		outcomes = s.fetchDirect(ctx, descs, handler, progress)
	} else {
		s.logger.Info().
			Int("descriptors", len(descs)).
			Int("workers", s.config.Workers).
			Msg("Starting pooled fetch")
		outcomes = s.fetchPooled(ctx, descs, handler, progress)
	}

	results := Aggregate(outcomes)

	s.logger.Info().
		Int("descriptors", len(descs)).
		Int("failed", len(results.Failed)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return results, ctx.Err()
}

// fetchDirect launches one runner per descriptor and awaits all completions.
// Outcome slots are indexed by input position, so no two goroutines share
// mutable state.
func (s *Scheduler) fetchDirect(ctx context.Context, descs []Descriptor, handler Handler, progress Progress) []Outcome {
	outcomes := make([]Outcome, len(descs))

	var wg sync.WaitGroup
	for i, desc := range descs {
		wg.Add(1)
		go func(i int, desc Descriptor) {
			defer wg.Done()
			outcomes[i] = s.runOne(ctx, desc, handler)
			if progress != nil {
				progress(desc, outcomes[i].Err)
			}
		}(i, desc)
	}
	wg.Wait()

	return outcomes
}

// fetchPooled distributes descriptors across a fixed pool of long-lived
// workers consuming a shared FIFO queue. Workers terminate only after the
// queue is drained; on cancellation remaining descriptors resolve to an
// explicit failure instead of being dropped.
func (s *Scheduler) fetchPooled(ctx context.Context, descs []Descriptor, handler Handler, progress Progress) []Outcome {
	queue := make(chan Descriptor, len(descs))
	for _, desc := range descs {
		queue <- desc
	}
	close(queue)

	outcomes := make([]Outcome, 0, len(descs))
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < s.config.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processed := 0

			for desc := range queue {
				outcome := s.runOne(ctx, desc, handler)

				mu.Lock()
				outcomes = append(outcomes, outcome)
				done := len(outcomes)
				mu.Unlock()

				if progress != nil {
					progress(desc, outcome.Err)
				}

				// Progress logging every 50 descriptors
				if done%50 == 0 {
					s.logger.Info().
						Int("done", done).
						Int("total", len(descs)).
						Float64("progress_pct", float64(done)/float64(len(descs))*100).
						Msg("Fetch progress")
				}
				processed++
			}

			if processed > 0 {
				s.logger.Debug().
					Int("worker_id", workerID).
					Int("descriptors_processed", processed).
					Msg("Worker completed")
			}
		}(w)
	}
	wg.Wait()

	return outcomes
}

// runOne resolves a single descriptor to an outcome. Cancellation short-
// circuits before any request is issued.
func (s *Scheduler) runOne(ctx context.Context, desc Descriptor, handler Handler) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{
			Descriptor: desc,
			Err:        fmt.Errorf("%w: %v", client.ErrContextCancelled, err),
		}
	}

	value, err := newRunner(s.client, desc, handler, s.logger).run(ctx)
	return Outcome{
		Descriptor: desc,
		Value:      value,
		Err:        err,
	}
}
