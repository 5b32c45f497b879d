// Package sched runs exported batches. It is the consuming side of the
// graph package's contract: a task starts only after every task named
// in its predecessor set has finished, and no other ordering is
// promised. Independent tasks run concurrently on a bounded worker
// pool.
package sched

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/taskgraph/internal/metrics"
	"github.com/example/taskgraph/pkg/graph"
)

var (
	// ErrDuplicateLabel is returned when a batch carries two entries
	// with the same label.
	ErrDuplicateLabel = errors.New("duplicate label in batch")

	// ErrDanglingLabel is returned when an entry names a predecessor
	// absent from the batch.
	ErrDanglingLabel = errors.New("predecessor not in batch")

	// ErrStalled is returned when no task can make progress before the
	// batch is complete. Unreachable for batches produced by the graph
	// package, which cannot express cycles.
	ErrStalled = errors.New("batch stalled with tasks unreachable")
)

// Runner executes one task. A non-nil error fails the whole batch:
// in-flight tasks finish, nothing new starts.
type Runner[T any] func(ctx context.Context, id graph.NodeID, task T) error

// Scheduler executes batches with a fixed number of workers.
type Scheduler[T any] struct {
	run     Runner[T]
	workers int
}

// New creates a Scheduler running tasks through run on workers
// goroutines. workers below 1 is treated as 1.
func New[T any](run Runner[T], workers int) *Scheduler[T] {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler[T]{run: run, workers: workers}
}

type result struct {
	label graph.NodeID
	err   error
}

// Execute runs every entry of the batch, honoring predecessor sets.
// It returns the first task error, ctx.Err() on cancellation, or nil
// once every task has finished.
func (s *Scheduler[T]) Execute(ctx context.Context, batch graph.Batch[T]) error {
	start := time.Now()
	err := s.execute(ctx, batch)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.BatchesExecuted.WithLabelValues(status).Inc()
	metrics.BatchSize.Observe(float64(len(batch)))
	log.Printf("sched: batch of %d tasks finished in %s (status=%s)", len(batch), time.Since(start).Round(time.Millisecond), status)
	return err
}

func (s *Scheduler[T]) execute(ctx context.Context, batch graph.Batch[T]) error {
	if len(batch) == 0 {
		return nil
	}

	entries := make(map[graph.NodeID]graph.Entry[T], len(batch))
	for _, e := range batch {
		if _, dup := entries[e.Label]; dup {
			return fmt.Errorf("%s: %w", e.Label, ErrDuplicateLabel)
		}
		entries[e.Label] = e
	}

	// pending counts unfinished predecessors per task; dependents is the
	// reverse adjacency used to release waiters on completion.
	pending := make(map[graph.NodeID]int, len(batch))
	dependents := make(map[graph.NodeID][]graph.NodeID)
	for _, e := range batch {
		for _, dep := range e.After {
			if _, ok := entries[dep]; !ok {
				return fmt.Errorf("%s waits on %s: %w", e.Label, dep, ErrDanglingLabel)
			}
			pending[e.Label]++
			dependents[dep] = append(dependents[dep], e.Label)
		}
	}

	ready := make(chan graph.Entry[T], len(batch))
	results := make(chan result, len(batch))
	scheduled := 0
	for _, e := range batch {
		if pending[e.Label] == 0 {
			ready <- e
			scheduled++
		}
	}
	if scheduled == 0 {
		return fmt.Errorf("%d of %d tasks: %w", len(batch), len(batch), ErrStalled)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, ready, results)
		}()
	}

	var execErr error
	completed := 0
	for completed < len(batch) {
		select {
		case <-ctx.Done():
			execErr = ctx.Err()
		case res := <-results:
			completed++
			if res.err != nil {
				execErr = fmt.Errorf("task %s: %w", res.label, res.err)
				break
			}
			for _, waiter := range dependents[res.label] {
				pending[waiter]--
				if pending[waiter] == 0 {
					ready <- entries[waiter]
					scheduled++
				}
			}
			if completed == scheduled && completed < len(batch) {
				execErr = fmt.Errorf("%d of %d tasks: %w", len(batch)-completed, len(batch), ErrStalled)
			}
		}
		if execErr != nil {
			break
		}
	}

	cancel()
	close(ready)
	wg.Wait()
	return execErr
}

func (s *Scheduler[T]) worker(ctx context.Context, ready <-chan graph.Entry[T], results chan<- result) {
	for {
		select {
		case e, ok := <-ready:
			if !ok {
				return
			}
			metrics.TasksInFlight.Inc()
			start := time.Now()
			err := s.run(ctx, e.Label, e.Task)
			metrics.TaskDuration.Observe(float64(time.Since(start).Milliseconds()))
			metrics.TasksInFlight.Dec()
			if err != nil {
				metrics.TasksExecuted.WithLabelValues("error").Inc()
				log.Printf("sched: task %s failed: %v", e.Label, err)
			} else {
				metrics.TasksExecuted.WithLabelValues("ok").Inc()
			}
			// Buffered to batch size, so this send cannot block.
			results <- result{label: e.Label, err: err}
		case <-ctx.Done():
			return
		}
	}
}
