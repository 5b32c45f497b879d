package sched

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/taskgraph/pkg/graph"
)

// recorder collects finished task names in completion order.
type recorder struct {
	mu   sync.Mutex
	done []string
}

func (r *recorder) finish(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = append(r.done, name)
}

func (r *recorder) index(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.done {
		if n == name {
			return i
		}
	}
	return -1
}

func (r *recorder) runner(ctx context.Context, id graph.NodeID, task string) error {
	r.finish(task)
	return nil
}

func TestExecuteEmptyBatch(t *testing.T) {
	s := New(func(ctx context.Context, id graph.NodeID, task string) error { return nil }, 4)
	if err := s.Execute(context.Background(), nil); err != nil {
		t.Errorf("Execute(empty) = %v, want nil", err)
	}
}

func TestExecuteChainInOrder(t *testing.T) {
	g := graph.New[string]()
	g.Root("a").Then("b").Then("c")

	rec := &recorder{}
	s := New(rec.runner, 4)
	if err := s.Execute(context.Background(), g.Export()); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(rec.done) != len(want) {
		t.Fatalf("ran %d tasks, want %d: %v", len(rec.done), len(want), rec.done)
	}
	for i, name := range want {
		if rec.done[i] != name {
			t.Errorf("completion[%d] = %s, want %s (order %v)", i, rec.done[i], name, rec.done)
		}
	}
}

func TestExecuteForkAfterSource(t *testing.T) {
	g := graph.New[string]()
	g.Root("a").Fork("b", "c", "d")

	rec := &recorder{}
	s := New(rec.runner, 4)
	if err := s.Execute(context.Background(), g.Export()); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	if len(rec.done) != 4 {
		t.Fatalf("ran %d tasks, want 4: %v", len(rec.done), rec.done)
	}
	for _, name := range []string{"b", "c", "d"} {
		if rec.index(name) < rec.index("a") {
			t.Errorf("%s finished before its predecessor a: %v", name, rec.done)
		}
	}
}

func TestExecuteJoinAfterAllPredecessors(t *testing.T) {
	g := graph.New[string]()
	forked := g.Root("a").Fork("b", "c", "d")
	forked.Join("e").Then("f")

	rec := &recorder{}
	s := New(rec.runner, 4)
	if err := s.Execute(context.Background(), g.Export()); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	for _, name := range []string{"b", "c", "d"} {
		if rec.index("e") < rec.index(name) {
			t.Errorf("join e finished before predecessor %s: %v", name, rec.done)
		}
	}
	if rec.index("f") < rec.index("e") {
		t.Errorf("f finished before e: %v", rec.done)
	}
}

func TestExecuteFailFast(t *testing.T) {
	g := graph.New[string]()
	g.Root("a").Then("boom").Then("never")

	var ran []string
	var mu sync.Mutex
	boom := errors.New("exploded")
	s := New(func(ctx context.Context, id graph.NodeID, task string) error {
		mu.Lock()
		ran = append(ran, task)
		mu.Unlock()
		if task == "boom" {
			return boom
		}
		return nil
	}, 2)

	err := s.Execute(context.Background(), g.Export())
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() = %v, want wrapped %v", err, boom)
	}
	for _, task := range ran {
		if task == "never" {
			t.Errorf("dependent of failed task ran: %v", ran)
		}
	}
}

func TestExecuteDanglingLabel(t *testing.T) {
	batch := graph.Batch[string]{
		{Label: graph.NodeID{Graph: 0, Seq: 0}, After: []graph.NodeID{{Graph: 0, Seq: 9}}, Task: "x"},
	}
	s := New(func(ctx context.Context, id graph.NodeID, task string) error { return nil }, 1)
	if err := s.Execute(context.Background(), batch); !errors.Is(err, ErrDanglingLabel) {
		t.Errorf("Execute() = %v, want ErrDanglingLabel", err)
	}
}

func TestExecuteDuplicateLabel(t *testing.T) {
	id := graph.NodeID{Graph: 0, Seq: 0}
	batch := graph.Batch[string]{
		{Label: id, Task: "x"},
		{Label: id, Task: "y"},
	}
	s := New(func(ctx context.Context, id graph.NodeID, task string) error { return nil }, 1)
	if err := s.Execute(context.Background(), batch); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Execute() = %v, want ErrDuplicateLabel", err)
	}
}

func TestExecuteStalledCycle(t *testing.T) {
	// A hand-built cyclic batch; the graph API cannot express this.
	a := graph.NodeID{Graph: 0, Seq: 0}
	b := graph.NodeID{Graph: 0, Seq: 1}
	batch := graph.Batch[string]{
		{Label: a, After: []graph.NodeID{b}, Task: "a"},
		{Label: b, After: []graph.NodeID{a}, Task: "b"},
	}
	s := New(func(ctx context.Context, id graph.NodeID, task string) error { return nil }, 1)
	err := s.Execute(context.Background(), batch)
	if !errors.Is(err, ErrStalled) {
		t.Errorf("Execute() = %v, want ErrStalled", err)
	}
}

func TestExecuteStalledPartialCycle(t *testing.T) {
	// One runnable root plus a two-node cycle: the root completes, then
	// the scheduler must detect that nothing else can start.
	root := graph.NodeID{Graph: 0, Seq: 0}
	a := graph.NodeID{Graph: 0, Seq: 1}
	b := graph.NodeID{Graph: 0, Seq: 2}
	batch := graph.Batch[string]{
		{Label: root, Task: "root"},
		{Label: a, After: []graph.NodeID{b, root}, Task: "a"},
		{Label: b, After: []graph.NodeID{a}, Task: "b"},
	}
	s := New(func(ctx context.Context, id graph.NodeID, task string) error { return nil }, 2)
	if err := s.Execute(context.Background(), batch); !errors.Is(err, ErrStalled) {
		t.Errorf("Execute() = %v, want ErrStalled", err)
	}
}

func TestExecuteContextCancel(t *testing.T) {
	g := graph.New[string]()
	g.Root("block")

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	s := New(func(ctx context.Context, id graph.NodeID, task string) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, 1)

	go func() {
		<-started
		cancel()
	}()

	err := s.Execute(ctx, g.Export())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestExecuteWideFanOutRunsConcurrently(t *testing.T) {
	g := graph.New[string]()
	g.Root("a").Fork("b", "c", "d", "e")

	// With 4 workers, all four siblings should overlap. Track the peak
	// number of simultaneously running tasks.
	var mu sync.Mutex
	running, peak := 0, 0
	s := New(func(ctx context.Context, id graph.NodeID, task string) error {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return nil
	}, 4)

	if err := s.Execute(context.Background(), g.Export()); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if peak < 2 {
		t.Errorf("peak concurrency = %d, want at least 2", peak)
	}
}
