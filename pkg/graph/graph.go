// Package graph builds strictly-ordered execution dependency graphs.
//
// Callers obtain root nodes from a Graph, chain further nodes with Then,
// fan out with Fork, and fan in with Join. The graph never executes
// anything: Export drains it into a flat batch of tasks, each annotated
// with a unique label and the set of labels it must run after. An
// external scheduler consumes that batch.
//
// Misuse of the API (joining an empty group, mixing nodes from two
// graphs, exceeding capacity) panics with an error wrapping one of the
// sentinel values in this package, so a host that prefers to recover can
// inspect the cause with errors.Is.
package graph

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// GraphID distinguishes distinct Graph instances so cross-graph
// operations can be detected and rejected.
type GraphID uint32

// NodeID identifies one node within one graph. The pair is the task's
// scheduling label: Seq is assigned in creation order starting at 0 and
// is unique within the graph.
type NodeID struct {
	Graph GraphID
	Seq   uint32
}

func (id NodeID) String() string {
	return fmt.Sprintf("node(%d,%d)", id.Graph, id.Seq)
}

// IDSource allocates GraphIDs. The zero value is ready to use. A source
// must be shared by all graphs whose nodes could ever meet in one
// operation; most programs use the package-level default via New.
type IDSource struct {
	next atomic.Uint32
}

// Next returns the next GraphID. Safe for concurrent use.
func (s *IDSource) Next() GraphID {
	return GraphID(s.next.Add(1) - 1)
}

var defaultSource IDSource

// MaxNodes is the hard capacity limit of a single graph.
const MaxNodes = math.MaxUint32

type entry[T any] struct {
	task  T
	after map[NodeID]struct{}
}

// Graph owns the node table for one logical dependency graph. All
// handles created from it share the same underlying table; mutation is
// serialized internally, so handles may be used from multiple
// goroutines.
type Graph[T any] struct {
	id GraphID

	mu      sync.Mutex
	next    uint64 // next sequence number, never reset
	nodes   map[NodeID]*entry[T]
	drained bool
}

// New creates an empty Graph with an identity drawn from the
// process-wide default IDSource.
func New[T any]() *Graph[T] {
	return NewWithSource[T](&defaultSource)
}

// NewWithSource creates an empty Graph drawing its identity from src.
// Useful for tests and for hosts that want per-instance ID spaces.
func NewWithSource[T any](src *IDSource) *Graph[T] {
	return &Graph[T]{
		id:    src.Next(),
		nodes: make(map[NodeID]*entry[T]),
	}
}

// ID returns the graph's identity.
func (g *Graph[T]) ID() GraphID { return g.id }

// SameGraph reports whether both handles refer to the same logical
// graph.
func (g *Graph[T]) SameGraph(other *Graph[T]) bool {
	return g.id == other.id
}

// Root creates a node with no dependencies. A graph can have any number
// of distinct roots.
func (g *Graph[T]) Root(task T) *Node[T] {
	return g.createNode(task)
}

// Len returns the number of nodes currently held in the table. Zero
// after a drain.
func (g *Graph[T]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

func (g *Graph[T]) createNode(task T) *Node[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next > MaxNodes {
		panic(fmt.Errorf("graph: cannot add more than %d nodes: %w", uint64(MaxNodes), ErrCapacityExceeded))
	}
	id := NodeID{Graph: g.id, Seq: uint32(g.next)}
	g.next++
	g.nodes[id] = &entry[T]{task: task}
	return &Node[T]{id: id, graph: g}
}

// addDependency records that dependent must run after origin. The
// dependent is always a node just created by the caller, so a missing
// entry indicates internal corruption rather than ordinary misuse.
func (g *Graph[T]) addDependency(origin, dependent NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.nodes[dependent]
	if !ok {
		panic(fmt.Errorf("graph: add dependency for %s: %w", dependent, ErrUnknownNode))
	}
	if e.after == nil {
		e.after = make(map[NodeID]struct{})
	}
	e.after[origin] = struct{}{}
}
