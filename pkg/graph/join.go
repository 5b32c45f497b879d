package graph

import "fmt"

// Nodes is a dynamically-sized group of node handles. It is the primary
// fan-in surface; the fixed-arity helpers in tuple.go are sugar over it.
type Nodes[T any] []*Node[T]

// Join creates one new node for task, dependent on every node in the
// group. All members must belong to the same graph. Panics with
// ErrEmptyJoin on a zero-size group and with ErrCrossGraph on mixed
// membership; in both cases the graph is left unchanged.
func (ns Nodes[T]) Join(task T) *Node[T] {
	if len(ns) == 0 {
		panic(fmt.Errorf("graph: %w", ErrEmptyJoin))
	}
	g := ns[0].graph
	for _, n := range ns[1:] {
		if !g.SameGraph(n.graph) {
			panic(fmt.Errorf("graph: join across %d and %d: %w", g.id, n.graph.id, ErrCrossGraph))
		}
	}

	out := g.createNode(task)
	for _, n := range ns {
		g.addDependency(n.id, out.id)
	}
	return out
}

// JoinAll applies Join once per task, producing a group of the same
// size. Each result is independently dependent on the full group; the
// results carry no dependency on each other.
func (ns Nodes[T]) JoinAll(tasks ...T) Nodes[T] {
	out := make(Nodes[T], len(tasks))
	for i, task := range tasks {
		out[i] = ns.Join(task)
	}
	return out
}

// Then is a convenience alias for Join on a one-element result chain:
// group.Then(t) reads better than group.Join(t) when the group came
// from a Fork that conceptually continues as a pipeline.
func (ns Nodes[T]) Then(task T) *Node[T] {
	return ns.Join(task)
}
