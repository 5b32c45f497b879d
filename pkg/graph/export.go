package graph

// Entry is one exported task: its label, the labels of every task it
// must run after, and the caller's descriptor. After is a set; its
// slice order carries no meaning.
type Entry[T any] struct {
	Label NodeID
	After []NodeID
	Task  T
}

// Batch is the unordered batch handed to an external scheduler. The
// scheduler's only obligation is to start a task after every task named
// in its After set has finished.
type Batch[T any] []Entry[T]

// Export drains the graph's accumulated nodes into a batch. The drain
// is destructive and one-shot: the table is left permanently empty, and
// every later Export on this graph (through any handle) returns an
// empty batch. Node handles stay usable syntactically, but anything
// built after the drain is lost.
func (g *Graph[T]) Export() Batch[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.drained {
		return nil
	}
	g.drained = true

	batch := make(Batch[T], 0, len(g.nodes))
	for id, e := range g.nodes {
		var after []NodeID
		if len(e.after) > 0 {
			after = make([]NodeID, 0, len(e.after))
			for dep := range e.after {
				after = append(after, dep)
			}
		}
		batch = append(batch, Entry[T]{Label: id, After: after, Task: e.task})
	}
	g.nodes = make(map[NodeID]*entry[T])
	return batch
}
